package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portsrepo "github.com/buildledger/site_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/middleware"
	"github.com/buildledger/site_ledger_app/internal/platform/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// tokenPrefix marks dispatcher API tokens so they are recognizable in
// headers and logs redaction.
const tokenPrefix = "slt_"

// APITokenService manages hashed dispatcher tokens and mints service JWTs.
type APITokenService struct {
	tokenRepo portsrepo.APITokenRepository
	userRepo  portsrepo.UserRepository
	cfg       *config.Config
}

// NewAPITokenService creates a new APITokenService.
func NewAPITokenService(tr portsrepo.APITokenRepository, ur portsrepo.UserRepository, cfg *config.Config) portssvc.APITokenSvc {
	return &APITokenService{tokenRepo: tr, userRepo: ur, cfg: cfg}
}

var _ portssvc.APITokenSvc = (*APITokenService)(nil)

// CreateToken issues a new API token for the user. The plaintext
// "slt_<id>.<secret>" is returned exactly once; only the bcrypt hash of the
// secret is stored.
func (s *APITokenService) CreateToken(ctx context.Context, userID, name string, expiresAt *time.Time) (*domain.APIToken, string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if name == "" {
		return nil, "", fmt.Errorf("%w: token name is required", apperrors.ErrValidation)
	}
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, "", err
	}

	secretBytes := make([]byte, 24)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, "", fmt.Errorf("failed to generate token secret: %w", err)
	}
	secret := hex.EncodeToString(secretBytes)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash token secret: %w", err)
	}

	token := domain.APIToken{
		TokenID:    uuid.NewString(),
		UserID:     userID,
		Name:       name,
		SecretHash: string(hash),
		CreatedAt:  time.Now(),
		ExpiresAt:  expiresAt,
	}

	if err := s.tokenRepo.SaveToken(ctx, token); err != nil {
		logger.Error("Failed to save API token", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, "", fmt.Errorf("failed to create API token: %w", err)
	}

	plaintext := tokenPrefix + token.TokenID + "." + secret
	logger.Info("API token created", slog.String("token_id", token.TokenID), slog.String("user_id", userID))
	return &token, plaintext, nil
}

// ListTokens returns the user's tokens; secrets are never recoverable.
func (s *APITokenService) ListTokens(ctx context.Context, userID string) ([]domain.APIToken, error) {
	tokens, err := s.tokenRepo.ListTokensByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list API tokens: %w", err)
	}
	if tokens == nil {
		tokens = []domain.APIToken{}
	}
	return tokens, nil
}

// RevokeToken revokes one of the user's tokens.
func (s *APITokenService) RevokeToken(ctx context.Context, userID, tokenID string) error {
	token, err := s.tokenRepo.FindTokenByID(ctx, tokenID)
	if err != nil {
		return err
	}
	if token.UserID != userID {
		// Hide the token's existence from other users.
		return apperrors.ErrNotFound
	}
	return s.tokenRepo.RevokeToken(ctx, tokenID, time.Now())
}

// ValidateToken resolves a plaintext token to the user it acts for.
func (s *APITokenService) ValidateToken(ctx context.Context, token string) (string, error) {
	raw, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok {
		return "", fmt.Errorf("%w: malformed API token", apperrors.ErrValidation)
	}
	tokenID, secret, ok := strings.Cut(raw, ".")
	if !ok {
		return "", fmt.Errorf("%w: malformed API token", apperrors.ErrValidation)
	}

	stored, err := s.tokenRepo.FindTokenByID(ctx, tokenID)
	if err != nil {
		return "", err
	}
	if !stored.IsUsable(time.Now()) {
		return "", fmt.Errorf("%w: token revoked or expired", apperrors.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.SecretHash), []byte(secret)); err != nil {
		return "", fmt.Errorf("%w: invalid token secret", apperrors.ErrForbidden)
	}

	// Best effort; a failed touch must not fail authentication.
	if err := s.tokenRepo.TouchToken(ctx, tokenID, time.Now()); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to record token usage", slog.String("token_id", tokenID), slog.String("error", err.Error()))
	}

	return stored.UserID, nil
}

// IssueJWT mints a short-lived HS256 service token for the user.
func (s *APITokenService) IssueJWT(ctx context.Context, userID string) (string, time.Time, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return "", time.Time{}, err
	}

	now := time.Now()
	expiry := now.Add(s.cfg.JWTExpiryDuration)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    s.cfg.JWTIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign JWT: %w", err)
	}
	return signed, expiry, nil
}
