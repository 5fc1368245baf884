package services

import (
	"context"
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
)

// APITokenSvc manages dispatcher API tokens and exchanges them for service
// JWTs. The plaintext token is returned exactly once, at creation.
type APITokenSvc interface {
	CreateToken(ctx context.Context, userID, name string, expiresAt *time.Time) (*domain.APIToken, string, error)
	ListTokens(ctx context.Context, userID string) ([]domain.APIToken, error)
	RevokeToken(ctx context.Context, userID, tokenID string) error
	// ValidateToken resolves a plaintext token to the user it acts for.
	ValidateToken(ctx context.Context, token string) (string, error)
	// IssueJWT mints a short-lived HS256 service token for the user.
	IssueJWT(ctx context.Context, userID string) (string, time.Time, error)
}
