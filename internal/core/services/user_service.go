package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portsrepo "github.com/buildledger/site_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/middleware"
	"github.com/google/uuid"
)

// UserService handles business logic related to users.
type UserService struct {
	userRepo portsrepo.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(ur portsrepo.UserRepository) portssvc.UserSvcFacade {
	return &UserService{userRepo: ur}
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

// EnsureUser returns the user identified by the chat-platform external ID,
// creating it on first contact. The front end calls this before any ledger
// operation so creator references always resolve.
func (s *UserService) EnsureUser(ctx context.Context, externalID, name string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if externalID == "" {
		return nil, fmt.Errorf("%w: external ID is required", apperrors.ErrValidation)
	}

	existing, err := s.userRepo.FindUserByExternalID(ctx, externalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to look up user by external ID", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:     uuid.NewString(),
		ExternalID: externalID,
		Name:       name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system",
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		// A concurrent first contact may have won the race; re-read.
		if errors.Is(err, apperrors.ErrConflict) {
			return s.userRepo.FindUserByExternalID(ctx, externalID)
		}
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User provisioned", slog.String("user_id", user.UserID))
	return &user, nil
}

// GetUserByID retrieves a user by its internal ID.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// ListUsers retrieves a page of users.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// RenameUser updates the display name, the only mutable user field.
func (s *UserService) RenameUser(ctx context.Context, userID, name, updaterID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = updaterID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		logger.Error("Failed to rename user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to rename user %s: %w", userID, err)
	}
	return user, nil
}

// DeactivateUser soft-deletes a user record.
func (s *UserService) DeactivateUser(ctx context.Context, userID, deleterID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), deleterID); err != nil {
		logger.Error("Failed to deactivate user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return err
	}
	logger.Info("User deactivated", slog.String("user_id", userID))
	return nil
}
