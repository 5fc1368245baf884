package services

import (
	"context"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
)

// UserSvcFacade defines the business operations for users. Provisioning on
// first contact is the front end's responsibility and happens through
// EnsureUser before any ledger call.
type UserSvcFacade interface {
	// EnsureUser returns the user with the given chat-platform identity,
	// creating it when absent.
	EnsureUser(ctx context.Context, externalID, name string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	// RenameUser updates the display name, the only mutable user field.
	RenameUser(ctx context.Context, userID, name, updaterID string) (*domain.User, error)
	DeactivateUser(ctx context.Context, userID, deleterID string) error
}
