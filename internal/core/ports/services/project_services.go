package services

import (
	"context"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
)

// ProjectSvcFacade defines the business operations for projects and
// memberships.
type ProjectSvcFacade interface {
	// CreateProject creates the project and its initial OWNER membership.
	CreateProject(ctx context.Context, ownerID, name, address string) (*domain.Project, error)
	GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	// ListProjectsForUser is the single canonical membership query: it
	// returns every project the user holds a live membership on, owned and
	// shared alike.
	ListProjectsForUser(ctx context.Context, userID string) ([]domain.Project, error)
	AddMember(ctx context.Context, actingUserID, projectID, targetUserID string, role domain.ProjectRole) error
	RemoveMember(ctx context.Context, actingUserID, projectID, targetUserID string) error
	ListMembers(ctx context.Context, projectID string) ([]domain.Membership, error)
	ArchiveProject(ctx context.Context, actingUserID, projectID string) error
}

// ProjectAuthorizer checks a user's role on a project. Split out so ledger
// and budget services can depend on the narrow capability.
type ProjectAuthorizer interface {
	// AuthorizeMember returns nil when userID holds a live membership on
	// projectID with at least the required role, apperrors.ErrNotFound when
	// no membership exists, apperrors.ErrForbidden otherwise.
	AuthorizeMember(ctx context.Context, userID, projectID string, required domain.ProjectRole) error
}
