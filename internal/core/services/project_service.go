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

// ProjectService handles business logic related to projects and memberships.
type ProjectService struct {
	projectRepo portsrepo.ProjectRepository
	userRepo    portsrepo.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(pr portsrepo.ProjectRepository, ur portsrepo.UserRepository) *ProjectService {
	return &ProjectService{projectRepo: pr, userRepo: ur}
}

var (
	_ portssvc.ProjectSvcFacade  = (*ProjectService)(nil)
	_ portssvc.ProjectAuthorizer = (*ProjectService)(nil)
)

// CreateProject creates a new project and makes the owner its initial
// member. Fails with NotFound when ownerID does not resolve to an existing
// user; user provisioning happens before this call.
func (s *ProjectService) CreateProject(ctx context.Context, ownerID, name, address string) (*domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", apperrors.ErrValidation)
	}

	if _, err := s.userRepo.FindUserByID(ctx, ownerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Project owner does not exist", slog.String("owner_id", ownerID))
			return nil, fmt.Errorf("%w: owner %s", apperrors.ErrNotFound, ownerID)
		}
		return nil, fmt.Errorf("failed to validate owner: %w", err)
	}

	now := time.Now()
	project := domain.Project{
		ProjectID: uuid.NewString(),
		Name:      name,
		Address:   address,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	ownerMembership := domain.Membership{
		ProjectID: project.ProjectID,
		UserID:    ownerID,
		Role:      domain.RoleOwner,
		JoinedAt:  now,
	}

	// Project and owner membership commit together; a project without an
	// owner is never observable.
	if err := s.projectRepo.SaveProject(ctx, project, ownerMembership); err != nil {
		logger.Error("Failed to save project", slog.String("error", err.Error()), slog.String("project_name", name))
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	logger.Info("Project created", slog.String("project_id", project.ProjectID), slog.String("owner_id", ownerID))
	return &project, nil
}

// GetProjectByID retrieves a project by its ID.
func (s *ProjectService) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projectRepo.FindProjectByID(ctx, projectID)
}

// ListProjectsForUser returns every project the user holds a live membership
// on, owned and shared alike. This is the one canonical membership query;
// there is no separate owned-only entry point.
func (s *ProjectService) ListProjectsForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	projects, err := s.projectRepo.ListProjectsByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to list projects for user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list projects for user %s: %w", userID, err)
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return projects, nil
}

// AddMember grants a user visibility/authorship on a project. The acting
// user must be an OWNER.
func (s *ProjectService) AddMember(ctx context.Context, actingUserID, projectID, targetUserID string, role domain.ProjectRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeMember(ctx, actingUserID, projectID, domain.RoleOwner); err != nil {
		return err
	}
	if role == domain.RoleRemoved {
		return fmt.Errorf("%w: use RemoveMember to revoke membership", apperrors.ErrValidation)
	}
	if _, err := s.userRepo.FindUserByID(ctx, targetUserID); err != nil {
		return err
	}

	membership := domain.Membership{
		ProjectID: projectID,
		UserID:    targetUserID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.UpsertMembership(ctx, membership); err != nil {
		logger.Error("Failed to add member", slog.String("error", err.Error()), slog.String("project_id", projectID), slog.String("target_user_id", targetUserID))
		return fmt.Errorf("failed to add user %s to project %s: %w", targetUserID, projectID, err)
	}

	logger.Info("Member added", slog.String("project_id", projectID), slog.String("target_user_id", targetUserID), slog.String("role", string(role)))
	return nil
}

// RemoveMember revokes a user's membership. Removing the last OWNER is a
// Conflict: a project has at least one owner at all times. The owner check
// and the role flip happen in a single store transaction so concurrent
// removals cannot race past the guard.
func (s *ProjectService) RemoveMember(ctx context.Context, actingUserID, projectID, targetUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeMember(ctx, actingUserID, projectID, domain.RoleOwner); err != nil {
		return err
	}

	if err := s.projectRepo.RemoveMembership(ctx, projectID, targetUserID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Refusing to remove last owner", slog.String("project_id", projectID))
			return err
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		logger.Error("Failed to remove member", slog.String("error", err.Error()), slog.String("project_id", projectID), slog.String("target_user_id", targetUserID))
		return fmt.Errorf("failed to remove user %s from project %s: %w", targetUserID, projectID, err)
	}

	logger.Info("Member removed", slog.String("project_id", projectID), slog.String("target_user_id", targetUserID))
	return nil
}

// ListMembers returns the project's live memberships.
func (s *ProjectService) ListMembers(ctx context.Context, projectID string) ([]domain.Membership, error) {
	members, err := s.projectRepo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members for project %s: %w", projectID, err)
	}
	if members == nil {
		members = []domain.Membership{}
	}
	return members, nil
}

// ArchiveProject soft-archives a project. The transaction history stays
// intact so aggregates remain reproducible.
func (s *ProjectService) ArchiveProject(ctx context.Context, actingUserID, projectID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeMember(ctx, actingUserID, projectID, domain.RoleOwner); err != nil {
		return err
	}
	if err := s.projectRepo.MarkProjectArchived(ctx, projectID, time.Now(), actingUserID); err != nil {
		logger.Error("Failed to archive project", slog.String("error", err.Error()), slog.String("project_id", projectID))
		return err
	}
	logger.Info("Project archived", slog.String("project_id", projectID))
	return nil
}

// AuthorizeMember checks whether userID holds a live membership on projectID
// with at least the required role. Returns ErrNotFound when the user is not
// a member (hiding project existence), ErrForbidden when the role is
// insufficient.
func (s *ProjectService) AuthorizeMember(ctx context.Context, userID, projectID string, required domain.ProjectRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.projectRepo.FindMembership(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Authorization failed: no membership", slog.String("user_id", userID), slog.String("project_id", projectID))
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to check authorization: %w", err)
	}
	if membership.Role == domain.RoleRemoved {
		return apperrors.ErrNotFound
	}

	// OWNER has all permissions.
	if membership.Role == domain.RoleOwner {
		return nil
	}
	if membership.Role == required {
		return nil
	}
	if required == domain.RoleReadOnly && membership.Role.CanAuthor() {
		return nil
	}

	logger.Warn("Authorization failed: insufficient role",
		slog.String("user_id", userID),
		slog.String("project_id", projectID),
		slog.String("user_role", string(membership.Role)),
		slog.String("required_role", string(required)))
	return apperrors.ErrForbidden
}
