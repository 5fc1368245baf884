package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portsrepo "github.com/buildledger/site_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProjectRepository struct {
	BaseRepository
}

func newPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepository {
	return &PgxProjectRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProjectRepository = (*PgxProjectRepository)(nil)

const projectSelectQuery = `
SELECT p.project_id, p.name, p.address,
       p.created_at, p.created_by, p.last_updated_at, p.last_updated_by, p.archived_at
FROM projects p
`

func (r *PgxProjectRepository) getProjects(ctx context.Context, filterQuery string, args ...any) ([]domain.Project, error) {
	rows, err := r.Pool.Query(ctx, projectSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query projects", err)
	}
	defer rows.Close()

	projects, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Project])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Project{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect project rows", err)
	}
	return projects, nil
}

// SaveProject persists the project and its initial owner membership in one
// transaction; a project without an owner is never observable.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project, owner domain.Membership) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO projects (project_id, name, address, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`,
		project.ProjectID,
		project.Name,
		project.Address,
		project.CreatedAt,
		project.CreatedBy,
		project.LastUpdatedAt,
		project.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("project ID " + project.ProjectID + " already exists")
		}
		return fmt.Errorf("failed to save project: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`, owner.ProjectID, owner.UserID, owner.Role, owner.JoinedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("owner user " + owner.UserID + " does not exist")
		}
		return fmt.Errorf("failed to save owner membership: %w", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	projects, err := r.getProjects(ctx, `WHERE p.project_id = $1`, projectID)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &projects[0], nil
}

// ListProjectsByUserID is the store side of the canonical membership query:
// one join, owned and shared projects alike, excluding revoked memberships
// and archived projects.
func (r *PgxProjectRepository) ListProjectsByUserID(ctx context.Context, userID string) ([]domain.Project, error) {
	return r.getProjects(ctx, `
		JOIN project_members m ON m.project_id = p.project_id
		WHERE m.user_id = $1 AND m.role <> 'REMOVED' AND p.archived_at IS NULL
		ORDER BY p.created_at DESC
	`, userID)
}

func (r *PgxProjectRepository) MarkProjectArchived(ctx context.Context, projectID string, archivedAt time.Time, archivedBy string) error {
	query := `
		UPDATE projects
		SET archived_at = $1, last_updated_at = $1, last_updated_by = $2
		WHERE project_id = $3 AND archived_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, archivedAt, archivedBy, projectID)
	if err != nil {
		return fmt.Errorf("failed to archive project: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("project not found or already archived: %w", apperrors.ErrNotFound)
	}
	return nil
}

// UpsertMembership adds a member or updates the role of an existing one.
func (r *PgxProjectRepository) UpsertMembership(ctx context.Context, membership domain.Membership) error {
	query := `
		INSERT INTO project_members (project_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, user_id) DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.Pool.Exec(ctx, query, membership.ProjectID, membership.UserID, membership.Role, membership.JoinedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("project or user for membership does not exist")
		}
		return fmt.Errorf("failed to upsert membership for user %s in project %s: %w", membership.UserID, membership.ProjectID, err)
	}
	return nil
}

func (r *PgxProjectRepository) FindMembership(ctx context.Context, projectID, userID string) (*domain.Membership, error) {
	query := `
		SELECT project_id, user_id, role, joined_at
		FROM project_members
		WHERE project_id = $1 AND user_id = $2;
	`
	rows, err := r.Pool.Query(ctx, query, projectID, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query membership", err)
	}
	defer rows.Close()

	membership, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.Membership])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect membership row", err)
	}
	return &membership, nil
}

func (r *PgxProjectRepository) ListMembers(ctx context.Context, projectID string) ([]domain.Membership, error) {
	query := `
		SELECT project_id, user_id, role, joined_at
		FROM project_members
		WHERE project_id = $1 AND role <> 'REMOVED'
		ORDER BY joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query members", err)
	}
	defer rows.Close()

	members, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Membership])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Membership{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect member rows", err)
	}
	return members, nil
}

// RemoveMembership flips a membership to REMOVED. The owner check and the
// role flip run in one transaction: locking every OWNER row first serializes
// concurrent removals, so two simultaneous removals of the last two owners
// cannot both pass the count and leave the project ownerless.
func (r *PgxProjectRepository) RemoveMembership(ctx context.Context, projectID, userID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	rows, err := tx.Query(ctx, `
		SELECT user_id FROM project_members
		WHERE project_id = $1 AND role = 'OWNER'
		FOR UPDATE;
	`, projectID)
	if err != nil {
		return fmt.Errorf("failed to lock owner rows for project %s: %w", projectID, err)
	}
	owners, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("failed to collect owner rows for project %s: %w", projectID, err)
	}

	var role domain.ProjectRole
	err = tx.QueryRow(ctx, `
		SELECT role FROM project_members
		WHERE project_id = $1 AND user_id = $2
		FOR UPDATE;
	`, projectID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to load membership for user %s in project %s: %w", userID, projectID, err)
	}
	if role == domain.RoleRemoved {
		return apperrors.ErrNotFound
	}
	if role == domain.RoleOwner && len(owners) <= 1 {
		return apperrors.NewConflictError("project must retain at least one owner")
	}

	_, err = tx.Exec(ctx, `
		UPDATE project_members SET role = 'REMOVED'
		WHERE project_id = $1 AND user_id = $2;
	`, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove membership for user %s in project %s: %w", userID, projectID, err)
	}

	return r.Commit(ctx, tx)
}
