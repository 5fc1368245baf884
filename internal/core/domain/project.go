package domain

import "time"

// Project is the unit against which expenses and budgets are tracked.
// Projects are never hard-deleted; archival is a soft flag so aggregates
// stay reproducible.
type Project struct {
	ProjectID string `json:"projectID" db:"project_id"`
	Name      string `json:"name" db:"name"`
	Address   string `json:"address" db:"address"`
	AuditFields
	ArchivedAt *time.Time `json:"archivedAt,omitempty" db:"archived_at"`
}

// IsArchived reports whether the project has been soft-archived.
func (p *Project) IsArchived() bool {
	return p.ArchivedAt != nil
}

// ProjectRole defines the possible roles a user can have within a project.
type ProjectRole string

const (
	RoleOwner    ProjectRole = "OWNER"
	RoleMember   ProjectRole = "MEMBER"
	RoleReadOnly ProjectRole = "READONLY"
	RoleRemoved  ProjectRole = "REMOVED" // Users who have been removed from the project
)

// CanAuthor reports whether the role grants authorship (recording
// transactions, setting budgets) on the project.
func (r ProjectRole) CanAuthor() bool {
	return r == RoleOwner || r == RoleMember
}

// Membership represents the grant of visibility/authorship on a Project to a
// User. A project has at least one OWNER membership at all times.
type Membership struct {
	ProjectID string      `json:"projectID" db:"project_id"`
	UserID    string      `json:"userID" db:"user_id"`
	Role      ProjectRole `json:"role" db:"role"`
	JoinedAt  time.Time   `json:"joinedAt" db:"joined_at"`
}
