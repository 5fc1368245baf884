package dto

import (
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
)

// --- Project DTOs ---

// CreateProjectRequest defines data for creating a new project.
type CreateProjectRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// ProjectResponse defines data returned for a project.
type ProjectResponse struct {
	ProjectID     string     `json:"projectID"`
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	CreatedAt     time.Time  `json:"createdAt"`
	CreatedBy     string     `json:"createdBy"` // UserID
	LastUpdatedAt time.Time  `json:"lastUpdatedAt"`
	LastUpdatedBy string     `json:"lastUpdatedBy"` // UserID
	ArchivedAt    *time.Time `json:"archivedAt,omitempty"`
}

// ToProjectResponse converts domain.Project to DTO.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:     p.ProjectID,
		Name:          p.Name,
		Address:       p.Address,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
		ArchivedAt:    p.ArchivedAt,
	}
}

// ListProjectsResponse wraps a list of projects.
type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// ToListProjectsResponse converts a slice of domain.Project to DTO.
func ToListProjectsResponse(ps []domain.Project) ListProjectsResponse {
	list := make([]ProjectResponse, len(ps))
	for i, p := range ps {
		list[i] = ToProjectResponse(&p)
	}
	return ListProjectsResponse{Projects: list}
}

// --- Membership DTOs ---

// AddMemberRequest defines data for adding a user to a project.
type AddMemberRequest struct {
	UserID string             `json:"userID" binding:"required"`
	Role   domain.ProjectRole `json:"role" binding:"required,oneof=OWNER MEMBER READONLY"`
}

// MembershipResponse defines data returned about a user's membership.
type MembershipResponse struct {
	ProjectID string             `json:"projectID"`
	UserID    string             `json:"userID"`
	Role      domain.ProjectRole `json:"role"`
	JoinedAt  time.Time          `json:"joinedAt"`
}

// ToMembershipResponse converts domain.Membership to DTO.
func ToMembershipResponse(m *domain.Membership) MembershipResponse {
	return MembershipResponse{
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      m.Role,
		JoinedAt:  m.JoinedAt,
	}
}

// ListMembersResponse wraps a project's member list.
type ListMembersResponse struct {
	Members []MembershipResponse `json:"members"`
}

// ToListMembersResponse converts a slice of domain.Membership to DTO.
func ToListMembersResponse(ms []domain.Membership) ListMembersResponse {
	list := make([]MembershipResponse, len(ms))
	for i, m := range ms {
		list[i] = ToMembershipResponse(&m)
	}
	return ListMembersResponse{Members: list}
}
