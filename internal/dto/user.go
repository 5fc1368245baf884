package dto

import (
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
)

// EnsureUserRequest defines data for resolving a chat-platform identity to a
// user, creating it on first contact.
type EnsureUserRequest struct {
	ExternalID string `json:"externalID" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

// RenameUserRequest defines data for updating a user's display name.
type RenameUserRequest struct {
	Name string `json:"name" binding:"required"`
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID     string    `json:"userID"`
	ExternalID string    `json:"externalID"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:     u.UserID,
		ExternalID: u.ExternalID,
		Name:       u.Name,
		CreatedAt:  u.CreatedAt,
	}
}

// ListUsersResponse wraps a list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to DTO.
func ToListUsersResponse(us []domain.User) ListUsersResponse {
	list := make([]UserResponse, len(us))
	for i, u := range us {
		list[i] = ToUserResponse(&u)
	}
	return ListUsersResponse{Users: list}
}
