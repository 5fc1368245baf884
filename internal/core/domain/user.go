package domain

import "time"

// User represents a person interacting with the ledger through the
// conversational front end. ExternalID is the stable chat-platform identity;
// users are provisioned on first contact and immutable afterwards except for
// the display name.
type User struct {
	UserID     string `json:"userID" db:"user_id"`
	ExternalID string `json:"externalID" db:"external_id"`
	Name       string `json:"name" db:"name"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}
