package domain

import "time"

// APIToken identifies a front-end dispatcher (chat bot, transcription
// worker) acting on behalf of a user. The plaintext secret is shown once at
// creation; only its bcrypt hash is stored.
type APIToken struct {
	TokenID    string     `json:"tokenID" db:"token_id"`
	UserID     string     `json:"userID" db:"user_id"`
	Name       string     `json:"name" db:"name"`
	SecretHash string     `json:"-" db:"secret_hash"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty" db:"last_used_at"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty" db:"revoked_at"`
}

// IsUsable reports whether the token can still authenticate at now.
func (t *APIToken) IsUsable(now time.Time) bool {
	if t.RevokedAt != nil {
		return false
	}
	if t.ExpiresAt != nil && !now.Before(*t.ExpiresAt) {
		return false
	}
	return true
}
