package dto

import (
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
)

// CreateAPITokenRequest defines data for issuing a dispatcher API token.
type CreateAPITokenRequest struct {
	Name      string     `json:"name" binding:"required"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// APITokenResponse defines data returned for a token. The secret is never
// included; CreateAPITokenResponse carries the plaintext exactly once.
type APITokenResponse struct {
	TokenID    string     `json:"tokenID"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
}

// ToAPITokenResponse converts domain.APIToken to DTO.
func ToAPITokenResponse(t *domain.APIToken) APITokenResponse {
	return APITokenResponse{
		TokenID:    t.TokenID,
		Name:       t.Name,
		CreatedAt:  t.CreatedAt,
		ExpiresAt:  t.ExpiresAt,
		LastUsedAt: t.LastUsedAt,
		RevokedAt:  t.RevokedAt,
	}
}

// CreateAPITokenResponse carries the one-time plaintext token.
type CreateAPITokenResponse struct {
	Token     APITokenResponse `json:"token"`
	Plaintext string           `json:"plaintext"`
}

// ListAPITokensResponse wraps a user's tokens.
type ListAPITokensResponse struct {
	Tokens []APITokenResponse `json:"tokens"`
}

// ToListAPITokensResponse converts a slice of domain.APIToken to DTO.
func ToListAPITokensResponse(ts []domain.APIToken) ListAPITokensResponse {
	list := make([]APITokenResponse, len(ts))
	for i, t := range ts {
		list[i] = ToAPITokenResponse(&t)
	}
	return ListAPITokensResponse{Tokens: list}
}

// TokenExchangeResponse carries a freshly minted service JWT.
type TokenExchangeResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
