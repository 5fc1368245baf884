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

type PgxAPITokenRepository struct {
	BaseRepository
}

func newPgxAPITokenRepository(pool *pgxpool.Pool) portsrepo.APITokenRepository {
	return &PgxAPITokenRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.APITokenRepository = (*PgxAPITokenRepository)(nil)

const apiTokenSelectQuery = `
SELECT t.token_id, t.user_id, t.name, t.secret_hash,
       t.created_at, t.expires_at, t.last_used_at, t.revoked_at
FROM api_tokens t
`

func (r *PgxAPITokenRepository) SaveToken(ctx context.Context, token domain.APIToken) error {
	query := `
		INSERT INTO api_tokens (token_id, user_id, name, secret_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		token.TokenID,
		token.UserID,
		token.Name,
		token.SecretHash,
		token.CreatedAt,
		token.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("token ID " + token.TokenID + " already exists")
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("user " + token.UserID + " does not exist")
		}
		return fmt.Errorf("failed to save API token: %w", err)
	}
	return nil
}

func (r *PgxAPITokenRepository) FindTokenByID(ctx context.Context, tokenID string) (*domain.APIToken, error) {
	rows, err := r.Pool.Query(ctx, apiTokenSelectQuery+`WHERE t.token_id = $1`, tokenID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query API token", err)
	}
	defer rows.Close()

	token, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.APIToken])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect API token row", err)
	}
	return &token, nil
}

func (r *PgxAPITokenRepository) ListTokensByUserID(ctx context.Context, userID string) ([]domain.APIToken, error) {
	rows, err := r.Pool.Query(ctx, apiTokenSelectQuery+`WHERE t.user_id = $1 ORDER BY t.created_at DESC`, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query API tokens", err)
	}
	defer rows.Close()

	tokens, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.APIToken])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.APIToken{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect API token rows", err)
	}
	return tokens, nil
}

func (r *PgxAPITokenRepository) RevokeToken(ctx context.Context, tokenID string, revokedAt time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE api_tokens SET revoked_at = $1
		WHERE token_id = $2 AND revoked_at IS NULL;
	`, revokedAt, tokenID)
	if err != nil {
		return fmt.Errorf("failed to revoke API token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("token not found or already revoked: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxAPITokenRepository) TouchToken(ctx context.Context, tokenID string, usedAt time.Time) error {
	_, err := r.Pool.Exec(ctx, `UPDATE api_tokens SET last_used_at = $1 WHERE token_id = $2;`, usedAt, tokenID)
	if err != nil {
		return fmt.Errorf("failed to record API token use: %w", err)
	}
	return nil
}
