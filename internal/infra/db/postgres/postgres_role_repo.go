package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"synomind-gateway/internal/domain"
	"synomind-gateway/internal/domain/ports/repository"
)

var _ repository.RoleLookup = (*PostgresRoleRepo)(nil)

// PostgresRoleRepo resolves caller roles from the users table. The store
// is opaque to the gateway: one key-value read returning a role string.
type PostgresRoleRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRoleRepo(pool *pgxpool.Pool) *PostgresRoleRepo {
	return &PostgresRoleRepo{pool: pool}
}

func (r *PostgresRoleRepo) RoleByUserID(ctx context.Context, userID string) (string, error) {
	const q = `SELECT role FROM users WHERE id=$1;`
	var role string
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&role); err != nil {
		if err == pgx.ErrNoRows {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return role, nil
}
