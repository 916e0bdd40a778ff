package otp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCodeNotFound indicates no matching, unverified, unexpired code exists.
var ErrCodeNotFound = errors.New("code not found")

// Repository persists one-time codes.
type Repository interface {
	Create(ctx context.Context, code Code) error
	// Consume flips the verified flag on a matching, unverified, unexpired
	// code. It must be single-use: a second consume of the same code fails.
	Consume(ctx context.Context, phone, code string, now time.Time) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed code repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new code record.
func (r *PostgresRepository) Create(ctx context.Context, code Code) error {
	codeID, err := uuid.Parse(code.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO otp_codes (id, phone, code, purpose, verified, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		codeID, code.Phone, code.Code, code.Purpose, code.Verified, code.ExpiresAt.UTC(), code.CreatedAt.UTC())
	return err
}

// Consume marks a matching code verified using a conditional update so the
// flip happens at most once even under concurrent checks.
func (r *PostgresRepository) Consume(ctx context.Context, phone, code string, now time.Time) error {
	cmd, err := r.db.Exec(ctx, `UPDATE otp_codes SET verified = TRUE
        WHERE id = (
            SELECT id FROM otp_codes
            WHERE phone = $1 AND code = $2 AND verified = FALSE AND expires_at > $3
            LIMIT 1
        )`, phone, code, now.UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCodeNotFound
	}
	return nil
}
