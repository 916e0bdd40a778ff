package advance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrAdvanceNotFound covers a missing advance as well as a redemption
	// miss: wrong token, already completed or expired are deliberately not
	// distinguished to the caller.
	ErrAdvanceNotFound = errors.New("advance not found")
	// ErrTokenExists indicates a redemption token collision on insert.
	ErrTokenExists = errors.New("token already exists")
)

// Repository persists advances.
type Repository interface {
	Create(ctx context.Context, adv Advance) error
	FindByID(ctx context.Context, id string) (Advance, error)
	ListByUser(ctx context.Context, userID string) ([]Advance, error)
	// Redeem atomically transitions a pending, unexpired advance with the
	// given token to completed. Implementations must guarantee at most one
	// caller wins when redemptions race.
	Redeem(ctx context.Context, tok, stationID string, now time.Time) (Advance, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed advance repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const advanceColumns = `id, user_id, station_id, amount, token, status, expires_at, created_at, completed_at`

// Create inserts a new advance, translating the unique token constraint
// into ErrTokenExists so the service can retry with a fresh token.
func (r *PostgresRepository) Create(ctx context.Context, adv Advance) error {
	advanceID, err := uuid.Parse(adv.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(adv.UserID)
	if err != nil {
		return err
	}
	var stationID *uuid.UUID
	if adv.StationID != "" {
		parsed, err := uuid.Parse(adv.StationID)
		if err != nil {
			return err
		}
		stationID = &parsed
	}
	_, err = r.db.Exec(ctx, `INSERT INTO advances (id, user_id, station_id, amount, token, status, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		advanceID, userID, stationID, adv.Amount, adv.Token, adv.Status, adv.ExpiresAt.UTC(), adv.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrTokenExists
	}
	return err
}

// FindByID fetches an advance by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Advance, error) {
	advanceID, err := uuid.Parse(id)
	if err != nil {
		return Advance{}, ErrAdvanceNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+advanceColumns+` FROM advances WHERE id = $1`, advanceID)
	return scanAdvance(row)
}

// ListByUser returns all advances for the user regardless of status.
// Order is not part of the contract.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Advance, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrAdvanceNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT `+advanceColumns+` FROM advances WHERE user_id = $1`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var advances []Advance
	for rows.Next() {
		adv, err := scanAdvance(rows)
		if err != nil {
			return nil, err
		}
		advances = append(advances, adv)
	}
	return advances, rows.Err()
}

// Redeem performs the pending→completed transition as a single conditional
// update. The WHERE clause carries the whole precondition, so two racing
// redemptions of one token cannot both match.
func (r *PostgresRepository) Redeem(ctx context.Context, tok, stationID string, now time.Time) (Advance, error) {
	sid, err := uuid.Parse(stationID)
	if err != nil {
		return Advance{}, ErrAdvanceNotFound
	}
	row := r.db.QueryRow(ctx, `UPDATE advances
        SET station_id = $2, status = $3, completed_at = $4
        WHERE token = $1 AND status = $5 AND expires_at > $4
        RETURNING `+advanceColumns,
		tok, sid, StatusCompleted, now.UTC(), StatusPending)
	return scanAdvance(row)
}

func scanAdvance(row pgx.Row) (Advance, error) {
	var (
		id          uuid.UUID
		userID      uuid.UUID
		stationID   *uuid.UUID
		expiresAt   time.Time
		createdAt   time.Time
		completedAt *time.Time
		adv         Advance
	)
	if err := row.Scan(&id, &userID, &stationID, &adv.Amount, &adv.Token, &adv.Status,
		&expiresAt, &createdAt, &completedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Advance{}, ErrAdvanceNotFound
		}
		return Advance{}, err
	}
	adv.ID = id.String()
	adv.UserID = userID.String()
	if stationID != nil {
		adv.StationID = stationID.String()
	}
	adv.ExpiresAt = expiresAt.UTC()
	adv.CreatedAt = createdAt.UTC()
	if completedAt != nil {
		utc := completedAt.UTC()
		adv.CompletedAt = &utc
	}
	return adv, nil
}
