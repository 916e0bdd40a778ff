package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrReferenceExists indicates a payment reference collision on insert.
var ErrReferenceExists = errors.New("reference already exists")

// Repository persists payments.
type Repository interface {
	Create(ctx context.Context, payment Payment) error
	ListByUser(ctx context.Context, userID string) ([]Payment, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed payment repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a payment record, translating the unique reference
// constraint into ErrReferenceExists so the service can retry.
func (r *PostgresRepository) Create(ctx context.Context, payment Payment) error {
	paymentID, err := uuid.Parse(payment.ID)
	if err != nil {
		return err
	}
	advanceID, err := uuid.Parse(payment.AdvanceID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(payment.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO payments (id, advance_id, user_id, amount, method, reference, status, processed_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		paymentID, advanceID, userID, payment.Amount, payment.Method, payment.Reference,
		payment.Status, payment.ProcessedAt.UTC(), payment.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrReferenceExists
	}
	return err
}

// ListByUser returns all payments recorded for the user.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Payment, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, advance_id, user_id, amount, method, reference, status, processed_at, created_at
        FROM payments WHERE user_id = $1`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (Payment, error) {
	var (
		id          uuid.UUID
		advanceID   uuid.UUID
		userID      uuid.UUID
		processedAt time.Time
		createdAt   time.Time
		p           Payment
	)
	if err := row.Scan(&id, &advanceID, &userID, &p.Amount, &p.Method, &p.Reference,
		&p.Status, &processedAt, &createdAt); err != nil {
		return Payment{}, err
	}
	p.ID = id.String()
	p.AdvanceID = advanceID.String()
	p.UserID = userID.String()
	p.ProcessedAt = processedAt.UTC()
	p.CreatedAt = createdAt.UTC()
	return p, nil
}
