package station

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStationNotFound indicates no station matches the lookup key.
var ErrStationNotFound = errors.New("station not found")

// Repository persists partner stations.
type Repository interface {
	Create(ctx context.Context, st Station) error
	FindByID(ctx context.Context, id string) (Station, error)
	ListActive(ctx context.Context) ([]Station, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed station repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const stationColumns = `id, name, address, latitude, longitude, COALESCE(contact_phone, ''), COALESCE(contact_email, ''), COALESCE(operating_hours, ''), status, created_at`

// Create inserts a station record.
func (r *PostgresRepository) Create(ctx context.Context, st Station) error {
	stationID, err := uuid.Parse(st.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO partner_stations (id, name, address, latitude, longitude, contact_phone, contact_email, operating_hours, status, created_at)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10)`,
		stationID, st.Name, st.Address, st.Latitude, st.Longitude,
		st.ContactPhone, st.ContactEmail, st.OperatingHours, st.Status, st.CreatedAt.UTC())
	return err
}

// FindByID fetches a station by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Station, error) {
	stationID, err := uuid.Parse(id)
	if err != nil {
		return Station{}, ErrStationNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+stationColumns+` FROM partner_stations WHERE id = $1`, stationID)
	return scanStation(row)
}

// ListActive returns stations with active status.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]Station, error) {
	rows, err := r.db.Query(ctx, `SELECT `+stationColumns+` FROM partner_stations WHERE status = $1`, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []Station
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

func scanStation(row pgx.Row) (Station, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		st        Station
	)
	if err := row.Scan(&id, &st.Name, &st.Address, &st.Latitude, &st.Longitude,
		&st.ContactPhone, &st.ContactEmail, &st.OperatingHours, &st.Status, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Station{}, ErrStationNotFound
		}
		return Station{}, err
	}
	st.ID = id.String()
	st.CreatedAt = createdAt.UTC()
	return st, nil
}
