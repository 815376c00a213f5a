package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/repository"
)

// RideArchiveRepository is a PostgreSQL implementation of
// repository.RideArchiveRepository. The full terminal ride is stored as a
// JSONB document keyed by ride ID; history rows are never updated.
type RideArchiveRepository struct {
	q Querier
}

// NewRideArchiveRepository creates a new PostgreSQL ride archive repository.
func NewRideArchiveRepository(db *sql.DB) *RideArchiveRepository {
	return &RideArchiveRepository{q: db}
}

// NewRideArchiveRepositoryWithTx creates an archive repository using a transaction.
func NewRideArchiveRepositoryWithTx(tx *sql.Tx) *RideArchiveRepository {
	return &RideArchiveRepository{q: tx}
}

// Archive stores a terminal ride's history record. Archiving the same ride
// twice is a no-op.
func (r *RideArchiveRepository) Archive(ctx context.Context, archive *domain.RideArchive) error {
	record, err := json.Marshal(archive)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ride_history (ride_id, booking_number, status, record, archived_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ride_id) DO NOTHING
	`

	_, err = r.q.ExecContext(ctx, query,
		archive.RideID,
		archive.BookingNumber,
		archive.Status,
		record,
		archive.ArchivedAt,
	)
	return err
}

// GetByRideID retrieves the history record for a ride.
func (r *RideArchiveRepository) GetByRideID(ctx context.Context, rideID string) (*domain.RideArchive, error) {
	query := `SELECT record FROM ride_history WHERE ride_id = $1`

	var record []byte
	err := r.q.QueryRowContext(ctx, query, rideID).Scan(&record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var archive domain.RideArchive
	if err := json.Unmarshal(record, &archive); err != nil {
		return nil, err
	}
	return &archive, nil
}
