package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
// The locked quote and final fare are stored as JSONB alongside the flat ride
// columns so history never needs to reconstruct a fare breakdown.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, booking_number, rider_id, driver_id, pickup_name, pickup_lat, pickup_lng,
		drop_address, drop_lat, drop_lng, vehicle_class, distance_km, quote, status,
		start_code, end_code, final_fare, payment_collected, cancelled_by, cancel_reason,
		created_at, accepted_at, started_at, ended_at, cancelled_at, version`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
	`

	quote, err := json.Marshal(ride.Quote)
	if err != nil {
		return err
	}

	var finalFare []byte
	if ride.FinalFare != nil {
		finalFare, err = json.Marshal(ride.FinalFare)
		if err != nil {
			return err
		}
	}

	_, err = r.q.ExecContext(ctx, query,
		ride.ID,
		ride.BookingNumber,
		ride.RiderID,
		nullString(ride.DriverID),
		ride.Pickup.Name,
		ride.Pickup.Lat,
		ride.Pickup.Lng,
		ride.Drop.Address,
		ride.Drop.Lat,
		ride.Drop.Lng,
		ride.VehicleClass,
		ride.DistanceKm,
		quote,
		ride.Status,
		nullString(ride.StartCode),
		nullString(ride.EndCode),
		nullBytes(finalFare),
		ride.PaymentCollected,
		nullString(ride.CancelledBy),
		nullString(ride.CancelReason),
		ride.CreatedAt,
		nullTime(ride.AcceptedAt),
		nullTime(ride.StartedAt),
		nullTime(ride.EndedAt),
		nullTime(ride.CancelledAt),
		ride.Version,
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	return r.scanRide(r.q.QueryRowContext(ctx, query, id))
}

// GetByBookingNumber retrieves a ride by its human-readable reference.
func (r *RideRepository) GetByBookingNumber(ctx context.Context, bookingNumber string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE booking_number = $1`
	return r.scanRide(r.q.QueryRowContext(ctx, query, bookingNumber))
}

// GetAll retrieves recent rides.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := r.scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// CountActiveAtBooth counts non-terminal rides originating at a booth.
func (r *RideRepository) CountActiveAtBooth(ctx context.Context, booth string) (int, error) {
	query := `
		SELECT COUNT(*) FROM rides
		WHERE pickup_name = $1 AND status NOT IN ('completed', 'cancelled')
	`

	var count int
	if err := r.q.QueryRowContext(ctx, query, booth).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Update applies a version-checked update. The WHERE clause on version is
// what serializes concurrent transitions: the losing writer matches no row.
func (r *RideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	query := `
		UPDATE rides
		SET driver_id = $1, distance_km = $2, status = $3, start_code = $4, end_code = $5,
			final_fare = $6, payment_collected = $7, cancelled_by = $8, cancel_reason = $9,
			accepted_at = $10, started_at = $11, ended_at = $12, cancelled_at = $13,
			version = version + 1
		WHERE id = $14 AND version = $15
	`

	var finalFare []byte
	if ride.FinalFare != nil {
		var err error
		finalFare, err = json.Marshal(ride.FinalFare)
		if err != nil {
			return err
		}
	}

	result, err := r.q.ExecContext(ctx, query,
		nullString(ride.DriverID),
		ride.DistanceKm,
		ride.Status,
		nullString(ride.StartCode),
		nullString(ride.EndCode),
		nullBytes(finalFare),
		ride.PaymentCollected,
		nullString(ride.CancelledBy),
		nullString(ride.CancelReason),
		nullTime(ride.AcceptedAt),
		nullTime(ride.StartedAt),
		nullTime(ride.EndedAt),
		nullTime(ride.CancelledAt),
		ride.ID,
		ride.Version,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Either the ride does not exist or a concurrent transition won.
		if _, err := r.GetByID(ctx, ride.ID); errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return repository.ErrVersionConflict
	}

	ride.Version++
	return nil
}

// Delete prunes a live ride row.
func (r *RideRepository) Delete(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM rides WHERE id = $1`, id)
	return err
}

// NextBookingNumber reserves the next booking sequence value.
func (r *RideRepository) NextBookingNumber(ctx context.Context) (int64, error) {
	var seq int64
	err := r.q.QueryRowContext(ctx, `SELECT nextval('ride_booking_seq')`).Scan(&seq)
	return seq, err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RideRepository) scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID, startCode, endCode, cancelledBy, cancelReason sql.NullString
	var acceptedAt, startedAt, endedAt, cancelledAt sql.NullTime
	var quote []byte
	var finalFare []byte

	err := row.Scan(
		&ride.ID,
		&ride.BookingNumber,
		&ride.RiderID,
		&driverID,
		&ride.Pickup.Name,
		&ride.Pickup.Lat,
		&ride.Pickup.Lng,
		&ride.Drop.Address,
		&ride.Drop.Lat,
		&ride.Drop.Lng,
		&ride.VehicleClass,
		&ride.DistanceKm,
		&quote,
		&ride.Status,
		&startCode,
		&endCode,
		&finalFare,
		&ride.PaymentCollected,
		&cancelledBy,
		&cancelReason,
		&ride.CreatedAt,
		&acceptedAt,
		&startedAt,
		&endedAt,
		&cancelledAt,
		&ride.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(quote, &ride.Quote); err != nil {
		return nil, err
	}
	if len(finalFare) > 0 {
		var fare domain.FareQuote
		if err := json.Unmarshal(finalFare, &fare); err != nil {
			return nil, err
		}
		ride.FinalFare = &fare
	}

	ride.DriverID = driverID.String
	ride.StartCode = startCode.String
	ride.EndCode = endCode.String
	ride.CancelledBy = cancelledBy.String
	ride.CancelReason = cancelReason.String
	if acceptedAt.Valid {
		ride.AcceptedAt = acceptedAt.Time
	}
	if startedAt.Valid {
		ride.StartedAt = startedAt.Time
	}
	if endedAt.Valid {
		ride.EndedAt = endedAt.Time
	}
	if cancelledAt.Valid {
		ride.CancelledAt = cancelledAt.Time
	}

	return &ride, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// nullBytes maps an empty JSON payload to SQL NULL.
func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
