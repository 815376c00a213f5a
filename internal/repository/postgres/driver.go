package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// Create persists a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (id, name, phone, vehicle_class, vehicle_no, status, booth)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Phone,
		driver.VehicleClass,
		driver.VehicleNo,
		driver.Status,
		nullString(driver.Booth),
	)
	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `
		SELECT id, name, phone, vehicle_class, vehicle_no, status, booth
		FROM drivers WHERE id = $1
	`

	var driver domain.Driver
	var booth sql.NullString

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&driver.VehicleClass,
		&driver.VehicleNo,
		&driver.Status,
		&booth,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	driver.Booth = booth.String
	return &driver, nil
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `
		SELECT id, name, phone, vehicle_class, vehicle_no, status, booth
		FROM drivers ORDER BY name
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		var driver domain.Driver
		var booth sql.NullString
		if err := rows.Scan(
			&driver.ID,
			&driver.Name,
			&driver.Phone,
			&driver.VehicleClass,
			&driver.VehicleNo,
			&driver.Status,
			&booth,
		); err != nil {
			return nil, err
		}
		driver.Booth = booth.String
		drivers = append(drivers, &driver)
	}
	return drivers, rows.Err()
}

// UpdateStatus updates a driver's status.
func (r *DriverRepository) UpdateStatus(ctx context.Context, driverID string, status domain.DriverStatus) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE drivers SET status = $1 WHERE id = $2`, status, driverID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateBooth records the booth a driver is queued at.
func (r *DriverRepository) UpdateBooth(ctx context.Context, driverID, booth string) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE drivers SET booth = $1 WHERE id = $2`, nullString(booth), driverID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountOnlineAtBooth counts online drivers of a vehicle class at a booth.
func (r *DriverRepository) CountOnlineAtBooth(ctx context.Context, class domain.VehicleClass, booth string) (int, error) {
	query := `
		SELECT COUNT(*) FROM drivers
		WHERE vehicle_class = $1 AND booth = $2 AND status = 'online'
	`

	var count int
	if err := r.q.QueryRowContext(ctx, query, class, booth).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
