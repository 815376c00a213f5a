package repository

import (
	"context"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create persists a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetAll retrieves all drivers.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// UpdateStatus updates a driver's status.
	UpdateStatus(ctx context.Context, driverID string, status domain.DriverStatus) error

	// UpdateBooth records the booth a driver is queued at.
	UpdateBooth(ctx context.Context, driverID, booth string) error

	// CountOnlineAtBooth counts online drivers of a vehicle class at a booth.
	CountOnlineAtBooth(ctx context.Context, class domain.VehicleClass, booth string) (int, error)
}
