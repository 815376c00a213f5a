package repository

import (
	"context"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
)

// RideRepository defines the persistence operations for rides.
//
// Update must serialize concurrent transitions per ride: it only applies when
// the stored version matches ride.Version, bumping the version on success and
// returning ErrVersionConflict otherwise.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetByBookingNumber retrieves a ride by its human-readable reference.
	GetByBookingNumber(ctx context.Context, bookingNumber string) (*domain.Ride, error)

	// GetAll retrieves recent rides.
	GetAll(ctx context.Context) ([]*domain.Ride, error)

	// CountActiveAtBooth counts non-terminal rides originating at a booth.
	CountActiveAtBooth(ctx context.Context, booth string) (int, error)

	// Update applies a version-checked update to an existing ride.
	Update(ctx context.Context, ride *domain.Ride) error

	// Delete prunes a live ride row (used after archival).
	Delete(ctx context.Context, id string) error

	// NextBookingNumber reserves the next booking sequence value.
	NextBookingNumber(ctx context.Context) (int64, error)
}
