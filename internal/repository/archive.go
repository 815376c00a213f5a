package repository

import (
	"context"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
)

// RideArchiveRepository defines the persistence operations for the immutable
// ride history.
type RideArchiveRepository interface {
	// Archive stores a terminal ride's history record.
	Archive(ctx context.Context, archive *domain.RideArchive) error

	// GetByRideID retrieves the history record for a ride.
	GetByRideID(ctx context.Context, rideID string) (*domain.RideArchive, error)
}
