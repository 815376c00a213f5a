package redis

import (
	"context"
	"time"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
)

// LocationStoreInterface defines the interface for driver location operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, driverID string, class domain.VehicleClass, lat, lng float64) error
	FindNearbyDrivers(ctx context.Context, class domain.VehicleClass, lat, lng, radiusKm float64) ([]DriverLocation, error)
	RemoveLocation(ctx context.Context, driverID string, class domain.VehicleClass) error
}

// LockStoreInterface defines the interface for per-ride transition locking.
type LockStoreInterface interface {
	AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error)
	ReleaseRideLock(ctx context.Context, rideID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
)
