package service

import (
	"context"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/redis"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/repository"
)

// boothRadiusKm bounds the area considered "at" a booth for supply counting.
const boothRadiusKm = 3.0

// DemandService is the directory collaborator for demand pricing: it counts
// online drivers and active requests around a booth and maps their ratio to
// a multiplier through the configuration's demand bands.
type DemandService struct {
	locationStore redis.LocationStoreInterface
	rideRepo      repository.RideRepository
}

// NewDemandService creates a new DemandService.
func NewDemandService(locationStore redis.LocationStoreInterface, rideRepo repository.RideRepository) *DemandService {
	return &DemandService{
		locationStore: locationStore,
		rideRepo:      rideRepo,
	}
}

// CountOnlineDrivers counts online drivers of the given class near a booth.
func (s *DemandService) CountOnlineDrivers(ctx context.Context, class domain.VehicleClass, booth domain.Booth) int {
	drivers, err := s.locationStore.FindNearbyDrivers(ctx, class, booth.Lat, booth.Lng, boothRadiusKm)
	if err != nil {
		// Fail open: assume enough supply rather than inventing demand pressure.
		return 10
	}
	return len(drivers)
}

// CountActiveRequests counts non-terminal rides originating at a booth.
func (s *DemandService) CountActiveRequests(ctx context.Context, booth domain.Booth) int {
	count, err := s.rideRepo.CountActiveAtBooth(ctx, booth.Name)
	if err != nil {
		return 0
	}
	return count
}

// Multiplier returns the demand multiplier for a booth and vehicle class.
func (s *DemandService) Multiplier(ctx context.Context, cfg *domain.FareConfiguration, class domain.VehicleClass, booth domain.Booth) float64 {
	online := s.CountOnlineDrivers(ctx, class, booth)
	requests := s.CountActiveRequests(ctx, booth)
	return DemandMultiplier(cfg, online, requests)
}
