package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/redis"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/repository"
)

// ErrInvalidDriverStatus is returned for an unrecognized driver status value.
var ErrInvalidDriverStatus = errors.New("invalid driver status")

// DriverService handles driver registration, presence and location updates.
type DriverService struct {
	locationStore redis.LocationStoreInterface
	driverRepo    repository.DriverRepository
}

// NewDriverService creates a new DriverService.
func NewDriverService(locationStore redis.LocationStoreInterface, driverRepo repository.DriverRepository) *DriverService {
	return &DriverService{
		locationStore: locationStore,
		driverRepo:    driverRepo,
	}
}

// RegisterDriverRequest contains the parameters for registering a driver.
type RegisterDriverRequest struct {
	Name         string
	Phone        string
	VehicleClass domain.VehicleClass
	VehicleNo    string
	Booth        string
}

// Register creates a new driver in offline state.
func (s *DriverService) Register(ctx context.Context, req RegisterDriverRequest) (*domain.Driver, error) {
	driver := &domain.Driver{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Phone:        req.Phone,
		VehicleClass: req.VehicleClass,
		VehicleNo:    req.VehicleNo,
		Status:       domain.DriverStatusOffline,
		Booth:        req.Booth,
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}

	return driver, nil
}

// UpdateLocation records a driver's position in the geo index.
func (s *DriverService) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return ErrInvalidPickupLocation
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return err
	}

	return s.locationStore.UpdateLocation(ctx, driverID, driver.VehicleClass, lat, lng)
}

// SetStatus flips a driver between online and offline, keeping the geo index
// in sync so supply counts only see online drivers.
func (s *DriverService) SetStatus(ctx context.Context, driverID string, status domain.DriverStatus, lat, lng float64) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return err
	}

	switch status {
	case domain.DriverStatusOnline:
		if !isValidLatitude(lat) || !isValidLongitude(lng) {
			return ErrInvalidPickupLocation
		}
		if err := s.locationStore.UpdateLocation(ctx, driverID, driver.VehicleClass, lat, lng); err != nil {
			return err
		}
	case domain.DriverStatusOffline:
		if err := s.locationStore.RemoveLocation(ctx, driverID, driver.VehicleClass); err != nil {
			return err
		}
	default:
		return ErrInvalidDriverStatus
	}

	return s.driverRepo.UpdateStatus(ctx, driverID, status)
}

// JoinBooth puts a driver in a booth's queue.
func (s *DriverService) JoinBooth(ctx context.Context, driverID, booth string) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}
	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		return err
	}
	return s.driverRepo.UpdateBooth(ctx, driverID, booth)
}

// BoothSupply reports online drivers queued at a booth, per vehicle class.
func (s *DriverService) BoothSupply(ctx context.Context, booth string) (map[domain.VehicleClass]int, error) {
	classes := []domain.VehicleClass{
		domain.VehicleClassBike,
		domain.VehicleClassAuto,
		domain.VehicleClassCar,
		domain.VehicleClassSedan,
	}

	supply := make(map[domain.VehicleClass]int, len(classes))
	for _, class := range classes {
		count, err := s.driverRepo.CountOnlineAtBooth(ctx, class, booth)
		if err != nil {
			return nil, err
		}
		supply[class] = count
	}
	return supply, nil
}

// GetAll retrieves all drivers.
func (s *DriverService) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.GetAll(ctx)
}

// GetDriver retrieves a driver by ID.
func (s *DriverService) GetDriver(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.driverRepo.GetByID(ctx, driverID)
}
