package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/redis"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository. Update
// enforces the same version check as the real repository.
type MockRideRepository struct {
	mu      sync.RWMutex
	rides   map[string]*domain.Ride
	nextSeq int64

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32
	DeleteCallCount int32

	// Error injection
	CreateError error
	UpdateError error
	DeleteError error
	CountError  error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetByBookingNumber(ctx context.Context, bookingNumber string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rides {
		if r.BookingNumber == bookingNumber {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockRideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0, len(m.rides))
	for _, r := range m.rides {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRideRepository) CountActiveAtBooth(ctx context.Context, booth string) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, r := range m.rides {
		if r.Pickup.Name == booth && !r.Status.IsTerminal() {
			count++
		}
	}
	return count, nil
}

func (m *MockRideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rides[ride.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != ride.Version {
		return repository.ErrVersionConflict
	}
	ride.Version++
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rides[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rides, id)
	return nil
}

func (m *MockRideRepository) NextBookingNumber(ctx context.Context) (int64, error) {
	return atomic.AddInt64(&m.nextSeq, 1), nil
}

// GetRide returns the ride by ID (for test assertions).
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// CountRides returns the number of live ride rows.
func (m *MockRideRepository) CountRides() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

// ──────────────────────────────────────────────
// MOCK RIDE ARCHIVE REPOSITORY
// ──────────────────────────────────────────────

// MockRideArchiveRepository is a mock implementation of RideArchiveRepository.
type MockRideArchiveRepository struct {
	mu       sync.RWMutex
	archives map[string]*domain.RideArchive

	// Counters
	ArchiveCallCount int32

	// Error injection
	ArchiveError error
}

// NewMockRideArchiveRepository creates a new mock archive repository.
func NewMockRideArchiveRepository() *MockRideArchiveRepository {
	return &MockRideArchiveRepository{
		archives: make(map[string]*domain.RideArchive),
	}
}

func (m *MockRideArchiveRepository) Archive(ctx context.Context, archive *domain.RideArchive) error {
	atomic.AddInt32(&m.ArchiveCallCount, 1)
	if m.ArchiveError != nil {
		return m.ArchiveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// First write wins, matching the real repository's conflict handling.
	if _, ok := m.archives[archive.RideID]; !ok {
		copy := *archive
		m.archives[archive.RideID] = &copy
	}
	return nil
}

func (m *MockRideArchiveRepository) GetByRideID(ctx context.Context, rideID string) (*domain.RideArchive, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	archive, ok := m.archives[rideID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *archive
	return &copy, nil
}

// GetArchive returns the archive record for assertions.
func (m *MockRideArchiveRepository) GetArchive(rideID string) *domain.RideArchive {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.archives[rideID]
}

// CountArchives returns the number of archived rides.
func (m *MockRideArchiveRepository) CountArchives() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.archives)
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDriverRepository) UpdateStatus(ctx context.Context, driverID string, status domain.DriverStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[driverID]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Status = status
	return nil
}

func (m *MockDriverRepository) UpdateBooth(ctx context.Context, driverID, booth string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[driverID]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Booth = booth
	return nil
}

func (m *MockDriverRepository) CountOnlineAtBooth(ctx context.Context, class domain.VehicleClass, booth string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, d := range m.drivers {
		if d.Status == domain.DriverStatusOnline && d.VehicleClass == class && d.Booth == booth {
			count++
		}
	}
	return count, nil
}

// GetDriver returns driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

// ──────────────────────────────────────────────
// MOCK FARE CONFIG REPOSITORY
// ──────────────────────────────────────────────

// MockFareConfigRepository is a mock implementation of FareConfigRepository.
type MockFareConfigRepository struct {
	mu       sync.RWMutex
	active   *domain.FareConfiguration
	versions map[int64]*domain.FareConfiguration

	// Counters for verification
	GetActiveCallCount int32
	PublishCallCount   int32

	// Error injection
	GetActiveError error
	PublishError   error
}

// NewMockFareConfigRepository creates a new mock fare config repository.
func NewMockFareConfigRepository() *MockFareConfigRepository {
	return &MockFareConfigRepository{
		versions: make(map[int64]*domain.FareConfiguration),
	}
}

// SetActive seeds the active configuration.
func (m *MockFareConfigRepository) SetActive(cfg *domain.FareConfiguration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = cfg
	m.versions[cfg.Version] = cfg
}

func (m *MockFareConfigRepository) GetActive(ctx context.Context) (*domain.FareConfiguration, error) {
	atomic.AddInt32(&m.GetActiveCallCount, 1)
	if m.GetActiveError != nil {
		return nil, m.GetActiveError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == nil {
		return nil, repository.ErrNotFound
	}
	copy := *m.active
	return &copy, nil
}

func (m *MockFareConfigRepository) GetByVersion(ctx context.Context, version int64) (*domain.FareConfiguration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.versions[version]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *cfg
	return &copy, nil
}

func (m *MockFareConfigRepository) Publish(ctx context.Context, cfg *domain.FareConfiguration) (*domain.FareConfiguration, error) {
	atomic.AddInt32(&m.PublishCallCount, 1)
	if m.PublishError != nil {
		return nil, m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	next := *cfg
	next.Version = 1
	if m.active != nil {
		next.Version = m.active.Version + 1
		m.active.Active = false
	}
	next.Active = true
	next.CreatedAt = time.Now()
	m.active = &next
	m.versions[next.Version] = &next
	copy := next
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK CONFIG CACHE
// ──────────────────────────────────────────────

// MockConfigCache is an in-memory implementation of the config cache.
type MockConfigCache struct {
	mu      sync.RWMutex
	cached  *domain.FareConfiguration
	LastTTL time.Duration

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	// Error injection
	GetError error
	SetError error
}

// NewMockConfigCache creates a new mock config cache.
func NewMockConfigCache() *MockConfigCache {
	return &MockConfigCache{}
}

func (m *MockConfigCache) GetFareConfig(ctx context.Context) (*domain.FareConfiguration, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cached == nil {
		return nil, nil
	}
	copy := *m.cached
	return &copy, nil
}

func (m *MockConfigCache) SetFareConfig(ctx context.Context, cfg *domain.FareConfiguration, ttl time.Duration) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *cfg
	m.cached = &copy
	m.LastTTL = ttl
	return nil
}

func (m *MockConfigCache) InvalidateFareConfig(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = nil
	return nil
}

// Cached returns the cached configuration for assertions.
func (m *MockConfigCache) Cached() *domain.FareConfiguration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cached
}

// ──────────────────────────────────────────────
// MOCK TRANSITION LOCKER
// ──────────────────────────────────────────────

// MockTransitionLocker is an in-memory per-ride lock.
type MockTransitionLocker struct {
	mu   sync.Mutex
	held map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockTransitionLocker creates a new mock transition locker.
func NewMockTransitionLocker() *MockTransitionLocker {
	return &MockTransitionLocker{
		held: make(map[string]bool),
	}
}

// Hold marks a ride's lock as already taken by someone else.
func (m *MockTransitionLocker) Hold(rideID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[rideID] = true
}

func (m *MockTransitionLocker) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[rideID] {
		return false, nil
	}
	m.held[rideID] = true
	return true, nil
}

func (m *MockTransitionLocker) ReleaseRideLock(ctx context.Context, rideID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, rideID)
	return nil
}

// ──────────────────────────────────────────────
// RECORDING EVENT PUBLISHER
// ──────────────────────────────────────────────

// RecordingEventPublisher records published lifecycle events for assertions.
type RecordingEventPublisher struct {
	mu     sync.Mutex
	events []domain.RideEvent
}

// NewRecordingEventPublisher creates a new recording publisher.
func NewRecordingEventPublisher() *RecordingEventPublisher {
	return &RecordingEventPublisher{}
}

func (p *RecordingEventPublisher) Publish(ctx context.Context, event domain.RideEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns the recorded events.
func (p *RecordingEventPublisher) Events() []domain.RideEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]domain.RideEvent, len(p.events))
	copy(result, p.events)
	return result
}

// Types returns the recorded event types in order.
func (p *RecordingEventPublisher) Types() []domain.RideEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]domain.RideEventType, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

type driverLocationKey struct {
	driverID string
	class    domain.VehicleClass
}

// MockLocationStore is a mock implementation of LocationStoreInterface.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations map[driverLocationKey]redis.DriverLocation

	// Error injection
	UpdateError error
	FindError   error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		locations: make(map[driverLocationKey]redis.DriverLocation),
	}
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, driverID string, class domain.VehicleClass, lat, lng float64) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[driverLocationKey{driverID, class}] = redis.DriverLocation{
		DriverID: driverID,
		Lat:      lat,
		Lng:      lng,
	}
	return nil
}

func (m *MockLocationStore) FindNearbyDrivers(ctx context.Context, class domain.VehicleClass, lat, lng, radiusKm float64) ([]redis.DriverLocation, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Radius filtering is the real store's job; the mock returns every
	// location stored for the class.
	result := make([]redis.DriverLocation, 0)
	for key, loc := range m.locations {
		if key.class == class {
			result = append(result, loc)
		}
	}
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, driverID string, class domain.VehicleClass) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, driverLocationKey{driverID, class})
	return nil
}

// CountLocations returns the number of stored locations.
func (m *MockLocationStore) CountLocations() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.locations)
}
