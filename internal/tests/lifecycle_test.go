package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/repository"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/service"
)

// activeTestConfig returns the standard auto pricing used across lifecycle
// tests: base 40 covering 2km, 17/km beyond, commission 10%, tax 5%.
func activeTestConfig() *domain.FareConfiguration {
	return &domain.FareConfiguration{
		ID:      "cfg-test",
		Version: 1,
		Active:  true,
		Rates: map[domain.VehicleClass]domain.VehicleRates{
			domain.VehicleClassAuto: {
				BaseFare:         40,
				IncludedKm:       2,
				PerKmRate:        17,
				MinimumFare:      50,
				WaitingPerMinute: 2,
			},
		},
		TaxPercent:        5,
		CommissionPercent: 10,
	}
}

// lifecycleFixture wires a LifecycleService against in-memory collaborators.
type lifecycleFixture struct {
	rides    *MockRideRepository
	archives *MockRideArchiveRepository
	drivers  *MockDriverRepository
	configs  *MockFareConfigRepository
	locks    *MockTransitionLocker
	events   *RecordingEventPublisher
	svc      *service.LifecycleService
}

func newLifecycleFixture() *lifecycleFixture {
	f := &lifecycleFixture{
		rides:    NewMockRideRepository(),
		archives: NewMockRideArchiveRepository(),
		drivers:  NewMockDriverRepository(),
		configs:  NewMockFareConfigRepository(),
		locks:    NewMockTransitionLocker(),
		events:   NewRecordingEventPublisher(),
	}
	f.configs.SetActive(activeTestConfig())
	f.svc = service.NewLifecycleService(
		f.rides,
		f.archives,
		f.drivers,
		service.NewFareConfigService(f.configs, nil, 0),
		service.ConstantTimeVerifier{},
		f.locks,
		f.events,
	)
	return f
}

// seedRide stores a ride in the given state with verification codes fixed.
func (f *lifecycleFixture) seedRide(id string, status domain.RideStatus) *domain.Ride {
	quote := domain.FareQuote{
		VehicleClass:   domain.VehicleClassAuto,
		DistanceKm:     5,
		BaseFare:       40,
		DistanceFare:   51,
		SurgeFactor:    1.0,
		SurgedAmount:   91,
		DriverEarnings: 91,
		Commission:     9,
		Tax:            5,
		CustomerTotal:  105,
		ConfigVersion:  1,
		QuotedAt:       time.Now(),
	}
	ride := &domain.Ride{
		ID:            id,
		BookingNumber: "GT-100",
		RiderID:       "rider-1",
		Pickup:        domain.Booth{Name: "hauz-khas-metro", Lat: 28.5494, Lng: 77.2001},
		Drop:          domain.DropLocation{Address: "Connaught Place", Lat: 28.6328, Lng: 77.2197},
		VehicleClass:  domain.VehicleClassAuto,
		DistanceKm:    5,
		Quote:         quote,
		Status:        status,
		StartCode:     "1111",
		EndCode:       "2222",
		CreatedAt:     time.Now(),
		Version:       1,
	}
	if status != domain.RideStatusPending {
		ride.DriverID = "driver-1"
	}
	f.rides.AddRide(ride)
	f.drivers.AddDriver(&domain.Driver{
		ID:           "driver-1",
		Name:         "Test Driver",
		VehicleClass: domain.VehicleClassAuto,
		Status:       domain.DriverStatusOnRide,
	})
	return ride
}

func TestCreateRide_LocksQuoteAndBookingNumber(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	ride, err := f.svc.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:      "rider-1",
		Pickup:       domain.Booth{Name: "hauz-khas-metro", Lat: 28.5494, Lng: 77.2001},
		Drop:         domain.DropLocation{Address: "Connaught Place", Lat: 28.6328, Lng: 77.2197},
		VehicleClass: domain.VehicleClassAuto,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusPending {
		t.Errorf("expected pending status, got %s", ride.Status)
	}
	if ride.BookingNumber != "GT-1" {
		t.Errorf("expected booking number GT-1, got %s", ride.BookingNumber)
	}
	if ride.Quote.CustomerTotal <= 0 {
		t.Errorf("expected a positive quoted total, got %d", ride.Quote.CustomerTotal)
	}
	if ride.Quote.ConfigVersion != 1 {
		t.Errorf("expected quote pinned to config version 1, got %d", ride.Quote.ConfigVersion)
	}
	if ride.Version != 1 {
		t.Errorf("expected initial version 1, got %d", ride.Version)
	}
	if ride.StartCode != "" || ride.EndCode != "" {
		t.Error("verification codes must not exist before driver assignment")
	}

	types := f.events.Types()
	if len(types) != 1 || types[0] != domain.RideEventCreated {
		t.Errorf("expected a single ride_created event, got %v", types)
	}
}

func TestCreateRide_Validation(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	ctx := context.Background()

	_, err := f.svc.CreateRide(ctx, service.CreateRideRequest{
		Pickup: domain.Booth{Lat: 28.5, Lng: 77.2},
		Drop:   domain.DropLocation{Lat: 28.6, Lng: 77.2},
	})
	if !errors.Is(err, service.ErrInvalidRiderID) {
		t.Errorf("expected ErrInvalidRiderID, got %v", err)
	}

	_, err = f.svc.CreateRide(ctx, service.CreateRideRequest{
		RiderID: "rider-1",
		Pickup:  domain.Booth{Lat: 128.5, Lng: 77.2},
		Drop:    domain.DropLocation{Lat: 28.6, Lng: 77.2},
	})
	if !errors.Is(err, service.ErrInvalidPickupLocation) {
		t.Errorf("expected ErrInvalidPickupLocation, got %v", err)
	}

	_, err = f.svc.CreateRide(ctx, service.CreateRideRequest{
		RiderID: "rider-1",
		Pickup:  domain.Booth{Lat: 28.5, Lng: 77.2},
		Drop:    domain.DropLocation{Lat: 28.6, Lng: 277.2},
	})
	if !errors.Is(err, service.ErrInvalidDropLocation) {
		t.Errorf("expected ErrInvalidDropLocation, got %v", err)
	}

	_, err = f.svc.CreateRide(ctx, service.CreateRideRequest{
		RiderID:      "rider-1",
		Pickup:       domain.Booth{Lat: 28.5, Lng: 77.2},
		Drop:         domain.DropLocation{Lat: 28.6, Lng: 77.2},
		VehicleClass: "rickshaw",
	})
	if !errors.Is(err, service.ErrUnknownVehicleClass) {
		t.Errorf("expected ErrUnknownVehicleClass, got %v", err)
	}

	if f.rides.CountRides() != 0 {
		t.Errorf("expected no rides persisted, got %d", f.rides.CountRides())
	}
}

func TestAssignDriver_FixesCodesAndMarksDriverBusy(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.seedRide("ride-1", domain.RideStatusPending)
	f.drivers.GetDriver("driver-1").Status = domain.DriverStatusOnline

	ride, err := f.svc.AssignDriver(context.Background(), "ride-1", "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusDriverAssigned {
		t.Errorf("expected driver_assigned, got %s", ride.Status)
	}
	if len(ride.StartCode) != 4 || len(ride.EndCode) != 4 {
		t.Errorf("expected 4-digit codes, got %q and %q", ride.StartCode, ride.EndCode)
	}
	if ride.StartCode == ride.EndCode {
		t.Error("start and end codes must differ")
	}
	if ride.AcceptedAt.IsZero() {
		t.Error("expected AcceptedAt to be set")
	}
	if got := f.drivers.GetDriver("driver-1").Status; got != domain.DriverStatusOnRide {
		t.Errorf("expected driver on_ride, got %s", got)
	}

	events := f.events.Events()
	if len(events) != 1 || events[0].Type != domain.RideEventAssigned {
		t.Fatalf("expected a single ride_assigned event, got %v", f.events.Types())
	}
	if events[0].Payload["start_code"] != ride.StartCode {
		t.Error("assignment event must carry the start code for the rider")
	}
}

func TestVerifyStart_WrongCodeLeavesRideUntouched(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.seedRide("ride-1", domain.RideStatusDriverAssigned)

	_, err := f.svc.VerifyStart(context.Background(), "ride-1", "9999")
	if !errors.Is(err, service.ErrOTPMismatch) {
		t.Fatalf("expected ErrOTPMismatch, got %v", err)
	}

	stored := f.rides.GetRide("ride-1")
	if stored.Status != domain.RideStatusDriverAssigned {
		t.Errorf("expected status unchanged after wrong code, got %s", stored.Status)
	}
	if stored.Version != 1 {
		t.Errorf("expected version unchanged after wrong code, got %d", stored.Version)
	}
	if len(f.events.Events()) != 0 {
		t.Error("expected no events after a failed verification")
	}

	ride, err := f.svc.VerifyStart(context.Background(), "ride-1", "1111")
	if err != nil {
		t.Fatalf("unexpected error with correct code: %v", err)
	}
	if ride.Status != domain.RideStatusStarted {
		t.Errorf("expected ride_started, got %s", ride.Status)
	}
	if ride.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set")
	}
}

func TestVerifyEnd_ReusesLockedQuote(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	seeded := f.seedRide("ride-1", domain.RideStatusStarted)

	ride, err := f.svc.VerifyEnd(context.Background(), "ride-1", "2222", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusEnded {
		t.Errorf("expected ride_ended, got %s", ride.Status)
	}
	if ride.FinalFare == nil {
		t.Fatal("expected final fare to be fixed at ride end")
	}
	if *ride.FinalFare != seeded.Quote {
		t.Errorf("expected final fare to equal the locked quote, got %+v", *ride.FinalFare)
	}
	if got := f.drivers.GetDriver("driver-1").Status; got != domain.DriverStatusOnline {
		t.Errorf("expected driver back online, got %s", got)
	}
}

func TestVerifyEnd_CorrectedDistanceRequotes(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.seedRide("ride-1", domain.RideStatusStarted)

	corrected := 8.0
	ride, err := f.svc.VerifyEnd(context.Background(), "ride-1", "2222", &corrected)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.DistanceKm != corrected {
		t.Errorf("expected distance corrected to %.1f, got %.1f", corrected, ride.DistanceKm)
	}
	// base 40 + 6km * 17 = 142; commission 14, tax 8.
	if ride.FinalFare.DriverEarnings != 142 {
		t.Errorf("expected re-quoted driver earnings 142, got %d", ride.FinalFare.DriverEarnings)
	}
	if ride.FinalFare.CustomerTotal != 164 {
		t.Errorf("expected re-quoted total 164, got %d", ride.FinalFare.CustomerTotal)
	}
	// The booking-time quote stays on record.
	if ride.Quote.CustomerTotal != 105 {
		t.Errorf("expected original quote untouched, got %d", ride.Quote.CustomerTotal)
	}
}

func TestConfirmSettlement_RequiresPayment(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	seeded := f.seedRide("ride-1", domain.RideStatusEnded)
	final := seeded.Quote
	seeded.FinalFare = &final
	f.rides.AddRide(seeded)

	_, err := f.svc.ConfirmSettlement(context.Background(), "ride-1", false)
	if !errors.Is(err, service.ErrPaymentNotConfirmed) {
		t.Fatalf("expected ErrPaymentNotConfirmed, got %v", err)
	}
	if got := f.rides.GetRide("ride-1").Status; got != domain.RideStatusEnded {
		t.Errorf("expected status unchanged, got %s", got)
	}
	if f.archives.CountArchives() != 0 {
		t.Error("expected nothing archived after refused settlement")
	}

	ride, err := f.svc.ConfirmSettlement(context.Background(), "ride-1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.Status != domain.RideStatusCompleted {
		t.Errorf("expected completed, got %s", ride.Status)
	}
	if !ride.PaymentCollected {
		t.Error("expected payment recorded as collected")
	}

	archive := f.archives.GetArchive("ride-1")
	if archive == nil {
		t.Fatal("expected ride archived into history")
	}
	if archive.Status != domain.RideStatusCompleted {
		t.Errorf("expected archived status completed, got %s", archive.Status)
	}
	if archive.BookingNumber != "GT-100" {
		t.Errorf("expected archived booking number GT-100, got %s", archive.BookingNumber)
	}
	// Live row is pruned once history holds the copy.
	if f.rides.CountRides() != 0 {
		t.Errorf("expected live ride pruned after archival, got %d rows", f.rides.CountRides())
	}
}

func TestCancel_ArchivesAndFreesDriver(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.seedRide("ride-1", domain.RideStatusDriverAssigned)

	ride, err := f.svc.Cancel(context.Background(), "ride-1", "rider", "rider changed plans")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusCancelled {
		t.Errorf("expected cancelled, got %s", ride.Status)
	}
	if ride.CancelledBy != "rider" {
		t.Errorf("expected cancellation attributed to rider, got %q", ride.CancelledBy)
	}
	if ride.CancelReason != "rider changed plans" {
		t.Errorf("unexpected cancel reason %q", ride.CancelReason)
	}
	if ride.CancelledAt.IsZero() {
		t.Error("expected CancelledAt to be set")
	}
	if got := f.drivers.GetDriver("driver-1").Status; got != domain.DriverStatusOnline {
		t.Errorf("expected driver freed, got %s", got)
	}

	archive := f.archives.GetArchive("ride-1")
	if archive == nil {
		t.Fatal("expected cancelled ride archived")
	}
	if archive.CancelReason != "rider changed plans" {
		t.Errorf("expected cancel reason archived, got %q", archive.CancelReason)
	}
	if f.rides.CountRides() != 0 {
		t.Error("expected live ride pruned after cancellation")
	}
}

func TestTransitions_IllegalEventsPerState(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		from domain.RideStatus
		call func(svc *service.LifecycleService, ctx context.Context) error
	}{
		{"start before assignment", domain.RideStatusPending, func(svc *service.LifecycleService, ctx context.Context) error {
			_, err := svc.VerifyStart(ctx, "ride-1", "1111")
			return err
		}},
		{"end before start", domain.RideStatusPending, func(svc *service.LifecycleService, ctx context.Context) error {
			_, err := svc.VerifyEnd(ctx, "ride-1", "2222", nil)
			return err
		}},
		{"settle before end", domain.RideStatusDriverAssigned, func(svc *service.LifecycleService, ctx context.Context) error {
			_, err := svc.ConfirmSettlement(ctx, "ride-1", true)
			return err
		}},
		{"assign twice", domain.RideStatusDriverAssigned, func(svc *service.LifecycleService, ctx context.Context) error {
			_, err := svc.AssignDriver(ctx, "ride-1", "driver-2")
			return err
		}},
		{"cancel mid-trip", domain.RideStatusStarted, func(svc *service.LifecycleService, ctx context.Context) error {
			_, err := svc.Cancel(ctx, "ride-1", "rider", "too late")
			return err
		}},
		{"cancel after end", domain.RideStatusEnded, func(svc *service.LifecycleService, ctx context.Context) error {
			_, err := svc.Cancel(ctx, "ride-1", "rider", "too late")
			return err
		}},
		{"end twice", domain.RideStatusEnded, func(svc *service.LifecycleService, ctx context.Context) error {
			_, err := svc.VerifyEnd(ctx, "ride-1", "2222", nil)
			return err
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newLifecycleFixture()
			f.seedRide("ride-1", tc.from)

			err := tc.call(f.svc, context.Background())
			if !errors.Is(err, service.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition from %s, got %v", tc.from, err)
			}
			if got := f.rides.GetRide("ride-1").Status; got != tc.from {
				t.Errorf("expected status to remain %s, got %s", tc.from, got)
			}
		})
	}
}

func TestTransitions_TerminalStatesRejectEverything(t *testing.T) {
	t.Parallel()

	for _, terminal := range []domain.RideStatus{domain.RideStatusCompleted, domain.RideStatusCancelled} {
		terminal := terminal
		t.Run(string(terminal), func(t *testing.T) {
			t.Parallel()

			f := newLifecycleFixture()
			f.seedRide("ride-1", terminal)
			ctx := context.Background()

			calls := []func() error{
				func() error { _, err := f.svc.AssignDriver(ctx, "ride-1", "driver-1"); return err },
				func() error { _, err := f.svc.VerifyStart(ctx, "ride-1", "1111"); return err },
				func() error { _, err := f.svc.VerifyEnd(ctx, "ride-1", "2222", nil); return err },
				func() error { _, err := f.svc.ConfirmSettlement(ctx, "ride-1", true); return err },
				func() error { _, err := f.svc.Cancel(ctx, "ride-1", "rider", "reason"); return err },
			}
			for i, call := range calls {
				if err := call(); !errors.Is(err, service.ErrRideTerminal) {
					t.Errorf("call %d: expected ErrRideTerminal, got %v", i, err)
				}
			}
		})
	}
}

func TestTransition_LockContention(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.seedRide("ride-1", domain.RideStatusPending)
	f.locks.Hold("ride-1")

	_, err := f.svc.AssignDriver(context.Background(), "ride-1", "driver-1")
	if !errors.Is(err, service.ErrTransitionInFlight) {
		t.Fatalf("expected ErrTransitionInFlight, got %v", err)
	}
	if got := f.rides.GetRide("ride-1").Status; got != domain.RideStatusPending {
		t.Errorf("expected status unchanged under contention, got %s", got)
	}
}

func TestTransition_ReleasesLock(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.seedRide("ride-1", domain.RideStatusPending)

	if _, err := f.svc.AssignDriver(context.Background(), "ride-1", "driver-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The lock must be free again for the next transition.
	if _, err := f.svc.VerifyStart(context.Background(), "ride-1", "9999"); !errors.Is(err, service.ErrOTPMismatch) {
		t.Fatalf("expected ErrOTPMismatch (lock released), got %v", err)
	}
	if f.locks.ReleaseCallCount != 2 {
		t.Errorf("expected 2 lock releases, got %d", f.locks.ReleaseCallCount)
	}
}

func TestTransition_VersionConflictSurfaces(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.seedRide("ride-1", domain.RideStatusPending)
	f.rides.UpdateError = repository.ErrVersionConflict

	_, err := f.svc.AssignDriver(context.Background(), "ride-1", "driver-1")
	if !errors.Is(err, repository.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	if len(f.events.Events()) != 0 {
		t.Error("expected no events after a lost update")
	}
}

func TestRideRepository_StaleUpdateRejected(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	repo.AddRide(&domain.Ride{ID: "ride-1", Status: domain.RideStatusPending, Version: 1})
	ctx := context.Background()

	first, _ := repo.GetByID(ctx, "ride-1")
	second, _ := repo.GetByID(ctx, "ride-1")

	first.Status = domain.RideStatusDriverAssigned
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("unexpected error on first update: %v", err)
	}

	second.Status = domain.RideStatusCancelled
	if err := repo.Update(ctx, second); !errors.Is(err, repository.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict on stale update, got %v", err)
	}

	if got := repo.GetRide("ride-1").Status; got != domain.RideStatusDriverAssigned {
		t.Errorf("expected first update to win, got %s", got)
	}
}

func TestLifecycle_FullHappyPathEmitsEventsInOrder(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.drivers.AddDriver(&domain.Driver{ID: "driver-1", Status: domain.DriverStatusOnline, VehicleClass: domain.VehicleClassAuto})
	ctx := context.Background()

	ride, err := f.svc.CreateRide(ctx, service.CreateRideRequest{
		RiderID:      "rider-1",
		Pickup:       domain.Booth{Name: "hauz-khas-metro", Lat: 28.5494, Lng: 77.2001},
		Drop:         domain.DropLocation{Address: "Connaught Place", Lat: 28.6328, Lng: 77.2197},
		VehicleClass: domain.VehicleClassAuto,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.svc.AssignDriver(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	assigned := f.rides.GetRide(ride.ID)

	if _, err := f.svc.VerifyStart(ctx, ride.ID, assigned.StartCode); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.VerifyEnd(ctx, ride.ID, assigned.EndCode, nil); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, err := f.svc.ConfirmSettlement(ctx, ride.ID, true); err != nil {
		t.Fatalf("settle: %v", err)
	}

	want := []domain.RideEventType{
		domain.RideEventCreated,
		domain.RideEventAssigned,
		domain.RideEventStarted,
		domain.RideEventEnded,
		domain.RideEventCompleted,
	}
	got := f.events.Types()
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	history, err := f.svc.GetHistory(ctx, ride.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if history.Status != domain.RideStatusCompleted {
		t.Errorf("expected completed in history, got %s", history.Status)
	}
	if history.FinalFare == nil || history.FinalFare.CustomerTotal != ride.Quote.CustomerTotal {
		t.Error("expected history to carry the settled fare")
	}
}
