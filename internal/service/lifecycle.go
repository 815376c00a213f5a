package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/repository"
)

// Event names a ride lifecycle action.
type Event string

const (
	EventAssignDriver      Event = "assign_driver"
	EventVerifyStart       Event = "verify_start"
	EventVerifyEnd         Event = "verify_end"
	EventConfirmSettlement Event = "confirm_settlement"
	EventCancel            Event = "cancel"
)

// transitions is the single source of truth for legal ride transitions.
// Any event missing from a state's row is illegal from that state.
var transitions = map[domain.RideStatus]map[Event]domain.RideStatus{
	domain.RideStatusPending: {
		EventAssignDriver: domain.RideStatusDriverAssigned,
		EventCancel:       domain.RideStatusCancelled,
	},
	domain.RideStatusDriverAssigned: {
		EventVerifyStart: domain.RideStatusStarted,
		EventCancel:      domain.RideStatusCancelled,
	},
	domain.RideStatusStarted: {
		EventVerifyEnd: domain.RideStatusEnded,
	},
	domain.RideStatusEnded: {
		EventConfirmSettlement: domain.RideStatusCompleted,
	},
}

// nextStatus validates an event against the transition table.
func nextStatus(from domain.RideStatus, event Event) (domain.RideStatus, error) {
	if from.IsTerminal() {
		return "", fmt.Errorf("%w: cannot %s a %s ride", ErrRideTerminal, event, from)
	}
	to, ok := transitions[from][event]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, event, from)
	}
	return to, nil
}

// RideEventPublisher receives lifecycle events after a transition has been
// persisted. Publishing is fire-and-forget: failures never roll back the
// transition.
type RideEventPublisher interface {
	Publish(ctx context.Context, event domain.RideEvent)
}

// TransitionLocker serializes transitions per ride so at most one is in
// flight at a time.
type TransitionLocker interface {
	AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error)
	ReleaseRideLock(ctx context.Context, rideID string) error
}

const transitionLockTTL = 10 * time.Second

// LifecycleService owns a ride's state from creation to its terminal state.
type LifecycleService struct {
	rideRepo    repository.RideRepository
	archiveRepo repository.RideArchiveRepository
	driverRepo  repository.DriverRepository
	configs     *FareConfigService
	verifier    CodeVerifier
	locks       TransitionLocker
	events      RideEventPublisher
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(
	rideRepo repository.RideRepository,
	archiveRepo repository.RideArchiveRepository,
	driverRepo repository.DriverRepository,
	configs *FareConfigService,
	verifier CodeVerifier,
	locks TransitionLocker,
	events RideEventPublisher,
) *LifecycleService {
	if verifier == nil {
		verifier = ConstantTimeVerifier{}
	}
	return &LifecycleService{
		rideRepo:    rideRepo,
		archiveRepo: archiveRepo,
		driverRepo:  driverRepo,
		configs:     configs,
		verifier:    verifier,
		locks:       locks,
		events:      events,
	}
}

// CreateRideRequest contains the parameters for booking a ride.
type CreateRideRequest struct {
	RiderID        string
	Pickup         domain.Booth
	Drop           domain.DropLocation
	VehicleClass   domain.VehicleClass
	WaitingMinutes float64
}

// CreateRide books a ride: it locks a fare quote against the active
// configuration and creates the ride in pending state. No verification
// codes exist yet; they are generated at driver assignment.
func (s *LifecycleService) CreateRide(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if req.RiderID == "" {
		return nil, ErrInvalidRiderID
	}
	if !isValidLatitude(req.Pickup.Lat) || !isValidLongitude(req.Pickup.Lng) {
		return nil, ErrInvalidPickupLocation
	}
	if !isValidLatitude(req.Drop.Lat) || !isValidLongitude(req.Drop.Lng) {
		return nil, ErrInvalidDropLocation
	}

	cfg, err := s.configs.Active(ctx)
	if err != nil {
		return nil, err
	}

	distanceKm := Distance(req.Pickup.Lat, req.Pickup.Lng, req.Drop.Lat, req.Drop.Lng)
	quote, err := Quote(cfg, req.VehicleClass, distanceKm, req.WaitingMinutes, time.Now(), true)
	if err != nil {
		return nil, err
	}

	ride, err := s.newPendingRide(req, distanceKm, quote)
	if err != nil {
		return nil, err
	}

	seq, err := s.rideRepo.NextBookingNumber(ctx)
	if err != nil {
		return nil, err
	}
	ride.BookingNumber = fmt.Sprintf("GT-%d", seq)

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.RideEventCreated, ride, map[string]any{
		"booking_number": ride.BookingNumber,
		"vehicle_class":  string(ride.VehicleClass),
		"customer_total": ride.Quote.CustomerTotal,
	})

	return ride, nil
}

// newPendingRide builds a ride in pending state from a locked quote.
func (s *LifecycleService) newPendingRide(req CreateRideRequest, distanceKm float64, quote *domain.FareQuote) (*domain.Ride, error) {
	if quote == nil {
		return nil, ErrMissingQuote
	}
	return &domain.Ride{
		ID:           uuid.New().String(),
		RiderID:      req.RiderID,
		Pickup:       req.Pickup,
		Drop:         req.Drop,
		VehicleClass: req.VehicleClass,
		DistanceKm:   distanceKm,
		Quote:        *quote,
		Status:       domain.RideStatusPending,
		CreatedAt:    time.Now(),
		Version:      1,
	}, nil
}

// AssignDriver moves a pending ride to driver_assigned, fixing both
// verification codes and recording the acceptance timestamp.
func (s *LifecycleService) AssignDriver(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	return s.transition(ctx, rideID, EventAssignDriver, func(ride *domain.Ride) error {
		startCode, endCode, err := GenerateCodePair()
		if err != nil {
			return err
		}
		ride.DriverID = driverID
		ride.StartCode = startCode
		ride.EndCode = endCode
		ride.AcceptedAt = time.Now()
		return nil
	}, func(ctx context.Context, ride *domain.Ride) {
		if s.driverRepo != nil {
			if err := s.driverRepo.UpdateStatus(ctx, driverID, domain.DriverStatusOnRide); err != nil {
				log.Printf("failed to mark driver %s on ride: %v", driverID, err)
			}
		}
		s.publish(ctx, domain.RideEventAssigned, ride, map[string]any{
			"driver_id":  ride.DriverID,
			"start_code": ride.StartCode,
		})
	})
}

// VerifyStart moves a driver_assigned ride to ride_started when the supplied
// code matches the start code. A wrong code leaves the ride untouched.
func (s *LifecycleService) VerifyStart(ctx context.Context, rideID, code string) (*domain.Ride, error) {
	return s.transition(ctx, rideID, EventVerifyStart, func(ride *domain.Ride) error {
		if !s.verifier.Verify(ride.StartCode, code) {
			return ErrOTPMismatch
		}
		ride.StartedAt = time.Now()
		return nil
	}, func(ctx context.Context, ride *domain.Ride) {
		s.publish(ctx, domain.RideEventStarted, ride, map[string]any{
			"driver_id":  ride.DriverID,
			"started_at": ride.StartedAt,
		})
	})
}

// VerifyEnd moves a ride_started ride to ride_ended when the supplied code
// matches the end code, and fixes the final fare. The locked quote is reused
// unless a corrected distance is supplied, in which case the fare is
// recomputed against the active configuration.
func (s *LifecycleService) VerifyEnd(ctx context.Context, rideID, code string, correctedDistanceKm *float64) (*domain.Ride, error) {
	return s.transition(ctx, rideID, EventVerifyEnd, func(ride *domain.Ride) error {
		if !s.verifier.Verify(ride.EndCode, code) {
			return ErrOTPMismatch
		}

		final := ride.Quote
		if correctedDistanceKm != nil {
			cfg, err := s.configs.Active(ctx)
			if err != nil {
				return err
			}
			requoted, err := Quote(cfg, ride.VehicleClass, *correctedDistanceKm, ride.Quote.WaitingMinutes, time.Now(), true)
			if err != nil {
				return err
			}
			final = *requoted
			ride.DistanceKm = *correctedDistanceKm
		}

		ride.FinalFare = &final
		ride.EndedAt = time.Now()
		return nil
	}, func(ctx context.Context, ride *domain.Ride) {
		if s.driverRepo != nil && ride.DriverID != "" {
			if err := s.driverRepo.UpdateStatus(ctx, ride.DriverID, domain.DriverStatusOnline); err != nil {
				log.Printf("failed to mark driver %s online: %v", ride.DriverID, err)
			}
		}
		s.publish(ctx, domain.RideEventEnded, ride, map[string]any{
			"driver_earnings": ride.FinalFare.DriverEarnings,
			"customer_total":  ride.FinalFare.CustomerTotal,
			"ended_at":        ride.EndedAt,
		})
	})
}

// ConfirmSettlement moves a ride_ended ride to completed once payment is
// confirmed collected, then archives it into history.
func (s *LifecycleService) ConfirmSettlement(ctx context.Context, rideID string, paymentConfirmed bool) (*domain.Ride, error) {
	return s.transition(ctx, rideID, EventConfirmSettlement, func(ride *domain.Ride) error {
		if !paymentConfirmed {
			return ErrPaymentNotConfirmed
		}
		ride.PaymentCollected = true
		return nil
	}, func(ctx context.Context, ride *domain.Ride) {
		s.archive(ctx, ride)
		payload := map[string]any{"booking_number": ride.BookingNumber}
		if ride.FinalFare != nil {
			payload["customer_total"] = ride.FinalFare.CustomerTotal
		}
		s.publish(ctx, domain.RideEventCompleted, ride, payload)
	})
}

// Cancel moves a pending or driver_assigned ride to cancelled, recording who
// cancelled and why.
func (s *LifecycleService) Cancel(ctx context.Context, rideID, cancelledBy, reason string) (*domain.Ride, error) {
	return s.transition(ctx, rideID, EventCancel, func(ride *domain.Ride) error {
		ride.CancelledBy = cancelledBy
		ride.CancelReason = reason
		ride.CancelledAt = time.Now()
		return nil
	}, func(ctx context.Context, ride *domain.Ride) {
		if s.driverRepo != nil && ride.DriverID != "" {
			if err := s.driverRepo.UpdateStatus(ctx, ride.DriverID, domain.DriverStatusOnline); err != nil {
				log.Printf("failed to mark driver %s online: %v", ride.DriverID, err)
			}
		}
		s.archive(ctx, ride)
		s.publish(ctx, domain.RideEventCancelled, ride, map[string]any{
			"cancelled_by": ride.CancelledBy,
			"reason":       ride.CancelReason,
		})
	})
}

// GetRide retrieves a ride by ID.
func (s *LifecycleService) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.rideRepo.GetByID(ctx, rideID)
}

// GetHistory retrieves the archived record for a terminal ride.
func (s *LifecycleService) GetHistory(ctx context.Context, rideID string) (*domain.RideArchive, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.archiveRepo.GetByRideID(ctx, rideID)
}

// transition runs one guarded state change under the ride's transition lock:
// load, validate against the table, apply the effect, persist with a version
// check, then run after-effects (events, driver status) outside the critical
// write path.
func (s *LifecycleService) transition(
	ctx context.Context,
	rideID string,
	event Event,
	effect func(ride *domain.Ride) error,
	after func(ctx context.Context, ride *domain.Ride),
) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	if s.locks != nil {
		ok, err := s.locks.AcquireRideLock(ctx, rideID, transitionLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrTransitionInFlight
		}
		defer func() {
			if err := s.locks.ReleaseRideLock(ctx, rideID); err != nil {
				log.Printf("failed to release transition lock for ride %s: %v", rideID, err)
			}
		}()
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	to, err := nextStatus(ride.Status, event)
	if err != nil {
		return nil, err
	}

	if err := effect(ride); err != nil {
		return nil, err
	}

	ride.Status = to
	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	if after != nil {
		after(ctx, ride)
	}

	return ride, nil
}

// archive copies a terminal ride into history. Failures are logged: the
// state transition has already been persisted and takes priority.
func (s *LifecycleService) archive(ctx context.Context, ride *domain.Ride) {
	if s.archiveRepo == nil {
		return
	}

	record := &domain.RideArchive{
		RideID:        ride.ID,
		BookingNumber: ride.BookingNumber,
		RiderID:       ride.RiderID,
		DriverID:      ride.DriverID,
		Pickup:        ride.Pickup,
		Drop:          ride.Drop,
		VehicleClass:  ride.VehicleClass,
		DistanceKm:    ride.DistanceKm,
		Quote:         ride.Quote,
		FinalFare:     ride.FinalFare,
		Status:        ride.Status,
		CancelledBy:   ride.CancelledBy,
		CancelReason:  ride.CancelReason,
		CreatedAt:     ride.CreatedAt,
		AcceptedAt:    ride.AcceptedAt,
		StartedAt:     ride.StartedAt,
		EndedAt:       ride.EndedAt,
		CancelledAt:   ride.CancelledAt,
		ArchivedAt:    time.Now(),
	}

	if err := s.archiveRepo.Archive(ctx, record); err != nil {
		log.Printf("failed to archive ride %s: %v", ride.ID, err)
		return
	}

	// Prune the live row once history holds the copy.
	if err := s.rideRepo.Delete(ctx, ride.ID); err != nil {
		log.Printf("failed to prune archived ride %s: %v", ride.ID, err)
	}
}

// publish emits a lifecycle event. Fire-and-forget.
func (s *LifecycleService) publish(ctx context.Context, eventType domain.RideEventType, ride *domain.Ride, payload map[string]any) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, domain.RideEvent{
		Type:      eventType,
		RideID:    ride.ID,
		Payload:   payload,
		EmittedAt: time.Now(),
	})
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
