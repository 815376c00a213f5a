package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusPending        RideStatus = "pending"
	RideStatusDriverAssigned RideStatus = "driver_assigned"
	RideStatusStarted        RideStatus = "ride_started"
	RideStatusEnded          RideStatus = "ride_ended"
	RideStatusCompleted      RideStatus = "completed"
	RideStatusCancelled      RideStatus = "cancelled"
)

// IsTerminal reports whether the status admits no further transitions.
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// Booth is a fixed pickup point (metro/railway station) where rides originate.
type Booth struct {
	Name string
	Lat  float64
	Lng  float64
}

// DropLocation is the rider's destination.
type DropLocation struct {
	Address string
	Lat     float64
	Lng     float64
}

// Ride represents one trip from booking to a terminal state.
type Ride struct {
	ID            string
	BookingNumber string // Human-readable reference, e.g. GT-1042
	RiderID       string
	DriverID      string // Empty until a driver accepts
	Pickup        Booth
	Drop          DropLocation
	VehicleClass  VehicleClass
	DistanceKm    float64
	Quote         FareQuote // Locked at booking time
	Status        RideStatus

	// One-time verification codes, fixed at driver assignment.
	StartCode string
	EndCode   string

	// Final settlement figures, set when the ride ends. Equals the locked
	// quote unless a corrected distance was supplied at ride end.
	FinalFare *FareQuote

	PaymentCollected bool
	CancelledBy      string // rider, driver or admin
	CancelReason     string

	CreatedAt   time.Time
	AcceptedAt  time.Time
	StartedAt   time.Time
	EndedAt     time.Time
	CancelledAt time.Time

	// Version guards concurrent transitions: an update must match the loaded
	// version and bump it, so at most one in-flight transition wins.
	Version int64
}

// RideArchive is the immutable history record written when a ride reaches a
// terminal state. The live ride row may be pruned afterwards.
type RideArchive struct {
	RideID        string
	BookingNumber string
	RiderID       string
	DriverID      string
	Pickup        Booth
	Drop          DropLocation
	VehicleClass  VehicleClass
	DistanceKm    float64
	Quote         FareQuote
	FinalFare     *FareQuote
	Status        RideStatus
	CancelledBy   string
	CancelReason  string
	CreatedAt     time.Time
	AcceptedAt    time.Time
	StartedAt     time.Time
	EndedAt       time.Time
	CancelledAt   time.Time
	ArchivedAt    time.Time
}
