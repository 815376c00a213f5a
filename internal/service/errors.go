package service

import "errors"

var (
	// ErrNoActiveFareConfig is returned when no active fare configuration exists.
	ErrNoActiveFareConfig = errors.New("no active fare configuration")

	// ErrUnknownVehicleClass is returned when the configuration has no rates for the class.
	ErrUnknownVehicleClass = errors.New("unknown vehicle class")

	// ErrNegativeDistance is returned when a quote is requested for a negative distance.
	ErrNegativeDistance = errors.New("distance must not be negative")

	// ErrNegativeWaitingTime is returned when a quote is requested for negative waiting time.
	ErrNegativeWaitingTime = errors.New("waiting time must not be negative")

	// ErrInvalidTransition is returned when an event is not legal from the ride's current state.
	ErrInvalidTransition = errors.New("invalid ride transition")

	// ErrRideTerminal is returned when any transition is attempted on a completed or cancelled ride.
	ErrRideTerminal = errors.New("ride already in terminal state")

	// ErrOTPMismatch is returned when a start or end verification code does not match.
	ErrOTPMismatch = errors.New("incorrect verification code")

	// ErrPaymentNotConfirmed is returned when settlement is attempted without payment confirmation.
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")

	// ErrTransitionInFlight is returned when another transition holds the ride's lock.
	ErrTransitionInFlight = errors.New("another transition is in progress for this ride")

	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidPickupLocation is returned when pickup coordinates are invalid.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDropLocation is returned when drop coordinates are invalid.
	ErrInvalidDropLocation = errors.New("invalid drop location")

	// ErrMissingQuote is returned when a ride is created without a fare quote.
	ErrMissingQuote = errors.New("ride requires a fare quote")

	// ErrInvalidFareConfig is returned when a configuration fails validation on publish.
	ErrInvalidFareConfig = errors.New("invalid fare configuration")
)
