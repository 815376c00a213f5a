package domain

import "time"

// RideEventType identifies a lifecycle event.
type RideEventType string

const (
	RideEventCreated   RideEventType = "ride_created"
	RideEventAssigned  RideEventType = "ride_assigned"
	RideEventStarted   RideEventType = "ride_started"
	RideEventEnded     RideEventType = "ride_ended"
	RideEventCompleted RideEventType = "ride_completed"
	RideEventCancelled RideEventType = "ride_cancelled"
)

// RideEvent is emitted after a successful state transition for external
// collaborators (notification dispatch, socket broadcast) to consume.
// Delivery failures never roll back the transition that produced the event.
type RideEvent struct {
	Type      RideEventType
	RideID    string
	Payload   map[string]any
	EmittedAt time.Time
}
