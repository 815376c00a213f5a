package service

import (
	"context"
	"log"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
)

// NotificationService forwards lifecycle events to riders, drivers and
// admins. The transport here is a log line; a real deployment would plug in
// push (FCM/APNS), SMS or a socket broadcast behind the same interface.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

var _ RideEventPublisher = (*NotificationService)(nil)

// messages maps event types to the user-facing message template.
var messages = map[domain.RideEventType]string{
	domain.RideEventCreated:   "Your booking is confirmed. Waiting for a driver.",
	domain.RideEventAssigned:  "A driver has been assigned to your ride.",
	domain.RideEventStarted:   "Your ride has started.",
	domain.RideEventEnded:     "Your ride has ended.",
	domain.RideEventCompleted: "Payment received. Thank you for riding with us.",
	domain.RideEventCancelled: "Your ride has been cancelled.",
}

// Publish delivers one lifecycle event. Verification codes travel inside the
// payload to the recipient's channel and are deliberately kept out of the log
// line.
func (s *NotificationService) Publish(ctx context.Context, event domain.RideEvent) {
	msg, ok := messages[event.Type]
	if !ok {
		msg = "Ride update."
	}
	log.Printf("[NOTIFY] type=%s ride=%s message=%q", event.Type, event.RideID, msg)
}
