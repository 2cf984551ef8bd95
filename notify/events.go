// Package notify carries booking side effects out of the request path. Services
// publish Events; a queue (in-process or RabbitMQ) hands them to a
// Dispatcher that renders and sends the email.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resort-backend/models"
)

type Kind string

const (
	KindBookingCreated   Kind = "booking.created"
	KindBookingConfirmed Kind = "booking.confirmed"
	KindBookingRejected  Kind = "booking.rejected"
	KindCheckoutReminder Kind = "checkout.reminder"
)

// Event is the unit of work on the notification queue. Staff-facing kinds
// leave To empty and the dispatcher fills in the staff address.
type Event struct {
	ID        string       `json:"id"`
	Kind      Kind         `json:"kind"`
	RoomID    string       `json:"room_id"`
	Guest     models.Guest `json:"guest"`
	To        string       `json:"to,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

func NewEvent(kind Kind, roomID string, guest models.Guest) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		RoomID:    roomID,
		Guest:     guest,
		CreatedAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Handler interface {
	Handle(ctx context.Context, ev Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev Event) error

func (f HandlerFunc) Handle(ctx context.Context, ev Event) error { return f(ctx, ev) }

func decodeEvent(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event failed: %w", err)
	}
	return ev, nil
}
