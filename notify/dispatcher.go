package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Dispatcher turns events into emails.
type Dispatcher struct {
	Mailer     Mailer
	StaffEmail string
	ResortName string
}

func NewDispatcher(m Mailer, staffEmail, resortName string) *Dispatcher {
	return &Dispatcher{Mailer: m, StaffEmail: staffEmail, ResortName: resortName}
}

func (d *Dispatcher) Handle(ctx context.Context, ev Event) error {
	var msg Message
	switch ev.Kind {
	case KindBookingCreated:
		msg = renderBookingCreated(ev, d.ResortName)
		msg.To = d.StaffEmail
	case KindCheckoutReminder:
		msg = renderCheckoutReminder(ev, d.ResortName)
		msg.To = d.StaffEmail
	case KindBookingConfirmed:
		msg = renderBookingConfirmed(ev, d.ResortName)
	case KindBookingRejected:
		msg = renderBookingRejected(ev, d.ResortName)
	default:
		log.Printf("[notify] skip unknown kind=%s id=%s", ev.Kind, ev.ID)
		return nil
	}
	if ev.To != "" {
		msg.To = ev.To
	}
	if strings.TrimSpace(msg.To) == "" {
		// nothing to retry: the address will not appear later
		log.Printf("⚠️  [notify] no recipient for %s room=%s; dropped", ev.Kind, ev.RoomID)
		return nil
	}
	if err := d.Mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("%s for room %s: %w", ev.Kind, ev.RoomID, err)
	}
	return nil
}
