package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"resort-backend/models"
	"resort-backend/notify"
	"resort-backend/store"
	"resort-backend/utils"
)

// GuestDetails is the booking form. Address is optional.
type GuestDetails struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address"`
	CheckIn  string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"checkOut" validate:"required,datetime=2006-01-02"`
}

func (g GuestDetails) normalized() GuestDetails {
	return GuestDetails{
		Name:     strings.TrimSpace(g.Name),
		Email:    strings.TrimSpace(g.Email),
		Phone:    strings.TrimSpace(g.Phone),
		Address:  strings.TrimSpace(g.Address),
		CheckIn:  strings.TrimSpace(g.CheckIn),
		CheckOut: strings.TrimSpace(g.CheckOut),
	}
}

func (g GuestDetails) guest() *models.Guest {
	return &models.Guest{
		Name:     g.Name,
		Email:    g.Email,
		Phone:    g.Phone,
		Address:  g.Address,
		CheckIn:  g.CheckIn,
		CheckOut: g.CheckOut,
	}
}

// BookingRules are optional date checks applied on top of field validation.
// They only run once the room is known to be Available.
type BookingRules struct {
	RejectPastCheckIn           bool
	RequireCheckInToday         bool
	RequireCheckOutAfterCheckIn bool
}

// DefaultBookingRules enables no date checks.
func DefaultBookingRules() BookingRules {
	return BookingRules{}
}

// Clock returns the current resort-local date.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func (c Clock) Today() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc).Format(dateLayout)
}

type BookingService struct {
	Store  store.RoomStore
	Events notify.Publisher
	Rules  BookingRules
	Clock  Clock
}

func NewBookingService(s store.RoomStore, events notify.Publisher, rules BookingRules, clock Clock) *BookingService {
	return &BookingService{Store: s, Events: events, Rules: rules, Clock: clock}
}

// BookRoom moves an Available room to Pending with the guest attached and
// queues the staff notification. The booking still needs staff approval.
func (s *BookingService) BookRoom(ctx context.Context, roomID string, details GuestDetails) (models.Room, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return models.Room{}, models.Invalid("roomId", "roomId is required")
	}
	details = details.normalized()
	if err := validateStruct(details); err != nil {
		return models.Room{}, err
	}

	guest := details.guest()
	room, err := s.Store.Update(ctx, roomID, func(r *models.Room) error {
		if !r.Available() {
			return &models.RoomUnavailableError{RoomID: r.ID, Status: r.Status}
		}
		if err := s.checkDates(details); err != nil {
			return err
		}
		r.Status = models.StatusPending
		r.Guest = guest
		return nil
	})
	if err != nil {
		return models.Room{}, err
	}

	s.publish(ctx, notify.NewEvent(notify.KindBookingCreated, room.ID, *guest))
	log.Printf("✅ booking request for room %s by %s", room.ID, utils.MaskEmail(guest.Email))
	return room, nil
}

func (s *BookingService) checkDates(d GuestDetails) error {
	today := s.Clock.Today()
	// YYYY-MM-DD compares correctly as a string
	if s.Rules.RequireCheckInToday && d.CheckIn != today {
		return models.Invalid("checkIn", "Check-in must be today.")
	}
	if s.Rules.RejectPastCheckIn && d.CheckIn < today {
		return models.Invalid("checkIn", "Check-in cannot be before today.")
	}
	if s.Rules.RequireCheckOutAfterCheckIn && d.CheckOut <= d.CheckIn {
		return models.Invalid("checkOut", "Check-out must be after check-in.")
	}
	return nil
}

func (s *BookingService) publish(ctx context.Context, ev notify.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		log.Printf("⚠️  failed to queue %s for room %s: %v", ev.Kind, ev.RoomID, err)
	}
}

// BookingMessage is the acknowledgement shown to the guest.
func BookingMessage(roomID string) string {
	return fmt.Sprintf("Booking for Room %s sent for verification.", roomID)
}
