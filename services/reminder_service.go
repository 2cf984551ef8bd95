package services

import (
	"context"
	"log"
	"sync"

	"resort-backend/models"
	"resort-backend/notify"
	"resort-backend/store"
)

type ReminderService struct {
	Store  store.RoomStore
	Events notify.Publisher
	Clock  Clock

	mu       sync.Mutex
	reminded map[string]string // room id -> checkout date already reminded by the scheduler
}

func NewReminderService(s store.RoomStore, events notify.Publisher, clock Clock) *ReminderService {
	return &ReminderService{Store: s, Events: events, Clock: clock}
}

// DueCheckouts lists occupied rooms whose guest checks out today.
func (s *ReminderService) DueCheckouts(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	today := s.Clock.Today()
	var due []models.Room
	for _, r := range rooms {
		if r.Status == models.StatusOccupied && r.Guest != nil && r.Guest.CheckOut == today {
			due = append(due, r)
		}
	}
	return due, nil
}

// CheckoutReminders queues one staff reminder per due room and returns how
// many were queued.
func (s *ReminderService) CheckoutReminders(ctx context.Context) (int, error) {
	due, err := s.DueCheckouts(ctx)
	if err != nil {
		return 0, err
	}
	return len(s.publish(ctx, due)), nil
}

// ScheduledReminders is the periodic variant: each room is reminded at most
// once per checkout date. A room whose reminder could not be queued is
// retried on the next scan.
func (s *ReminderService) ScheduledReminders(ctx context.Context) (int, error) {
	due, err := s.DueCheckouts(ctx)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reminded == nil {
		s.reminded = map[string]string{}
	}
	fresh := due[:0]
	for _, r := range due {
		if s.reminded[r.ID] != r.Guest.CheckOut {
			fresh = append(fresh, r)
		}
	}
	queued := s.publish(ctx, fresh)
	for _, r := range queued {
		s.reminded[r.ID] = r.Guest.CheckOut
	}
	return len(queued), nil
}

// publish returns the rooms whose reminder was accepted by the queue.
func (s *ReminderService) publish(ctx context.Context, due []models.Room) []models.Room {
	if s.Events == nil {
		return nil
	}
	var queued []models.Room
	for _, r := range due {
		ev := notify.NewEvent(notify.KindCheckoutReminder, r.ID, *r.Guest)
		if err := s.Events.Publish(ctx, ev); err != nil {
			log.Printf("⚠️  failed to queue checkout reminder for room %s: %v", r.ID, err)
			continue
		}
		queued = append(queued, r)
	}
	if len(queued) > 0 {
		log.Printf("📨 queued %d checkout reminder(s)", len(queued))
	}
	return queued
}
