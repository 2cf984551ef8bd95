package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"resort-backend/models"
	"resort-backend/notify"
	"resort-backend/store"
)

type transition struct {
	keepGuest bool
	// guest notification; empty means none
	notify notify.Kind
}

// transitions is the only place that decides which status changes are legal.
var transitions = map[models.RoomStatus]map[models.RoomStatus]transition{
	models.StatusPending: {
		models.StatusOccupied:    {keepGuest: true, notify: notify.KindBookingConfirmed},
		models.StatusAvailable:   {notify: notify.KindBookingRejected},
		models.StatusMaintenance: {},
	},
	models.StatusOccupied: {
		models.StatusAvailable:   {},
		models.StatusMaintenance: {},
	},
	models.StatusMaintenance: {
		models.StatusAvailable: {},
	},
	models.StatusAvailable: {
		models.StatusMaintenance: {},
	},
}

// CanTransition reports whether from -> to is in the transition table.
// Setting a room to its current status is always allowed and changes nothing.
func CanTransition(from, to models.RoomStatus) bool {
	if from == to {
		return true
	}
	_, ok := transitions[from][to]
	return ok
}

type StatusService struct {
	Store  store.RoomStore
	Events notify.Publisher
}

func NewStatusService(s store.RoomStore, events notify.Publisher) *StatusService {
	return &StatusService{Store: s, Events: events}
}

// SetStatus applies a receptionist status change. Guests are kept only for
// Pending -> Occupied; confirmation and rejection emails are queued after
// the change is persisted.
func (s *StatusService) SetStatus(ctx context.Context, roomID, rawStatus string) (models.Room, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return models.Room{}, models.Invalid("roomId", "roomId is required")
	}
	to, ok := models.ParseRoomStatus(rawStatus)
	if !ok {
		return models.Room{}, models.Invalid("status", fmt.Sprintf("Invalid status %q", rawStatus))
	}

	var (
		applied  transition
		previous *models.Guest
	)
	room, err := s.Store.Update(ctx, roomID, func(r *models.Room) error {
		if r.Status == to {
			return nil
		}
		t, ok := transitions[r.Status][to]
		if !ok {
			return &models.TransitionError{RoomID: r.ID, From: r.Status, To: to}
		}
		applied = t
		previous = r.Guest
		r.Status = to
		if !t.keepGuest {
			r.Guest = nil
		}
		return nil
	})
	if err != nil {
		return models.Room{}, err
	}

	log.Printf("✅ room %s -> %s", room.ID, room.Status)
	if applied.notify != "" && previous != nil && previous.Email != "" {
		ev := notify.NewEvent(applied.notify, room.ID, *previous)
		ev.To = previous.Email
		if s.Events != nil {
			if err := s.Events.Publish(ctx, ev); err != nil {
				log.Printf("⚠️  failed to queue %s for room %s: %v", ev.Kind, ev.RoomID, err)
			}
		}
	}
	return room, nil
}

func StatusMessage(room models.Room) string {
	return fmt.Sprintf("Room %s updated to %s", room.ID, room.Status)
}
