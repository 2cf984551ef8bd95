// Package store persists the room inventory. Three backends share one
// contract: MySQL rows through gorm, a Redis key holding the JSON array, and
// a JSON file. A deployment picks exactly one.
package store

import (
	"context"
	"errors"

	"resort-backend/models"
)

// UpdateFunc mutates a single room in place. Returning an error aborts the
// update and nothing is written.
type UpdateFunc func(room *models.Room) error

type RoomStore interface {
	// List returns all rooms in seed order, seeding the default inventory
	// when the store is empty.
	List(ctx context.Context) ([]models.Room, error)
	// SaveAll replaces the whole collection.
	SaveAll(ctx context.Context, rooms []models.Room) error
	// Update runs fn against one room as an atomic read-modify-write.
	Update(ctx context.Context, id string, fn UpdateFunc) (models.Room, error)
	// Reset discards the persisted rooms and reseeds.
	Reset(ctx context.Context) ([]models.Room, error)
}

func findRoom(rooms []models.Room, id string) int {
	for i := range rooms {
		if rooms[i].ID == id {
			return i
		}
	}
	return -1
}

// applyUpdate runs fn against a copy so a failed fn leaves rooms untouched.
func applyUpdate(rooms []models.Room, id string, fn UpdateFunc) (models.Room, error) {
	i := findRoom(rooms, id)
	if i < 0 {
		return models.Room{}, models.ErrRoomNotFound
	}
	room := cloneRoom(rooms[i])
	if err := fn(&room); err != nil {
		return models.Room{}, err
	}
	rooms[i] = room
	return room, nil
}

func cloneRoom(r models.Room) models.Room {
	if r.Guest != nil {
		g := *r.Guest
		r.Guest = &g
	}
	return r
}

// callbackError marks errors that came from applyUpdate (not found, or the
// caller's fn) so backends can return them unwrapped.
type callbackError struct{ err error }

func (e callbackError) Error() string { return e.err.Error() }
func (e callbackError) Unwrap() error { return e.err }

func unwrapCallback(err error) error {
	var cb callbackError
	if errors.As(err, &cb) {
		return cb.err
	}
	return err
}
