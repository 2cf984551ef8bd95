package models

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound       = errors.New("room_not_found")
	ErrStorageUnavailable = errors.New("storage_unavailable")
	// ErrStorageCorrupted means the persisted room payload failed validation.
	// Recovery is an explicit reset by the operator.
	ErrStorageCorrupted = errors.New("storage_corrupted")
)

// RoomUnavailableError is returned when a booking targets a room that is not Available.
type RoomUnavailableError struct {
	RoomID string
	Status RoomStatus
}

func (e *RoomUnavailableError) Error() string {
	return fmt.Sprintf("Room %s is %s", e.RoomID, e.Status)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return e.Message
}

// TransitionError is returned for a status change outside the allowed table.
type TransitionError struct {
	RoomID string
	From   RoomStatus
	To     RoomStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Room %s cannot move from %s to %s", e.RoomID, e.From, e.To)
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
