package models

import (
	"strings"
)

// RoomStatus is the lifecycle state of a room. The string values are what
// clients send and what is persisted.
type RoomStatus string

const (
	StatusAvailable   RoomStatus = "Available"
	StatusPending     RoomStatus = "Pending"
	StatusOccupied    RoomStatus = "Occupied"
	StatusMaintenance RoomStatus = "Under Maintenance"
)

var allStatuses = []RoomStatus{StatusAvailable, StatusPending, StatusOccupied, StatusMaintenance}

// ParseRoomStatus normalizes case and spacing ("under maintenance",
// " OCCUPIED ") to the canonical value.
func ParseRoomStatus(raw string) (RoomStatus, bool) {
	s := strings.Join(strings.Fields(raw), " ")
	for _, st := range allStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is one of the canonical values.
func (s RoomStatus) Valid() bool {
	for _, st := range allStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// HoldsGuest reports whether a room in this status carries a guest record.
func (s RoomStatus) HoldsGuest() bool {
	return s == StatusPending || s == StatusOccupied
}

// Guest is the booking party attached to a Pending or Occupied room.
// Dates use the YYYY-MM-DD layout.
type Guest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

type Prices struct {
	Weekday int64 `json:"weekday"`
	Weekend int64 `json:"weekend"`
}

type Room struct {
	ID     string     `json:"id"`
	Type   RoomType   `json:"type"`
	Status RoomStatus `json:"status"`
	Guest  *Guest     `json:"guest,omitempty"`
	Prices Prices     `json:"prices"`
	Image  string     `json:"image,omitempty"`
}

// Available reports whether the room may accept a new booking.
func (r Room) Available() bool {
	return r.Status == StatusAvailable
}
