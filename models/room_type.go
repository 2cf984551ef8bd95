package models

import (
	"strconv"
	"strings"
)

// RoomType is derived from the room id; it is never stored independently.
type RoomType string

const (
	RoomSingle RoomType = "Single"
	RoomDouble RoomType = "Double"
	RoomSuite  RoomType = "Suite"
)

const (
	firstRoomNumber = 1202
	lastRoomNumber  = 1227
)

// room numbers inside the range that do not exist in the building
var missingRooms = map[string]bool{
	"1211": true, "1212": true, "1213": true, "1215": true,
	"1216": true, "1217": true, "1224": true,
}

var doubleRooms = map[string]bool{
	"1203": true, "1204": true, "1205": true, "1208": true, "1210": true,
	"1214": true, "1218": true, "1219": true, "1220": true, "1222": true,
	"1223": true, "1225": true, "1227": true,
}

var suiteIDs = []string{"S1", "S2"}

// TypeFor applies the static id -> category rule.
func TypeFor(id string) RoomType {
	switch {
	case strings.HasPrefix(strings.ToUpper(id), "S"):
		return RoomSuite
	case doubleRooms[id]:
		return RoomDouble
	default:
		return RoomSingle
	}
}

func (t RoomType) Prices() Prices {
	switch t {
	case RoomSuite:
		return Prices{Weekday: 35000, Weekend: 30000}
	case RoomDouble:
		return Prices{Weekday: 24000, Weekend: 20000}
	default:
		return Prices{Weekday: 20000, Weekend: 18000}
	}
}

func (t RoomType) Image() string {
	return "/images/" + strings.ToLower(string(t)) + "-placeholder.jpg"
}

// DefaultRooms builds the seed inventory. The result is identical on every call.
func DefaultRooms() []Room {
	rooms := make([]Room, 0, lastRoomNumber-firstRoomNumber+1+len(suiteIDs))
	for n := firstRoomNumber; n <= lastRoomNumber; n++ {
		id := strconv.Itoa(n)
		if missingRooms[id] {
			continue
		}
		rooms = append(rooms, newRoom(id))
	}
	for _, id := range suiteIDs {
		rooms = append(rooms, newRoom(id))
	}
	return rooms
}

func newRoom(id string) Room {
	t := TypeFor(id)
	return Room{
		ID:     id,
		Type:   t,
		Status: StatusAvailable,
		Prices: t.Prices(),
		Image:  t.Image(),
	}
}
