package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"resort-backend/models"
)

// decodeRooms validates and decodes a persisted room array. Every element
// needs a string id, a known status and numeric weekday/weekend prices;
// anything else is ErrStorageCorrupted.
func decodeRooms(raw []byte) ([]models.Room, error) {
	raw = bytes.TrimSpace(raw)

	// some writers stored the array as a JSON string
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrStorageCorrupted, err)
		}
		raw = bytes.TrimSpace([]byte(inner))
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var generic []map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageCorrupted, err)
	}

	rooms := make([]models.Room, 0, len(generic))
	for i, el := range generic {
		room, err := decodeRoom(el)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", models.ErrStorageCorrupted, i, err)
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func decodeRoom(el map[string]any) (models.Room, error) {
	id, ok := el["id"].(string)
	if !ok || id == "" {
		return models.Room{}, fmt.Errorf("missing string id")
	}
	rawStatus, ok := el["status"].(string)
	if !ok {
		return models.Room{}, fmt.Errorf("room %s: missing string status", id)
	}
	status, ok := models.ParseRoomStatus(rawStatus)
	if !ok {
		return models.Room{}, fmt.Errorf("room %s: unknown status %q", id, rawStatus)
	}
	prices, ok := el["prices"].(map[string]any)
	if !ok {
		return models.Room{}, fmt.Errorf("room %s: missing prices", id)
	}
	weekday, okD := prices["weekday"].(float64)
	weekend, okE := prices["weekend"].(float64)
	if !okD || !okE {
		return models.Room{}, fmt.Errorf("room %s: prices must be numeric", id)
	}

	room := models.Room{
		ID:     id,
		Status: status,
		Prices: models.Prices{Weekday: int64(weekday), Weekend: int64(weekend)},
	}
	if t, ok := el["type"].(string); ok && t != "" {
		room.Type = models.RoomType(t)
	} else {
		room.Type = models.TypeFor(id)
	}
	if img, ok := el["image"].(string); ok {
		room.Image = img
	}
	if g, ok := el["guest"]; ok && g != nil {
		b, err := json.Marshal(g)
		if err != nil {
			return models.Room{}, err
		}
		var guest models.Guest
		if err := json.Unmarshal(b, &guest); err != nil {
			return models.Room{}, fmt.Errorf("room %s: bad guest: %v", id, err)
		}
		room.Guest = &guest
	}
	return room, nil
}

func encodeRooms(rooms []models.Room) ([]byte, error) {
	return json.MarshalIndent(rooms, "", "  ")
}
