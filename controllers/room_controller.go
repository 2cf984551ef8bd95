package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/services"
	"resort-backend/store"
	"resort-backend/utils"
)

type bookRoomPayload struct {
	RoomID string `json:"roomId"`
	services.GuestDetails
}

type updateStatusPayload struct {
	RoomID string `json:"roomId"`
	Status string `json:"status"`
}

type RoomController struct {
	Store    store.RoomStore
	Booking  *services.BookingService
	Statuses *services.StatusService
}

func NewRoomController(s store.RoomStore, booking *services.BookingService, statuses *services.StatusService) *RoomController {
	return &RoomController{Store: s, Booking: booking, Statuses: statuses}
}

// GET /api/rooms
func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.Store.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"rooms": rooms})
}

// POST /api/rooms
func (rc *RoomController) BookRoom(c *gin.Context) {
	var payload bookRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	room, err := rc.Booking.BookRoom(c.Request.Context(), payload.RoomID, payload.GuestDetails)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": services.BookingMessage(room.ID)})
}

// PATCH /api/rooms
func (rc *RoomController) UpdateStatus(c *gin.Context) {
	var payload updateStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	room, err := rc.Statuses.SetStatus(c.Request.Context(), payload.RoomID, payload.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"message": services.StatusMessage(room),
		"room":    room,
	})
}

// POST /api/rooms/reset restores the default inventory. It is the recovery
// path for a corrupted store.
func (rc *RoomController) ResetRooms(c *gin.Context) {
	rooms, err := rc.Store.Reset(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("⚠️  room inventory reset by %s", c.ClientIP())
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"message": "Rooms reset to defaults",
		"rooms":   rooms,
	})
}
