package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/models"
	"resort-backend/utils"
)

// respondError maps domain errors onto the {success:false, message} envelope.
func respondError(c *gin.Context, err error) {
	var (
		verr *models.ValidationError
		uerr *models.RoomUnavailableError
		terr *models.TransitionError
	)
	switch {
	case errors.As(err, &verr):
		utils.JSONError(c, http.StatusBadRequest, verr.Error())
	case errors.As(err, &uerr):
		utils.JSONError(c, http.StatusConflict, uerr.Error())
	case errors.As(err, &terr):
		utils.JSONError(c, http.StatusConflict, terr.Error())
	case errors.Is(err, models.ErrRoomNotFound):
		utils.JSONError(c, http.StatusNotFound, "Room not found")
	case errors.Is(err, models.ErrStorageCorrupted):
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONError(c, http.StatusInternalServerError, "Room data is corrupted; reset required")
	case errors.Is(err, models.ErrStorageUnavailable):
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONError(c, http.StatusServiceUnavailable, "Storage is unavailable, try again later")
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONError(c, http.StatusInternalServerError, "Server error")
	}
}
