package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/services"
	"resort-backend/utils"
)

type ReminderController struct {
	Reminders *services.ReminderService
}

func NewReminderController(s *services.ReminderService) *ReminderController {
	return &ReminderController{Reminders: s}
}

// GET /api/checkout-reminder and /api/reminders
func (rc *ReminderController) SendCheckoutReminders(c *gin.Context) {
	sent, err := rc.Reminders.CheckoutReminders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"sent": sent})
}
