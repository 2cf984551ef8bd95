package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/models"
	"resort-backend/services"
	"resort-backend/utils"
)

type ContactController struct {
	Contact *services.ContactService
}

func NewContactController(s *services.ContactService) *ContactController {
	return &ContactController{Contact: s}
}

// POST /api/sendMail
func (cc *ContactController) SendMail(c *gin.Context) {
	var msg services.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := cc.Contact.Send(c.Request.Context(), msg); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			respondError(c, err)
			return
		}
		log.Printf("❌ contact mail failed: %v", err)
		utils.JSONError(c, http.StatusBadGateway, "Failed to send message")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Message sent"})
}
