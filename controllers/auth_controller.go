package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/services"
	"resort-backend/utils"
)

type loginPayload struct {
	Pin string `json:"pin"`
}

type AuthController struct {
	Auth         *services.AuthService
	SecureCookie bool
}

func NewAuthController(auth *services.AuthService, secureCookie bool) *AuthController {
	return &AuthController{Auth: auth, SecureCookie: secureCookie}
}

func (ac *AuthController) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(services.AdminCookieName, value, maxAge, "/", "", ac.SecureCookie, true)
}

// POST /api/admin-login
func (ac *AuthController) AdminLogin(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	token, err := ac.Auth.Login(payload.Pin)
	if err != nil {
		log.Printf("⚠️  failed admin login from %s", c.ClientIP())
		utils.JSONError(c, http.StatusUnauthorized, "Invalid PIN")
		return
	}
	ac.setCookie(c, token, int(ac.Auth.TTL().Seconds()))
	utils.JSONSuccess(c, http.StatusOK, nil)
}

// POST /api/admin-logout
func (ac *AuthController) AdminLogout(c *gin.Context) {
	ac.setCookie(c, "", -1)
	utils.JSONSuccess(c, http.StatusOK, nil)
}
