package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"resort-backend/controllers"
	"resort-backend/middleware"
	"resort-backend/services"
)

type Controllers struct {
	Rooms     *controllers.RoomController
	Menu      *controllers.MenuController
	Auth      *controllers.AuthController
	Contact   *controllers.ContactController
	Reminders *controllers.ReminderController
}

// SetupRouter wires every endpoint. Receptionist-only routes sit behind the
// admin session cookie.
func SetupRouter(ctl Controllers, auth *services.AuthService, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	r.Static("/images", "./public/images")

	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	admin := middleware.RequireAdmin(auth)

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.GetRooms)
			rooms.POST("", ctl.Rooms.BookRoom)
			rooms.PATCH("", admin, ctl.Rooms.UpdateStatus)
			rooms.POST("/reset", admin, ctl.Rooms.ResetRooms)
		}

		api.GET("/menu", ctl.Menu.GetMenus)
		api.POST("/menu", admin, ctl.Menu.UpdatePrices)

		api.POST("/admin-login", ctl.Auth.AdminLogin)
		api.POST("/admin-logout", ctl.Auth.AdminLogout)

		api.POST("/sendMail", ctl.Contact.SendMail)

		api.GET("/checkout-reminder", ctl.Reminders.SendCheckoutReminders)
		api.GET("/reminders", ctl.Reminders.SendCheckoutReminders)
	}

	return r
}
