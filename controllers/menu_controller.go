package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/models"
	"resort-backend/services"
	"resort-backend/utils"
)

type MenuController struct {
	Menu *services.MenuService
}

func NewMenuController(m *services.MenuService) *MenuController {
	return &MenuController{Menu: m}
}

// GET /api/menu
func (mc *MenuController) GetMenus(c *gin.Context) {
	menus, err := mc.Menu.Menus()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": menus})
}

// POST /api/menu {"Restaurant": {"id": price}, "Lounge": {...}}
func (mc *MenuController) UpdatePrices(c *gin.Context) {
	var overrides models.PriceOverrides
	if err := c.ShouldBindJSON(&overrides); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	prices, err := mc.Menu.UpdatePrices(overrides)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Menu prices updated", "prices": prices})
}
