// controllers/guest_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
)

// --- Controller ---
type GuestController struct {
	GuestSvc *services.GuestService
}

// NewGuestController Constructor
func NewGuestController(svc *services.GuestService) *GuestController {
	return &GuestController{
		GuestSvc: svc,
	}
}

func (gc *GuestController) GetGuests(c *gin.Context) {
	guests, err := gc.GuestSvc.GetAll()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guests)
}

func (gc *GuestController) GetGuest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	guest, err := gc.GuestSvc.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrGuestNotFound) {
			utils.JSONError(c, http.StatusNotFound, "guest not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guest)
}

func (gc *GuestController) CreateGuest(c *gin.Context) {
	var guest models.Guest
	if err := c.ShouldBindJSON(&guest); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	created, err := gc.GuestSvc.Create(guest)
	if err != nil {
		if strings.HasPrefix(err.Error(), "validation:") {
			utils.JSONError(c, http.StatusBadRequest, strings.TrimSpace(strings.TrimPrefix(err.Error(), "validation:")))
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

func (gc *GuestController) UpdateGuest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	guest, err := gc.GuestSvc.Update(id, updates)
	if err != nil {
		if errors.Is(err, services.ErrGuestNotFound) {
			utils.JSONError(c, http.StatusNotFound, "guest not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guest)
}
