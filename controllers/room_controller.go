// controllers/room_controller.go
package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"hotel-pms/models"
	"hotel-pms/services"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

type UpdateRoomStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes,omitempty"`
}

// ----------------------------------------------------
// 1. Get Rooms (GET /api/rooms)
// ----------------------------------------------------

func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.RoomSvc.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// ----------------------------------------------------
// 2. Create Room (POST /api/rooms)
// ----------------------------------------------------

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	created, err := rc.RoomSvc.Create(room)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			log.Printf("❌ Duplicate Room Number: %s", room.RoomNumber)
			c.JSON(http.StatusConflict, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Room Number '%s' already exists.", room.RoomNumber),
			})
			return
		}
		if errors.Is(err, services.ErrRoomTypeNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid room_type_id provided.",
			})
			return
		}
		if strings.HasPrefix(err.Error(), "validation:") {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": strings.TrimSpace(strings.TrimPrefix(err.Error(), "validation:")),
			})
			return
		}
		log.Printf("❌ DB ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ----------------------------------------------------
// 3. Get Room (GET /api/rooms/:id)
// ----------------------------------------------------

func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	room, err := rc.RoomSvc.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, room)
}

// ----------------------------------------------------
// 4. Update Room (PATCH /api/rooms/:id)
// ----------------------------------------------------

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	room, err := rc.RoomSvc.Update(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Room not found"})
		case errors.Is(err, services.ErrRoomTypeNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid room_type_id provided."})
		case strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed"):
			c.JSON(http.StatusConflict, gin.H{"status": "error", "message": "Room number already exists."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, room)
}

// ----------------------------------------------------
// 5. Update Room Status (PATCH /api/rooms/:id/status)
// ----------------------------------------------------

func (rc *RoomController) UpdateRoomStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateRoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	room, err := rc.RoomSvc.UpdateStatus(id, strings.TrimSpace(req.Status), strings.TrimSpace(req.Notes))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Room not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Cannot set room status to '%s' from its current state.", req.Status),
			})
		case strings.HasPrefix(err.Error(), "validation:"):
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": strings.TrimSpace(strings.TrimPrefix(err.Error(), "validation:")),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, room)
}

// ----------------------------------------------------
// 6. Delete Room (DELETE /api/rooms/:id)
// ----------------------------------------------------

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := rc.RoomSvc.Delete(id); err != nil {
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Room not found"})
		case errors.Is(err, services.ErrRoomHasBookings):
			c.JSON(http.StatusConflict, gin.H{
				"status":  "error",
				"message": "Room still has active bookings.",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Room deleted"})
}

// ----------------------------------------------------
// 7. Sync Room Statuses (POST /api/rooms/sync)
//    Marks rooms occupied for today's confirmed arrivals.
// ----------------------------------------------------

func (rc *RoomController) SyncRoomStatuses(c *gin.Context) {
	changes, err := rc.RoomSvc.MarkTodaysArrivals()
	if err != nil {
		var intErr *services.IntegrityError
		if errors.As(err, &intErr) {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": intErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	log.Printf("✅ Room status sync touched %d room(s)", len(changes))
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"updated": len(changes),
		"changes": changes,
	})
}
