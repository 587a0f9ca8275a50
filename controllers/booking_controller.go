// controllers/booking_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"hotel-pms/services"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateBookingRequest struct {
	GuestID      uint   `json:"guest_id" binding:"required"`
	RoomID       uint   `json:"room_id" binding:"required"`
	CheckInDate  string `json:"check_in_date" binding:"required"`
	CheckOutDate string `json:"check_out_date" binding:"required"`

	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`

	RoomRate        *float64 `json:"room_rate,omitempty"`
	Status          string   `json:"status,omitempty"`
	PaymentStatus   string   `json:"payment_status,omitempty"`
	Source          string   `json:"source,omitempty"`
	SpecialRequests string   `json:"special_requests,omitempty"`
	Remarks         string   `json:"remarks,omitempty"`
	CreatedBy       *uint    `json:"created_by,omitempty"`
}

type UpdateBookingRequest struct {
	RoomID          *uint    `json:"room_id,omitempty"`
	CheckInDate     *string  `json:"check_in_date,omitempty"`
	CheckOutDate    *string  `json:"check_out_date,omitempty"`
	Adults          *int     `json:"adults,omitempty"`
	Children        *int     `json:"children,omitempty"`
	Infants         *int     `json:"infants,omitempty"`
	RoomRate        *float64 `json:"room_rate,omitempty"`
	Status          *string  `json:"status,omitempty"`
	PaymentStatus   *string  `json:"payment_status,omitempty"`
	Source          *string  `json:"source,omitempty"`
	SpecialRequests *string  `json:"special_requests,omitempty"`
	Remarks         *string  `json:"remarks,omitempty"`
	UpdatedBy       *uint    `json:"updated_by,omitempty"`
}

type CancelBookingRequest struct {
	Reason     string `json:"reason,omitempty"`
	OperatorID *uint  `json:"operator_id,omitempty"`
}

type OperatorRequest struct {
	OperatorID *uint `json:"operator_id,omitempty"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

// ---------------------------
// Helpers
// ---------------------------

// parseIDParam reads the numeric :id path param.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "error.invalidId",
				"message": "id must be a positive integer",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// respondBookingError maps service errors onto HTTP statuses with the
// structured envelope the frontend expects.
func respondBookingError(c *gin.Context, err error) {
	var capErr *services.CapacityViolationError
	if errors.As(err, &capErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "error.capacityViolation",
				"message": capErr.Error(),
				"details": gin.H{
					"total_guests":  capErr.Total,
					"max_occupancy": capErr.Limit,
				},
			},
		})
		return
	}

	var intErr *services.IntegrityError
	if errors.As(err, &intErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.integrity", "message": intErr.Error()},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrGuestNotFound),
		errors.Is(err, services.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{"code": "error.notFound", "message": err.Error()},
		})
	case errors.Is(err, services.ErrRoomConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{"code": "error.roomConflict", "message": "Room is already booked for these dates"},
		})
	case errors.Is(err, services.ErrRoomNotReady),
		errors.Is(err, services.ErrRoomUnavailable),
		errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{"code": "error.conflict", "message": err.Error()},
		})
	case strings.HasPrefix(err.Error(), "validation:"):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "error.validation",
				"message": strings.TrimSpace(strings.TrimPrefix(err.Error(), "validation:")),
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": err.Error()},
		})
	}
}

// ---------------------------
// Handlers
// ---------------------------

// GetBookings (GET /api/bookings?status=&date=&room_id=&guest_id=)
func (bc *BookingController) GetBookings(c *gin.Context) {
	filter := services.BookingFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Date:   strings.TrimSpace(c.Query("date")),
	}
	if v := c.Query("room_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			filter.RoomID = uint(id)
		}
	}
	if v := c.Query("guest_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			filter.GuestID = uint(id)
		}
	}

	bookings, err := bc.BookingSvc.ListBookings(filter)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CreateBooking (POST /api/bookings)
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "error.badRequest",
				"message": "Invalid request payload",
				"details": err.Error(),
			},
		})
		return
	}

	booking, err := bc.BookingSvc.CreateBooking(services.CreateBookingInput{
		GuestID:         req.GuestID,
		RoomID:          req.RoomID,
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		Adults:          req.Adults,
		Children:        req.Children,
		Infants:         req.Infants,
		RoomRate:        req.RoomRate,
		Status:          req.Status,
		PaymentStatus:   req.PaymentStatus,
		Source:          req.Source,
		SpecialRequests: req.SpecialRequests,
		Remarks:         req.Remarks,
		CreatedBy:       req.CreatedBy,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBookingDetails (GET /api/bookings/:id)
func (bc *BookingController) GetBookingDetails(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	booking, err := bc.BookingSvc.GetBooking(id)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateBooking (PATCH /api/bookings/:id)
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "error.badRequest",
				"message": "Invalid request payload",
				"details": err.Error(),
			},
		})
		return
	}

	booking, err := bc.BookingSvc.UpdateBooking(id, services.UpdateBookingInput{
		RoomID:          req.RoomID,
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		Adults:          req.Adults,
		Children:        req.Children,
		Infants:         req.Infants,
		RoomRate:        req.RoomRate,
		Status:          req.Status,
		PaymentStatus:   req.PaymentStatus,
		Source:          req.Source,
		SpecialRequests: req.SpecialRequests,
		Remarks:         req.Remarks,
		UpdatedBy:       req.UpdatedBy,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CheckIn (POST /api/bookings/:id/checkin)
func (bc *BookingController) CheckIn(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req OperatorRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := bc.BookingSvc.CheckIn(id, req.OperatorID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CheckOut (POST /api/bookings/:id/checkout)
func (bc *BookingController) CheckOut(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req OperatorRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := bc.BookingSvc.CheckOut(id, req.OperatorID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Cancel (POST /api/bookings/:id/cancel)
func (bc *BookingController) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := bc.BookingSvc.Cancel(id, req.Reason, req.OperatorID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GetHistory (GET /api/bookings/:id/history)
func (bc *BookingController) GetHistory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	history, err := bc.BookingSvc.GetHistory(id)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// AutoCheckIn (POST /api/bookings/auto-checkin) flips today's
// confirmed arrivals when the hotel setting allows it.
func (bc *BookingController) AutoCheckIn(c *gin.Context) {
	count, err := bc.BookingSvc.AutoCheckInTodaysArrivals()
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checked_in": count})
}
