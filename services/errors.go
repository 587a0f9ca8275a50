// services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Sentinel errors shared across services. Controllers map these onto
// HTTP statuses.
var (
	ErrBookingNotFound  = errors.New("booking_not_found")
	ErrGuestNotFound    = errors.New("guest_not_found")
	ErrRoomNotFound     = errors.New("room_not_found")
	ErrRoomTypeNotFound = errors.New("room_type_not_found")
	ErrAuditRunNotFound = errors.New("audit_run_not_found")
	ErrAdminNotFound    = errors.New("admin_not_found")

	// ErrRoomConflict: the room already has an active booking overlapping
	// the requested dates.
	ErrRoomConflict = errors.New("room_already_booked")

	// ErrRoomNotReady: check-in refused because housekeeping has not
	// turned the room around yet.
	ErrRoomNotReady = errors.New("room_not_ready")

	// ErrRoomUnavailable: the room is inactive, under maintenance or out
	// of order.
	ErrRoomUnavailable = errors.New("room_unavailable")

	// ErrInvalidTransition: the requested booking or room status change
	// is not allowed from the current state.
	ErrInvalidTransition = errors.New("invalid_status_transition")

	// ErrRoomHasBookings: the room cannot be deleted while bookings
	// still reference it.
	ErrRoomHasBookings = errors.New("room_has_bookings")
)

// CapacityViolationError is returned when a booking party would exceed
// the room type's occupancy limit. Adults and children count against
// the limit; infants do not.
type CapacityViolationError struct {
	Total int // adults + children
	Limit int // room type max occupancy
}

func (e *CapacityViolationError) Error() string {
	return fmt.Sprintf("occupancy %d exceeds room capacity %d", e.Total, e.Limit)
}

// AuditAlreadyCompletedError is returned when a night audit is started
// for a business date that already has a completed run.
type AuditAlreadyCompletedError struct {
	Date time.Time
}

func (e *AuditAlreadyCompletedError) Error() string {
	return fmt.Sprintf("night audit already completed for %s", e.Date.Format("2006-01-02"))
}

// IntegrityError marks referential breakage (a booking pointing at a
// room or room type that no longer exists). It aborts the enclosing
// transaction instead of being skipped over.
type IntegrityError struct {
	Entity string
	ID     uint
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity error: %s %d not found", e.Entity, e.ID)
}

// isDuplicateKey reports whether err is a unique constraint violation.
// MySQL surfaces error 1062; the string checks cover other drivers.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}
