package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking statuses.
const (
	BookingPending       = "pending"
	BookingConfirmed     = "confirmed"
	BookingCheckedIn     = "checked_in"
	BookingAutoCheckedIn = "auto_checked_in"
	BookingCheckedOut    = "checked_out"
	BookingCancelled     = "cancelled"
	BookingNoShow        = "no_show"
	BookingCompleted     = "completed"
)

// Payment statuses.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPartial  = "partial"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// ActiveBookingStatuses are the statuses that hold a claim on a room.
// A booking in one of these with check_out_date >= today blocks the
// room from being released back to available.
var ActiveBookingStatuses = []string{
	BookingPending,
	BookingConfirmed,
	BookingCheckedIn,
	BookingAutoCheckedIn,
}

// TerminalBookingStatuses are the end states a booking cannot leave.
var TerminalBookingStatuses = []string{
	BookingCheckedOut,
	BookingCancelled,
	BookingNoShow,
	BookingCompleted,
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BookingNumber string `gorm:"column:booking_number;uniqueIndex;size:64" json:"booking_number"`
	GuestID       uint   `gorm:"index;column:guest_id" json:"guest_id"`
	RoomID        uint   `gorm:"index;column:room_id" json:"room_id"`

	CheckInDate  time.Time `gorm:"column:check_in_date;type:date" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"column:check_out_date;type:date;check:chk_booking_dates,check_out_date > check_in_date" json:"check_out_date"`
	Nights       int       `gorm:"column:nights" json:"nights"`

	Adults   int `gorm:"column:adults;default:1;check:chk_booking_party,adults + children + infants > 0" json:"adults"`
	Children int `gorm:"column:children;default:0" json:"children"`
	Infants  int `gorm:"column:infants;default:0" json:"infants"`

	RoomRate    float64 `gorm:"column:room_rate" json:"room_rate"`
	Subtotal    float64 `gorm:"column:subtotal" json:"subtotal"`
	TaxAmount   float64 `gorm:"column:tax_amount" json:"tax_amount"`
	TotalAmount float64 `gorm:"column:total_amount" json:"total_amount"`

	Status        string `gorm:"column:status;size:32;default:'confirmed'" json:"status"`
	PaymentStatus string `gorm:"column:payment_status;size:32;default:'unpaid'" json:"payment_status"`
	Source        string `gorm:"column:source;size:32;default:'walk_in'" json:"source"`

	SpecialRequests string `gorm:"column:special_requests;type:text" json:"special_requests,omitempty"`
	Remarks         string `gorm:"column:remarks;type:text" json:"remarks,omitempty"`

	// Night audit bookkeeping. A posted booking is settled into exactly
	// one audit run and is never picked up again.
	IsPosted   bool       `gorm:"column:is_posted;default:false;index" json:"is_posted"`
	PostedDate *time.Time `gorm:"column:posted_date;type:date" json:"posted_date,omitempty"`
	PostedAt   *time.Time `gorm:"column:posted_at" json:"posted_at,omitempty"`
	PostedBy   *uint      `gorm:"column:posted_by" json:"posted_by,omitempty"`

	ActualCheckIn  *time.Time `gorm:"column:actual_check_in" json:"actual_check_in,omitempty"`
	ActualCheckOut *time.Time `gorm:"column:actual_check_out" json:"actual_check_out,omitempty"`
	CancelledAt    *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CancelledBy    *uint      `gorm:"column:cancelled_by" json:"cancelled_by,omitempty"`
	CreatedBy      *uint      `gorm:"column:created_by" json:"created_by,omitempty"`

	Guest Guest `gorm:"foreignKey:GuestID;references:ID" json:"guest,omitempty"`
	Room  Room  `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}

// TotalGuests counts everyone in the party, infants included.
func (b *Booking) TotalGuests() int {
	return b.Adults + b.Children + b.Infants
}

// OccupancyCount is the number the capacity validator compares against
// the room type limit. Infants are excluded.
func (b *Booking) OccupancyCount() int {
	return b.Adults + b.Children
}

// IsBookingStatus reports whether s is one of the known booking statuses.
func IsBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCheckedIn, BookingAutoCheckedIn,
		BookingCheckedOut, BookingCancelled, BookingNoShow, BookingCompleted:
		return true
	}
	return false
}

// IsTerminalStatus reports whether s is an end state.
func IsTerminalStatus(s string) bool {
	switch s {
	case BookingCheckedOut, BookingCancelled, BookingNoShow, BookingCompleted:
		return true
	}
	return false
}

// IsActiveStatus reports whether a booking in status s still claims its room.
func IsActiveStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCheckedIn, BookingAutoCheckedIn:
		return true
	}
	return false
}
