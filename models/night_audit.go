package models

import (
	"time"

	"gorm.io/datatypes"
)

// Night audit run statuses.
const (
	AuditInProgress = "in_progress"
	AuditCompleted  = "completed"
)

// NightAuditRun is the end-of-day close for one business date. The
// unique index on audit_date is what makes the run once-per-date: a
// second insert for the same date fails on the constraint no matter
// how the runs race.
type NightAuditRun struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AuditDate time.Time `gorm:"column:audit_date;type:date;uniqueIndex" json:"audit_date"`
	RunAt     time.Time `gorm:"column:run_at" json:"run_at"`
	RunBy     uint      `gorm:"column:run_by" json:"run_by"`
	Status    string    `gorm:"column:status;size:32;default:'in_progress'" json:"status"`

	TotalBookingsPosted int     `gorm:"column:total_bookings_posted" json:"total_bookings_posted"`
	TotalCheckins       int     `gorm:"column:total_checkins" json:"total_checkins"`
	TotalCheckouts      int     `gorm:"column:total_checkouts" json:"total_checkouts"`
	TotalRevenue        float64 `gorm:"column:total_revenue" json:"total_revenue"`
	OccupancyRate       float64 `gorm:"column:occupancy_rate" json:"occupancy_rate"`

	RoomsAvailable   int `gorm:"column:rooms_available" json:"rooms_available"`
	RoomsOccupied    int `gorm:"column:rooms_occupied" json:"rooms_occupied"`
	RoomsReserved    int `gorm:"column:rooms_reserved" json:"rooms_reserved"`
	RoomsMaintenance int `gorm:"column:rooms_maintenance" json:"rooms_maintenance"`
	RoomsDirty       int `gorm:"column:rooms_dirty" json:"rooms_dirty"`

	Notes string `gorm:"column:notes;type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NightAuditDetail records one booking settled by a run, with a JSON
// snapshot of the booking as it stood at posting time.
type NightAuditDetail struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AuditRunID uint `gorm:"index;column:audit_run_id" json:"audit_run_id"`
	BookingID  uint `gorm:"index;column:booking_id" json:"booking_id"`

	RecordType    string  `gorm:"column:record_type;size:32" json:"record_type"`
	Action        string  `gorm:"column:action;size:32" json:"action"`
	BookingStatus string  `gorm:"column:booking_status;size:32" json:"booking_status"`
	TotalAmount   float64 `gorm:"column:total_amount" json:"total_amount"`

	CheckInDate  time.Time `gorm:"column:check_in_date;type:date" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"column:check_out_date;type:date" json:"check_out_date"`

	Snapshot datatypes.JSON `gorm:"column:snapshot" json:"snapshot,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
