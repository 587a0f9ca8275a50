package models

import (
	"time"

	"gorm.io/datatypes"
)

// BookingHistory is an append-only trail of lifecycle events on a
// booking (created, updated, checked_in, checked_out, cancelled,
// auto_checked_in, posted). Rows are never updated or deleted.
type BookingHistory struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint           `gorm:"index;column:booking_id" json:"booking_id"`
	Action    string         `gorm:"column:action;size:64;index" json:"action"`
	Details   datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
	CreatedBy *uint          `gorm:"column:created_by" json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
