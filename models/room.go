package models

import (
	"time"

	"gorm.io/gorm"
)

// Room statuses. "reserved" and "occupied" are owned by the booking
// synchronizer; the housekeeping states move through the status endpoint.
const (
	RoomAvailable   = "available"
	RoomReserved    = "reserved"
	RoomOccupied    = "occupied"
	RoomDirty       = "dirty"
	RoomCleaning    = "cleaning"
	RoomMaintenance = "maintenance"
	RoomOutOfOrder  = "out_of_order"
)

type Room struct {
	gorm.Model

	// Make RoomTypeID nullable so a room can exist before its type is assigned.
	RoomTypeID *uint  `json:"room_type_id,omitempty" gorm:"column:room_type_id"`
	RoomNumber string `json:"room_number" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`

	Floor       string  `json:"floor" gorm:"type:varchar(10)"`
	Price       float64 `json:"price"`
	Status      string  `json:"status" gorm:"size:32;default:'available'"`
	StatusNotes string  `json:"status_notes" gorm:"column:status_notes;type:text"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`

	// Stamped by the night audit only.
	LastPostedStatus string     `json:"last_posted_status" gorm:"size:32"`
	LastPostedDate   *time.Time `json:"last_posted_date" gorm:"type:date"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
}

// IsRoomStatus reports whether s is one of the known room statuses.
func IsRoomStatus(s string) bool {
	switch s {
	case RoomAvailable, RoomReserved, RoomOccupied, RoomDirty, RoomCleaning, RoomMaintenance, RoomOutOfOrder:
		return true
	}
	return false
}
