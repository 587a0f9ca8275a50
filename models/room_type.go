package models

import (
	"time"

	"gorm.io/gorm"
)

type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TypeName    string `json:"type_name" gorm:"uniqueIndex;size:100"`
	Description string `json:"description"`

	// MaxOccupancy is the capacity limit the booking validator enforces
	// (adults + children; infants are not counted).
	MaxOccupancy int     `json:"max_occupancy" gorm:"check:chk_room_type_capacity,max_occupancy > 0"`
	BaseRate     float64 `json:"base_rate"`

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
