package models

import "time"

type HotelSetting struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:255" json:"name"`
	Address string `gorm:"type:text" json:"address"`
	Phone   string `gorm:"size:50" json:"phone"`
	Email   string `gorm:"size:150" json:"email"`

	// Front-desk times as "HH:MM". The auto check-in batch only runs
	// inside this window when enabled.
	CheckInTime        string `gorm:"size:16" json:"check_in_time"`
	CheckOutTime       string `gorm:"size:16" json:"check_out_time"`
	AutoCheckInEnabled bool   `gorm:"default:false" json:"auto_check_in_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
