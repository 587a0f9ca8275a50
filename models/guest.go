package models

import (
	"strings"
	"time"
)

type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FirstName string `json:"first_name" gorm:"size:100"`
	LastName  string `json:"last_name" gorm:"size:100"`

	Email       string `json:"email" gorm:"size:150"`
	Phone       string `json:"phone" gorm:"size:50"`
	Nationality string `json:"nationality" gorm:"size:100"`
	IDNumber    string `json:"id_number" gorm:"size:64"`
}

func (g *Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}
