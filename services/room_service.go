// services/room_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"hotel-pms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomService covers room CRUD plus the manual status overrides used
// by housekeeping and maintenance. reserved and occupied are owned by
// the booking synchronizer and can never be set by hand.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) GetAll() ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Preload("RoomType").Order("room_number").Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) GetByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.Preload("RoomType").First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) Create(room models.Room) (*models.Room, error) {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return nil, errors.New("validation: room_number is required")
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	if !models.IsRoomStatus(room.Status) {
		return nil, fmt.Errorf("validation: unknown room status %q", room.Status)
	}
	if room.RoomTypeID != nil {
		var rt models.RoomType
		if err := s.DB.First(&rt, *room.RoomTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoomTypeNotFound
			}
			return nil, err
		}
	}
	if err := s.DB.Create(&room).Error; err != nil {
		return nil, err
	}
	return s.GetByID(room.ID)
}

// Update applies a partial update. Status and the audit stamps are
// stripped out; status moves only through UpdateStatus or the
// synchronizer.
func (s *RoomService) Update(id uint, updates map[string]interface{}) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	for _, k := range []string{"id", "ID", "created_at", "updated_at", "deleted_at", "status", "status_notes", "last_posted_status", "last_posted_date"} {
		delete(updates, k)
	}
	if v, ok := updates["room_number"]; ok {
		if num, ok2 := v.(string); ok2 {
			updates["room_number"] = strings.TrimSpace(num)
		}
	}
	if v, ok := updates["room_type_id"]; ok && v != nil {
		var rt models.RoomType
		if err := s.DB.First(&rt, v).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoomTypeNotFound
			}
			return nil, err
		}
	}
	if len(updates) == 0 {
		return s.GetByID(id)
	}

	if err := s.DB.Model(&room).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// manualTransitionAllowed is the hand-driven slice of the room state
// machine. Occupied rooms cannot be pulled out from under a guest, and
// reserved / occupied are never manual targets.
func manualTransitionAllowed(from, to string) bool {
	switch to {
	case models.RoomMaintenance, models.RoomOutOfOrder:
		return from != models.RoomOccupied
	case models.RoomCleaning:
		return from == models.RoomDirty
	case models.RoomAvailable:
		switch from {
		case models.RoomDirty, models.RoomCleaning, models.RoomMaintenance, models.RoomOutOfOrder:
			return true
		}
		return false
	case models.RoomDirty:
		return from == models.RoomAvailable
	}
	return false
}

// UpdateStatus moves a room through the manual transitions. Setting
// the current status again just rewrites the notes.
func (s *RoomService) UpdateStatus(id uint, newStatus, notes string) (*models.Room, error) {
	if !models.IsRoomStatus(newStatus) {
		return nil, fmt.Errorf("validation: unknown room status %q", newStatus)
	}

	var room models.Room
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		if room.Status != newStatus && !manualTransitionAllowed(room.Status, newStatus) {
			return ErrInvalidTransition
		}
		if err := tx.Model(&models.Room{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"status": newStatus, "status_notes": notes}).Error; err != nil {
			return err
		}
		room.Status = newStatus
		room.StatusNotes = notes
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &room, nil
}

// Delete soft deletes a room. Rooms with active bookings stay.
func (s *RoomService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Booking{}).
			Where("room_id = ?", id).
			Where("status IN ?", models.ActiveBookingStatuses).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrRoomHasBookings
		}

		res := tx.Delete(&models.Room{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRoomNotFound
		}
		return nil
	})
}
