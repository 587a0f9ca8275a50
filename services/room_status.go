// services/room_status.go
package services

import (
	"errors"
	"fmt"

	"hotel-pms/models"
	"hotel-pms/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NextRoomStatus decides how a room reacts to its booking's status. It
// is a pure function so the whole table can be tested without a
// database. Rules are checked in order, first match wins:
//
//  1. checked_in / auto_checked_in  -> occupied, unless the room is
//     already occupied or is held in maintenance / out_of_order
//  2. checked_out                   -> dirty, only from occupied
//  3. confirmed / pending arriving today -> occupied, from available
//     or reserved
//  4. confirmed / pending arriving later -> reserved, from available
//  5. cancelled / no_show           -> available, from occupied or
//     reserved, but only when no other active booking still claims
//     the room
//
// Anything else leaves the room alone. maintenance and out_of_order
// are never written over.
func NextRoomStatus(bookingStatus, roomStatus string, checkInIsToday, hasOtherActive bool) (string, bool) {
	switch bookingStatus {
	case models.BookingCheckedIn, models.BookingAutoCheckedIn:
		switch roomStatus {
		case models.RoomOccupied, models.RoomMaintenance, models.RoomOutOfOrder:
			return roomStatus, false
		}
		return models.RoomOccupied, true

	case models.BookingCheckedOut:
		if roomStatus == models.RoomOccupied {
			return models.RoomDirty, true
		}
		return roomStatus, false

	case models.BookingConfirmed, models.BookingPending:
		if checkInIsToday {
			if roomStatus == models.RoomAvailable || roomStatus == models.RoomReserved {
				return models.RoomOccupied, true
			}
			return roomStatus, false
		}
		if roomStatus == models.RoomAvailable {
			return models.RoomReserved, true
		}
		return roomStatus, false

	case models.BookingCancelled, models.BookingNoShow:
		if hasOtherActive {
			return roomStatus, false
		}
		if roomStatus == models.RoomOccupied || roomStatus == models.RoomReserved {
			return models.RoomAvailable, true
		}
		return roomStatus, false
	}

	return roomStatus, false
}

// RoomStatusChange reports one room the synchronizer touched.
type RoomStatusChange struct {
	RoomID     uint   `json:"room_id"`
	RoomNumber string `json:"room_number"`
	OldStatus  string `json:"old_status"`
	NewStatus  string `json:"new_status"`
}

// hasOtherActiveBookings reports whether any booking other than
// excludeID still claims the room: active status and a check-out date
// of today or later.
func hasOtherActiveBookings(tx *gorm.DB, roomID, excludeID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Booking{}).
		Where("room_id = ? AND id != ?", roomID, excludeID).
		Where("status IN ?", models.ActiveBookingStatuses).
		Where("check_out_date >= ?", utils.Today()).
		Count(&count).Error
	return count > 0, err
}

// syncRoomStatus applies the transition table to the booking's room
// inside the caller's transaction. The room row is locked first so
// concurrent bookings on the same room serialize.
func syncRoomStatus(tx *gorm.DB, b *models.Booking) error {
	var room models.Room
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, b.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &IntegrityError{Entity: "room", ID: b.RoomID}
		}
		return err
	}

	hasOther := false
	if b.Status == models.BookingCancelled || b.Status == models.BookingNoShow {
		var err error
		hasOther, err = hasOtherActiveBookings(tx, b.RoomID, b.ID)
		if err != nil {
			return err
		}
	}

	next, changed := NextRoomStatus(b.Status, room.Status, utils.SameDate(b.CheckInDate, utils.Today()), hasOther)
	if !changed {
		return nil
	}

	return tx.Model(&models.Room{}).
		Where("id = ?", room.ID).
		Updates(map[string]interface{}{
			"status":       next,
			"status_notes": statusNote(next, b),
		}).Error
}

func statusNote(next string, b *models.Booking) string {
	switch next {
	case models.RoomOccupied:
		return fmt.Sprintf("Booking %s - guest in house", b.BookingNumber)
	case models.RoomReserved:
		return fmt.Sprintf("Reserved for booking %s", b.BookingNumber)
	case models.RoomDirty:
		return "Needs housekeeping after checkout"
	}
	return ""
}

// MarkTodaysArrivals walks every confirmed or pending booking arriving
// today and moves its room to occupied where the table allows it. It
// returns the rooms that actually changed.
func (s *RoomService) MarkTodaysArrivals() ([]RoomStatusChange, error) {
	changes := []RoomStatusChange{}
	today := utils.Today()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var arrivals []models.Booking
		if err := tx.
			Where("status IN ?", []string{models.BookingConfirmed, models.BookingPending}).
			Where("check_in_date = ?", today).
			Order("id").
			Find(&arrivals).Error; err != nil {
			return err
		}

		for i := range arrivals {
			b := &arrivals[i]

			var room models.Room
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, b.RoomID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &IntegrityError{Entity: "room", ID: b.RoomID}
				}
				return err
			}

			next, changed := NextRoomStatus(b.Status, room.Status, true, false)
			if !changed {
				continue
			}

			if err := tx.Model(&models.Room{}).
				Where("id = ?", room.ID).
				Updates(map[string]interface{}{
					"status":       next,
					"status_notes": fmt.Sprintf("Booking %s - guest arriving today", b.BookingNumber),
				}).Error; err != nil {
				return err
			}

			changes = append(changes, RoomStatusChange{
				RoomID:     room.ID,
				RoomNumber: room.RoomNumber,
				OldStatus:  room.Status,
				NewStatus:  next,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}
