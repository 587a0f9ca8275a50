// services/occupancy.go
package services

import (
	"errors"

	"hotel-pms/models"

	"gorm.io/gorm"
)

// occupancyCheckRequired applies the validator's skip rules. Creates
// are always checked. Updates are skipped when they move the booking
// into a terminal status, or when they leave the whole party (adults,
// children, infants) untouched.
func occupancyCheckRequired(next, prior *models.Booking) bool {
	if prior == nil {
		return true
	}
	if models.IsTerminalStatus(next.Status) {
		return false
	}
	if next.Adults == prior.Adults &&
		next.Children == prior.Children &&
		next.Infants == prior.Infants {
		return false
	}
	return true
}

// checkOccupancy compares the counted party against the room type
// limit. Adults and children count, infants do not.
func checkOccupancy(adults, children, maxOccupancy int) error {
	total := adults + children
	if total > maxOccupancy {
		return &CapacityViolationError{Total: total, Limit: maxOccupancy}
	}
	return nil
}

// validateOccupancy runs the capacity guard for a booking about to be
// written. prior is nil on create. A missing room or room type is an
// integrity failure, never a silent pass.
func validateOccupancy(tx *gorm.DB, next, prior *models.Booking) error {
	if !occupancyCheckRequired(next, prior) {
		return nil
	}

	var room models.Room
	if err := tx.Preload("RoomType").First(&room, next.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &IntegrityError{Entity: "room", ID: next.RoomID}
		}
		return err
	}
	if room.RoomTypeID == nil {
		return &IntegrityError{Entity: "room_type", ID: 0}
	}
	if room.RoomType.ID == 0 {
		return &IntegrityError{Entity: "room_type", ID: *room.RoomTypeID}
	}

	return checkOccupancy(next.Adults, next.Children, room.RoomType.MaxOccupancy)
}
