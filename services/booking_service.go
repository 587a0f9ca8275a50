// services/booking_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService wraps *gorm.DB with the booking lifecycle: create,
// update, check-in/out, cancel and the auto check-in batch. Every
// mutation runs the occupancy validator and the room status
// synchronizer inside the same transaction as the write itself.
type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

type CreateBookingInput struct {
	GuestID         uint
	RoomID          uint
	CheckInDate     string
	CheckOutDate    string
	Adults          int
	Children        int
	Infants         int
	RoomRate        *float64
	Status          string
	PaymentStatus   string
	Source          string
	SpecialRequests string
	Remarks         string
	CreatedBy       *uint
}

type UpdateBookingInput struct {
	RoomID          *uint
	CheckInDate     *string
	CheckOutDate    *string
	Adults          *int
	Children        *int
	Infants         *int
	RoomRate        *float64
	Status          *string
	PaymentStatus   *string
	Source          *string
	SpecialRequests *string
	Remarks         *string
	UpdatedBy       *uint
}

// BookingFilter narrows ListBookings. Date selects bookings whose stay
// covers that calendar date.
type BookingFilter struct {
	Status  string
	Date    string
	RoomID  uint
	GuestID uint
}

// CreateBooking validates, prices and inserts a new booking, then lets
// the synchronizer move the room. Everything happens in one
// transaction so a capacity violation leaves no trace.
func (s *BookingService) CreateBooking(in CreateBookingInput) (*models.Booking, error) {
	ci, err := utils.ParseDate(in.CheckInDate)
	if err != nil {
		return nil, fmt.Errorf("validation: invalid check_in_date: %w", err)
	}
	co, err := utils.ParseDate(in.CheckOutDate)
	if err != nil {
		return nil, fmt.Errorf("validation: invalid check_out_date: %w", err)
	}
	if !co.After(ci) {
		return nil, errors.New("validation: check_out_date must be after check_in_date")
	}

	adults := in.Adults
	if adults <= 0 {
		adults = 1
	}
	children := in.Children
	if children < 0 {
		children = 0
	}
	infants := in.Infants
	if infants < 0 {
		infants = 0
	}

	status := in.Status
	if status == "" {
		status = models.BookingConfirmed
	}
	if status != models.BookingPending && status != models.BookingConfirmed {
		return nil, errors.New("validation: new bookings must start pending or confirmed")
	}

	payment := in.PaymentStatus
	if payment == "" {
		payment = models.PaymentUnpaid
	}
	source := in.Source
	if source == "" {
		source = "walk_in"
	}

	var created models.Booking
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := tx.First(&guest, in.GuestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGuestNotFound
			}
			return err
		}

		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("RoomType").
			First(&room, in.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		if !room.IsActive || room.Status == models.RoomMaintenance || room.Status == models.RoomOutOfOrder {
			return ErrRoomUnavailable
		}

		if err := ensureNoConflict(tx, in.RoomID, ci, co, 0); err != nil {
			return err
		}

		nights := utils.Nights(ci, co)
		rate := room.Price
		if rate == 0 && room.RoomType.ID != 0 {
			rate = room.RoomType.BaseRate
		}
		if in.RoomRate != nil {
			rate = *in.RoomRate
		}
		subtotal := rate * float64(nights)

		booking := models.Booking{
			BookingNumber:   utils.GenerateBookingNumber(utils.Today()),
			GuestID:         in.GuestID,
			RoomID:          in.RoomID,
			CheckInDate:     ci,
			CheckOutDate:    co,
			Nights:          nights,
			Adults:          adults,
			Children:        children,
			Infants:         infants,
			RoomRate:        rate,
			Subtotal:        subtotal,
			TaxAmount:       0, // rates are tax inclusive, the folio breaks tax out
			TotalAmount:     subtotal,
			Status:          status,
			PaymentStatus:   payment,
			Source:          source,
			SpecialRequests: in.SpecialRequests,
			Remarks:         in.Remarks,
			CreatedBy:       in.CreatedBy,
		}

		if err := validateOccupancy(tx, &booking, nil); err != nil {
			return err
		}

		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if err := writeBookingHistory(tx, booking.ID, "created", map[string]interface{}{
			"booking_number": booking.BookingNumber,
			"room_id":        booking.RoomID,
			"check_in_date":  ci.Format("2006-01-02"),
			"check_out_date": co.Format("2006-01-02"),
			"total_amount":   booking.TotalAmount,
		}, in.CreatedBy); err != nil {
			return err
		}

		if err := syncRoomStatus(tx, &booking); err != nil {
			return err
		}

		created = booking
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.DB.Preload("Guest").Preload("Room").Preload("Room.RoomType").
		First(&created, created.ID).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateBooking applies a partial update. The occupancy validator runs
// with its skip rules, the conflict check reruns when dates or room
// move, and the synchronizer sees the final state.
func (s *BookingService) UpdateBooking(id uint, in UpdateBookingInput) (*models.Booking, error) {
	var updated models.Booking
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var prior models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&prior, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		next := prior

		if in.CheckInDate != nil {
			ci, err := utils.ParseDate(*in.CheckInDate)
			if err != nil {
				return fmt.Errorf("validation: invalid check_in_date: %w", err)
			}
			next.CheckInDate = ci
		}
		if in.CheckOutDate != nil {
			co, err := utils.ParseDate(*in.CheckOutDate)
			if err != nil {
				return fmt.Errorf("validation: invalid check_out_date: %w", err)
			}
			next.CheckOutDate = co
		}
		if !next.CheckOutDate.After(next.CheckInDate) {
			return errors.New("validation: check_out_date must be after check_in_date")
		}

		if in.Adults != nil {
			if *in.Adults < 0 {
				return errors.New("validation: adults cannot be negative")
			}
			next.Adults = *in.Adults
		}
		if in.Children != nil {
			if *in.Children < 0 {
				return errors.New("validation: children cannot be negative")
			}
			next.Children = *in.Children
		}
		if in.Infants != nil {
			if *in.Infants < 0 {
				return errors.New("validation: infants cannot be negative")
			}
			next.Infants = *in.Infants
		}
		if next.TotalGuests() < 1 {
			return errors.New("validation: booking needs at least one guest")
		}

		if in.Status != nil && *in.Status != prior.Status {
			if !models.IsBookingStatus(*in.Status) {
				return fmt.Errorf("validation: unknown booking status %q", *in.Status)
			}
			if models.IsTerminalStatus(prior.Status) {
				return ErrInvalidTransition
			}
			next.Status = *in.Status
		}

		if in.PaymentStatus != nil {
			switch *in.PaymentStatus {
			case models.PaymentUnpaid, models.PaymentPartial, models.PaymentPaid, models.PaymentRefunded:
			default:
				return fmt.Errorf("validation: unknown payment status %q", *in.PaymentStatus)
			}
			next.PaymentStatus = *in.PaymentStatus
		}
		if in.Source != nil {
			next.Source = *in.Source
		}
		if in.SpecialRequests != nil {
			next.SpecialRequests = *in.SpecialRequests
		}
		if in.Remarks != nil {
			next.Remarks = *in.Remarks
		}

		roomChanged := false
		if in.RoomID != nil && *in.RoomID != prior.RoomID {
			var room models.Room
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, *in.RoomID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrRoomNotFound
				}
				return err
			}
			if !room.IsActive || room.Status == models.RoomMaintenance || room.Status == models.RoomOutOfOrder {
				return ErrRoomUnavailable
			}
			next.RoomID = *in.RoomID
			roomChanged = true
		}

		next.Nights = utils.Nights(next.CheckInDate, next.CheckOutDate)
		if in.RoomRate != nil {
			next.RoomRate = *in.RoomRate
		}
		next.Subtotal = next.RoomRate * float64(next.Nights)
		next.TotalAmount = next.Subtotal + next.TaxAmount

		statusChanged := next.Status != prior.Status
		datesChanged := !next.CheckInDate.Equal(prior.CheckInDate) || !next.CheckOutDate.Equal(prior.CheckOutDate)

		if err := validateOccupancy(tx, &next, &prior); err != nil {
			return err
		}

		if (roomChanged || datesChanged) && models.IsActiveStatus(next.Status) {
			if err := ensureNoConflict(tx, next.RoomID, next.CheckInDate, next.CheckOutDate, next.ID); err != nil {
				return err
			}
		}

		if statusChanged {
			now := time.Now()
			switch next.Status {
			case models.BookingCheckedIn, models.BookingAutoCheckedIn:
				if next.ActualCheckIn == nil {
					next.ActualCheckIn = &now
				}
			case models.BookingCheckedOut:
				if next.ActualCheckOut == nil {
					next.ActualCheckOut = &now
				}
			case models.BookingCancelled:
				next.CancelledAt = &now
				next.CancelledBy = in.UpdatedBy
			}
		}

		if err := tx.Save(&next).Error; err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		changes := map[string]interface{}{}
		if roomChanged {
			changes["room_id"] = next.RoomID
		}
		if statusChanged {
			changes["status"] = next.Status
		}
		if datesChanged {
			changes["check_in_date"] = next.CheckInDate.Format("2006-01-02")
			changes["check_out_date"] = next.CheckOutDate.Format("2006-01-02")
		}
		if next.PaymentStatus != prior.PaymentStatus {
			changes["payment_status"] = next.PaymentStatus
		}
		if err := writeBookingHistory(tx, next.ID, "updated", changes, in.UpdatedBy); err != nil {
			return err
		}

		if roomChanged {
			if err := releaseRoomIfUnclaimed(tx, prior.RoomID, next.ID); err != nil {
				return err
			}
		}

		if roomChanged || statusChanged || datesChanged {
			if err := syncRoomStatus(tx, &next); err != nil {
				return err
			}
		}

		updated = next
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.DB.Preload("Guest").Preload("Room").Preload("Room.RoomType").
		First(&updated, updated.ID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// CheckIn moves a confirmed or pending booking in house. The room has
// to be ready: dirty or cleaning rooms refuse the guest, maintenance
// and out_of_order rooms are off the market entirely.
func (s *BookingService) CheckIn(id uint, operatorID *uint) (*models.Booking, error) {
	var booking models.Booking
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status != models.BookingConfirmed && booking.Status != models.BookingPending {
			return ErrInvalidTransition
		}

		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, booking.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &IntegrityError{Entity: "room", ID: booking.RoomID}
			}
			return err
		}
		switch room.Status {
		case models.RoomDirty, models.RoomCleaning:
			return ErrRoomNotReady
		case models.RoomMaintenance, models.RoomOutOfOrder:
			return ErrRoomUnavailable
		}

		now := time.Now()
		booking.Status = models.BookingCheckedIn
		booking.ActualCheckIn = &now
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}
		if err := writeBookingHistory(tx, booking.ID, "checked_in", map[string]interface{}{
			"room_id": booking.RoomID,
		}, operatorID); err != nil {
			return err
		}
		return syncRoomStatus(tx, &booking)
	})
	if txErr != nil {
		return nil, txErr
	}
	return &booking, nil
}

// CheckOut settles the guest out and hands the room to housekeeping.
func (s *BookingService) CheckOut(id uint, operatorID *uint) (*models.Booking, error) {
	var booking models.Booking
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status != models.BookingCheckedIn && booking.Status != models.BookingAutoCheckedIn {
			return ErrInvalidTransition
		}

		now := time.Now()
		booking.Status = models.BookingCheckedOut
		booking.ActualCheckOut = &now
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}
		if err := writeBookingHistory(tx, booking.ID, "checked_out", nil, operatorID); err != nil {
			return err
		}
		return syncRoomStatus(tx, &booking)
	})
	if txErr != nil {
		return nil, txErr
	}
	return &booking, nil
}

// Cancel voids a booking that has not arrived yet. The room is
// released unless another active booking still claims it.
func (s *BookingService) Cancel(id uint, reason string, operatorID *uint) (*models.Booking, error) {
	var booking models.Booking
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status != models.BookingPending && booking.Status != models.BookingConfirmed {
			return ErrInvalidTransition
		}

		now := time.Now()
		booking.Status = models.BookingCancelled
		booking.CancelledAt = &now
		booking.CancelledBy = operatorID
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		details := map[string]interface{}{}
		if strings.TrimSpace(reason) != "" {
			details["reason"] = strings.TrimSpace(reason)
		}
		if err := writeBookingHistory(tx, booking.ID, "cancelled", details, operatorID); err != nil {
			return err
		}
		return syncRoomStatus(tx, &booking)
	})
	if txErr != nil {
		return nil, txErr
	}
	return &booking, nil
}

// AutoCheckInTodaysArrivals flips today's confirmed arrivals to
// auto_checked_in when the hotel has the feature switched on and the
// clock is inside the front-desk window. Returns how many bookings
// moved.
func (s *BookingService) AutoCheckInTodaysArrivals() (int, error) {
	var setting models.HotelSetting
	if err := s.DB.First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if !setting.AutoCheckInEnabled {
		return 0, nil
	}
	if !withinFrontDeskWindow(time.Now(), setting.CheckInTime, setting.CheckOutTime) {
		return 0, nil
	}

	count := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var arrivals []models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ? AND check_in_date = ?", models.BookingConfirmed, utils.Today()).
			Order("id").
			Find(&arrivals).Error; err != nil {
			return err
		}

		now := time.Now()
		for i := range arrivals {
			b := &arrivals[i]
			b.Status = models.BookingAutoCheckedIn
			b.ActualCheckIn = &now
			if err := tx.Save(b).Error; err != nil {
				return err
			}
			if err := writeBookingHistory(tx, b.ID, "auto_checked_in", nil, nil); err != nil {
				return err
			}
			if err := syncRoomStatus(tx, b); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// withinFrontDeskWindow reports whether now falls between the check-in
// and check-out times ("HH:MM"). Unset or malformed times leave the
// window open. A window like 14:00 -> 11:00 wraps past midnight.
func withinFrontDeskWindow(now time.Time, checkInTime, checkOutTime string) bool {
	start, err1 := time.Parse("15:04", strings.TrimSpace(checkInTime))
	end, err2 := time.Parse("15:04", strings.TrimSpace(checkOutTime))
	if err1 != nil || err2 != nil {
		return true
	}
	minutes := now.Hour()*60 + now.Minute()
	startM := start.Hour()*60 + start.Minute()
	endM := end.Hour()*60 + end.Minute()
	if startM <= endM {
		return minutes >= startM && minutes <= endM
	}
	return minutes >= startM || minutes <= endM
}

// GetBooking loads one booking with its guest and room.
func (s *BookingService) GetBooking(id uint) (*models.Booking, error) {
	var b models.Booking
	if err := s.DB.Preload("Guest").Preload("Room").Preload("Room.RoomType").First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &b, nil
}

// ListBookings returns bookings newest first, narrowed by the filter.
func (s *BookingService) ListBookings(f BookingFilter) ([]models.Booking, error) {
	q := s.DB.Preload("Guest").Preload("Room").Order("created_at DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.GuestID != 0 {
		q = q.Where("guest_id = ?", f.GuestID)
	}
	if f.Date != "" {
		d, err := utils.ParseDate(f.Date)
		if err != nil {
			return nil, fmt.Errorf("validation: invalid date: %w", err)
		}
		q = q.Where("check_in_date <= ? AND check_out_date > ?", d, d)
	}

	var list []models.Booking
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}

// GetHistory returns the booking's audit trail, newest entries first.
func (s *BookingService) GetHistory(bookingID uint) ([]models.BookingHistory, error) {
	var exists models.Booking
	if err := s.DB.Select("id").First(&exists, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	var history []models.BookingHistory
	if err := s.DB.Where("booking_id = ?", bookingID).Order("id DESC").Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// ensureNoConflict rejects overlapping active bookings on the room.
// Two stays overlap when each starts before the other ends; back to
// back stays sharing a changeover day are fine.
func ensureNoConflict(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeID uint) error {
	q := tx.Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.ActiveBookingStatuses).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrRoomConflict
	}
	return nil
}

// releaseRoomIfUnclaimed frees a room a booking walked away from (a
// move or a cancel) unless another active booking still claims it.
// Housekeeping and maintenance states are left alone.
func releaseRoomIfUnclaimed(tx *gorm.DB, roomID, excludeID uint) error {
	var room models.Room
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &IntegrityError{Entity: "room", ID: roomID}
		}
		return err
	}
	if room.Status != models.RoomOccupied && room.Status != models.RoomReserved {
		return nil
	}
	hasOther, err := hasOtherActiveBookings(tx, roomID, excludeID)
	if err != nil {
		return err
	}
	if hasOther {
		return nil
	}
	return tx.Model(&models.Room{}).
		Where("id = ?", roomID).
		Updates(map[string]interface{}{"status": models.RoomAvailable, "status_notes": ""}).Error
}

func writeBookingHistory(tx *gorm.DB, bookingID uint, action string, details map[string]interface{}, by *uint) error {
	var payload datatypes.JSON
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(raw)
	}
	return tx.Create(&models.BookingHistory{
		BookingID: bookingID,
		Action:    action,
		Details:   payload,
		CreatedBy: by,
	}).Error
}
