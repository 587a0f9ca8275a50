// services/night_audit_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NightAuditService closes a business date: it settles every eligible
// booking exactly once, snapshots the house counts and stamps the
// rooms. A date can only ever be closed once.
type NightAuditService struct {
	DB *gorm.DB
}

func NewNightAuditService(db *gorm.DB) *NightAuditService {
	return &NightAuditService{DB: db}
}

// AuditPreview is the read-only dry run of a night audit.
type AuditPreview struct {
	AuditDate         string           `json:"audit_date"`
	AlreadyCompleted  bool             `json:"already_completed"`
	TotalBookings     int              `json:"total_bookings"`
	EstimatedRevenue  float64          `json:"estimated_revenue"`
	ExpectedCheckins  int              `json:"expected_checkins"`
	ExpectedCheckouts int              `json:"expected_checkouts"`
	Bookings          []models.Booking `json:"bookings"`
}

// unpostedForDate scopes the bookings a run for date would settle:
// never posted, not cancelled or no_show, and either staying over the
// night of date, checking out on date, or created during date. The
// created-on-date arm catches same-day bookings that were already
// closed out before the audit ran.
func unpostedForDate(db *gorm.DB, date time.Time) *gorm.DB {
	nextDay := date.Add(24 * time.Hour)
	stay := db.Session(&gorm.Session{NewDB: true}).
		Where("check_in_date <= ? AND check_out_date > ?", date, date).
		Or("check_out_date = ? AND status = ?", date, models.BookingCheckedOut).
		Or("created_at >= ? AND created_at < ?", date, nextDay)

	return db.Model(&models.Booking{}).
		Where("is_posted = ?", false).
		Where("status NOT IN ?", []string{models.BookingCancelled, models.BookingNoShow}).
		Where(stay)
}

// Run executes the night audit for one business date inside a single
// transaction. The check-then-insert on night_audit_runs is only a
// fast path for a friendly error; the unique index on audit_date is
// what actually guarantees once-per-date when runs race.
func (s *NightAuditService) Run(dateStr string, operatorID uint, notes string) (*models.NightAuditRun, error) {
	date, err := utils.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("validation: invalid audit_date: %w", err)
	}

	var run models.NightAuditRun
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.NightAuditRun
		err := tx.Where("audit_date = ?", date).First(&existing).Error
		switch {
		case err == nil:
			return &AuditAlreadyCompletedError{Date: date}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		var operator models.Admin
		if err := tx.First(&operator, operatorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAdminNotFound
			}
			return err
		}

		run = models.NightAuditRun{
			AuditDate: date,
			RunAt:     time.Now(),
			RunBy:     operatorID,
			Status:    models.AuditInProgress,
			Notes:     notes,
		}
		if err := tx.Create(&run).Error; err != nil {
			if isDuplicateKey(err) {
				return &AuditAlreadyCompletedError{Date: date}
			}
			return err
		}

		var eligible []models.Booking
		if err := unpostedForDate(tx, date).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Order("id").
			Find(&eligible).Error; err != nil {
			return err
		}

		now := time.Now()
		opID := operatorID
		for i := range eligible {
			b := &eligible[i]

			snapshot, err := json.Marshal(map[string]interface{}{
				"booking_number": b.BookingNumber,
				"status":         b.Status,
				"payment_status": b.PaymentStatus,
				"room_id":        b.RoomID,
				"check_in_date":  b.CheckInDate.Format("2006-01-02"),
				"check_out_date": b.CheckOutDate.Format("2006-01-02"),
				"adults":         b.Adults,
				"children":       b.Children,
				"infants":        b.Infants,
				"total_amount":   b.TotalAmount,
			})
			if err != nil {
				return err
			}

			if err := tx.Model(&models.Booking{}).
				Where("id = ?", b.ID).
				Updates(map[string]interface{}{
					"is_posted":   true,
					"posted_date": date,
					"posted_at":   now,
					"posted_by":   operatorID,
				}).Error; err != nil {
				return err
			}

			if err := tx.Create(&models.NightAuditDetail{
				AuditRunID:    run.ID,
				BookingID:     b.ID,
				RecordType:    "booking",
				Action:        "posted",
				BookingStatus: b.Status,
				TotalAmount:   b.TotalAmount,
				CheckInDate:   b.CheckInDate,
				CheckOutDate:  b.CheckOutDate,
				Snapshot:      datatypes.JSON(snapshot),
			}).Error; err != nil {
				return err
			}

			if err := writeBookingHistory(tx, b.ID, "posted", map[string]interface{}{
				"audit_run_id": run.ID,
				"audit_date":   date.Format("2006-01-02"),
			}, &opID); err != nil {
				return err
			}

			run.TotalBookingsPosted++
			switch b.Status {
			case models.BookingCheckedIn, models.BookingAutoCheckedIn:
				run.TotalCheckins++
				run.TotalRevenue += b.TotalAmount
			case models.BookingCheckedOut:
				if utils.SameDate(b.CheckOutDate, date) {
					run.TotalCheckouts++
				}
			}
		}

		type statusCount struct {
			Status string
			Count  int64
		}
		var counts []statusCount
		if err := tx.Model(&models.Room{}).
			Select("status, COUNT(*) as count").
			Where("is_active = ?", true).
			Group("status").
			Scan(&counts).Error; err != nil {
			return err
		}

		var totalRooms int64
		for _, c := range counts {
			totalRooms += c.Count
			switch c.Status {
			case models.RoomAvailable:
				run.RoomsAvailable = int(c.Count)
			case models.RoomReserved:
				run.RoomsReserved = int(c.Count)
			case models.RoomMaintenance, models.RoomOutOfOrder:
				run.RoomsMaintenance += int(c.Count)
			case models.RoomDirty, models.RoomCleaning:
				run.RoomsDirty += int(c.Count)
			}
		}

		// Occupancy is derived from the bookings, not trusted from the
		// room rows: distinct rooms with an in-house booking covering
		// the night being closed.
		var occupied int64
		if err := tx.Model(&models.Booking{}).
			Distinct("room_id").
			Where("status IN ?", []string{models.BookingCheckedIn, models.BookingAutoCheckedIn}).
			Where("check_in_date <= ? AND check_out_date > ?", date, date).
			Count(&occupied).Error; err != nil {
			return err
		}
		run.RoomsOccupied = int(occupied)
		if totalRooms > 0 {
			run.OccupancyRate = float64(occupied) / float64(totalRooms) * 100
		}

		if err := tx.Model(&models.Room{}).
			Session(&gorm.Session{AllowGlobalUpdate: true}).
			Updates(map[string]interface{}{
				"last_posted_status": gorm.Expr("status"),
				"last_posted_date":   date,
			}).Error; err != nil {
			return err
		}

		run.Status = models.AuditCompleted
		return tx.Save(&run).Error
	})
	if txErr != nil {
		return nil, txErr
	}
	return &run, nil
}

// Preview reports what a run for the date would settle without writing
// anything.
func (s *NightAuditService) Preview(dateStr string) (*AuditPreview, error) {
	date, err := utils.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("validation: invalid audit_date: %w", err)
	}

	preview := &AuditPreview{
		AuditDate: date.Format("2006-01-02"),
		Bookings:  []models.Booking{},
	}

	var existing models.NightAuditRun
	err = s.DB.Where("audit_date = ?", date).First(&existing).Error
	switch {
	case err == nil:
		preview.AlreadyCompleted = true
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	var bookings []models.Booking
	if err := unpostedForDate(s.DB, date).
		Preload("Guest").Preload("Room").
		Order("id").
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	for i := range bookings {
		b := &bookings[i]
		switch b.Status {
		case models.BookingCheckedIn, models.BookingAutoCheckedIn, models.BookingCheckedOut:
			preview.EstimatedRevenue += b.TotalAmount
		}
		if utils.SameDate(b.CheckInDate, date) &&
			(b.Status == models.BookingPending || b.Status == models.BookingConfirmed) {
			preview.ExpectedCheckins++
		}
		if utils.SameDate(b.CheckOutDate, date) {
			switch b.Status {
			case models.BookingCheckedIn, models.BookingAutoCheckedIn, models.BookingCheckedOut:
				preview.ExpectedCheckouts++
			}
		}
	}

	preview.TotalBookings = len(bookings)
	preview.Bookings = bookings
	return preview, nil
}

// ListRuns pages through past runs, most recent date first.
func (s *NightAuditService) ListRuns(page, pageSize int) ([]models.NightAuditRun, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	var total int64
	if err := s.DB.Model(&models.NightAuditRun{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []models.NightAuditRun
	if err := s.DB.Order("audit_date DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&runs).Error; err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

func (s *NightAuditService) GetRun(id uint) (*models.NightAuditRun, error) {
	var run models.NightAuditRun
	if err := s.DB.First(&run, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

// GetRunDetails returns a run together with the bookings it settled.
func (s *NightAuditService) GetRunDetails(id uint) (*models.NightAuditRun, []models.NightAuditDetail, error) {
	run, err := s.GetRun(id)
	if err != nil {
		return nil, nil, err
	}
	var details []models.NightAuditDetail
	if err := s.DB.Where("audit_run_id = ?", run.ID).Order("id").Find(&details).Error; err != nil {
		return nil, nil, err
	}
	return run, details, nil
}
