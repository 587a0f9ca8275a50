// services/testutil_test.go
package services

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"hotel-pms/config"
	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "pms.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))
	return db
}

func seedRoomType(t *testing.T, db *gorm.DB, name string, maxOccupancy int) *models.RoomType {
	t.Helper()
	rt := &models.RoomType{
		TypeName:     name,
		Description:  name + " Room",
		MaxOccupancy: maxOccupancy,
		BaseRate:     1500,
	}
	require.NoError(t, db.Create(rt).Error)
	return rt
}

func seedRoom(t *testing.T, db *gorm.DB, number string, typeID uint, status string) *models.Room {
	t.Helper()
	room := &models.Room{
		RoomTypeID: &typeID,
		RoomNumber: number,
		Floor:      "1",
		Price:      1500,
		Status:     status,
		IsActive:   true,
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

func seedGuest(t *testing.T, db *gorm.DB, first, last string) *models.Guest {
	t.Helper()
	g := &models.Guest{
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s@example.com", first, last),
		Phone:     "0812345678",
	}
	require.NoError(t, db.Create(g).Error)
	return g
}

func seedAdmin(t *testing.T, db *gorm.DB) *models.Admin {
	t.Helper()
	a := &models.Admin{
		FullName: "Night Auditor",
		Username: "auditor@hotel.local",
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

// seedBooking inserts a booking row directly, bypassing the service,
// so tests control status and dates exactly.
func seedBooking(t *testing.T, db *gorm.DB, guestID, roomID uint, status string, checkIn, checkOut time.Time, total float64) *models.Booking {
	t.Helper()
	b := &models.Booking{
		BookingNumber: utils.GenerateBookingNumber(checkIn),
		GuestID:       guestID,
		RoomID:        roomID,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Nights:        utils.Nights(checkIn, checkOut),
		Adults:        1,
		RoomRate:      total,
		Subtotal:      total,
		TotalAmount:   total,
		Status:        status,
		PaymentStatus: models.PaymentUnpaid,
		Source:        "walk_in",
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func roomStatus(t *testing.T, db *gorm.DB, roomID uint) string {
	t.Helper()
	var room models.Room
	require.NoError(t, db.First(&room, roomID).Error)
	return room.Status
}

func bookingStatus(t *testing.T, db *gorm.DB, bookingID uint) string {
	t.Helper()
	var b models.Booking
	require.NoError(t, db.First(&b, bookingID).Error)
	return b.Status
}

func historyActions(t *testing.T, db *gorm.DB, bookingID uint) []string {
	t.Helper()
	var rows []models.BookingHistory
	require.NoError(t, db.Where("booking_id = ?", bookingID).Order("id").Find(&rows).Error)
	actions := make([]string, 0, len(rows))
	for _, r := range rows {
		actions = append(actions, r.Action)
	}
	return actions
}

func dateStr(t time.Time) string {
	return t.Format("2006-01-02")
}
