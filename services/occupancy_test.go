// services/occupancy_test.go
package services

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/stretchr/testify/require"
)

func TestCheckOccupancy(t *testing.T) {
	require.NoError(t, checkOccupancy(2, 0, 2))
	require.NoError(t, checkOccupancy(1, 1, 2))
	require.NoError(t, checkOccupancy(0, 0, 1))

	err := checkOccupancy(2, 1, 2)
	require.Error(t, err)
	var capErr *CapacityViolationError
	require.ErrorAs(t, err, &capErr)
	require.Equal(t, 3, capErr.Total)
	require.Equal(t, 2, capErr.Limit)
	require.Contains(t, capErr.Error(), "3")
	require.Contains(t, capErr.Error(), "2")
}

// For any party and limit: a violation is flagged exactly when
// adults+children exceeds the limit, and the error carries both numbers.
func TestCheckOccupancyProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		adults := rng.Intn(6)
		children := rng.Intn(6)
		limit := 1 + rng.Intn(6)

		err := checkOccupancy(adults, children, limit)
		if adults+children > limit {
			var capErr *CapacityViolationError
			require.ErrorAs(t, err, &capErr, "adults=%d children=%d limit=%d", adults, children, limit)
			require.Equal(t, adults+children, capErr.Total)
			require.Equal(t, limit, capErr.Limit)
		} else {
			require.NoError(t, err, "adults=%d children=%d limit=%d", adults, children, limit)
		}
	}
}

func TestOccupancyCheckRequired(t *testing.T) {
	base := func() *models.Booking {
		return &models.Booking{Adults: 2, Children: 1, Infants: 1, Status: models.BookingConfirmed}
	}

	t.Run("creates are always checked", func(t *testing.T) {
		require.True(t, occupancyCheckRequired(base(), nil))
	})

	t.Run("terminal transitions are skipped", func(t *testing.T) {
		prior := base()
		for _, status := range models.TerminalBookingStatuses {
			next := base()
			next.Status = status
			next.Adults = 99 // even with an absurd party
			require.False(t, occupancyCheckRequired(next, prior), status)
		}
	})

	t.Run("unchanged party is skipped", func(t *testing.T) {
		prior := base()
		next := base()
		next.Status = models.BookingCheckedIn
		require.False(t, occupancyCheckRequired(next, prior))
	})

	t.Run("any party field change rechecks", func(t *testing.T) {
		prior := base()

		next := base()
		next.Adults++
		require.True(t, occupancyCheckRequired(next, prior))

		next = base()
		next.Children++
		require.True(t, occupancyCheckRequired(next, prior))

		next = base()
		next.Infants++
		require.True(t, occupancyCheckRequired(next, prior))
	})
}

func TestValidateOccupancy(t *testing.T) {
	db := newTestDB(t)
	rt := seedRoomType(t, db, "Standard", 2)
	room := seedRoom(t, db, "201", rt.ID, models.RoomAvailable)

	today := utils.Today()
	tomorrow := today.Add(24 * time.Hour)

	t.Run("infants do not count", func(t *testing.T) {
		b := &models.Booking{RoomID: room.ID, Adults: 1, Children: 1, Infants: 4,
			CheckInDate: today, CheckOutDate: tomorrow}
		require.NoError(t, validateOccupancy(db, b, nil))
	})

	t.Run("adults plus children over the limit", func(t *testing.T) {
		b := &models.Booking{RoomID: room.ID, Adults: 2, Children: 1,
			CheckInDate: today, CheckOutDate: tomorrow}
		err := validateOccupancy(db, b, nil)
		var capErr *CapacityViolationError
		require.ErrorAs(t, err, &capErr)
		require.Equal(t, 3, capErr.Total)
		require.Equal(t, 2, capErr.Limit)
	})

	t.Run("missing room is an integrity failure", func(t *testing.T) {
		b := &models.Booking{RoomID: 9999, Adults: 1}
		err := validateOccupancy(db, b, nil)
		var intErr *IntegrityError
		require.ErrorAs(t, err, &intErr)
		require.Equal(t, "room", intErr.Entity)
		require.Equal(t, uint(9999), intErr.ID)
	})

	t.Run("room without a type is an integrity failure", func(t *testing.T) {
		orphan := &models.Room{RoomNumber: "999", Status: models.RoomAvailable, IsActive: true}
		require.NoError(t, db.Create(orphan).Error)
		b := &models.Booking{RoomID: orphan.ID, Adults: 1}
		err := validateOccupancy(db, b, nil)
		var intErr *IntegrityError
		require.ErrorAs(t, err, &intErr)
		require.Equal(t, "room_type", intErr.Entity)
	})

	t.Run("terminal update skips even when capacity shrank", func(t *testing.T) {
		prior := &models.Booking{RoomID: room.ID, Adults: 2, Children: 0, Status: models.BookingConfirmed}
		next := *prior
		next.Status = models.BookingCancelled

		require.NoError(t, db.Model(&models.RoomType{}).Where("id = ?", rt.ID).
			Update("max_occupancy", 1).Error)
		defer func() {
			require.NoError(t, db.Model(&models.RoomType{}).Where("id = ?", rt.ID).
				Update("max_occupancy", 2).Error)
		}()

		require.NoError(t, validateOccupancy(db, &next, prior))

		// The same party on a non-terminal move is checked again.
		next = *prior
		next.Adults = 3
		err := validateOccupancy(db, &next, prior)
		require.Error(t, err)
		var capErr *CapacityViolationError
		require.True(t, errors.As(err, &capErr))
	})
}
