// services/night_audit_service_test.go
package services

import (
	"testing"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return d
}

type auditEnv struct {
	db    *gorm.DB
	svc   *NightAuditService
	admin *models.Admin
	rt    *models.RoomType
	guest *models.Guest
}

func newAuditEnv(t *testing.T) *auditEnv {
	t.Helper()
	db := newTestDB(t)
	return &auditEnv{
		db:    db,
		svc:   NewNightAuditService(db),
		admin: seedAdmin(t, db),
		rt:    seedRoomType(t, db, "Standard", 2),
		guest: seedGuest(t, db, "Nok", "Intira"),
	}
}

type auditFixtures struct {
	inHouse      *models.Booking // checked_in, staying over the audit night
	departed     *models.Booking // checked_out on the audit date
	farFuture    *models.Booking // confirmed, not touching the date
	cancelled    *models.Booking // excluded by status
	bookedToday  *models.Booking // created during the date, future stay
	alreadyDone  *models.Booking // posted by an earlier run
	arrival      *models.Booking // confirmed, arriving on the date
	inHouseRoom  *models.Room
	staleRoom    *models.Room // says occupied, no in-house booking
	inactiveRoom *models.Room
	reservedRoom *models.Room
}

// seedAuditFixtures builds one night's worth of house state around d:
// nine active rooms (2 available, 1 reserved, 1 dirty, 1 cleaning,
// 1 maintenance, 1 out_of_order, 2 occupied) plus an inactive one, and
// the bookings exercising every arm of the eligibility predicate.
func seedAuditFixtures(t *testing.T, e *auditEnv, d time.Time) *auditFixtures {
	t.Helper()
	day := 24 * time.Hour

	av1 := seedRoom(t, e.db, "101", e.rt.ID, models.RoomAvailable)
	seedRoom(t, e.db, "102", e.rt.ID, models.RoomAvailable)
	reserved := seedRoom(t, e.db, "103", e.rt.ID, models.RoomReserved)
	dirty := seedRoom(t, e.db, "104", e.rt.ID, models.RoomDirty)
	seedRoom(t, e.db, "105", e.rt.ID, models.RoomCleaning)
	seedRoom(t, e.db, "106", e.rt.ID, models.RoomMaintenance)
	seedRoom(t, e.db, "107", e.rt.ID, models.RoomOutOfOrder)
	occupied := seedRoom(t, e.db, "108", e.rt.ID, models.RoomOccupied)
	stale := seedRoom(t, e.db, "109", e.rt.ID, models.RoomOccupied)

	inactive := seedRoom(t, e.db, "110", e.rt.ID, models.RoomAvailable)
	require.NoError(t, e.db.Model(&models.Room{}).Where("id = ?", inactive.ID).
		Update("is_active", false).Error)

	f := &auditFixtures{
		inHouseRoom:  occupied,
		staleRoom:    stale,
		inactiveRoom: inactive,
		reservedRoom: reserved,
	}

	f.inHouse = seedBooking(t, e.db, e.guest.ID, occupied.ID, models.BookingCheckedIn,
		d.Add(-day), d.Add(day), 1800)
	f.departed = seedBooking(t, e.db, e.guest.ID, dirty.ID, models.BookingCheckedOut,
		d.Add(-2*day), d, 2400)
	f.farFuture = seedBooking(t, e.db, e.guest.ID, av1.ID, models.BookingConfirmed,
		d.Add(5*day), d.Add(7*day), 1500)
	f.cancelled = seedBooking(t, e.db, e.guest.ID, av1.ID, models.BookingCancelled,
		d.Add(-day), d.Add(day), 1500)

	// Booked during the audit date for a future stay: eligible through
	// the created-on-date arm.
	f.bookedToday = seedBooking(t, e.db, e.guest.ID, av1.ID, models.BookingConfirmed,
		d.Add(3*day), d.Add(4*day), 1500)
	require.NoError(t, e.db.Model(&models.Booking{}).Where("id = ?", f.bookedToday.ID).
		Update("created_at", d.Add(10*time.Hour)).Error)

	// A second in-house booking on the same room, already settled by an
	// earlier run. It still counts toward derived occupancy but must
	// not be posted again.
	f.alreadyDone = seedBooking(t, e.db, e.guest.ID, occupied.ID, models.BookingCheckedIn,
		d.Add(-day), d.Add(day), 900)
	require.NoError(t, e.db.Model(&models.Booking{}).Where("id = ?", f.alreadyDone.ID).
		Updates(models.Booking{
			IsPosted:   true,
			PostedDate: utils.PtrTime(d.Add(-day)),
			PostedAt:   utils.PtrTime(time.Now()),
		}).Error)

	f.arrival = seedBooking(t, e.db, e.guest.ID, reserved.ID, models.BookingConfirmed,
		d, d.Add(2*day), 3000)

	return f
}

func TestNightAuditRun(t *testing.T) {
	e := newAuditEnv(t)
	d := mustDate(t, "2025-01-15")
	f := seedAuditFixtures(t, e, d)

	run, err := e.svc.Run("2025-01-15", e.admin.ID, "quiet night")
	require.NoError(t, err)

	require.Equal(t, models.AuditCompleted, run.Status)
	require.True(t, utils.SameDate(run.AuditDate, d))
	require.Equal(t, e.admin.ID, run.RunBy)
	require.False(t, run.RunAt.IsZero())
	require.Equal(t, "quiet night", run.Notes)

	// inHouse, departed, bookedToday, arrival. Not farFuture (wrong
	// dates), not cancelled (status), not alreadyDone (posted).
	require.Equal(t, 4, run.TotalBookingsPosted)
	require.Equal(t, 1, run.TotalCheckins)
	require.Equal(t, 1, run.TotalCheckouts)
	require.Equal(t, 1800.0, run.TotalRevenue)

	// Status buckets over the nine active rooms.
	require.Equal(t, 2, run.RoomsAvailable)
	require.Equal(t, 1, run.RoomsReserved)
	require.Equal(t, 2, run.RoomsDirty)       // dirty + cleaning
	require.Equal(t, 2, run.RoomsMaintenance) // maintenance + out_of_order

	// Occupied is derived from in-house bookings covering the night,
	// not from the two rooms whose status says occupied: both in-house
	// bookings share room 108, and room 109 is stale.
	require.Equal(t, 1, run.RoomsOccupied)
	require.InDelta(t, 100.0/9.0, run.OccupancyRate, 1e-9)

	// Posting stamps.
	var fresh models.Booking
	require.NoError(t, e.db.First(&fresh, f.inHouse.ID).Error)
	require.True(t, fresh.IsPosted)
	require.NotNil(t, fresh.PostedDate)
	require.True(t, utils.SameDate(*fresh.PostedDate, d))
	require.NotNil(t, fresh.PostedAt)
	require.NotNil(t, fresh.PostedBy)
	require.Equal(t, e.admin.ID, *fresh.PostedBy)
	require.Contains(t, historyActions(t, e.db, f.inHouse.ID), "posted")

	fresh = models.Booking{}
	require.NoError(t, e.db.First(&fresh, f.farFuture.ID).Error)
	require.False(t, fresh.IsPosted)
	fresh = models.Booking{}
	require.NoError(t, e.db.First(&fresh, f.cancelled.ID).Error)
	require.False(t, fresh.IsPosted)

	// One detail row per posted booking, in posting order, carrying a
	// snapshot of the booking as it stood.
	var details []models.NightAuditDetail
	require.NoError(t, e.db.Where("audit_run_id = ?", run.ID).Order("id").Find(&details).Error)
	require.Len(t, details, 4)
	require.Equal(t, f.inHouse.ID, details[0].BookingID)
	require.Equal(t, "booking", details[0].RecordType)
	require.Equal(t, "posted", details[0].Action)
	require.Equal(t, models.BookingCheckedIn, details[0].BookingStatus)
	require.Equal(t, 1800.0, details[0].TotalAmount)
	require.Contains(t, string(details[0].Snapshot), f.inHouse.BookingNumber)

	// Every room gets stamped with what the audit saw, inactive ones
	// included.
	for _, roomID := range []uint{f.reservedRoom.ID, f.staleRoom.ID, f.inactiveRoom.ID} {
		var room models.Room
		require.NoError(t, e.db.Unscoped().First(&room, roomID).Error)
		require.Equal(t, room.Status, room.LastPostedStatus)
		require.NotNil(t, room.LastPostedDate)
		require.True(t, utils.SameDate(*room.LastPostedDate, d))
	}
}

// Closing the same date twice must fail and change nothing.
func TestNightAuditRunOncePerDate(t *testing.T) {
	e := newAuditEnv(t)
	d := mustDate(t, "2025-01-15")
	seedAuditFixtures(t, e, d)

	first, err := e.svc.Run("2025-01-15", e.admin.ID, "")
	require.NoError(t, err)

	_, err = e.svc.Run("2025-01-15", e.admin.ID, "")
	var doneErr *AuditAlreadyCompletedError
	require.ErrorAs(t, err, &doneErr)
	require.True(t, utils.SameDate(doneErr.Date, d))
	require.Contains(t, doneErr.Error(), "2025-01-15")

	var runs int64
	require.NoError(t, e.db.Model(&models.NightAuditRun{}).Count(&runs).Error)
	require.EqualValues(t, 1, runs)

	var details int64
	require.NoError(t, e.db.Model(&models.NightAuditDetail{}).
		Where("audit_run_id = ?", first.ID).Count(&details).Error)
	require.EqualValues(t, 4, details)

	// A different date still runs (nothing unposted remains, so the
	// run is empty but valid).
	second, err := e.svc.Run("2025-01-16", e.admin.ID, "")
	require.NoError(t, err)
	require.Equal(t, 0, second.TotalBookingsPosted)
}

func TestNightAuditRunBlockedByExistingRow(t *testing.T) {
	e := newAuditEnv(t)
	d := mustDate(t, "2025-01-15")

	// Even a stuck in_progress row blocks the date.
	require.NoError(t, e.db.Create(&models.NightAuditRun{
		AuditDate: d,
		RunAt:     time.Now(),
		RunBy:     e.admin.ID,
		Status:    models.AuditInProgress,
	}).Error)

	_, err := e.svc.Run("2025-01-15", e.admin.ID, "")
	var doneErr *AuditAlreadyCompletedError
	require.ErrorAs(t, err, &doneErr)
}

func TestNightAuditRunValidation(t *testing.T) {
	e := newAuditEnv(t)

	_, err := e.svc.Run("not-a-date", e.admin.ID, "")
	require.ErrorContains(t, err, "validation")
	require.ErrorContains(t, err, "audit_date")

	_, err = e.svc.Run("2025-01-15", 9999, "")
	require.ErrorIs(t, err, ErrAdminNotFound)
}

func TestNightAuditRunEmptyHouse(t *testing.T) {
	e := newAuditEnv(t)

	run, err := e.svc.Run("2025-01-15", e.admin.ID, "")
	require.NoError(t, err)
	require.Equal(t, models.AuditCompleted, run.Status)
	require.Zero(t, run.TotalBookingsPosted)
	require.Zero(t, run.RoomsOccupied)
	require.Zero(t, run.OccupancyRate)
}

func TestNightAuditPreview(t *testing.T) {
	e := newAuditEnv(t)
	d := mustDate(t, "2025-01-15")
	f := seedAuditFixtures(t, e, d)

	preview, err := e.svc.Preview("2025-01-15")
	require.NoError(t, err)
	require.False(t, preview.AlreadyCompleted)
	require.Equal(t, "2025-01-15", preview.AuditDate)
	require.Equal(t, 4, preview.TotalBookings)
	require.Equal(t, 1800.0+2400.0, preview.EstimatedRevenue)
	require.Equal(t, 1, preview.ExpectedCheckins)  // arrival, confirmed on d
	require.Equal(t, 1, preview.ExpectedCheckouts) // departed, checked out on d
	require.Len(t, preview.Bookings, 4)
	require.Equal(t, f.inHouse.ID, preview.Bookings[0].ID)
	require.NotZero(t, preview.Bookings[0].Guest.ID, "preview rows carry the guest")

	// A preview never writes.
	var posted int64
	require.NoError(t, e.db.Model(&models.Booking{}).
		Where("is_posted = ? AND id != ?", true, f.alreadyDone.ID).
		Count(&posted).Error)
	require.Zero(t, posted)
	var runs int64
	require.NoError(t, e.db.Model(&models.NightAuditRun{}).Count(&runs).Error)
	require.Zero(t, runs)

	_, err = e.svc.Run("2025-01-15", e.admin.ID, "")
	require.NoError(t, err)

	after, err := e.svc.Preview("2025-01-15")
	require.NoError(t, err)
	require.True(t, after.AlreadyCompleted)
	require.Zero(t, after.TotalBookings, "everything is posted now")
}

func TestNightAuditListRuns(t *testing.T) {
	e := newAuditEnv(t)

	for _, day := range []string{"2025-01-13", "2025-01-14", "2025-01-15"} {
		require.NoError(t, e.db.Create(&models.NightAuditRun{
			AuditDate: mustDate(t, day),
			RunAt:     time.Now(),
			RunBy:     e.admin.ID,
			Status:    models.AuditCompleted,
		}).Error)
	}

	runs, total, err := e.svc.ListRuns(1, 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, runs, 2)
	require.True(t, utils.SameDate(runs[0].AuditDate, mustDate(t, "2025-01-15")))
	require.True(t, utils.SameDate(runs[1].AuditDate, mustDate(t, "2025-01-14")))

	runs, _, err = e.svc.ListRuns(2, 2)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.True(t, utils.SameDate(runs[0].AuditDate, mustDate(t, "2025-01-13")))

	// Out-of-range paging inputs fall back to defaults.
	runs, total, err = e.svc.ListRuns(0, 0)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, runs, 3)
}

func TestNightAuditGetRunDetails(t *testing.T) {
	e := newAuditEnv(t)
	d := mustDate(t, "2025-01-15")
	seedAuditFixtures(t, e, d)

	_, err := e.svc.GetRun(9999)
	require.ErrorIs(t, err, ErrAuditRunNotFound)
	_, _, err = e.svc.GetRunDetails(9999)
	require.ErrorIs(t, err, ErrAuditRunNotFound)

	run, err := e.svc.Run("2025-01-15", e.admin.ID, "")
	require.NoError(t, err)

	got, err := e.svc.GetRun(run.ID)
	require.NoError(t, err)
	require.Equal(t, run.TotalBookingsPosted, got.TotalBookingsPosted)

	gotRun, details, err := e.svc.GetRunDetails(run.ID)
	require.NoError(t, err)
	require.Equal(t, run.ID, gotRun.ID)
	require.Len(t, details, 4)
	for i := 1; i < len(details); i++ {
		require.Less(t, details[i-1].ID, details[i].ID, "details keep posting order")
	}
}
