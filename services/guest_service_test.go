// services/guest_service_test.go
package services

import (
	"testing"

	"hotel-pms/models"

	"github.com/stretchr/testify/require"
)

func TestGuestCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db)

	guest, err := svc.Create(models.Guest{FirstName: "Anan", LastName: "Srisuwan", Phone: "0812345678"})
	require.NoError(t, err)
	require.NotZero(t, guest.ID)
	require.Equal(t, "Anan Srisuwan", guest.FullName())

	// A single name is enough; no name at all is not.
	_, err = svc.Create(models.Guest{FirstName: "Madonna"})
	require.NoError(t, err)
	_, err = svc.Create(models.Guest{FirstName: "   ", LastName: ""})
	require.ErrorContains(t, err, "guest needs a name")
}

func TestGuestGetAndUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db)
	guest := seedGuest(t, db, "Nok", "Intira")

	_, err := svc.GetByID(9999)
	require.ErrorIs(t, err, ErrGuestNotFound)

	updated, err := svc.Update(guest.ID, map[string]interface{}{
		"phone": "029998888",
		"id":    12345, // stripped, not applied
	})
	require.NoError(t, err)
	require.Equal(t, guest.ID, updated.ID)
	require.Equal(t, "029998888", updated.Phone)

	same, err := svc.Update(guest.ID, map[string]interface{}{})
	require.NoError(t, err)
	require.Equal(t, "Nok", same.FirstName)

	_, err = svc.Update(9999, map[string]interface{}{"phone": "1"})
	require.ErrorIs(t, err, ErrGuestNotFound)
}

func TestGuestsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db)
	seedGuest(t, db, "First", "Guest")
	seedGuest(t, db, "Second", "Guest")
	seedGuest(t, db, "Third", "Guest")

	guests, err := svc.GetAll()
	require.NoError(t, err)
	require.Len(t, guests, 3)
	require.Equal(t, "Third", guests[0].FirstName)
	require.Equal(t, "First", guests[2].FirstName)
}
