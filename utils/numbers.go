package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateBookingNumber builds a reference like "BK-20250115-a3f9c2d1":
// the booking date plus a random uuid fragment. Uniqueness is enforced
// by the index on bookings.booking_number, the fragment just keeps
// collisions out of normal operation.
func GenerateBookingNumber(date time.Time) string {
	frag := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("BK-%s-%s", date.Format("20060102"), frag)
}
