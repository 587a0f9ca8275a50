package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateBookingNumber(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)

	first := GenerateBookingNumber(date)
	require.Regexp(t, regexp.MustCompile(`^BK-20250115-[0-9a-f]{8}$`), first)

	second := GenerateBookingNumber(date)
	require.NotEqual(t, first, second, "the random fragment keeps references apart")
}
