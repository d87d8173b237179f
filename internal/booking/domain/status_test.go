package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusCancelled, StatusConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)
	assert.True(t, s.Open())

	_, err = ParseStatus("done")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	var scanned Status
	require.NoError(t, scanned.Scan([]byte("completed")))
	assert.True(t, scanned.Terminal())
	assert.Error(t, scanned.Scan(42))

	_, err = Status("bogus").Value()
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestBookingOverlaps(t *testing.T) {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	b := Booking{StartsAt: start, EndsAt: start.Add(time.Hour)}

	assert.True(t, b.Overlaps(start.Add(30*time.Minute), start.Add(90*time.Minute)))
	assert.True(t, b.Overlaps(start.Add(-time.Hour), start.Add(time.Minute)))
	assert.False(t, b.Overlaps(start.Add(time.Hour), start.Add(2*time.Hour)))
	assert.False(t, b.Overlaps(start.Add(-time.Hour), start))
}
