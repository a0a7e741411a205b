package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"install-scheduling-service/internal/adapters/repositories"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEnsureSlotsCreatesThreePerOperatingDay(t *testing.T) {
	repo := repositories.NewMemoryTimeSlotRepository()
	inv := NewSlotInventory(repo, zerolog.Nop())
	// Monday.
	inv.Now = fixedClock(time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC))

	created, err := inv.EnsureSlots(context.Background(), 3)
	require.NoError(t, err)

	// Mon, Tue, Wed: three operating days, three templates each.
	assert.Equal(t, 9, created)
	assert.Equal(t, 9, repo.Count())
}

func TestEnsureSlotsSkipsSundays(t *testing.T) {
	repo := repositories.NewMemoryTimeSlotRepository()
	inv := NewSlotInventory(repo, zerolog.Nop())
	// Saturday; the 7-day horizon includes one Sunday.
	inv.Now = fixedClock(time.Date(2026, 9, 5, 8, 0, 0, 0, time.UTC))

	created, err := inv.EnsureSlots(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 6*3, created)
}

func TestEnsureSlotsIdempotent(t *testing.T) {
	repo := repositories.NewMemoryTimeSlotRepository()
	inv := NewSlotInventory(repo, zerolog.Nop())
	inv.Now = fixedClock(time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC))

	first, err := inv.EnsureSlots(context.Background(), 5)
	require.NoError(t, err)
	second, err := inv.EnsureSlots(context.Background(), 5)
	require.NoError(t, err)

	assert.Greater(t, first, 0)
	assert.Equal(t, 0, second)
	assert.Equal(t, first, repo.Count())
}

func TestEnsureSlotsHonorsCustomCalendar(t *testing.T) {
	repo := repositories.NewMemoryTimeSlotRepository()
	inv := NewSlotInventory(repo, zerolog.Nop())
	inv.NonOperatingDays = map[time.Weekday]bool{time.Saturday: true, time.Sunday: true}
	// Friday; Sat and Sun drop out of the 3-day horizon.
	inv.Now = fixedClock(time.Date(2026, 9, 4, 8, 0, 0, 0, time.UTC))

	created, err := inv.EnsureSlots(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, created)
}

func TestEnsureSlotsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inv := NewSlotInventory(repositories.NewMemoryTimeSlotRepository(), zerolog.Nop())
	created, err := inv.EnsureSlots(ctx, 5)
	require.Error(t, err)
	assert.Equal(t, 0, created)
}
