package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"install-scheduling-service/internal/domain"
	"install-scheduling-service/internal/metrics"
	"install-scheduling-service/internal/ports"
)

// DefaultSlotTemplates are the three fixed daily work windows.
var DefaultSlotTemplates = []domain.SlotTemplate{
	{Name: "morning", Window: domain.DayWindow{StartMinute: 9 * 60, EndMinute: 12 * 60}},
	{Name: "afternoon", Window: domain.DayWindow{StartMinute: 13 * 60, EndMinute: 17 * 60}},
	{Name: "evening", Window: domain.DayWindow{StartMinute: 18 * 60, EndMinute: 21 * 60}},
}

// SlotInventory keeps a rolling window of future time slots available.
type SlotInventory struct {
	Slots            ports.TimeSlotRepository
	Templates        []domain.SlotTemplate
	NonOperatingDays map[time.Weekday]bool
	Log              zerolog.Logger
	Now              func() time.Time
}

func NewSlotInventory(slots ports.TimeSlotRepository, log zerolog.Logger) *SlotInventory {
	return &SlotInventory{
		Slots:            slots,
		Templates:        DefaultSlotTemplates,
		NonOperatingDays: map[time.Weekday]bool{time.Sunday: true},
		Log:              log,
		Now:              time.Now,
	}
}

// EnsureSlots creates any missing slot for the next daysAhead calendar
// days, skipping non-operating days. Re-running is idempotent: existing
// (date, window start) pairs are left alone, and the repository enforces
// the same uniqueness on insert. A failure on one template is logged and
// the remaining templates are still processed; partial success is reported
// through the created count.
func (s *SlotInventory) EnsureSlots(ctx context.Context, daysAhead int) (int, error) {
	now := s.Now()
	created := 0

	for d := 0; d < daysAhead; d++ {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		day := now.AddDate(0, 0, d)
		date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		if s.NonOperatingDays[date.Weekday()] {
			continue
		}

		for _, tpl := range s.Templates {
			exists, err := s.Slots.SlotExists(ctx, date, tpl.Window.StartMinute)
			if err != nil {
				s.Log.Error().Err(err).
					Str("date", date.Format("2006-01-02")).
					Str("template", tpl.Name).
					Msg("slot existence check failed, skipping template")
				continue
			}
			if exists {
				continue
			}

			slot := &domain.TimeSlot{
				ID:        uuid.NewString(),
				Date:      date,
				Window:    tpl.Window,
				Available: true,
			}
			if err := s.Slots.CreateSlot(ctx, slot); err != nil {
				s.Log.Error().Err(err).
					Str("date", date.Format("2006-01-02")).
					Str("template", tpl.Name).
					Msg("slot creation failed, continuing")
				continue
			}
			created++
			metrics.SlotsCreated.Inc()
		}
	}

	s.Log.Info().Int("days_ahead", daysAhead).Int("created", created).Msg("slot inventory ensured")
	return created, nil
}
