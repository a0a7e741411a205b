package domain

import (
	"testing"
	"time"
)

func TestDayWindowOn(t *testing.T) {
	w := DayWindow{StartMinute: 9 * 60, EndMinute: 12 * 60}
	date := time.Date(2026, 9, 7, 15, 30, 0, 0, time.UTC)

	start, end := w.On(date)

	if want := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("expected start %v, got %v", want, start)
	}
	if want := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Fatalf("expected end %v, got %v", want, end)
	}
}

func TestDayWindowString(t *testing.T) {
	w := DayWindow{StartMinute: 13 * 60, EndMinute: 17*60 + 30}
	if got := w.String(); got != "13:00-17:30" {
		t.Fatalf("unexpected string: %q", got)
	}
}

func TestIntersect(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

	start, end := Intersect(at(8), at(12), at(9), at(14))
	if !start.Equal(at(9)) || !end.Equal(at(12)) {
		t.Fatalf("expected 09:00-12:00, got %v-%v", start, end)
	}

	// Disjoint ranges produce an empty result.
	start, end = Intersect(at(8), at(10), at(11), at(14))
	if end.After(start) {
		t.Fatalf("expected empty intersection, got %v-%v", start, end)
	}
}

func TestTimeSlotStartEnd(t *testing.T) {
	slot := &TimeSlot{
		Date:   time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		Window: DayWindow{StartMinute: 18 * 60, EndMinute: 21 * 60},
	}

	if want := time.Date(2026, 9, 7, 18, 0, 0, 0, time.UTC); !slot.Start().Equal(want) {
		t.Fatalf("expected start %v, got %v", want, slot.Start())
	}
	if want := time.Date(2026, 9, 7, 21, 0, 0, 0, time.UTC); !slot.End().Equal(want) {
		t.Fatalf("expected end %v, got %v", want, slot.End())
	}
}

func TestBuildingConstraints(t *testing.T) {
	b := &Building{ID: "b1", Type: LocationHDB}
	if got := b.Constraints(); !got.NoiseRestricted || got.Lift == nil {
		t.Fatalf("expected hdb defaults, got %+v", got)
	}

	b.Overrides = &BuildingConstraints{ParkingDistanceM: 200}
	if got := b.Constraints(); got.NoiseRestricted || got.ParkingDistanceM != 200 {
		t.Fatalf("expected overrides to win, got %+v", got)
	}
}
