package domain

import (
	"fmt"
	"time"
)

// DayWindow is a recurring daily time range expressed in minutes since
// midnight, e.g. {540, 720} for 09:00-12:00. It is anchored to a concrete
// date when a slot or access check needs wall-clock times.
type DayWindow struct {
	StartMinute int
	EndMinute   int
}

// On anchors the window to the given calendar date, in that date's location.
func (w DayWindow) On(date time.Time) (time.Time, time.Time) {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return midnight.Add(time.Duration(w.StartMinute) * time.Minute),
		midnight.Add(time.Duration(w.EndMinute) * time.Minute)
}

// Minutes returns the window length. Zero or negative means the window is
// empty.
func (w DayWindow) Minutes() int { return w.EndMinute - w.StartMinute }

func (w DayWindow) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d",
		w.StartMinute/60, w.StartMinute%60, w.EndMinute/60, w.EndMinute%60)
}

// Intersect clips two anchored time ranges to their overlap. The returned
// range may be empty (end before start); callers check Minutes/After.
func Intersect(aStart, aEnd, bStart, bEnd time.Time) (time.Time, time.Time) {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	return start, end
}
