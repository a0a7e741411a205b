package domain

import "time"

// SlotTemplate is one of the fixed daily slot shapes (morning, afternoon,
// evening) used by the slot inventory.
type SlotTemplate struct {
	Name   string
	Window DayWindow
}

// TimeSlot is a bookable work window on a concrete date. Slots are created
// by the inventory and never deleted; retiring a slot flips Available.
type TimeSlot struct {
	ID        string
	Date      time.Time // midnight of the slot's day
	Window    DayWindow
	Available bool
}

// Start returns the slot's wall-clock start.
func (s *TimeSlot) Start() time.Time {
	start, _ := s.Window.On(s.Date)
	return start
}

// End returns the slot's wall-clock end.
func (s *TimeSlot) End() time.Time {
	_, end := s.Window.On(s.Date)
	return end
}
