package domain

import "time"

type OrderStatus string

const (
	OrderPending     OrderStatus = "pending"
	OrderScheduled   OrderStatus = "scheduled"
	OrderCompleted   OrderStatus = "completed"
	OrderRescheduled OrderStatus = "rescheduled"
	OrderCancelled   OrderStatus = "cancelled"
)

// A single ordered product position: what to install, how many, and whether
// an existing unit has to be dismantled first.
type LineItem struct {
	ProductID string
	Quantity  int
	Dismantle bool
}

// Order is a delivery/installation job at one building.
//
// Orders are created pending by the order-entry process. The scheduling run
// moves them to scheduled and fills the scheduling fields; the emergency
// rescheduler may later move them to rescheduled or cancelled. No two
// writers ever mutate the same order concurrently.
type Order struct {
	ID         string
	Status     OrderStatus
	BuildingID string
	Items      []LineItem

	// Derived during a run, not persisted input.
	WorkMinutes int

	// Scheduling outputs.
	SlotID         string
	Sequence       int
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	TravelMinutes  int
	TravelKm       float64
	Attempts       int
}

// ScheduleEntry is the committed placement of one order within one slot.
// It is the transient output of a scheduling run, written back to the
// order's scheduling fields.
type ScheduleEntry struct {
	OrderID       string
	SlotID        string
	Sequence      int
	Start         time.Time
	End           time.Time
	TravelMinutes int
	TravelKm      float64
}

// RunReport aggregates one scheduling run.
type RunReport struct {
	RunID              string
	Scheduled          int
	LeftPending        int
	TotalWorkMinutes   int
	TotalTravelMinutes int
	TotalTravelKm      float64
	StartedAt          time.Time
	FinishedAt         time.Time
}
