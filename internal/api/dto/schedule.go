package dto

import "time"

type ScheduleEntryResponse struct {
	OrderID       string    `json:"order_id"`
	SlotID        string    `json:"slot_id"`
	Sequence      int       `json:"sequence"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	TravelMinutes int       `json:"travel_minutes"`
	TravelKm      float64   `json:"travel_km"`
}

type RunScheduleResponse struct {
	RunID              string                  `json:"run_id"`
	Scheduled          int                     `json:"scheduled"`
	LeftPending        int                     `json:"left_pending"`
	TotalWorkMinutes   int                     `json:"total_work_minutes"`
	TotalTravelMinutes int                     `json:"total_travel_minutes"`
	TotalTravelKm      float64                 `json:"total_travel_km"`
	StartedAt          time.Time               `json:"started_at"`
	FinishedAt         time.Time               `json:"finished_at"`
	Entries            []ScheduleEntryResponse `json:"entries"`
}

type EnsureSlotsRequest struct {
	DaysAhead int `json:"days_ahead"`
}

type EnsureSlotsResponse struct {
	Created int `json:"created"`
}
