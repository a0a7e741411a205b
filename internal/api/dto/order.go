package dto

import "time"

type OrderResponse struct {
	OrderID        string     `json:"order_id"`
	Status         string     `json:"status"`
	BuildingID     string     `json:"building_id"`
	SlotID         string     `json:"slot_id,omitempty"`
	Sequence       int        `json:"sequence,omitempty"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
	TravelMinutes  int        `json:"travel_minutes,omitempty"`
	TravelKm       float64    `json:"travel_km,omitempty"`
	Attempts       int        `json:"attempts"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}
