package dto

import "time"

type LoadItemRequest struct {
	OrderID     string  `json:"order_id"`
	Destination string  `json:"destination"`
	WeightKg    float64 `json:"weight_kg"`
	VolumeM3    float64 `json:"volume_m3"`
	HeightCm    int     `json:"height_cm"`
	Fragile     bool    `json:"fragile"`
	UprightOnly bool    `json:"upright_only"`
}

type AffectedScheduleRequest struct {
	OrderID  string            `json:"order_id"`
	SlotID   string            `json:"slot_id"`
	TruckID  string            `json:"truck_id"`
	Sequence int               `json:"sequence"`
	Start    time.Time         `json:"start"`
	End      time.Time         `json:"end"`
	Load     []LoadItemRequest `json:"load"`
}

type SubstituteTruckRequest struct {
	TruckID     string  `json:"truck_id"`
	Name        string  `json:"name"`
	MaxWeightKg float64 `json:"max_weight_kg"`
	MaxVolumeM3 float64 `json:"max_volume_m3"`
	HeightCm    int     `json:"height_cm"`
	Covered     bool    `json:"covered"`
}

type EmergencyRequest struct {
	Kind             string                       `json:"kind"`
	Reason           string                       `json:"reason"`
	Affected         []AffectedScheduleRequest    `json:"affected"`
	SubstituteTrucks []SubstituteTruckRequest     `json:"substitute_trucks"`
	TruckLoads       map[string][]LoadItemRequest `json:"truck_loads"`
	SubstituteTeamID string                       `json:"substitute_team_id"`
}

type ResolutionResponse struct {
	ID      string `json:"id"`
	Action  string `json:"action"`
	OrderID string `json:"order_id"`
	TruckID string `json:"truck_id,omitempty"`
	SlotID  string `json:"slot_id,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

type EmergencyResponse struct {
	Resolutions []ResolutionResponse `json:"resolutions"`
}
