package domain

// DisruptionKind is the closed set of operational disruptions the
// rescheduler knows how to recover from. Anything else is a configuration
// error, never a silent no-op.
type DisruptionKind string

const (
	DisruptionTruckBreakdown       DisruptionKind = "truck_breakdown"
	DisruptionMedicalLeave         DisruptionKind = "medical_leave"
	DisruptionCustomerCancellation DisruptionKind = "customer_cancellation"
	DisruptionWeatherDelay         DisruptionKind = "weather_delay"
)

// Valid reports whether the kind is one of the known disruptions.
func (k DisruptionKind) Valid() bool {
	switch k {
	case DisruptionTruckBreakdown, DisruptionMedicalLeave,
		DisruptionCustomerCancellation, DisruptionWeatherDelay:
		return true
	}
	return false
}

type ResolutionAction string

const (
	ActionReassigned ResolutionAction = "reassigned"
	ActionPostponed  ResolutionAction = "postponed"
	ActionRemoved    ResolutionAction = "removed"
)

// AffectedSchedule is one committed schedule entry hit by a disruption,
// together with the physical load it represents.
type AffectedSchedule struct {
	Entry   ScheduleEntry
	TruckID string
	Load    []LoadItem
}

// Resolution records how one affected schedule was recovered.
type Resolution struct {
	ID      string
	Action  ResolutionAction
	OrderID string
	TruckID string
	SlotID  string
	Detail  string
}

// EmergencyOptions carries the substitution resources a strategy may draw
// from. TruckLoads holds what each substitute truck already carries.
type EmergencyOptions struct {
	SubstituteTrucks []Truck
	TruckLoads       map[string][]LoadItem
	SubstituteTeamID string
	Reason           string
}
