package domain

type LocationType string

const (
	LocationHDB        LocationType = "hdb"
	LocationCondo      LocationType = "condo"
	LocationLanded     LocationType = "landed"
	LocationCommercial LocationType = "commercial"
)

type LiftDimensions struct {
	WidthCm  int
	DepthCm  int
	HeightCm int
}

// Site constraints that affect delivery and installation work. A building
// may override the defaults of its location type field by field.
type BuildingConstraints struct {
	NoiseRestricted      bool
	RegistrationRequired bool
	Lift                 *LiftDimensions
	ParkingDistanceM     int
}

// Building is read-only reference data owned by the building directory.
// It is immutable for the duration of one scheduling run.
type Building struct {
	ID       string
	Name     string
	Address  string
	Location Coordinates
	Type     LocationType

	// Access is the daily window during which deliveries are allowed.
	// Nil means the building imposes no restriction.
	Access *DayWindow

	// Overrides replaces the location-type defaults when set.
	Overrides *BuildingConstraints
}

// Constraints resolves the effective site constraints: per-building
// overrides when present, otherwise the defaults for the location type.
func (b *Building) Constraints() BuildingConstraints {
	if b.Overrides != nil {
		return *b.Overrides
	}
	return DefaultConstraints(b.Type)
}

// DefaultConstraints returns the baseline constraints per location type.
func DefaultConstraints(t LocationType) BuildingConstraints {
	switch t {
	case LocationHDB:
		return BuildingConstraints{
			NoiseRestricted: true,
			Lift:            &LiftDimensions{WidthCm: 110, DepthCm: 140, HeightCm: 230},
		}
	case LocationCondo:
		return BuildingConstraints{
			NoiseRestricted:      true,
			RegistrationRequired: true,
			Lift:                 &LiftDimensions{WidthCm: 120, DepthCm: 150, HeightCm: 240},
			ParkingDistanceM:     50,
		}
	case LocationCommercial:
		return BuildingConstraints{RegistrationRequired: true}
	default:
		return BuildingConstraints{}
	}
}
