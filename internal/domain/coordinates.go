package domain

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// IsZero reports whether no coordinates are on file. A building at the
// exact null island origin is not a case the system needs to support.
func (c Coordinates) IsZero() bool { return c.Lon == 0 && c.Lat == 0 }

// Distance and travel duration between two points.
type TravelEstimate struct {
	DistanceKm      float64
	DurationMinutes int
}
