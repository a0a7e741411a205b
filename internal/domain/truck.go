package domain

// Truck is reference data describing a vehicle's physical limits.
type Truck struct {
	ID          string
	Name        string
	MaxWeightKg float64
	MaxVolumeM3 float64
	HeightCm    int
	Covered     bool
}

// LoadItem is one physical piece to be carried on a truck. Destination is
// the delivery address, used to measure how scattered a load is.
type LoadItem struct {
	OrderID     string
	Destination string
	WeightKg    float64
	VolumeM3    float64
	HeightCm    int
	Fragile     bool
	UprightOnly bool
}
