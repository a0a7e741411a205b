package domain

type ProductCategory string

const (
	CategoryWardrobe ProductCategory = "wardrobe"
	CategoryKitchen  ProductCategory = "kitchen"
	CategoryBathroom ProductCategory = "bathroom"
	CategoryLighting ProductCategory = "lighting"
	CategoryAircon   ProductCategory = "aircon"
	CategoryGeneral  ProductCategory = "general"
)

// PlumbingRelevant reports whether extra plumbing work can apply to
// products of this category.
func (c ProductCategory) PlumbingRelevant() bool {
	return c == CategoryKitchen || c == CategoryBathroom
}

// WiringRelevant reports whether extra electrical work can apply to
// products of this category.
func (c ProductCategory) WiringRelevant() bool {
	return c == CategoryLighting || c == CategoryAircon
}

// Product is read-only reference data: base installation and dismantle
// times plus handling flags used by capacity and work-time estimation.
type Product struct {
	ID               string
	Name             string
	Category         ProductCategory
	InstallMinutes   int
	DismantleMinutes int
	Fragile          bool
	TeamRequired     bool
	WeightKg         float64
	VolumeM3         float64
	HeightCm         int
	UprightOnly      bool
}
