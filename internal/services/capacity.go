package services

import (
	"fmt"
	"math"

	"install-scheduling-service/internal/domain"
)

// CapacityAssessment is the feasibility verdict for loading a set of items
// onto one truck on top of its existing load.
type CapacityAssessment struct {
	CanFit            bool
	WeightUtilization float64
	VolumeUtilization float64
	PackingScore      float64
	Details           []string
}

const minPackingScore = 0.3

// AssessCapacity aggregates weight and volume across the existing and
// proposed load and scores packing feasibility for mixed item types.
//
// The packing score starts at 1.0 and is penalized for tall items on an
// uncovered truck, for loads scattered across many destinations, and for
// carrying several fragile pieces at once. A load fits when both
// utilizations stay at or below 1.0 and the score stays above 0.3.
func AssessCapacity(truck domain.Truck, existing, incoming []domain.LoadItem) CapacityAssessment {
	all := make([]domain.LoadItem, 0, len(existing)+len(incoming))
	all = append(all, existing...)
	all = append(all, incoming...)

	var totalWeight, totalVolume float64
	for _, item := range all {
		totalWeight += item.WeightKg
		totalVolume += item.VolumeM3
	}

	weightUtil := utilization(totalWeight, truck.MaxWeightKg)
	volumeUtil := utilization(totalVolume, truck.MaxVolumeM3)

	score := 1.0
	var details []string

	if !truck.Covered {
		for _, item := range all {
			if truck.HeightCm > 0 && float64(item.HeightCm) > 0.8*float64(truck.HeightCm) {
				score -= 0.3
				details = append(details,
					fmt.Sprintf("item for order %s is %dcm tall on an uncovered %dcm truck", item.OrderID, item.HeightCm, truck.HeightCm))
				break
			}
		}
	}

	if len(all) > 0 {
		destinations := make(map[string]struct{}, len(all))
		for _, item := range all {
			destinations[item.Destination] = struct{}{}
		}
		complexity := float64(len(destinations)) / float64(len(all))
		if complexity > 0.7 {
			score -= 0.2
			details = append(details,
				fmt.Sprintf("delivery order complexity %.2f: %d destinations for %d items", complexity, len(destinations), len(all)))
		}
	}

	fragile := 0
	for _, item := range all {
		if item.Fragile {
			fragile++
		}
	}
	if fragile > 2 {
		score -= 0.1
		details = append(details, fmt.Sprintf("%d fragile items on one truck", fragile))
	}

	canFit := weightUtil <= 1.0 && volumeUtil <= 1.0 && score > minPackingScore
	if weightUtil > 1.0 {
		details = append(details, fmt.Sprintf("weight over limit: %.0fkg of %.0fkg", totalWeight, truck.MaxWeightKg))
	}
	if volumeUtil > 1.0 {
		details = append(details, fmt.Sprintf("volume over limit: %.2fm3 of %.2fm3", totalVolume, truck.MaxVolumeM3))
	}

	return CapacityAssessment{
		CanFit:            canFit,
		WeightUtilization: weightUtil,
		VolumeUtilization: volumeUtil,
		PackingScore:      score,
		Details:           details,
	}
}

// utilization guards against zero-capacity reference data: any load on a
// zero limit counts as unbounded utilization.
func utilization(used, limit float64) float64 {
	if limit <= 0 {
		if used > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return used / limit
}
