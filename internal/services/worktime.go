package services

import (
	"fmt"
	"math"
	"strings"

	"install-scheduling-service/internal/domain"
)

// Installation complexity grades used by the detailed estimate.
type Complexity string

const (
	ComplexitySimple      Complexity = "simple"
	ComplexityMedium      Complexity = "medium"
	ComplexityComplex     Complexity = "complex"
	ComplexityVeryComplex Complexity = "very_complex"
)

// Multiplier returns the base work-time factor for the grade. Unknown
// grades fall back to medium.
func (c Complexity) Multiplier() float64 {
	switch c {
	case ComplexitySimple:
		return 0.8
	case ComplexityComplex:
		return 1.5
	case ComplexityVeryComplex:
		return 2.0
	default:
		return 1.0
	}
}

const (
	// Allowance for hauling away a dismantled unit, on top of the
	// product's dismantle base.
	dismantleExtraMinutes = 15

	// Fixed site overhead in the detailed estimate: registration,
	// lift booking, unloading.
	accessOverheadMinutes = 15

	// Safety margin for unexpected on-site delays.
	delayBufferRatio = 0.10
)

// EstimateOptions are the job characteristics supplied by the pre-booking
// recommendation flow. The boolean surcharges only apply to product
// categories where the work is relevant.
type EstimateOptions struct {
	Complexity      Complexity
	ExtraPlumbing   bool
	ExtraWiring     bool
	Coring          bool
	Stacking        bool
	DifficultAccess bool
}

// DetailedEstimate is a customer-facing minute count with a line-by-line
// breakdown of how it was computed.
type DetailedEstimate struct {
	TotalMinutes int
	Breakdown    []string
}

// WorkTimeEstimator converts order line items into on-site work minutes.
//
// It has two entry points with one shared rule set. QuickEstimate is the
// deterministic figure used while filling slots: base times only, scaled
// linearly by quantity. DetailedEstimate is the richer pre-booking figure:
// complexity and surcharge multipliers, diminishing-returns quantity
// scaling, a delay buffer and a fixed access overhead. The two are kept as
// distinct named operations on purpose.
type WorkTimeEstimator struct {
	products map[string]*domain.Product
}

// NewWorkTimeEstimator builds an estimator over a read-only product
// snapshot taken at run start.
func NewWorkTimeEstimator(products map[string]*domain.Product) *WorkTimeEstimator {
	return &WorkTimeEstimator{products: products}
}

// QuickEstimate returns the total work minutes for the slot-filling path.
// Per line item: the dismantle base plus a haul-away allowance when
// dismantling is required, the installation base otherwise, times quantity.
// No complexity or efficiency adjustment is applied here.
func (e *WorkTimeEstimator) QuickEstimate(items []domain.LineItem) (int, error) {
	total := 0
	for _, item := range items {
		p, ok := e.products[item.ProductID]
		if !ok {
			return 0, fmt.Errorf("quick estimate: unknown product %q", item.ProductID)
		}

		base := p.InstallMinutes
		if item.Dismantle {
			base = p.DismantleMinutes + dismantleExtraMinutes
		}

		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		total += base * qty
	}
	return total, nil
}

// DetailedEstimate returns the customer-facing minute count plus a
// human-readable breakdown. Deterministic and side-effect free.
func (e *WorkTimeEstimator) DetailedEstimate(items []domain.LineItem, opts EstimateOptions) (DetailedEstimate, error) {
	var (
		subtotal  float64
		breakdown []string
	)

	for _, item := range items {
		p, ok := e.products[item.ProductID]
		if !ok {
			return DetailedEstimate{}, fmt.Errorf("detailed estimate: unknown product %q", item.ProductID)
		}

		mult := opts.Complexity.Multiplier()
		var surcharges []string
		if item.Dismantle {
			mult += 0.5
			surcharges = append(surcharges, "dismantle +0.5")
		}
		if opts.ExtraPlumbing && p.Category.PlumbingRelevant() {
			mult += 0.7
			surcharges = append(surcharges, "plumbing +0.7")
		}
		if opts.ExtraWiring && p.Category.WiringRelevant() {
			mult += 0.6
			surcharges = append(surcharges, "wiring +0.6")
		}
		if opts.Coring {
			mult += 0.8
			surcharges = append(surcharges, "coring +0.8")
		}
		if opts.Stacking {
			mult += 0.3
			surcharges = append(surcharges, "stacking +0.3")
		}
		if opts.DifficultAccess {
			mult += 0.4
			surcharges = append(surcharges, "difficult access +0.4")
		}

		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		qmult := quantityMultiplier(qty)

		minutes := float64(p.InstallMinutes) * mult * qmult
		subtotal += minutes

		line := fmt.Sprintf("%s x%d: %d min base, factor %.2f, quantity factor %.2f = %.0f min",
			p.Name, qty, p.InstallMinutes, mult, qmult, minutes)
		if len(surcharges) > 0 {
			line += " (" + strings.Join(surcharges, ", ") + ")"
		}
		breakdown = append(breakdown, line)
	}

	buffer := subtotal * delayBufferRatio
	breakdown = append(breakdown,
		fmt.Sprintf("unexpected delay buffer 10%%: %.0f min", buffer),
		fmt.Sprintf("site access overhead: %d min", accessOverheadMinutes),
	)

	total := int(math.Ceil(subtotal + buffer + accessOverheadMinutes))
	return DetailedEstimate{TotalMinutes: total, Breakdown: breakdown}, nil
}

// quantityMultiplier models diminishing per-unit time as installers repeat
// the same assembly: full rate for one unit, 0.9 per unit for two or three,
// 0.8 per additional unit beyond three.
func quantityMultiplier(qty int) float64 {
	switch {
	case qty <= 1:
		return 1.0
	case qty <= 3:
		return float64(qty) * 0.9
	default:
		return 3*0.9 + float64(qty-3)*0.8
	}
}
