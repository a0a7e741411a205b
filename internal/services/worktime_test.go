package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"install-scheduling-service/internal/domain"
)

func testProducts() map[string]*domain.Product {
	return map[string]*domain.Product{
		"wardrobe": {
			ID: "wardrobe", Name: "Sliding wardrobe", Category: domain.CategoryWardrobe,
			InstallMinutes: 90, DismantleMinutes: 40,
		},
		"sink": {
			ID: "sink", Name: "Kitchen sink", Category: domain.CategoryKitchen,
			InstallMinutes: 60, DismantleMinutes: 30,
		},
		"aircon": {
			ID: "aircon", Name: "Split aircon", Category: domain.CategoryAircon,
			InstallMinutes: 120, DismantleMinutes: 45,
		},
	}
}

func TestQuickEstimateInstallOnly(t *testing.T) {
	e := NewWorkTimeEstimator(testProducts())

	got, err := e.QuickEstimate([]domain.LineItem{{ProductID: "wardrobe", Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, 90, got)
}

func TestQuickEstimateDismantleAddsHaulAway(t *testing.T) {
	e := NewWorkTimeEstimator(testProducts())

	// Dismantle path: dismantle base 30 + haul-away allowance 15.
	got, err := e.QuickEstimate([]domain.LineItem{{ProductID: "sink", Quantity: 1, Dismantle: true}})
	require.NoError(t, err)
	assert.Equal(t, 45, got)
}

func TestQuickEstimateScalesLinearlyByQuantity(t *testing.T) {
	e := NewWorkTimeEstimator(testProducts())

	one, err := e.QuickEstimate([]domain.LineItem{{ProductID: "sink", Quantity: 1}})
	require.NoError(t, err)
	three, err := e.QuickEstimate([]domain.LineItem{{ProductID: "sink", Quantity: 3}})
	require.NoError(t, err)

	assert.Equal(t, 3*one, three)
}

func TestQuickEstimateZeroQuantityCountsAsOne(t *testing.T) {
	e := NewWorkTimeEstimator(testProducts())

	got, err := e.QuickEstimate([]domain.LineItem{{ProductID: "sink", Quantity: 0}})
	require.NoError(t, err)
	assert.Equal(t, 60, got)
}

func TestQuickEstimateUnknownProduct(t *testing.T) {
	e := NewWorkTimeEstimator(testProducts())

	_, err := e.QuickEstimate([]domain.LineItem{{ProductID: "ghost", Quantity: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestDetailedEstimateSimpleJob(t *testing.T) {
	e := NewWorkTimeEstimator(testProducts())

	// 60 * 0.8 = 48, +10% = 52.8, +15 overhead = 67.8, ceil = 68.
	got, err := e.DetailedEstimate(
		[]domain.LineItem{{ProductID: "sink", Quantity: 1}},
		EstimateOptions{Complexity: ComplexitySimple},
	)
	require.NoError(t, err)
	assert.Equal(t, 68, got.TotalMinutes)
	assert.Len(t, got.Breakdown, 3)
}

func TestDetailedEstimateSurchargesRespectCategory(t *testing.T) {
	e := NewWorkTimeEstimator(testProducts())
	opts := EstimateOptions{Complexity: ComplexityMedium, ExtraPlumbing: true, ExtraWiring: true}

	// Plumbing surcharge applies to the kitchen sink, wiring does not:
	// 60 * (1.0 + 0.7) = 102, +10% = 112.2, +15 = 127.2, ceil = 128.
	sink, err := e.DetailedEstimate([]domain.LineItem{{ProductID: "sink", Quantity: 1}}, opts)
	require.NoError(t, err)
	assert.Equal(t, 128, sink.TotalMinutes)

	// Wiring surcharge applies to the aircon, plumbing does not:
	// 120 * (1.0 + 0.6) = 192, +10% = 211.2, +15 = 226.2, ceil = 227.
	aircon, err := e.DetailedEstimate([]domain.LineItem{{ProductID: "aircon", Quantity: 1}}, opts)
	require.NoError(t, err)
	assert.Equal(t, 227, aircon.TotalMinutes)
}

func TestDetailedEstimateVeryComplexWithEverything(t *testing.T) {
	e := NewWorkTimeEstimator(testProducts())

	// 2.0 + dismantle 0.5 + wiring 0.6 + coring 0.8 + stacking 0.3 +
	// difficult access 0.4 = 4.6. 120 * 4.6 = 552, +10% = 607.2,
	// +15 = 622.2, ceil = 623.
	got, err := e.DetailedEstimate(
		[]domain.LineItem{{ProductID: "aircon", Quantity: 1, Dismantle: true}},
		EstimateOptions{
			Complexity:      ComplexityVeryComplex,
			ExtraWiring:     true,
			Coring:          true,
			Stacking:        true,
			DifficultAccess: true,
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 623, got.TotalMinutes)
}

func TestQuantityMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, quantityMultiplier(1))
	assert.InDelta(t, 1.8, quantityMultiplier(2), 1e-9)
	assert.InDelta(t, 2.7, quantityMultiplier(3), 1e-9)
	assert.InDelta(t, 3.5, quantityMultiplier(4), 1e-9)
	assert.InDelta(t, 5.1, quantityMultiplier(6), 1e-9)
}

func TestComplexityMultiplierFallsBackToMedium(t *testing.T) {
	assert.Equal(t, 1.0, Complexity("nonsense").Multiplier())
}
