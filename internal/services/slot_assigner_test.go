package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"install-scheduling-service/internal/adapters/repositories"
	"install-scheduling-service/internal/domain"
)

// fixedEstimator returns the same estimate for every pair.
type fixedEstimator struct {
	minutes int
	km      float64
}

func (f fixedEstimator) Estimate(ctx context.Context, from, to domain.Coordinates) domain.TravelEstimate {
	return domain.TravelEstimate{DistanceKm: f.km, DurationMinutes: f.minutes}
}

// capturingPublisher records published event kinds.
type capturingPublisher struct {
	mu    sync.Mutex
	kinds []string
}

func (p *capturingPublisher) Publish(ctx context.Context, kind string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kinds = append(p.kinds, kind)
	return nil
}

type schedulerFixture struct {
	orders *repositories.MemoryOrderRepository
	ref    *repositories.MemoryReferenceRepository
	slots  *repositories.MemoryTimeSlotRepository
	events *capturingPublisher
	sched  *Scheduler
}

func newSchedulerFixture(t *testing.T, travelMinutes int, orders ...*domain.Order) *schedulerFixture {
	t.Helper()

	f := &schedulerFixture{
		orders: repositories.NewMemoryOrderRepository(orders...),
		ref:    repositories.NewMemoryReferenceRepository(),
		slots:  repositories.NewMemoryTimeSlotRepository(),
		events: &capturingPublisher{},
	}
	f.ref.AddProduct(&domain.Product{
		ID: "sink", Name: "Kitchen sink", Category: domain.CategoryKitchen,
		InstallMinutes: 60, DismantleMinutes: 30,
	})

	f.sched = &Scheduler{
		Orders:    f.orders,
		Buildings: f.ref,
		Products:  f.ref,
		Slots:     f.slots,
		Estimator: fixedEstimator{minutes: travelMinutes, km: 8},
		Events:    f.events,
		Depot:     domain.Coordinates{Lon: 103.82, Lat: 1.35},
		Log:       zerolog.Nop(),
		Now:       fixedClock(time.Date(2026, 9, 7, 6, 0, 0, 0, time.UTC)),
	}
	return f
}

func (f *schedulerFixture) addSlot(id string, startMinute, endMinute int) *domain.TimeSlot {
	slot := &domain.TimeSlot{
		ID:        id,
		Date:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		Window:    domain.DayWindow{StartMinute: startMinute, EndMinute: endMinute},
		Available: true,
	}
	_ = f.slots.CreateSlot(context.Background(), slot)
	return slot
}

func (f *schedulerFixture) addBuilding(id string, lat float64, access *domain.DayWindow) {
	f.ref.AddBuilding(&domain.Building{
		ID:       id,
		Type:     domain.LocationHDB,
		Location: domain.Coordinates{Lon: 103.9, Lat: lat},
		Access:   access,
	})
}

func pendingOrder(id, buildingID string, items ...domain.LineItem) *domain.Order {
	return &domain.Order{ID: id, Status: domain.OrderPending, BuildingID: buildingID, Items: items}
}

func TestRunSchedulesOrderAfterAccessOpens(t *testing.T) {
	f := newSchedulerFixture(t, 20,
		pendingOrder("ord-1", "bld-1", domain.LineItem{ProductID: "sink", Quantity: 1}))
	// Slot opens at 08:00 but the building only allows work from 09:00.
	f.addSlot("slot-1", 8*60, 12*60)
	f.addBuilding("bld-1", 1.36, &domain.DayWindow{StartMinute: 9 * 60, EndMinute: 12 * 60})

	entries, report, err := f.sched.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "ord-1", e.OrderID)
	assert.Equal(t, "slot-1", e.SlotID)
	assert.Equal(t, 1, e.Sequence)
	// Departure waits for access start, so start = 09:00 + 20min travel.
	assert.Equal(t, time.Date(2026, 9, 7, 9, 20, 0, 0, time.UTC), e.Start)
	assert.Equal(t, time.Date(2026, 9, 7, 10, 20, 0, 0, time.UTC), e.End)
	assert.Equal(t, 20, e.TravelMinutes)

	assert.Equal(t, 1, report.Scheduled)
	assert.Equal(t, 0, report.LeftPending)
	assert.Equal(t, 60, report.TotalWorkMinutes)

	got, ok := f.orders.Get("ord-1")
	require.True(t, ok)
	assert.Equal(t, domain.OrderScheduled, got.Status)
	assert.Equal(t, 1, got.Attempts)

	assert.Equal(t, []string{"schedule.committed"}, f.events.kinds)
}

func TestRunSequencesNearestFirst(t *testing.T) {
	near := pendingOrder("ord-near", "bld-near", domain.LineItem{ProductID: "sink", Quantity: 1})
	far := pendingOrder("ord-far", "bld-far", domain.LineItem{ProductID: "sink", Quantity: 1})
	f := newSchedulerFixture(t, 0, near, far)
	// Distance-proportional estimator instead of the fixed one.
	f.sched.Estimator = &stubEstimator{}
	f.addSlot("slot-1", 9*60, 17*60)
	f.addBuilding("bld-near", 1.36, nil)
	f.addBuilding("bld-far", 1.45, nil)

	entries, _, err := f.sched.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "ord-near", entries[0].OrderID)
	assert.Equal(t, 1, entries[0].Sequence)
	assert.Equal(t, "ord-far", entries[1].OrderID)
	assert.Equal(t, 2, entries[1].Sequence)
	assert.True(t, entries[1].Start.After(entries[0].End))
}

func TestRunLeavesInfeasibleOrderPending(t *testing.T) {
	// 60 work + 30 travel margin does not fit a 1-hour access window.
	f := newSchedulerFixture(t, 5,
		pendingOrder("ord-1", "bld-1", domain.LineItem{ProductID: "sink", Quantity: 1}))
	f.addSlot("slot-1", 9*60, 12*60)
	f.addBuilding("bld-1", 1.36, &domain.DayWindow{StartMinute: 9 * 60, EndMinute: 10 * 60})

	entries, report, err := f.sched.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, entries)
	assert.Equal(t, 0, report.Scheduled)
	assert.Equal(t, 1, report.LeftPending)

	got, _ := f.orders.Get("ord-1")
	assert.Equal(t, domain.OrderPending, got.Status)
	assert.Equal(t, 0, got.Attempts)
}

func TestRunOverflowsIntoLaterSlot(t *testing.T) {
	a := pendingOrder("ord-a", "bld-1", domain.LineItem{ProductID: "sink", Quantity: 2})
	b := pendingOrder("ord-b", "bld-2", domain.LineItem{ProductID: "sink", Quantity: 2})
	f := newSchedulerFixture(t, 10, a, b)
	// Each order needs 120 work; a 3-hour slot fits one (10 + 120 twice
	// would end at 13:20).
	f.addSlot("slot-am", 9*60, 12*60)
	f.addSlot("slot-pm", 13*60, 17*60)
	f.addBuilding("bld-1", 1.36, nil)
	f.addBuilding("bld-2", 1.37, nil)

	entries, report, err := f.sched.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 2, report.Scheduled)
	assert.Equal(t, 0, report.LeftPending)
	assert.NotEqual(t, entries[0].SlotID, entries[1].SlotID)

	slots := map[string]string{}
	for _, e := range entries {
		slots[e.OrderID] = e.SlotID
	}
	assert.Len(t, slots, 2)
}

func TestRunSkipsUnavailableSlot(t *testing.T) {
	f := newSchedulerFixture(t, 10,
		pendingOrder("ord-1", "bld-1", domain.LineItem{ProductID: "sink", Quantity: 1}))
	slot := f.addSlot("slot-1", 9*60, 12*60)
	slot.Available = false
	f.addBuilding("bld-1", 1.36, nil)

	entries, report, err := f.sched.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 1, report.LeftPending)
}

func TestRunMissingBuildingFails(t *testing.T) {
	f := newSchedulerFixture(t, 10,
		pendingOrder("ord-1", "bld-ghost", domain.LineItem{ProductID: "sink", Quantity: 1}))
	f.addSlot("slot-1", 9*60, 12*60)

	_, _, err := f.sched.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bld-ghost")
}

func TestRunNoPendingOrders(t *testing.T) {
	f := newSchedulerFixture(t, 10)
	f.addSlot("slot-1", 9*60, 12*60)

	entries, report, err := f.sched.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 0, report.Scheduled)
	assert.Equal(t, 0, report.LeftPending)
}

func TestRunOrderWithoutCoordinatesStaysPending(t *testing.T) {
	f := newSchedulerFixture(t, 10,
		pendingOrder("ord-1", "bld-1", domain.LineItem{ProductID: "sink", Quantity: 1}))
	f.addSlot("slot-1", 9*60, 12*60)
	f.ref.AddBuilding(&domain.Building{ID: "bld-1", Type: domain.LocationHDB})

	entries, report, err := f.sched.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 1, report.LeftPending)
}
