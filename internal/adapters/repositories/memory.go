package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"install-scheduling-service/internal/domain"
	"install-scheduling-service/internal/ports"
)

// In-memory implementations of the repository ports. They back the service
// and API tests; production wiring uses the Postgres variants.

type MemoryOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func NewMemoryOrderRepository(orders ...*domain.Order) *MemoryOrderRepository {
	r := &MemoryOrderRepository{orders: make(map[string]*domain.Order)}
	for _, o := range orders {
		cp := *o
		r.orders[o.ID] = &cp
	}
	return r
}

func (r *MemoryOrderRepository) ListPendingOrders(ctx context.Context) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []*domain.Order
	for _, o := range r.orders {
		if o.Status == domain.OrderPending {
			cp := *o
			pending = append(pending, &cp)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	return pending, nil
}

func (r *MemoryOrderRepository) GetLineItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("get line items for order %q: %w", orderID, ports.ErrNotFound)
	}
	items := make([]domain.LineItem, len(o.Items))
	copy(items, o.Items)
	return items, nil
}

func (r *MemoryOrderRepository) UpdateSchedule(ctx context.Context, orderID string, entry domain.ScheduleEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("update schedule for order %q: %w", orderID, ports.ErrNotFound)
	}
	o.Status = domain.OrderScheduled
	o.SlotID = entry.SlotID
	o.Sequence = entry.Sequence
	o.ScheduledStart = entry.Start
	o.ScheduledEnd = entry.End
	o.TravelMinutes = entry.TravelMinutes
	o.TravelKm = entry.TravelKm
	o.Attempts++
	return nil
}

func (r *MemoryOrderRepository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("update status for order %q: %w", orderID, ports.ErrNotFound)
	}
	o.Status = status
	return nil
}

// Get returns a copy of one order, for test assertions.
func (r *MemoryOrderRepository) Get(orderID string) (domain.Order, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, false
	}
	return *o, true
}

type MemoryReferenceRepository struct {
	mu        sync.Mutex
	buildings map[string]*domain.Building
	products  map[string]*domain.Product
	trucks    []*domain.Truck
}

func NewMemoryReferenceRepository() *MemoryReferenceRepository {
	return &MemoryReferenceRepository{
		buildings: make(map[string]*domain.Building),
		products:  make(map[string]*domain.Product),
	}
}

func (r *MemoryReferenceRepository) AddBuilding(b *domain.Building) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buildings[b.ID] = b
}

func (r *MemoryReferenceRepository) AddProduct(p *domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

func (r *MemoryReferenceRepository) AddTruck(t *domain.Truck) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trucks = append(r.trucks, t)
}

func (r *MemoryReferenceRepository) GetBuilding(ctx context.Context, buildingID string) (*domain.Building, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buildings[buildingID]
	if !ok {
		return nil, fmt.Errorf("get building %q: %w", buildingID, ports.ErrNotFound)
	}
	return b, nil
}

func (r *MemoryReferenceRepository) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[productID]
	if !ok {
		return nil, fmt.Errorf("get product %q: %w", productID, ports.ErrNotFound)
	}
	return p, nil
}

func (r *MemoryReferenceRepository) ListAvailable(ctx context.Context) ([]*domain.Truck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trucks := make([]*domain.Truck, len(r.trucks))
	copy(trucks, r.trucks)
	return trucks, nil
}

type MemoryTimeSlotRepository struct {
	mu    sync.Mutex
	slots []*domain.TimeSlot
}

func NewMemoryTimeSlotRepository(slots ...*domain.TimeSlot) *MemoryTimeSlotRepository {
	return &MemoryTimeSlotRepository{slots: slots}
}

func (r *MemoryTimeSlotRepository) ListUpcoming(ctx context.Context, from time.Time) ([]*domain.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var upcoming []*domain.TimeSlot
	for _, s := range r.slots {
		if !s.Start().Before(from) {
			upcoming = append(upcoming, s)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Start().Before(upcoming[j].Start()) })
	return upcoming, nil
}

func (r *MemoryTimeSlotRepository) SlotExists(ctx context.Context, date time.Time, startMinute int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if sameDay(s.Date, date) && s.Window.StartMinute == startMinute {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryTimeSlotRepository) CreateSlot(ctx context.Context, slot *domain.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if sameDay(s.Date, slot.Date) && s.Window.StartMinute == slot.Window.StartMinute {
			return nil
		}
	}
	r.slots = append(r.slots, slot)
	return nil
}

func (r *MemoryTimeSlotRepository) NextAvailableAfter(ctx context.Context, after time.Time) (*domain.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *domain.TimeSlot
	for _, s := range r.slots {
		if !s.Available || !s.Start().After(after) {
			continue
		}
		if best == nil || s.Start().Before(best.Start()) {
			best = s
		}
	}
	if best == nil {
		return nil, fmt.Errorf("next available slot after %s: %w", after.Format(time.RFC3339), ports.ErrNotFound)
	}
	return best, nil
}

// Count returns the number of stored slots, for test assertions.
func (r *MemoryTimeSlotRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
