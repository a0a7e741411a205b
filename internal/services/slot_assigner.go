package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"install-scheduling-service/internal/domain"
	"install-scheduling-service/internal/metrics"
	"install-scheduling-service/internal/platform/obs"
	"install-scheduling-service/internal/ports"
)

// Margin reserved for travel when judging whether an order can fit a slot
// at all, before any sequencing happens.
const travelBufferMinutes = 30

// Scheduler assigns pending orders to time slots and sequences them into
// routes. One Run owns the pending pool exclusively; callers serialize
// runs against the same store (a run-level lock), the engine does not.
type Scheduler struct {
	Orders    ports.OrderRepository
	Buildings ports.BuildingDirectory
	Products  ports.ProductCatalog
	Slots     ports.TimeSlotRepository
	Estimator ports.DistanceEstimator
	Events    ports.EventPublisher // optional

	Depot             domain.Coordinates
	MatrixConcurrency int
	Log               zerolog.Logger
	Now               func() time.Time
}

// candidate is a pending order enriched with the snapshot data a slot walk
// needs.
type candidate struct {
	order    *domain.Order
	building *domain.Building
}

// Run executes one scheduling pass: slots are visited chronologically and
// filled with feasible pending orders until slots or orders run out.
//
// Every order ends the run either scheduled, with a fully consistent
// schedule entry persisted in a single write, or still pending and
// untouched. Commits are per order, so aborting between slots (ctx
// cancellation) leaves no partial state behind.
func (s *Scheduler) Run(ctx context.Context) (_ []domain.ScheduleEntry, _ domain.RunReport, err error) {
	defer obs.Time(s.Log, "scheduler.Run")(&err)

	now := s.now()
	report := domain.RunReport{RunID: uuid.NewString(), StartedAt: now}

	pending, err := s.Orders.ListPendingOrders(ctx)
	if err != nil {
		return nil, report, fmt.Errorf("scheduling run: list pending orders: %w", err)
	}

	// Read-only snapshot of reference data, taken once at run start so the
	// run is pure given its inputs.
	pool, products, err := s.snapshot(ctx, pending)
	if err != nil {
		return nil, report, fmt.Errorf("scheduling run: %w", err)
	}

	estimator := NewWorkTimeEstimator(products)
	for _, c := range pool {
		minutes, err := estimator.QuickEstimate(c.order.Items)
		if err != nil {
			return nil, report, fmt.Errorf("scheduling run: order %s: %w", c.order.ID, err)
		}
		c.order.WorkMinutes = minutes
	}

	slots, err := s.Slots.ListUpcoming(ctx, now)
	if err != nil {
		return nil, report, fmt.Errorf("scheduling run: list time slots: %w", err)
	}

	builder := &MatrixBuilder{Estimator: s.Estimator, Concurrency: s.MatrixConcurrency, Log: s.Log}

	var entries []domain.ScheduleEntry
	for _, slot := range slots {
		if len(pool) == 0 {
			break
		}
		// Abort point between slots: committed orders stay committed.
		if err := ctx.Err(); err != nil {
			s.finish(&report, len(pool), entries)
			return entries, report, err
		}
		if !slot.Available {
			continue
		}

		placed, slotEntries, buildErr := s.fillSlot(ctx, builder, slot, pool)
		if buildErr != nil {
			s.finish(&report, len(pool), entries)
			return entries, report, buildErr
		}
		entries = append(entries, slotEntries...)
		pool = removePlaced(pool, placed)
	}

	s.finish(&report, len(pool), entries)

	metrics.SchedulingRuns.Inc()
	metrics.RunDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	metrics.OrdersScheduled.Add(float64(report.Scheduled))
	metrics.OrdersLeftPending.Add(float64(report.LeftPending))

	s.Log.Info().
		Str("run_id", report.RunID).
		Int("scheduled", report.Scheduled).
		Int("left_pending", report.LeftPending).
		Float64("travel_km", report.TotalTravelKm).
		Msg("scheduling run finished")

	s.publish(ctx, "schedule.committed", report)
	return entries, report, nil
}

// fillSlot selects feasible candidates for one slot, sequences them, and
// commits the resulting schedule. Returned placed IDs are the orders that
// were persisted successfully.
func (s *Scheduler) fillSlot(
	ctx context.Context,
	builder *MatrixBuilder,
	slot *domain.TimeSlot,
	pool []*candidate,
) (map[string]bool, []domain.ScheduleEntry, error) {
	slotStart, slotEnd := slot.Start(), slot.End()

	// Feasibility: the intersection of the slot window and the building
	// access window must hold the work plus a travel margin.
	var feasible []*candidate
	for _, c := range pool {
		winStart, winEnd := slotStart, slotEnd
		if c.building.Access != nil {
			aStart, aEnd := c.building.Access.On(slot.Date)
			winStart, winEnd = domain.Intersect(slotStart, slotEnd, aStart, aEnd)
		}
		available := int(winEnd.Sub(winStart).Minutes())
		if available < c.order.WorkMinutes+travelBufferMinutes {
			continue
		}
		feasible = append(feasible, c)
	}
	if len(feasible) == 0 {
		return nil, nil, nil
	}

	points := make([]*domain.Coordinates, 0, len(feasible)+1)
	depot := s.Depot
	points = append(points, &depot)
	for _, c := range feasible {
		if c.building.Location.IsZero() {
			points = append(points, nil)
			continue
		}
		loc := c.building.Location
		points = append(points, &loc)
	}

	matrix, err := builder.Build(ctx, points)
	if err != nil {
		return nil, nil, fmt.Errorf("slot %s: build travel matrix: %w", slot.ID, err)
	}

	seqCandidates := make([]SequenceCandidate, len(feasible))
	for i, c := range feasible {
		seqCandidates[i] = SequenceCandidate{OrderID: c.order.ID, WorkMinutes: c.order.WorkMinutes}
	}
	order := SequenceRoute(seqCandidates, matrix, slotStart, slotEnd)

	placed := make(map[string]bool)
	var entries []domain.ScheduleEntry

	// Commit walk: accumulate travel and work from the depot, respecting
	// each order's own access window. Departure waits for the access
	// window to open, so arrival is access start plus travel at the
	// earliest.
	clock := slotStart
	current := 0
	seq := 1
	for _, idx := range order {
		c := feasible[idx]
		cell := matrix.At(current, idx+1)
		if cell == nil {
			break
		}
		travel := time.Duration(cell.DurationMinutes) * time.Minute

		depart := clock
		windowEnd := slotEnd
		if c.building.Access != nil {
			aStart, aEnd := c.building.Access.On(slot.Date)
			if aStart.After(depart) {
				depart = aStart
			}
			if aEnd.Before(windowEnd) {
				windowEnd = aEnd
			}
		}

		start := depart.Add(travel)
		end := start.Add(time.Duration(c.order.WorkMinutes) * time.Minute)
		if end.After(windowEnd) {
			// Dropped order stays pending; sequencing for this slot stops.
			break
		}

		entry := domain.ScheduleEntry{
			OrderID:       c.order.ID,
			SlotID:        slot.ID,
			Sequence:      seq,
			Start:         start,
			End:           end,
			TravelMinutes: cell.DurationMinutes,
			TravelKm:      cell.DistanceKm,
		}

		if err := s.Orders.UpdateSchedule(ctx, c.order.ID, entry); err != nil {
			// The order stays pending for a later slot. The time it would
			// have occupied is kept blocked so the rest of the walk stays
			// physically consistent.
			s.Log.Error().Err(err).Str("order_id", c.order.ID).Str("slot_id", slot.ID).
				Msg("schedule commit failed, order left pending")
			clock = end
			current = idx + 1
			continue
		}

		placed[c.order.ID] = true
		entries = append(entries, entry)
		seq++
		clock = end
		current = idx + 1
	}

	return placed, entries, nil
}

// snapshot resolves line items and buildings for every pending order and
// collects the referenced products into one read-only map. Missing
// reference data is a configuration failure reported with the offending
// key.
func (s *Scheduler) snapshot(ctx context.Context, pending []*domain.Order) ([]*candidate, map[string]*domain.Product, error) {
	buildings := make(map[string]*domain.Building)
	products := make(map[string]*domain.Product)
	pool := make([]*candidate, 0, len(pending))

	for _, o := range pending {
		items, err := s.Orders.GetLineItems(ctx, o.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("order %s: line items: %w", o.ID, err)
		}
		o.Items = items

		b, ok := buildings[o.BuildingID]
		if !ok {
			b, err = s.Buildings.GetBuilding(ctx, o.BuildingID)
			if err != nil {
				return nil, nil, fmt.Errorf("order %s: building %q: %w", o.ID, o.BuildingID, err)
			}
			buildings[o.BuildingID] = b
		}

		for _, item := range items {
			if _, ok := products[item.ProductID]; ok {
				continue
			}
			p, err := s.Products.GetProduct(ctx, item.ProductID)
			if err != nil {
				return nil, nil, fmt.Errorf("order %s: product %q: %w", o.ID, item.ProductID, err)
			}
			products[item.ProductID] = p
		}

		pool = append(pool, &candidate{order: o, building: b})
	}

	return pool, products, nil
}

func (s *Scheduler) finish(report *domain.RunReport, leftPending int, entries []domain.ScheduleEntry) {
	report.FinishedAt = s.now()
	report.Scheduled = len(entries)
	report.LeftPending = leftPending
	for _, e := range entries {
		report.TotalTravelMinutes += e.TravelMinutes
		report.TotalTravelKm += e.TravelKm
		report.TotalWorkMinutes += int(e.End.Sub(e.Start).Minutes())
	}
}

func (s *Scheduler) publish(ctx context.Context, kind string, payload any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, kind, payload); err != nil {
		s.Log.Warn().Err(err).Str("event", kind).Msg("event publish failed")
	}
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func removePlaced(pool []*candidate, placed map[string]bool) []*candidate {
	if len(placed) == 0 {
		return pool
	}
	out := pool[:0]
	for _, c := range pool {
		if !placed[c.order.ID] {
			out = append(out, c)
		}
	}
	return out
}
