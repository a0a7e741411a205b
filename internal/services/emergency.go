package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"install-scheduling-service/internal/domain"
	"install-scheduling-service/internal/metrics"
	"install-scheduling-service/internal/ports"
)

// ErrUnknownDisruption marks a disruption kind the rescheduler has no
// strategy for. This is a configuration error, never a silent no-op.
var ErrUnknownDisruption = errors.New("unknown disruption kind")

// strategy recovers a batch of affected schedules for one disruption kind.
type strategy interface {
	Resolve(ctx context.Context, affected []domain.AffectedSchedule, opts domain.EmergencyOptions) []domain.Resolution
}

// Rescheduler reacts to operational disruptions by applying the recovery
// strategy registered for the disruption kind. The kind set is closed:
// strategies are wired at construction and an unregistered kind fails with
// ErrUnknownDisruption.
type Rescheduler struct {
	Log    zerolog.Logger
	Events ports.EventPublisher // optional

	strategies map[domain.DisruptionKind]strategy
}

func NewRescheduler(orders ports.OrderRepository, slots ports.TimeSlotRepository, fleet ports.TruckFleet, events ports.EventPublisher, log zerolog.Logger) *Rescheduler {
	now := time.Now
	return &Rescheduler{
		Log:    log,
		Events: events,
		strategies: map[domain.DisruptionKind]strategy{
			domain.DisruptionTruckBreakdown:       &truckBreakdownStrategy{orders: orders, slots: slots, fleet: fleet, log: log},
			domain.DisruptionMedicalLeave:         &teamAbsenceStrategy{orders: orders, slots: slots, log: log},
			domain.DisruptionCustomerCancellation: &cancellationStrategy{orders: orders, log: log},
			domain.DisruptionWeatherDelay:         &weatherDelayStrategy{orders: orders, slots: slots, log: log, now: now},
		},
	}
}

// Handle dispatches the disruption to its strategy and returns the
// resolution actions taken. Every invocation is logged with the kind, the
// affected count and a resolution summary.
func (r *Rescheduler) Handle(
	ctx context.Context,
	kind domain.DisruptionKind,
	affected []domain.AffectedSchedule,
	opts domain.EmergencyOptions,
) ([]domain.Resolution, error) {
	strat, ok := r.strategies[kind]
	if !ok {
		return nil, fmt.Errorf("handle emergency: %w: %q", ErrUnknownDisruption, kind)
	}

	resolutions := strat.Resolve(ctx, affected, opts)

	summary := map[domain.ResolutionAction]int{}
	for _, res := range resolutions {
		summary[res.Action]++
		metrics.EmergencyResolutions.WithLabelValues(string(kind), string(res.Action)).Inc()
	}

	r.Log.Info().
		Str("kind", string(kind)).
		Int("affected", len(affected)).
		Int("reassigned", summary[domain.ActionReassigned]).
		Int("postponed", summary[domain.ActionPostponed]).
		Int("removed", summary[domain.ActionRemoved]).
		Str("reason", opts.Reason).
		Msg("emergency handled")

	if r.Events != nil {
		if err := r.Events.Publish(ctx, "emergency.resolved", resolutions); err != nil {
			r.Log.Warn().Err(err).Msg("event publish failed")
		}
	}

	return resolutions, nil
}

// truckBreakdownStrategy tries every substitute truck for each affected
// schedule; the first truck whose remaining capacity fits the load wins.
// When no truck fits, the order is postponed to the next available slot
// (same-day next slot as the simple default).
type truckBreakdownStrategy struct {
	orders ports.OrderRepository
	slots  ports.TimeSlotRepository
	fleet  ports.TruckFleet // fallback when the caller names no substitutes
	log    zerolog.Logger
}

func (s *truckBreakdownStrategy) Resolve(ctx context.Context, affected []domain.AffectedSchedule, opts domain.EmergencyOptions) []domain.Resolution {
	loads := make(map[string][]domain.LoadItem, len(opts.TruckLoads))
	for id, items := range opts.TruckLoads {
		loads[id] = items
	}

	substitutes := opts.SubstituteTrucks
	if len(substitutes) == 0 && s.fleet != nil {
		broken := make(map[string]bool, len(affected))
		for _, a := range affected {
			broken[a.TruckID] = true
		}
		available, err := s.fleet.ListAvailable(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("fleet lookup failed")
		}
		for _, t := range available {
			if !broken[t.ID] {
				substitutes = append(substitutes, *t)
			}
		}
	}

	var out []domain.Resolution
	for _, a := range affected {
		reassigned := false
		for _, truck := range substitutes {
			assessment := AssessCapacity(truck, loads[truck.ID], a.Load)
			if !assessment.CanFit {
				continue
			}
			// Account the load so later schedules see the truck filling up.
			loads[truck.ID] = append(loads[truck.ID], a.Load...)
			out = append(out, domain.Resolution{
				ID:      uuid.NewString(),
				Action:  domain.ActionReassigned,
				OrderID: a.Entry.OrderID,
				TruckID: truck.ID,
				Detail: fmt.Sprintf("moved from truck %s, weight %.0f%%, volume %.0f%%",
					a.TruckID, assessment.WeightUtilization*100, assessment.VolumeUtilization*100),
			})
			reassigned = true
			break
		}
		if reassigned {
			continue
		}

		out = append(out, postpone(ctx, s.orders, s.slots, s.log, a, a.Entry.End, "no substitute truck fits"))
	}
	return out
}

// teamAbsenceStrategy hands affected work to a substitute team when one is
// offered; otherwise the schedules are postponed.
type teamAbsenceStrategy struct {
	orders ports.OrderRepository
	slots  ports.TimeSlotRepository
	log    zerolog.Logger
}

func (s *teamAbsenceStrategy) Resolve(ctx context.Context, affected []domain.AffectedSchedule, opts domain.EmergencyOptions) []domain.Resolution {
	var out []domain.Resolution
	for _, a := range affected {
		if opts.SubstituteTeamID != "" {
			out = append(out, domain.Resolution{
				ID:      uuid.NewString(),
				Action:  domain.ActionReassigned,
				OrderID: a.Entry.OrderID,
				Detail:  fmt.Sprintf("reassigned to team %s", opts.SubstituteTeamID),
			})
			continue
		}
		out = append(out, postpone(ctx, s.orders, s.slots, s.log, a, a.Entry.End, "no substitute team available"))
	}
	return out
}

// cancellationStrategy cleans up after customer cancellations: affected
// orders are cancelled and their slot time is implicitly released.
type cancellationStrategy struct {
	orders ports.OrderRepository
	log    zerolog.Logger
}

func (s *cancellationStrategy) Resolve(ctx context.Context, affected []domain.AffectedSchedule, opts domain.EmergencyOptions) []domain.Resolution {
	var out []domain.Resolution
	for _, a := range affected {
		if err := s.orders.UpdateStatus(ctx, a.Entry.OrderID, domain.OrderCancelled); err != nil {
			s.log.Error().Err(err).Str("order_id", a.Entry.OrderID).Msg("cancel status update failed")
			continue
		}
		detail := "customer cancellation"
		if opts.Reason != "" {
			detail = opts.Reason
		}
		out = append(out, domain.Resolution{
			ID:      uuid.NewString(),
			Action:  domain.ActionRemoved,
			OrderID: a.Entry.OrderID,
			SlotID:  a.Entry.SlotID,
			Detail:  detail,
		})
	}
	return out
}

// weatherDelayStrategy pushes every affected schedule past the end of the
// current day, to the earliest slot of the next operating day.
type weatherDelayStrategy struct {
	orders ports.OrderRepository
	slots  ports.TimeSlotRepository
	log    zerolog.Logger
	now    func() time.Time
}

func (s *weatherDelayStrategy) Resolve(ctx context.Context, affected []domain.AffectedSchedule, opts domain.EmergencyOptions) []domain.Resolution {
	var out []domain.Resolution
	for _, a := range affected {
		day := a.Entry.Start
		if day.IsZero() {
			day = s.now()
		}
		nextDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()).AddDate(0, 0, 1)
		out = append(out, postpone(ctx, s.orders, s.slots, s.log, a, nextDay, "weather postponement"))
	}
	return out
}

// postpone marks the order rescheduled and points it at the earliest
// available slot after the given instant. A missing later slot still
// postpones; the resolution just carries no slot reference.
func postpone(
	ctx context.Context,
	orders ports.OrderRepository,
	slots ports.TimeSlotRepository,
	log zerolog.Logger,
	a domain.AffectedSchedule,
	after time.Time,
	reason string,
) domain.Resolution {
	res := domain.Resolution{
		ID:      uuid.NewString(),
		Action:  domain.ActionPostponed,
		OrderID: a.Entry.OrderID,
		Detail:  reason,
	}

	slot, err := slots.NextAvailableAfter(ctx, after)
	switch {
	case err == nil:
		res.SlotID = slot.ID
	case errors.Is(err, ports.ErrNotFound):
		res.Detail = reason + "; no later slot available"
	default:
		log.Error().Err(err).Str("order_id", a.Entry.OrderID).Msg("next slot lookup failed")
		res.Detail = reason + "; slot lookup failed"
	}

	if err := orders.UpdateStatus(ctx, a.Entry.OrderID, domain.OrderRescheduled); err != nil {
		log.Error().Err(err).Str("order_id", a.Entry.OrderID).Msg("reschedule status update failed")
	}
	return res
}
