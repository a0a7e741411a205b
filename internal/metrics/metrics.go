package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// SchedulingRuns counts completed scheduling runs.
	SchedulingRuns = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "scheduling_runs_total", Help: "Completed scheduling runs."},
	)
	// RunDuration records scheduling run durations in seconds.
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "scheduling_run_duration_seconds", Help: "Scheduling run duration in seconds.", Buckets: prometheus.DefBuckets},
	)
	// OrdersScheduled counts orders committed to a slot.
	OrdersScheduled = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "orders_scheduled_total", Help: "Orders committed to a time slot."},
	)
	// OrdersLeftPending counts orders still pending after a run.
	OrdersLeftPending = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "orders_left_pending_total", Help: "Orders left pending at the end of a run."},
	)
	// SlotsCreated counts time slots created by the inventory.
	SlotsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "time_slots_created_total", Help: "Time slots created by the inventory."},
	)
	// RoutingFallbacks counts distance estimates served by the offline model.
	RoutingFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "routing_fallback_estimates_total", Help: "Distance estimates served by the offline haversine model."},
	)
	// EmergencyResolutions counts emergency outcomes by disruption kind and action.
	EmergencyResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "emergency_resolutions_total", Help: "Emergency resolutions by disruption kind and action."},
		[]string{"kind", "action"},
	)
	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(SchedulingRuns)
		Registry.MustRegister(RunDuration)
		Registry.MustRegister(OrdersScheduled)
		Registry.MustRegister(OrdersLeftPending)
		Registry.MustRegister(SlotsCreated)
		Registry.MustRegister(RoutingFallbacks)
		Registry.MustRegister(EmergencyResolutions)
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
