package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"install-scheduling-service/internal/api/handlers"
	"install-scheduling-service/internal/metrics"
	"install-scheduling-service/internal/ports"
	"install-scheduling-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	scheduler *services.Scheduler,
	inventory *services.SlotInventory,
	rescheduler *services.Rescheduler,
	orders ports.OrderRepository,
	slotDaysAhead int,
	log zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	scheduleHandler := &handlers.ScheduleHandler{
		Scheduler:        scheduler,
		Inventory:        inventory,
		DefaultDaysAhead: slotDaysAhead,
		Log:              log,
	}
	emergencyHandler := &handlers.EmergencyHandler{Rescheduler: rescheduler, Log: log}
	orderHandler := &handlers.OrderHandler{Repo: orders, Log: log}

	mux.HandleFunc("/health", handlers.Health(log))
	mux.HandleFunc("/schedule/run", scheduleHandler.Run)
	mux.HandleFunc("/schedule/slots", scheduleHandler.EnsureSlots)
	mux.HandleFunc("/emergencies", emergencyHandler.Report)
	mux.HandleFunc("/orders", orderHandler.List)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(log, mux)
}
