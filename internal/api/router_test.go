package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"install-scheduling-service/internal/adapters/repositories"
	"install-scheduling-service/internal/adapters/routing"
	"install-scheduling-service/internal/domain"
	"install-scheduling-service/internal/metrics"
	"install-scheduling-service/internal/services"
)

func newTestRouter(t *testing.T) (http.Handler, *repositories.MemoryOrderRepository) {
	t.Helper()
	metrics.RegisterDefault()

	orders := repositories.NewMemoryOrderRepository(
		&domain.Order{
			ID: "ord-1", Status: domain.OrderPending, BuildingID: "bld-1",
			Items: []domain.LineItem{{ProductID: "sink", Quantity: 1}},
		},
	)
	ref := repositories.NewMemoryReferenceRepository()
	ref.AddBuilding(&domain.Building{
		ID: "bld-1", Type: domain.LocationHDB,
		Location: domain.Coordinates{Lon: 103.9, Lat: 1.36},
	})
	ref.AddProduct(&domain.Product{
		ID: "sink", Name: "Kitchen sink", Category: domain.CategoryKitchen,
		InstallMinutes: 60, DismantleMinutes: 30,
	})
	slots := repositories.NewMemoryTimeSlotRepository(&domain.TimeSlot{
		ID:        "slot-1",
		Date:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		Window:    domain.DayWindow{StartMinute: 9 * 60, EndMinute: 12 * 60},
		Available: true,
	})

	scheduler := &services.Scheduler{
		Orders:    orders,
		Buildings: ref,
		Products:  ref,
		Slots:     slots,
		Estimator: routing.NewStaticEstimator(nil),
		Depot:     domain.Coordinates{Lon: 103.82, Lat: 1.35},
		Log:       zerolog.Nop(),
		Now:       func() time.Time { return time.Date(2026, 9, 7, 6, 0, 0, 0, time.UTC) },
	}
	inventory := services.NewSlotInventory(slots, zerolog.Nop())
	inventory.Now = scheduler.Now
	rescheduler := services.NewRescheduler(orders, slots, nil, nil, zerolog.Nop())

	return NewRouter(scheduler, inventory, rescheduler, orders, 7, zerolog.Nop()), orders
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestScheduleRunEndpoint(t *testing.T) {
	router, orders := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/schedule/run", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Scheduled   int `json:"scheduled"`
		LeftPending int `json:"left_pending"`
		Entries     []struct {
			OrderID string `json:"order_id"`
			SlotID  string `json:"slot_id"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Scheduled)
	assert.Equal(t, 0, res.LeftPending)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "ord-1", res.Entries[0].OrderID)
	assert.Equal(t, "slot-1", res.Entries[0].SlotID)

	got, ok := orders.Get("ord-1")
	require.True(t, ok)
	assert.Equal(t, domain.OrderScheduled, got.Status)
}

func TestScheduleRunRejectsGet(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule/run", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestEnsureSlotsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/schedule/slots",
		strings.NewReader(`{"days_ahead":2}`)))

	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Created int `json:"created"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	// Two operating days, three templates each, minus the slot that
	// already exists.
	assert.Equal(t, 5, res.Created)
}

func TestEnsureSlotsRejectsBadBody(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/schedule/slots",
		strings.NewReader(`{"days_ahead":2,"bogus":true}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrdersEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Orders []struct {
			OrderID string `json:"order_id"`
			Status  string `json:"status"`
		} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Orders, 1)
	assert.Equal(t, "ord-1", res.Orders[0].OrderID)
	assert.Equal(t, "pending", res.Orders[0].Status)
}

func TestEmergencyEndpoint(t *testing.T) {
	router, orders := newTestRouter(t)
	require.NoError(t, orders.UpdateSchedule(context.Background(), "ord-1", domain.ScheduleEntry{
		OrderID: "ord-1", SlotID: "slot-1",
		Start: time.Date(2026, 9, 7, 9, 30, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC),
	}))

	body := `{
		"kind": "customer_cancellation",
		"reason": "customer moved house",
		"affected": [{"order_id": "ord-1", "slot_id": "slot-1", "truck_id": "trk-1"}]
	}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/emergencies", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Resolutions []struct {
			Action  string `json:"action"`
			OrderID string `json:"order_id"`
		} `json:"resolutions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Resolutions, 1)
	assert.Equal(t, "removed", res.Resolutions[0].Action)

	got, _ := orders.Get("ord-1")
	assert.Equal(t, domain.OrderCancelled, got.Status)
}

func TestEmergencyEndpointRejectsUnknownKind(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"kind": "alien_invasion", "affected": [{"order_id": "ord-1"}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/emergencies", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
