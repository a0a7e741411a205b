package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"install-scheduling-service/internal/api/dto"
	"install-scheduling-service/internal/ports"
)

// OrderHandler exposes read-only views of the pending order pool.
type OrderHandler struct {
	Repo ports.OrderRepository
	Log  zerolog.Logger
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, h.Log, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	orders, err := h.Repo.ListPendingOrders(r.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("list pending orders failed")
		writeError(w, r, h.Log, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListOrdersResponse{Orders: make([]dto.OrderResponse, 0, len(orders))}
	for _, o := range orders {
		out := dto.OrderResponse{
			OrderID:       o.ID,
			Status:        string(o.Status),
			BuildingID:    o.BuildingID,
			SlotID:        o.SlotID,
			Sequence:      o.Sequence,
			TravelMinutes: o.TravelMinutes,
			TravelKm:      o.TravelKm,
			Attempts:      o.Attempts,
		}
		if !o.ScheduledStart.IsZero() {
			out.ScheduledStart = timePtr(o.ScheduledStart)
			out.ScheduledEnd = timePtr(o.ScheduledEnd)
		}
		res.Orders = append(res.Orders, out)
	}

	writeJSON(w, r, h.Log, http.StatusOK, res)
}

func timePtr(t time.Time) *time.Time { return &t }
