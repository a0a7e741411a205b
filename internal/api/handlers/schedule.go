package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"install-scheduling-service/internal/api/dto"
	"install-scheduling-service/internal/domain"
	"install-scheduling-service/internal/services"
)

// ScheduleHandler exposes the scheduling run and the slot inventory
// maintenance endpoints.
type ScheduleHandler struct {
	Scheduler        *services.Scheduler
	Inventory        *services.SlotInventory
	DefaultDaysAhead int
	Log              zerolog.Logger
}

// Run executes one scheduling run over the pending order pool and returns
// the committed entries with the run report.
func (h *ScheduleHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, h.Log, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries, report, err := h.Scheduler.Run(r.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("scheduling run failed")
		writeError(w, r, h.Log, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.RunScheduleResponse{
		RunID:              report.RunID,
		Scheduled:          report.Scheduled,
		LeftPending:        report.LeftPending,
		TotalWorkMinutes:   report.TotalWorkMinutes,
		TotalTravelMinutes: report.TotalTravelMinutes,
		TotalTravelKm:      report.TotalTravelKm,
		StartedAt:          report.StartedAt,
		FinishedAt:         report.FinishedAt,
		Entries:            make([]dto.ScheduleEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		res.Entries = append(res.Entries, toEntryResponse(e))
	}

	writeJSON(w, r, h.Log, http.StatusOK, res)
}

// EnsureSlots tops up the slot inventory. An empty body or a zero
// days_ahead falls back to the configured horizon.
func (h *ScheduleHandler) EnsureSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, h.Log, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	daysAhead := h.DefaultDaysAhead
	if r.ContentLength != 0 {
		var req dto.EnsureSlotsRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
			return
		}
		if req.DaysAhead < 0 || req.DaysAhead > 90 {
			writeError(w, r, h.Log, http.StatusBadRequest, "days_ahead must be between 0 and 90")
			return
		}
		if req.DaysAhead > 0 {
			daysAhead = req.DaysAhead
		}
	}

	created, err := h.Inventory.EnsureSlots(r.Context(), daysAhead)
	if err != nil {
		h.Log.Error().Err(err).Msg("ensure slots failed")
		writeError(w, r, h.Log, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.EnsureSlotsResponse{Created: created})
}

func toEntryResponse(e domain.ScheduleEntry) dto.ScheduleEntryResponse {
	return dto.ScheduleEntryResponse{
		OrderID:       e.OrderID,
		SlotID:        e.SlotID,
		Sequence:      e.Sequence,
		Start:         e.Start,
		End:           e.End,
		TravelMinutes: e.TravelMinutes,
		TravelKm:      e.TravelKm,
	}
}
