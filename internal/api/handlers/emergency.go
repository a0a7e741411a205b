package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"install-scheduling-service/internal/api/dto"
	"install-scheduling-service/internal/domain"
	"install-scheduling-service/internal/services"
)

// EmergencyHandler accepts disruption reports and returns the recovery
// actions taken for each affected schedule.
type EmergencyHandler struct {
	Rescheduler *services.Rescheduler
	Log         zerolog.Logger
}

func (h *EmergencyHandler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, h.Log, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.EmergencyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}

	kind := domain.DisruptionKind(req.Kind)
	if !kind.Valid() {
		writeError(w, r, h.Log, http.StatusBadRequest, "unknown disruption kind")
		return
	}
	if len(req.Affected) == 0 {
		writeError(w, r, h.Log, http.StatusBadRequest, "affected must not be empty")
		return
	}

	affected := make([]domain.AffectedSchedule, 0, len(req.Affected))
	for _, a := range req.Affected {
		affected = append(affected, domain.AffectedSchedule{
			Entry: domain.ScheduleEntry{
				OrderID:  a.OrderID,
				SlotID:   a.SlotID,
				Sequence: a.Sequence,
				Start:    a.Start,
				End:      a.End,
			},
			TruckID: a.TruckID,
			Load:    toLoadItems(a.Load),
		})
	}

	opts := domain.EmergencyOptions{
		SubstituteTeamID: req.SubstituteTeamID,
		Reason:           req.Reason,
		TruckLoads:       make(map[string][]domain.LoadItem, len(req.TruckLoads)),
	}
	for _, t := range req.SubstituteTrucks {
		opts.SubstituteTrucks = append(opts.SubstituteTrucks, domain.Truck{
			ID:          t.TruckID,
			Name:        t.Name,
			MaxWeightKg: t.MaxWeightKg,
			MaxVolumeM3: t.MaxVolumeM3,
			HeightCm:    t.HeightCm,
			Covered:     t.Covered,
		})
	}
	for truckID, load := range req.TruckLoads {
		opts.TruckLoads[truckID] = toLoadItems(load)
	}

	resolutions, err := h.Rescheduler.Handle(r.Context(), kind, affected, opts)
	if err != nil {
		if errors.Is(err, services.ErrUnknownDisruption) {
			writeError(w, r, h.Log, http.StatusBadRequest, "unknown disruption kind")
			return
		}
		h.Log.Error().Err(err).Msg("emergency handling failed")
		writeError(w, r, h.Log, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.EmergencyResponse{Resolutions: make([]dto.ResolutionResponse, 0, len(resolutions))}
	for _, x := range resolutions {
		res.Resolutions = append(res.Resolutions, dto.ResolutionResponse{
			ID:      x.ID,
			Action:  string(x.Action),
			OrderID: x.OrderID,
			TruckID: x.TruckID,
			SlotID:  x.SlotID,
			Detail:  x.Detail,
		})
	}

	writeJSON(w, r, h.Log, http.StatusOK, res)
}

func toLoadItems(in []dto.LoadItemRequest) []domain.LoadItem {
	out := make([]domain.LoadItem, 0, len(in))
	for _, li := range in {
		out = append(out, domain.LoadItem{
			OrderID:     li.OrderID,
			Destination: li.Destination,
			WeightKg:    li.WeightKg,
			VolumeM3:    li.VolumeM3,
			HeightCm:    li.HeightCm,
			Fragile:     li.Fragile,
			UprightOnly: li.UprightOnly,
		})
	}
	return out
}
