package handlers

import (
	"context"
	"errors"
	"net/http"

	"drone-delivery-planner/internal/domain"
	"drone-delivery-planner/internal/services"
)

func (h *Handler) QueryAvailableDrones(w http.ResponseWriter, r *http.Request) {
	var requests []domain.DispatchRequest
	if err := decodeBody(w, r, &requests); err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.snapshot(r.Context())
	if err != nil {
		h.upstreamFailed(w, r, err)
		return
	}

	ids := services.QueryAvailableDrones(requests, snap.drones, snap.servicePointDrones)
	writeJSON(w, r, h.log, http.StatusOK, nonNil(ids))
}

func (h *Handler) CalcDeliveryPath(w http.ResponseWriter, r *http.Request) {
	result, ok := h.plan(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, h.log, http.StatusOK, result)
}

func (h *Handler) CalcDeliveryPathAsGeoJSON(w http.ResponseWriter, r *http.Request) {
	result, ok := h.plan(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, h.log, http.StatusOK, services.BuildGeoJSON(result))
}

// plan decodes the dispatch batch, loads reference data and runs the planner.
// It writes the error response itself and reports whether the caller should
// continue.
func (h *Handler) plan(w http.ResponseWriter, r *http.Request) (*domain.PlanningResult, bool) {
	var requests []domain.DispatchRequest
	if err := decodeBody(w, r, &requests); err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, err.Error())
		return nil, false
	}

	ctx := r.Context()
	snap, err := h.snapshot(ctx)
	if err != nil {
		h.upstreamFailed(w, r, err)
		return nil, false
	}

	result, err := h.calc(ctx, requests, snap)
	switch {
	case errors.Is(err, services.ErrInvalidPlanInput):
		writeError(w, r, h.log, http.StatusBadRequest, err.Error())
		return nil, false
	case err != nil:
		h.log.Error("calc delivery path failed", "err", err)
		writeError(w, r, h.log, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return result, true
}

func (h *Handler) calc(ctx context.Context, requests []domain.DispatchRequest, snap referenceSnapshot) (*domain.PlanningResult, error) {
	eligible := services.QueryAvailableDrones(requests, snap.drones, snap.servicePointDrones)

	return h.planner.CalcDeliveryPath(ctx, services.PlanInput{
		Requests:           requests,
		Drones:             snap.drones,
		ServicePoints:      snap.servicePoints,
		ServicePointDrones: snap.servicePointDrones,
		RestrictedAreas:    snap.restrictedAreas,
		EligibleDroneIDs:   eligible,
	})
}
