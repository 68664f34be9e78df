package handlers

import (
	"net/http"
	"strings"

	"drone-delivery-planner/internal/api/dto"
	"drone-delivery-planner/internal/domain"
	"drone-delivery-planner/internal/geometry"
)

func (h *Handler) DistanceTo(w http.ResponseWriter, r *http.Request) {
	a, b, ok := h.decodePair(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, h.log, http.StatusOK, geometry.Distance(a, b))
}

func (h *Handler) IsCloseTo(w http.ResponseWriter, r *http.Request) {
	a, b, ok := h.decodePair(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, h.log, http.StatusOK, geometry.IsCloseTo(a, b))
}

func (h *Handler) NextPosition(w http.ResponseWriter, r *http.Request) {
	var req dto.NextPositionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, err.Error())
		return
	}
	if req.Start == nil || req.Angle == nil {
		writeError(w, r, h.log, http.StatusBadRequest, "start and angle are required")
		return
	}
	if err := req.Start.Validate(); err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, err.Error())
		return
	}

	next, err := geometry.NextPosition(*req.Start, *req.Angle)
	if err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, h.log, http.StatusOK, next)
}

func (h *Handler) IsInRegion(w http.ResponseWriter, r *http.Request) {
	var req dto.IsInRegionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, err.Error())
		return
	}
	if req.Position == nil || req.Region == nil {
		writeError(w, r, h.log, http.StatusBadRequest, "position and region are required")
		return
	}
	if err := req.Position.Validate(); err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, err.Error())
		return
	}
	if err := domain.ValidateRing(req.Region.Vertices); err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, "region "+strings.TrimSpace(req.Region.Name)+": "+err.Error())
		return
	}

	writeJSON(w, r, h.log, http.StatusOK, geometry.PointInPolygon(*req.Position, req.Region.Vertices))
}

func (h *Handler) decodePair(w http.ResponseWriter, r *http.Request) (domain.Point, domain.Point, bool) {
	var req dto.PositionPairRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, err.Error())
		return domain.Point{}, domain.Point{}, false
	}
	if req.Position1 == nil || req.Position2 == nil {
		writeError(w, r, h.log, http.StatusBadRequest, "position1 and position2 are required")
		return domain.Point{}, domain.Point{}, false
	}
	for _, p := range []*domain.Point{req.Position1, req.Position2} {
		if err := p.Validate(); err != nil {
			writeError(w, r, h.log, http.StatusBadRequest, err.Error())
			return domain.Point{}, domain.Point{}, false
		}
	}
	return *req.Position1, *req.Position2, true
}
