package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"drone-delivery-planner/internal/services"

	"github.com/gorilla/mux"
)

func (h *Handler) DronesWithCooling(w http.ResponseWriter, r *http.Request) {
	state, err := strconv.ParseBool(mux.Vars(r)["state"])
	if err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, "state must be true or false")
		return
	}

	drones, err := h.drones(r.Context())
	if err != nil {
		h.upstreamFailed(w, r, err)
		return
	}
	writeJSON(w, r, h.log, http.StatusOK, nonNil(services.DronesWithCooling(state, drones)))
}

func (h *Handler) DroneDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	drones, err := h.drones(r.Context())
	if err != nil {
		h.upstreamFailed(w, r, err)
		return
	}

	drone, err := services.DroneDetails(id, drones)
	if errors.Is(err, services.ErrDroneNotFound) {
		writeError(w, r, h.log, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, h.log, http.StatusOK, drone)
}

func (h *Handler) QueryAsPath(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	drones, err := h.drones(r.Context())
	if err != nil {
		h.upstreamFailed(w, r, err)
		return
	}

	writeJSON(w, r, h.log, http.StatusOK, services.QueryAsPath(vars["attribute"], vars["value"], drones))
}

func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var conditions []services.QueryCondition
	if err := decodeBody(w, r, &conditions); err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, err.Error())
		return
	}

	drones, err := h.drones(r.Context())
	if err != nil {
		h.upstreamFailed(w, r, err)
		return
	}

	writeJSON(w, r, h.log, http.StatusOK, services.Query(conditions, drones))
}

func (h *Handler) upstreamFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("reference data unavailable", "path", r.URL.Path, "err", err)
	writeError(w, r, h.log, http.StatusBadGateway, "reference data unavailable")
}

// nonNil keeps empty id lists encoding as [] rather than null.
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
