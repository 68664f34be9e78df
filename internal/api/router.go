package api

import (
	"net/http"
	"strings"

	"drone-delivery-planner/internal/api/handlers"
	"drone-delivery-planner/internal/platform/logger"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const apiPrefix = "/api/v1"

// NewRouter wires HTTP handlers and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(h *handlers.Handler, log logger.Logger, gatherer prometheus.Gatherer) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// Registered on the root router: mux reports method mismatches inside a
	// subrouter as 404.
	r.HandleFunc(apiPrefix+"/distanceTo", h.DistanceTo).Methods(http.MethodPost)
	r.HandleFunc(apiPrefix+"/isCloseTo", h.IsCloseTo).Methods(http.MethodPost)
	r.HandleFunc(apiPrefix+"/nextPosition", h.NextPosition).Methods(http.MethodPost)
	r.HandleFunc(apiPrefix+"/isInRegion", h.IsInRegion).Methods(http.MethodPost)

	r.HandleFunc(apiPrefix+"/dronesWithCooling/{state}", h.DronesWithCooling).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/droneDetails/{id}", h.DroneDetails).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/queryAsPath/{attribute}/{value}", h.QueryAsPath).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/query", h.Query).Methods(http.MethodPost)

	r.HandleFunc(apiPrefix+"/queryAvailableDrones", h.QueryAvailableDrones).Methods(http.MethodPost)
	r.HandleFunc(apiPrefix+"/calcDeliveryPath", h.CalcDeliveryPath).Methods(http.MethodPost)
	r.HandleFunc(apiPrefix+"/calcDeliveryPathAsGeoJson", h.CalcDeliveryPathAsGeoJSON).Methods(http.MethodPost)

	r.MethodNotAllowedHandler = withAllow(r, h.MethodNotAllowed)

	// Applied outermost first: the logger sees the id requestID assigned.
	return requestID(loggingMiddleware(log)(r))
}

// withAllow sets the Allow header to the methods the path does accept.
func withAllow(r *mux.Router, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var allowed []string
		for _, m := range []string{http.MethodGet, http.MethodPost} {
			alt := req.Clone(req.Context())
			alt.Method = m

			var match mux.RouteMatch
			if r.Match(alt, &match) && match.MatchErr == nil {
				allowed = append(allowed, m)
			}
		}
		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		next(w, req)
	})
}
