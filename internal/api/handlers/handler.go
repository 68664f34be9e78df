package handlers

import (
	"drone-delivery-planner/internal/platform/logger"
	"drone-delivery-planner/internal/platform/metrics"
	"drone-delivery-planner/internal/ports"
	"drone-delivery-planner/internal/services"
)

// Handler serves the flight planner API. It only knows the reference data
// port, never the concrete adapter behind it.
type Handler struct {
	refData ports.ReferenceDataProvider
	planner *services.Planner
	log     logger.Logger
	metrics *metrics.Metrics
}

func New(refData ports.ReferenceDataProvider, planner *services.Planner, log logger.Logger, m *metrics.Metrics) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	if m == nil {
		m = metrics.NewMetrics("drone_planner", nil)
	}
	return &Handler{refData: refData, planner: planner, log: log, metrics: m}
}
