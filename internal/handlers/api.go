package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

// Pinger reports whether the sales database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type APIHandlers struct {
	dashboard *services.Dashboard
	pinger    Pinger
	logger    *slog.Logger
	now       func() time.Time
}

func NewAPIHandlers(dashboard *services.Dashboard, pinger Pinger, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		pinger:    pinger,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	serveJSON(h, w, r, h.dashboard.Summary)
}

func (h *APIHandlers) HandleSales(w http.ResponseWriter, r *http.Request) {
	serveJSON(h, w, r, h.dashboard.SalesSeries)
}

func (h *APIHandlers) HandleTrafficChannels(w http.ResponseWriter, r *http.Request) {
	serveJSON(h, w, r, h.dashboard.TrafficChannels)
}

func (h *APIHandlers) HandleCustomerTypes(w http.ResponseWriter, r *http.Request) {
	serveJSON(h, w, r, h.dashboard.CustomerTypes)
}

func (h *APIHandlers) HandleCustomerMap(w http.ResponseWriter, r *http.Request) {
	serveJSON(h, w, r, h.dashboard.CustomerMap)
}

func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	opts, err := h.dashboard.FilterOptions(r.Context())
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}
	errors.WriteSuccess(w, opts)
}

// HandleHealth reports degraded rather than failing when the database is
// down, so the page itself stays servable.
func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"database":  "up",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.logger.Warn("health check: database unreachable", "error", err)
			healthData["status"] = "degraded"
			healthData["database"] = "down"
		}
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats())
}

// serveJSON parses the filter, runs one panel and writes the envelope.
// Panel data reflects live data, so nothing is cacheable.
func serveJSON[T any](h *APIHandlers, w http.ResponseWriter, r *http.Request, panel func(context.Context, models.Filter) (T, error)) {
	requestID := observability.GetRequestID(r.Context())

	f, err := ParseFilter(r, h.now())
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	data, err := panel(r.Context(), f)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": "no-store",
	})
}
