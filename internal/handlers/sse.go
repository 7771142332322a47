package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

// chartPanel describes a panel whose data travels as a datastar signal and
// whose status line is patched as an element.
type chartPanel struct {
	panel    services.Panel
	signal   string
	statusID string
	title    string
	loaded   string
}

var (
	salesPanel = chartPanel{
		panel:    services.PanelSales,
		signal:   "_salesData",
		statusID: templates.SalesStatusID,
		title:    "Sales over time",
		loaded:   "Sales chart data loaded",
	}
	trafficPanel = chartPanel{
		panel:    services.PanelTrafficChannels,
		signal:   "_trafficData",
		statusID: templates.TrafficStatusID,
		title:    "Traffic channels",
		loaded:   "Traffic channel data loaded",
	}
	customerTypesPanel = chartPanel{
		panel:    services.PanelCustomerTypes,
		signal:   "_customerTypesData",
		statusID: templates.CustomerTypesID,
		title:    "Customer types",
		loaded:   "Customer type data loaded",
	}
	customerMapPanel = chartPanel{
		panel:    services.PanelCustomerMap,
		signal:   "_mapData",
		statusID: templates.CustomerMapID,
		title:    "Customer map",
		loaded:   "Customer map data loaded",
	}
)

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
	now       func() time.Time
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *SSEHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	f, ok := h.filter(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)

	view, err := h.dashboard.Summary(r.Context(), f)
	h.patchSummary(r.Context(), sse, view, err)

	flush(w)
}

func (h *SSEHandlers) HandleSales(w http.ResponseWriter, r *http.Request) {
	serveChart(h, w, r, salesPanel, h.dashboard.SalesSeries)
}

func (h *SSEHandlers) HandleTrafficChannels(w http.ResponseWriter, r *http.Request) {
	serveChart(h, w, r, trafficPanel, h.dashboard.TrafficChannels)
}

func (h *SSEHandlers) HandleCustomerTypes(w http.ResponseWriter, r *http.Request) {
	serveChart(h, w, r, customerTypesPanel, h.dashboard.CustomerTypes)
}

func (h *SSEHandlers) HandleCustomerMap(w http.ResponseWriter, r *http.Request) {
	serveChart(h, w, r, customerMapPanel, h.dashboard.CustomerMap)
}

// HandleRefreshAll recomputes every panel from one snapshot. Panels that
// succeeded are patched together in a single signals event; each failed
// panel gets its own error fragment.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	f, ok := h.filter(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)
	ctx := r.Context()

	snap := h.dashboard.Snapshot(ctx, f)

	h.patchSummary(ctx, sse, snap.Summary, snap.Errors[services.PanelSummary])

	data := map[services.Panel]any{
		services.PanelSales:           snap.Sales,
		services.PanelTrafficChannels: snap.TrafficChannels,
		services.PanelCustomerTypes:   snap.CustomerTypes,
		services.PanelCustomerMap:     snap.CustomerMap,
	}

	signals := make(map[string]any, len(data))
	for _, p := range []chartPanel{salesPanel, trafficPanel, customerTypesPanel, customerMapPanel} {
		if err := snap.Errors[p.panel]; err != nil {
			h.patchPanelError(ctx, sse, p.statusID, p.title)
			continue
		}
		signals[p.signal] = data[p.panel]
		h.patch(ctx, sse, templates.PanelStatus(p.statusID, p.loaded))
	}

	if len(signals) > 0 {
		allSignals, err := json.Marshal(signals)
		if err != nil {
			h.logger.Error("marshal all signals data", "error", err)
			return
		}
		if err := sse.PatchSignals(allSignals); err != nil {
			h.logger.Debug("patch signals", "error", err)
		}
	}

	flush(w)
}

func serveChart[T any](h *SSEHandlers, w http.ResponseWriter, r *http.Request, p chartPanel, load func(context.Context, models.Filter) (T, error)) {
	f, ok := h.filter(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)
	ctx := r.Context()

	view, err := load(ctx, f)
	if err != nil {
		h.patchPanelError(ctx, sse, p.statusID, p.title)
		flush(w)
		return
	}

	jsonData, err := json.Marshal(map[string]any{p.signal: view})
	if err != nil {
		h.logger.Error("marshal panel data", "panel", p.panel, "error", err)
		return
	}
	if err := sse.PatchSignals(jsonData); err != nil {
		h.logger.Debug("patch signals", "panel", p.panel, "error", err)
		return
	}
	h.patch(ctx, sse, templates.PanelStatus(p.statusID, p.loaded))

	flush(w)
}

// filter parses the request filter. On failure it answers with the JSON
// error envelope before any SSE headers are written.
func (h *SSEHandlers) filter(w http.ResponseWriter, r *http.Request) (models.Filter, bool) {
	f, err := ParseFilter(r, h.now())
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return models.Filter{}, false
	}
	return f, true
}

func (h *SSEHandlers) patchSummary(ctx context.Context, sse *datastar.ServerSentEventGenerator, view models.SummaryView, err error) {
	if err != nil {
		h.patchPanelError(ctx, sse, templates.SummaryCardsID, "Summary")
		return
	}
	h.patch(ctx, sse, templates.SummaryCards(view))
}

func (h *SSEHandlers) patchPanelError(ctx context.Context, sse *datastar.ServerSentEventGenerator, id, title string) {
	h.patch(ctx, sse, templates.PanelError(id, title, observability.GetRequestID(ctx)))
}

func (h *SSEHandlers) patch(ctx context.Context, sse *datastar.ServerSentEventGenerator, c templ.Component) {
	var buf strings.Builder
	if err := c.Render(ctx, &buf); err != nil {
		h.logger.Error("render fragment", "error", err)
		return
	}
	if err := sse.PatchElements(buf.String()); err != nil {
		h.logger.Debug("patch elements", "error", err)
	}
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
