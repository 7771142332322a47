package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const maxPanelWorkers = 5

// Store is the data access the dashboard needs. *store.Store satisfies it.
type Store interface {
	FetchTrafficChannelCounts(ctx context.Context, f models.Filter) ([]models.CategoryCount, error)
	FetchCustomerTypeCounts(ctx context.Context, f models.Filter) ([]models.CategoryCount, error)
	FetchCustomerLocations(ctx context.Context, f models.Filter) ([]models.LocationCount, error)
	FetchSalesDetail(ctx context.Context, f models.Filter) ([]models.SaleDetail, error)
	FetchAggregate(ctx context.Context, f models.Filter) (models.AggregateResult, error)
	FetchManagerNames(ctx context.Context) ([]string, error)
	FetchCustomerIdentities(ctx context.Context) ([]string, error)
}

type Panel string

const (
	PanelSummary         Panel = "summary"
	PanelSales           Panel = "sales"
	PanelTrafficChannels Panel = "traffic_channels"
	PanelCustomerTypes   Panel = "customer_types"
	PanelCustomerMap     Panel = "customer_map"
)

// Snapshot holds every panel for one filter. A panel whose query failed
// keeps its zero value and has an entry in Errors.
type Snapshot struct {
	Summary         models.SummaryView
	Sales           models.SalesSeriesView
	TrafficChannels models.BreakdownView
	CustomerTypes   models.BreakdownView
	CustomerMap     models.MapView
	Errors          map[Panel]error
}

type Dashboard struct {
	store  Store
	logger *slog.Logger

	panelsServed atomic.Int64
	panelErrors  atomic.Int64
	lastRefresh  atomic.Int64
}

func NewDashboard(store Store, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		store:  store,
		logger: logger,
	}
}

func (d *Dashboard) Summary(ctx context.Context, f models.Filter) (models.SummaryView, error) {
	agg, err := d.store.FetchAggregate(ctx, f)
	if d.record(ctx, PanelSummary, err) != nil {
		return models.SummaryView{}, err
	}
	return BuildSummary(agg), nil
}

func (d *Dashboard) SalesSeries(ctx context.Context, f models.Filter) (models.SalesSeriesView, error) {
	rows, err := d.store.FetchSalesDetail(ctx, f)
	if d.record(ctx, PanelSales, err) != nil {
		return models.SalesSeriesView{}, err
	}
	return BuildSalesSeries(rows), nil
}

func (d *Dashboard) TrafficChannels(ctx context.Context, f models.Filter) (models.BreakdownView, error) {
	rows, err := d.store.FetchTrafficChannelCounts(ctx, f)
	if d.record(ctx, PanelTrafficChannels, err) != nil {
		return models.BreakdownView{}, err
	}
	return breakdown("Distribution of Traffic Channels", rows), nil
}

func (d *Dashboard) CustomerTypes(ctx context.Context, f models.Filter) (models.BreakdownView, error) {
	rows, err := d.store.FetchCustomerTypeCounts(ctx, f)
	if d.record(ctx, PanelCustomerTypes, err) != nil {
		return models.BreakdownView{}, err
	}
	return breakdown("Distribution of Customer Types", rows), nil
}

func (d *Dashboard) CustomerMap(ctx context.Context, f models.Filter) (models.MapView, error) {
	rows, err := d.store.FetchCustomerLocations(ctx, f)
	if d.record(ctx, PanelCustomerMap, err) != nil {
		return models.MapView{}, err
	}
	view := BuildMapView(rows)
	if view.Excluded > 0 {
		observability.LoggerFrom(ctx, d.logger).Debug("customer locations without usable coordinates",
			"excluded", view.Excluded,
			"plotted", len(view.Markers),
		)
	}
	return view, nil
}

// FilterOptions loads both dropdowns. The two lookups are independent and
// the first failure is returned.
func (d *Dashboard) FilterOptions(ctx context.Context) (models.FilterOptions, error) {
	managers, err := d.store.FetchManagerNames(ctx)
	if err != nil {
		return models.FilterOptions{}, fmt.Errorf("load manager names: %w", err)
	}
	customers, err := d.store.FetchCustomerIdentities(ctx)
	if err != nil {
		return models.FilterOptions{}, fmt.Errorf("load customer identities: %w", err)
	}
	return models.FilterOptions{Managers: managers, Customers: customers}, nil
}

// Snapshot computes every panel in parallel. Each panel issues its own query
// on its own connection, and one panel failing leaves the others intact.
func (d *Dashboard) Snapshot(ctx context.Context, f models.Filter) *Snapshot {
	snap := &Snapshot{Errors: make(map[Panel]error)}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(maxPanelWorkers)

	run := func(p Panel, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				mu.Lock()
				snap.Errors[p] = err
				mu.Unlock()
			}
			return nil
		})
	}

	run(PanelSummary, func() (err error) {
		snap.Summary, err = d.Summary(ctx, f)
		return err
	})
	run(PanelSales, func() (err error) {
		snap.Sales, err = d.SalesSeries(ctx, f)
		return err
	})
	run(PanelTrafficChannels, func() (err error) {
		snap.TrafficChannels, err = d.TrafficChannels(ctx, f)
		return err
	})
	run(PanelCustomerTypes, func() (err error) {
		snap.CustomerTypes, err = d.CustomerTypes(ctx, f)
		return err
	})
	run(PanelCustomerMap, func() (err error) {
		snap.CustomerMap, err = d.CustomerMap(ctx, f)
		return err
	})

	_ = g.Wait()
	return snap
}

// Utility method for monitoring
func (d *Dashboard) Stats() map[string]any {
	stats := map[string]any{
		"panels_served": d.panelsServed.Load(),
		"panel_errors":  d.panelErrors.Load(),
	}
	if ts := d.lastRefresh.Load(); ts > 0 {
		stats["last_refresh"] = time.Unix(0, ts).UTC()
	}
	return stats
}

func (d *Dashboard) record(ctx context.Context, p Panel, err error) error {
	if err != nil {
		d.panelErrors.Add(1)
		observability.PanelRenders.WithLabelValues(string(p), "error").Inc()
		observability.LoggerFrom(ctx, d.logger).Warn("panel query failed", "panel", p, "error", err)
		return err
	}
	d.panelsServed.Add(1)
	d.lastRefresh.Store(time.Now().UnixNano())
	observability.PanelRenders.WithLabelValues(string(p), "ok").Inc()
	return nil
}

func breakdown(title string, rows []models.CategoryCount) models.BreakdownView {
	slices.SortFunc(rows, func(a, b models.CategoryCount) int {
		if a.Count != b.Count {
			if a.Count > b.Count {
				return -1
			}
			return 1
		}
		if a.Label < b.Label {
			return -1
		}
		if a.Label > b.Label {
			return 1
		}
		return 0
	})
	return models.BreakdownView{Title: title, Slices: rows}
}
