package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

type fakeStore struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error

	aggregate models.AggregateResult
	traffic   []models.CategoryCount
	types     []models.CategoryCount
	locations []models.LocationCount
	detail    []models.SaleDetail
	managers  []string
	customers []string
}

func (f *fakeStore) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
	return f.fail[name]
}

func (f *fakeStore) FetchTrafficChannelCounts(ctx context.Context, _ models.Filter) ([]models.CategoryCount, error) {
	return f.traffic, f.hit("traffic")
}

func (f *fakeStore) FetchCustomerTypeCounts(ctx context.Context, _ models.Filter) ([]models.CategoryCount, error) {
	return f.types, f.hit("types")
}

func (f *fakeStore) FetchCustomerLocations(ctx context.Context, _ models.Filter) ([]models.LocationCount, error) {
	return f.locations, f.hit("locations")
}

func (f *fakeStore) FetchSalesDetail(ctx context.Context, _ models.Filter) ([]models.SaleDetail, error) {
	return f.detail, f.hit("detail")
}

func (f *fakeStore) FetchAggregate(ctx context.Context, _ models.Filter) (models.AggregateResult, error) {
	return f.aggregate, f.hit("aggregate")
}

func (f *fakeStore) FetchManagerNames(ctx context.Context) ([]string, error) {
	return f.managers, f.hit("managers")
}

func (f *fakeStore) FetchCustomerIdentities(ctx context.Context) ([]string, error) {
	return f.customers, f.hit("customers")
}

func newTestDashboard(store Store) *Dashboard {
	return NewDashboard(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func seededStore() *fakeStore {
	return &fakeStore{
		aggregate: models.AggregateResult{TotalSales: 3, TotalRevenue: decimal.RequireFromString("300.00")},
		traffic: []models.CategoryCount{
			{Label: "Paid", Count: 3},
			{Label: "Organic", Count: 7},
			{Label: "Email", Count: 3},
		},
		types:     []models.CategoryCount{{Label: "Retail", Count: 2}, {Label: "Wholesale", Count: 1}},
		locations: []models.LocationCount{{Address: "51.5,-0.12", HasAddress: true, OrderCount: 2}},
		managers:  []string{"Alice", "Bob"},
		customers: []string{"JaneDoe555"},
	}
}

func TestDashboard_Summary(t *testing.T) {
	d := newTestDashboard(seededStore())

	view, err := d.Summary(context.Background(), models.Filter{})
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if view.TotalSales != 3 || view.TotalRevenueText != "$300.00" || view.AverageText != "$100.00" {
		t.Errorf("Summary() = %+v", view)
	}
}

func TestDashboard_TrafficChannelsSorted(t *testing.T) {
	d := newTestDashboard(seededStore())

	view, err := d.TrafficChannels(context.Background(), models.Filter{})
	if err != nil {
		t.Fatalf("TrafficChannels() error = %v", err)
	}
	if view.Title != "Distribution of Traffic Channels" {
		t.Errorf("Title = %q", view.Title)
	}

	want := []string{"Organic", "Email", "Paid"}
	for i, s := range view.Slices {
		if s.Label != want[i] {
			t.Errorf("Slices[%d] = %q, want %q", i, s.Label, want[i])
		}
	}
}

func TestDashboard_PanelError(t *testing.T) {
	store := seededStore()
	store.fail = map[string]error{"aggregate": apperrors.StoreUnavailable(errors.New("refused"))}
	d := newTestDashboard(store)

	_, err := d.Summary(context.Background(), models.Filter{})
	if !apperrors.IsStoreUnavailable(err) {
		t.Fatalf("Summary() error = %v, want store unavailable", err)
	}

	stats := d.Stats()
	if stats["panel_errors"].(int64) != 1 {
		t.Errorf("panel_errors = %v, want 1", stats["panel_errors"])
	}
}

func TestDashboard_Snapshot(t *testing.T) {
	store := seededStore()
	d := newTestDashboard(store)

	snap := d.Snapshot(context.Background(), models.Filter{})

	if len(snap.Errors) != 0 {
		t.Fatalf("Errors = %v", snap.Errors)
	}
	if snap.Summary.TotalSales != 3 {
		t.Errorf("Summary.TotalSales = %d", snap.Summary.TotalSales)
	}
	if len(snap.CustomerMap.Markers) != 1 {
		t.Errorf("CustomerMap markers = %d", len(snap.CustomerMap.Markers))
	}
	if snap.CustomerTypes.Title != "Distribution of Customer Types" {
		t.Errorf("CustomerTypes.Title = %q", snap.CustomerTypes.Title)
	}

	// One query per panel.
	for _, name := range []string{"aggregate", "detail", "traffic", "types", "locations"} {
		if store.calls[name] != 1 {
			t.Errorf("%s calls = %d, want 1", name, store.calls[name])
		}
	}
	if store.calls["managers"] != 0 {
		t.Error("Snapshot() should not load filter options")
	}

	if got := d.Stats()["panels_served"].(int64); got != 5 {
		t.Errorf("panels_served = %d, want 5", got)
	}
}

func TestDashboard_SnapshotIsolatesFailures(t *testing.T) {
	store := seededStore()
	boom := apperrors.QueryFailed(errors.New("syntax error"), "customer_locations")
	store.fail = map[string]error{"locations": boom}
	d := newTestDashboard(store)

	snap := d.Snapshot(context.Background(), models.Filter{})

	if len(snap.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", snap.Errors)
	}
	if !errors.Is(snap.Errors[PanelCustomerMap], boom) {
		t.Errorf("Errors[customer_map] = %v", snap.Errors[PanelCustomerMap])
	}
	if snap.Summary.TotalSales != 3 {
		t.Error("summary should render despite the map failing")
	}
	if len(snap.TrafficChannels.Slices) != 3 {
		t.Error("traffic channels should render despite the map failing")
	}
}

func TestDashboard_FilterOptions(t *testing.T) {
	store := seededStore()
	d := newTestDashboard(store)

	opts, err := d.FilterOptions(context.Background())
	if err != nil {
		t.Fatalf("FilterOptions() error = %v", err)
	}
	if len(opts.Managers) != 2 || opts.Customers[0] != "JaneDoe555" {
		t.Errorf("FilterOptions() = %+v", opts)
	}

	store.fail = map[string]error{"customers": apperrors.StoreUnavailable(io.EOF)}
	if _, err := d.FilterOptions(context.Background()); !apperrors.IsStoreUnavailable(err) {
		t.Errorf("FilterOptions() error = %v, want store unavailable", err)
	}
}
