package templates

import (
	"context"
	"encoding/json"
	"html"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"sales-dashboard/internal/models"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := c.Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return sb.String()
}

func TestSummaryCards(t *testing.T) {
	html := render(t, SummaryCards(models.SummaryView{
		TotalSalesText:   "1,234",
		TotalRevenueText: "$300.00",
		AverageText:      "$100.00",
	}))

	for _, want := range []string{`id="summary-cards"`, "1,234", "$300.00", "$100.00"} {
		if !strings.Contains(html, want) {
			t.Errorf("SummaryCards() missing %q", want)
		}
	}
}

func TestPanelError_Escapes(t *testing.T) {
	html := render(t, PanelError(CustomerMapID, "<Customer map>", "req-1"))

	if strings.Contains(html, "<Customer map>") {
		t.Error("title should be escaped")
	}
	if !strings.Contains(html, `id="customer-map-status"`) || !strings.Contains(html, "req-1") {
		t.Errorf("PanelError() = %s", html)
	}
}

func TestFilterControls(t *testing.T) {
	f := models.Filter{
		Start:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Manager: "Bob",
	}
	html := render(t, FilterControls(f, models.FilterOptions{
		Managers:  []string{"Alice", "Bob"},
		Customers: []string{`Jane"Doe`},
	}))

	for _, want := range []string{
		`value="2024-01-01"`,
		`value="2024-01-31"`,
		`<option value="Bob" selected>Bob</option>`,
		`<option value="Alice">Alice</option>`,
		`Jane&#34;Doe`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("FilterControls() missing %q", want)
		}
	}
}

func TestDashboard(t *testing.T) {
	f := models.CurrentMonth(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	html := render(t, Dashboard(PageData{Filter: f, OptionsUnavailable: true, RequestID: "req-9"}))

	for _, want := range []string{
		"<!doctype html>",
		`data-on-load="@get('/sse/refresh-all')"`,
		"2024-02-29",
		`id="sales-status"`,
		`id="customer-map-status"`,
		"req-9",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Dashboard() missing %q", want)
		}
	}
}

func TestDashboard_OnlyFilterSignalsTravel(t *testing.T) {
	f := models.CurrentMonth(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	f.Manager = "Alice"
	page := render(t, Dashboard(PageData{Filter: f}))

	m := regexp.MustCompile(`data-signals="([^"]*)"`).FindStringSubmatch(page)
	if m == nil {
		t.Fatal("Dashboard() has no data-signals attribute")
	}
	var signals map[string]json.RawMessage
	if err := json.Unmarshal([]byte(html.UnescapeString(m[1])), &signals); err != nil {
		t.Fatalf("data-signals is not json: %v", err)
	}

	var sent []string
	for k := range signals {
		if !strings.HasPrefix(k, "_") {
			sent = append(sent, k)
		}
	}
	slices.Sort(sent)
	if want := []string{"customer", "end", "manager", "start"}; !slices.Equal(sent, want) {
		t.Errorf("signals sent with @get = %v, want %v", sent, want)
	}

	for _, chart := range []string{"_salesData", "_trafficData", "_customerTypesData", "_mapData"} {
		if _, ok := signals[chart]; !ok {
			t.Errorf("missing chart signal %s", chart)
		}
		if !strings.Contains(page, "$"+chart+")") {
			t.Errorf("no data-effect reads $%s", chart)
		}
	}
}

func TestFilterControls_SelectBindings(t *testing.T) {
	got := render(t, FilterControls(models.Filter{}, models.FilterOptions{}))

	for _, want := range []string{
		`<select name="manager" data-bind="manager">`,
		`<select name="customer" data-bind="customer">`,
		`data-on-change="@get('/sse/refresh-all')"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FilterControls() missing %q", want)
		}
	}
}
