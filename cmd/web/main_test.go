package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/config"
	apperrors "sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
)

// memoryStore serves the January 2024 fixture used across the route tests.
type memoryStore struct {
	down bool
}

func (m memoryStore) err() error {
	if m.down {
		return apperrors.StoreUnavailable(errors.New("connection refused"))
	}
	return nil
}

func (m memoryStore) FetchTrafficChannelCounts(context.Context, models.Filter) ([]models.CategoryCount, error) {
	return []models.CategoryCount{{Label: "Organic", Count: 7}, {Label: "Paid", Count: 3}}, m.err()
}

func (m memoryStore) FetchCustomerTypeCounts(context.Context, models.Filter) ([]models.CategoryCount, error) {
	return []models.CategoryCount{{Label: "Retail", Count: 3}}, m.err()
}

func (m memoryStore) FetchCustomerLocations(context.Context, models.Filter) ([]models.LocationCount, error) {
	return []models.LocationCount{{Address: "51.5,-0.12", HasAddress: true, OrderCount: 3}}, m.err()
}

func (m memoryStore) FetchSalesDetail(context.Context, models.Filter) ([]models.SaleDetail, error) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	return []models.SaleDetail{
		{Sale: models.Sale{ID: 1, SaleDate: day(5), TotalAmount: decimal.RequireFromString("100.00")}},
		{Sale: models.Sale{ID: 2, SaleDate: day(12), TotalAmount: decimal.RequireFromString("120.00")}},
		{Sale: models.Sale{ID: 3, SaleDate: day(20), TotalAmount: decimal.RequireFromString("80.00")}},
	}, m.err()
}

func (m memoryStore) FetchAggregate(context.Context, models.Filter) (models.AggregateResult, error) {
	return models.AggregateResult{TotalSales: 3, TotalRevenue: decimal.RequireFromString("300.00")}, m.err()
}

func (m memoryStore) FetchManagerNames(context.Context) ([]string, error) {
	return []string{"Alice", "Bob"}, m.err()
}

func (m memoryStore) FetchCustomerIdentities(context.Context) ([]string, error) {
	return []string{"JaneDoe555-1234"}, m.err()
}

func newTestServer(store services.Store) *server.Server {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	dashboard := services.NewDashboard(store, logger)
	templateHandlers := &server.TemplateHandlers{Dashboard: dashboardPage(dashboard, logger)}
	metrics := config.MetricsConfig{Enabled: true, Path: "/metrics"}
	return server.NewServer(dashboard, nil, logger, metrics, templateHandlers)
}

// Integration tests for HTTP routes
func TestServer_Routes(t *testing.T) {
	srv := newTestServer(memoryStore{})

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/api/summary", http.StatusOK, "application/json"},
		{"/api/sales", http.StatusOK, "application/json"},
		{"/api/traffic-channels", http.StatusOK, "application/json"},
		{"/api/customer-types", http.StatusOK, "application/json"},
		{"/api/customer-map", http.StatusOK, "application/json"},
		{"/api/filters", http.StatusOK, "application/json"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/metrics", http.StatusOK, "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", tt.path, nil)

			srv.ServeHTTP(w, r)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			ct := w.Header().Get("Content-Type")
			if !strings.Contains(ct, tt.contentType) {
				t.Errorf("content-type = %q, want %q", ct, tt.contentType)
			}

			// Validate JSON responses
			if tt.contentType == "application/json" {
				var result any
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Errorf("invalid json: %v", err)
				}
			}
		})
	}
}

func TestServer_SummaryJSON(t *testing.T) {
	srv := newTestServer(memoryStore{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/summary?start=2024-01-01&end=2024-01-31", nil)
	srv.ServeHTTP(w, r)

	var response struct {
		Success bool               `json:"success"`
		Data    models.SummaryView `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if !response.Success {
		t.Error("expected success=true in response")
	}
	if response.Data.TotalSales != 3 {
		t.Errorf("total_sales = %d, want 3", response.Data.TotalSales)
	}
	if !response.Data.AverageOrderValue.Equal(decimal.NewFromInt(100)) {
		t.Errorf("average_order_value = %s, want 100", response.Data.AverageOrderValue)
	}
}

// Test Server-Sent Events routes
func TestServer_SSERoutes(t *testing.T) {
	srv := newTestServer(memoryStore{})

	sseRoutes := []string{
		"/sse/summary",
		"/sse/sales",
		"/sse/traffic-channels",
		"/sse/customer-types",
		"/sse/customer-map",
		"/sse/refresh-all",
	}

	for _, route := range sseRoutes {
		t.Run(route, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", route, nil)

			srv.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}

			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
				t.Errorf("content-type = %q, should contain 'text/event-stream'", ct)
			}

			if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
				t.Errorf("cache-control = %q, want 'no-cache'", cc)
			}
		})
	}
}

func TestServer_StoreDown(t *testing.T) {
	srv := newTestServer(memoryStore{down: true})

	t.Run("api", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest("GET", "/api/customer-map", nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})

	t.Run("page still renders", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), `role="alert"`) {
			t.Error("page should flag the unavailable dropdowns")
		}
	})

	t.Run("sse patches error fragments", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest("GET", "/sse/refresh-all", nil))
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
		if got := strings.Count(w.Body.String(), "panel-error"); got != 5 {
			t.Errorf("error fragments = %d, want 5", got)
		}
	})
}

func TestServer_HandleHealth(t *testing.T) {
	srv := newTestServer(memoryStore{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode health JSON: %v", err)
	}

	healthData, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected health data in response")
	}

	if status, ok := healthData["status"].(string); !ok || status != "healthy" {
		t.Errorf("health status = %v, want 'healthy'", healthData["status"])
	}

	if _, ok := healthData["timestamp"]; !ok {
		t.Error("health response should include timestamp")
	}
}

// Test error handling for invalid methods
func TestServer_ErrorHandling(t *testing.T) {
	srv := newTestServer(memoryStore{})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"POST", "/api/summary", http.StatusMethodNotAllowed},
		{"PUT", "/", http.StatusMethodNotAllowed},
		{"DELETE", "/health", http.StatusMethodNotAllowed},
		{"PATCH", "/sse/refresh-all", http.StatusMethodNotAllowed},
		{"GET", "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, tt.path, nil)

			srv.ServeHTTP(w, r)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestDashboardPage(t *testing.T) {
	srv := newTestServer(memoryStore{})

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	body := w.Body.String()
	for _, want := range []string{
		"Sales Dashboard",
		"Sales Over Time",
		"Traffic Channels",
		"Customer Types",
		"Customer Locations",
		`<option value="Alice">Alice</option>`,
		"JaneDoe555-1234",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard should contain %q", want)
		}
	}
}

func TestWithMiddleware_LabelsRequestsByRoute(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	h := withMiddleware(newTestServer(memoryStore{}), config.SecurityConfig{}, logger)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/sse/customer-map", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response should carry a request id")
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Error("security headers should be applied")
	}

	m := httptest.NewRecorder()
	h.ServeHTTP(m, httptest.NewRequest("GET", "/metrics", nil))
	want := `sales_dashboard_http_request_duration_seconds_count{method="GET",route="GET /sse/customer-map",status="200"}`
	if !strings.Contains(m.Body.String(), want) {
		t.Errorf("metrics missing %s", want)
	}
}
