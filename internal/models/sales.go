package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date form used for filters and query binding.
const DateLayout = "2006-01-02"

type Sale struct {
	ID          int64
	SaleDate    time.Time
	TotalAmount decimal.Decimal
	CustomerID  int64
	ManagerID   int64
	TrafficID   int64
}

// SaleDetail is one row of the detail query: the sale joined with its
// manager's name and the customer fields that make up the identity key.
type SaleDetail struct {
	Sale
	ManagerName string
	FirstName   string
	LastName    string
	Phone       string
}

// CustomerIdentity is the store-side CONCAT(first_name, last_name, phone).
func (d SaleDetail) CustomerIdentity() string {
	return d.FirstName + d.LastName + d.Phone
}

// Filter narrows every query. Start and End are inclusive calendar dates;
// empty Manager or Customer means the predicate is not applied.
type Filter struct {
	Start    time.Time
	End      time.Time
	Manager  string
	Customer string
}

func (f Filter) HasManager() bool  { return f.Manager != "" }
func (f Filter) HasCustomer() bool { return f.Customer != "" }

// CurrentMonth is the filter the dashboard opens with: first to last day of
// the month containing now.
func CurrentMonth(now time.Time) Filter {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Filter{
		Start: first,
		End:   first.AddDate(0, 1, -1),
	}
}

type AggregateResult struct {
	TotalSales   int64           `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type CategoryCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// LocationCount is a grouped address row before coordinate parsing.
// HasAddress is false when the stored address is NULL.
type LocationCount struct {
	Address    string
	HasAddress bool
	OrderCount int64
}

// Coordinate is either a valid latitude/longitude pair or missing. The zero
// value is missing.
type Coordinate struct {
	lat, lon float64
	valid    bool
}

func ValidCoordinate(lat, lon float64) Coordinate {
	return Coordinate{lat: lat, lon: lon, valid: true}
}

func MissingCoordinate() Coordinate { return Coordinate{} }

func (c Coordinate) Valid() bool { return c.valid }

func (c Coordinate) LatLon() (lat, lon float64, ok bool) {
	return c.lat, c.lon, c.valid
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return []byte("null"), nil
	}
	return json.Marshal([2]float64{c.lat, c.lon})
}

type LocationPoint struct {
	Coordinate Coordinate `json:"coordinate"`
	OrderCount int64      `json:"order_count"`
	Radius     float64    `json:"radius"`
}

// View models returned by the dashboard service and rendered by handlers.

type SummaryView struct {
	TotalSales        int64           `json:"total_sales"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	TotalSalesText    string          `json:"total_sales_text"`
	TotalRevenueText  string          `json:"total_revenue_text"`
	AverageText       string          `json:"average_order_value_text"`
}

type SalesPoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type SalesSeriesView struct {
	Points          []SalesPoint    `json:"points"`
	FilteredRevenue decimal.Decimal `json:"filtered_revenue"`
}

type BreakdownView struct {
	Title  string          `json:"title"`
	Slices []CategoryCount `json:"slices"`
}

type MapMarker struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Radius     float64 `json:"radius"`
	OrderCount int64   `json:"order_count"`
	Tooltip    string  `json:"tooltip"`
}

type MapView struct {
	Center   [2]float64  `json:"center"`
	Zoom     int         `json:"zoom"`
	Markers  []MapMarker `json:"markers"`
	Excluded int         `json:"excluded"`
}

type FilterOptions struct {
	Managers  []string `json:"managers"`
	Customers []string `json:"customers"`
}
