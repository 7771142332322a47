package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sales-dashboard/internal/models"
)

const (
	minMarkerRadius   = 5.0
	markerRadiusRange = 20.0
	mapZoom           = 4
)

// defaultMapCenter is used when no customer in the view has a usable
// coordinate.
var defaultMapCenter = [2]float64{50, 0}

var printer = message.NewPrinter(language.English)

// AverageOrderValue is revenue/count, or zero when there are no sales.
func AverageOrderValue(count int64, revenue decimal.Decimal) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return revenue.Div(decimal.NewFromInt(count))
}

// MarkerRadius scales a marker between 5 and 25 relative to the largest
// order count of the current result set. A max below 1 counts as 1.
func MarkerRadius(orderCount, maxOrderCount float64) float64 {
	return minMarkerRadius + markerRadiusRange*(orderCount/math.Max(maxOrderCount, 1))
}

// MaxOrderCount is the largest count across every grouped row, addressable
// or not, and 1 for an empty set.
func MaxOrderCount(rows []models.LocationCount) int64 {
	if len(rows) == 0 {
		return 1
	}
	var largest int64
	for _, r := range rows {
		if r.OrderCount > largest {
			largest = r.OrderCount
		}
	}
	return largest
}

// ParseCoordinatePair reads a "latitude,longitude" address. Anything that is
// not exactly two numbers is a missing coordinate. Range is not checked here;
// see plottable.
func ParseCoordinatePair(raw string) models.Coordinate {
	if raw == "" {
		return models.MissingCoordinate()
	}

	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return models.MissingCoordinate()
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return models.MissingCoordinate()
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.MissingCoordinate()
	}

	return models.ValidCoordinate(lat, lon)
}

// CustomerIdentityKey matches the store's CONCAT(first_name, last_name, phone).
// Distinct customers can collide; the key is only compared for equality.
func CustomerIdentityKey(first, last, phone string) string {
	return first + last + phone
}

// LocationPoints parses every grouped row and sizes it against the set's
// maximum.
func LocationPoints(rows []models.LocationCount) []models.LocationPoint {
	largest := float64(MaxOrderCount(rows))
	points := make([]models.LocationPoint, 0, len(rows))
	for _, r := range rows {
		coord := models.MissingCoordinate()
		if r.HasAddress {
			coord = ParseCoordinatePair(r.Address)
		}
		points = append(points, models.LocationPoint{
			Coordinate: coord,
			OrderCount: r.OrderCount,
			Radius:     MarkerRadius(float64(r.OrderCount), largest),
		})
	}
	return points
}

// plottable reports whether a parsed pair can be placed on a web map.
func plottable(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return math.Abs(lat) <= 90 && math.Abs(lon) <= 180
}

// BuildMapView keeps only points with a valid, plottable coordinate and
// centres the map on the first of them. Everything else counts as excluded.
func BuildMapView(rows []models.LocationCount) models.MapView {
	view := models.MapView{
		Center:  defaultMapCenter,
		Zoom:    mapZoom,
		Markers: make([]models.MapMarker, 0, len(rows)),
	}

	for _, p := range LocationPoints(rows) {
		lat, lon, ok := p.Coordinate.LatLon()
		if !ok || !plottable(lat, lon) {
			view.Excluded++
			continue
		}
		if len(view.Markers) == 0 {
			view.Center = [2]float64{lat, lon}
		}
		view.Markers = append(view.Markers, models.MapMarker{
			Lat:        lat,
			Lon:        lon,
			Radius:     p.Radius,
			OrderCount: p.OrderCount,
			Tooltip:    fmt.Sprintf("Orders: %d", p.OrderCount),
		})
	}

	return view
}

func BuildSummary(agg models.AggregateResult) models.SummaryView {
	avg := AverageOrderValue(agg.TotalSales, agg.TotalRevenue)
	return models.SummaryView{
		TotalSales:        agg.TotalSales,
		TotalRevenue:      agg.TotalRevenue,
		AverageOrderValue: avg,
		TotalSalesText:    FormatCount(agg.TotalSales),
		TotalRevenueText:  FormatMoney(agg.TotalRevenue),
		AverageText:       FormatMoney(avg),
	}
}

func BuildSalesSeries(rows []models.SaleDetail) models.SalesSeriesView {
	view := models.SalesSeriesView{
		Points:          make([]models.SalesPoint, 0, len(rows)),
		FilteredRevenue: decimal.Zero,
	}
	for _, r := range rows {
		view.Points = append(view.Points, models.SalesPoint{
			Date:   r.SaleDate.Format(models.DateLayout),
			Amount: r.TotalAmount,
		})
		view.FilteredRevenue = view.FilteredRevenue.Add(r.TotalAmount)
	}
	return view
}

// FormatCount renders 1234 as "1,234".
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatMoney renders an amount as "$1,234.56", or "-$0.50" when negative.
func FormatMoney(d decimal.Decimal) string {
	r := d.Round(2)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Abs()
	}
	whole := r.Truncate(0)
	cents := r.Sub(whole).StringFixed(2)[1:]
	return sign + printer.Sprintf("$%d", whole.IntPart()) + cents
}
