// Package templates holds the dashboard's templ components. Edit the .templ
// sources and regenerate the _templ.go files with `templ generate`.
package templates

import "sales-dashboard/internal/models"

// Element IDs patched by the SSE handlers.
const (
	SummaryCardsID        = "summary-cards"
	SalesStatusID         = "sales-status"
	TrafficStatusID       = "traffic-status"
	CustomerTypesID       = "customer-types-status"
	CustomerMapID         = "customer-map-status"
	FilterControlsID      = "filter-controls"
	filterOptionsStatusID = "filter-options-status"
)

// initialMapZoom is used before the first customer map patch arrives.
const initialMapZoom = 10

// PageData is everything the dashboard shell needs on first render. Panels
// are filled in afterwards by /sse/refresh-all.
type PageData struct {
	Filter    models.Filter
	Options   models.FilterOptions
	RequestID string
	// OptionsUnavailable is set when the dropdown lookups failed; the page
	// still renders with date filtering only.
	OptionsUnavailable bool
}

// pageSignals seeds the datastar store. Datastar sends every signal back on
// @get except those starting with an underscore, so the chart data is kept
// local to the page and only the filter travels to the server.
type pageSignals struct {
	Start             string                 `json:"start"`
	End               string                 `json:"end"`
	Manager           string                 `json:"manager"`
	Customer          string                 `json:"customer"`
	SalesData         models.SalesSeriesView `json:"_salesData"`
	TrafficData       models.BreakdownView   `json:"_trafficData"`
	CustomerTypesData models.BreakdownView   `json:"_customerTypesData"`
	MapData           models.MapView         `json:"_mapData"`
}

func initialSignals(f models.Filter) pageSignals {
	return pageSignals{
		Start:             f.Start.Format(models.DateLayout),
		End:               f.End.Format(models.DateLayout),
		Manager:           f.Manager,
		Customer:          f.Customer,
		SalesData:         models.SalesSeriesView{Points: []models.SalesPoint{}},
		TrafficData:       models.BreakdownView{Slices: []models.CategoryCount{}},
		CustomerTypesData: models.BreakdownView{Slices: []models.CategoryCount{}},
		MapData: models.MapView{
			Center:  [2]float64{50, 0},
			Zoom:    initialMapZoom,
			Markers: []models.MapMarker{},
		},
	}
}

// placeholderSummary fills the KPI cards until the first summary patch.
var placeholderSummary = models.SummaryView{
	TotalSalesText:   "-",
	TotalRevenueText: "-",
	AverageText:      "-",
}
