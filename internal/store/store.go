// Package store runs the dashboard's aggregate queries against the sales
// database. Every exported call acquires its own connection from the
// Provider, executes exactly one statement and releases the connection
// before returning. Nothing is cached and nothing is retried.
package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	apperrors "sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

type Store struct {
	provider Provider
	logger   *slog.Logger
}

func New(provider Provider, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		provider: provider,
		logger:   logger,
	}
}

// FetchTrafficChannelCounts counts sales per marketing traffic channel.
func (s *Store) FetchTrafficChannelCounts(ctx context.Context, f models.Filter) ([]models.CategoryCount, error) {
	query, args := trafficChannelQuery(f)
	return collect(ctx, s, "traffic_channels", query, args, scanCategory)
}

// FetchCustomerTypeCounts counts sales per customer type.
func (s *Store) FetchCustomerTypeCounts(ctx context.Context, f models.Filter) ([]models.CategoryCount, error) {
	query, args := customerTypeQuery(f)
	return collect(ctx, s, "customer_types", query, args, scanCategory)
}

// FetchCustomerLocations counts sales per raw customer address string.
func (s *Store) FetchCustomerLocations(ctx context.Context, f models.Filter) ([]models.LocationCount, error) {
	query, args := customerLocationQuery(f)
	return collect(ctx, s, "customer_locations", query, args, func(rows *sql.Rows) (models.LocationCount, error) {
		var (
			address sql.NullString
			loc     models.LocationCount
		)
		if err := rows.Scan(&address, &loc.OrderCount); err != nil {
			return loc, err
		}
		loc.Address = address.String
		loc.HasAddress = address.Valid
		return loc, nil
	})
}

// FetchSalesDetail returns the filtered sales ordered by date.
func (s *Store) FetchSalesDetail(ctx context.Context, f models.Filter) ([]models.SaleDetail, error) {
	query, args := salesDetailQuery(f)
	return collect(ctx, s, "sales_detail", query, args, func(rows *sql.Rows) (models.SaleDetail, error) {
		var (
			d         models.SaleDetail
			trafficID sql.NullInt64
		)
		err := rows.Scan(
			&d.ID, &d.SaleDate, &d.TotalAmount, &d.CustomerID, &d.ManagerID, &trafficID,
			&d.ManagerName, &d.FirstName, &d.LastName, &d.Phone,
		)
		d.TrafficID = trafficID.Int64
		return d, err
	})
}

// FetchAggregate returns the sale count and revenue for the date range.
// The manager and customer selections are ignored here.
func (s *Store) FetchAggregate(ctx context.Context, f models.Filter) (models.AggregateResult, error) {
	query, args := aggregateQuery(f)
	rows, err := collect(ctx, s, "aggregate", query, args, func(rows *sql.Rows) (models.AggregateResult, error) {
		var (
			result  models.AggregateResult
			count   sql.NullInt64
			revenue decimal.NullDecimal
		)
		if err := rows.Scan(&count, &revenue); err != nil {
			return result, err
		}
		result.TotalSales = count.Int64
		if revenue.Valid {
			result.TotalRevenue = revenue.Decimal
		}
		return result, nil
	})
	if err != nil {
		return models.AggregateResult{}, err
	}
	if len(rows) == 0 {
		return models.AggregateResult{TotalRevenue: decimal.Zero}, nil
	}
	return rows[0], nil
}

// FetchManagerNames lists distinct manager names for the manager dropdown.
func (s *Store) FetchManagerNames(ctx context.Context) ([]string, error) {
	return collect(ctx, s, "manager_names", managerNamesQuery, nil, scanString)
}

// FetchCustomerIdentities lists customer identity keys for the customer
// dropdown, in the same CONCAT form the detail query compares against.
func (s *Store) FetchCustomerIdentities(ctx context.Context) ([]string, error) {
	return collect(ctx, s, "customer_identities", customerIdentitiesQuery, nil, scanString)
}

func scanCategory(rows *sql.Rows) (models.CategoryCount, error) {
	var (
		label sql.NullString
		c     models.CategoryCount
	)
	if err := rows.Scan(&label, &c.Count); err != nil {
		return c, err
	}
	c.Label = label.String
	return c, nil
}

func scanString(rows *sql.Rows) (string, error) {
	var v sql.NullString
	err := rows.Scan(&v)
	return v.String, err
}

// collect runs one query on a dedicated connection and scans every row.
// The result is never nil.
func collect[T any](ctx context.Context, s *Store, name, query string, args []any, scan func(*sql.Rows) (T, error)) ([]T, error) {
	ctx, span := observability.StartSpan(ctx, "store."+name)
	span.SetTag("db.query", name)
	timer := prometheus.NewTimer(observability.StoreQueryDuration.WithLabelValues(name))
	logger := observability.LoggerFrom(ctx, s.logger)

	result := make([]T, 0)
	fail := func(kind string, err error) ([]T, error) {
		observability.StoreQueryErrors.WithLabelValues(name, kind).Inc()
		span.SetError(err)
		span.Finish()
		timer.ObserveDuration()
		logger.Error("store query failed", "query", name, "kind", kind, "error", err, "span", span)
		return nil, err
	}

	conn, err := s.provider.Conn(ctx)
	if err != nil {
		return fail("connect", apperrors.StoreUnavailable(err))
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fail("query", apperrors.QueryFailed(err, name))
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return fail("scan", apperrors.QueryFailed(err, name))
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return fail("query", apperrors.QueryFailed(err, name))
	}

	duration := timer.ObserveDuration()
	span.Finish()
	observability.StoreRowsReturned.WithLabelValues(name).Observe(float64(len(result)))
	logger.Debug("store query completed",
		"query", name,
		"rows", len(result),
		"duration", duration.Round(time.Microsecond),
	)

	return result, nil
}
