package store

import (
	"fmt"
	"strconv"
	"strings"

	"sales-dashboard/internal/models"
)

// queryBuilder appends predicates to a base statement. Every value becomes a
// numbered placeholder; only placeholder tokens are formatted into the SQL.
type queryBuilder struct {
	sb         strings.Builder
	args       []any
	conditions int
}

func newQuery(base string) *queryBuilder {
	q := &queryBuilder{}
	q.sb.WriteString(strings.TrimSpace(base))
	return q
}

// where adds a predicate. Each %s in format is replaced by the placeholder
// of the matching arg.
func (q *queryBuilder) where(format string, args ...any) *queryBuilder {
	placeholders := make([]any, len(args))
	for i, arg := range args {
		q.args = append(q.args, arg)
		placeholders[i] = "$" + strconv.Itoa(len(q.args))
	}

	if q.conditions == 0 {
		q.sb.WriteString("\nWHERE ")
	} else {
		q.sb.WriteString("\n  AND ")
	}
	fmt.Fprintf(&q.sb, format, placeholders...)
	q.conditions++
	return q
}

func (q *queryBuilder) then(clause string) *queryBuilder {
	q.sb.WriteString("\n")
	q.sb.WriteString(clause)
	return q
}

func (q *queryBuilder) build() (string, []any) {
	return q.sb.String(), q.args
}

// inDateRange is the predicate shared by every filtered query. Both bounds
// are inclusive.
func (q *queryBuilder) inDateRange(f models.Filter) *queryBuilder {
	return q.where("s.sale_date BETWEEN %s AND %s", f.Start, f.End)
}

const (
	trafficChannelBase = `
SELECT mk.traffic_channel, COUNT(*) AS count
FROM sale s
JOIN marketing mk ON s.traffic_id = mk.id`

	customerTypeBase = `
SELECT c.customer_type, COUNT(*) AS count
FROM sale s
JOIN customer c ON s.customer_id = c.id`

	customerLocationBase = `
SELECT c.address_map, COUNT(*) AS order_count
FROM customer c
JOIN sale s ON c.id = s.customer_id`

	salesDetailBase = `
SELECT s.id, s.sale_date, s.total_amount, s.customer_id, s.manager_id, s.traffic_id,
       m.name, COALESCE(c.first_name, ''), COALESCE(c.last_name, ''), COALESCE(c.phone, '')
FROM sale s
JOIN manager m ON s.manager_id = m.id
JOIN customer c ON s.customer_id = c.id`

	aggregateBase = `
SELECT COUNT(s.id) AS total_sales, COALESCE(SUM(s.total_amount), 0) AS total_revenue
FROM sale s`

	managerNamesQuery = `SELECT DISTINCT name FROM manager ORDER BY name`

	customerIdentitiesQuery = `SELECT CONCAT(first_name, last_name, phone) FROM customer ORDER BY first_name`
)

func trafficChannelQuery(f models.Filter) (string, []any) {
	return newQuery(trafficChannelBase).
		inDateRange(f).
		then("GROUP BY mk.traffic_channel").
		build()
}

func customerTypeQuery(f models.Filter) (string, []any) {
	return newQuery(customerTypeBase).
		inDateRange(f).
		then("GROUP BY c.customer_type").
		build()
}

func customerLocationQuery(f models.Filter) (string, []any) {
	return newQuery(customerLocationBase).
		inDateRange(f).
		then("GROUP BY c.address_map").
		build()
}

// salesDetailQuery is the only query that honours the manager and customer
// selections.
func salesDetailQuery(f models.Filter) (string, []any) {
	q := newQuery(salesDetailBase).inDateRange(f)
	if f.HasManager() {
		q.where("m.name = %s", f.Manager)
	}
	if f.HasCustomer() {
		q.where("CONCAT(c.first_name, c.last_name, c.phone) = %s", f.Customer)
	}
	return q.then("ORDER BY s.sale_date").build()
}

func aggregateQuery(f models.Filter) (string, []any) {
	return newQuery(aggregateBase).inDateRange(f).build()
}
