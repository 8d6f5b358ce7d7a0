package domain

import (
	"errors"
	"math"
	"sort"
	"time"

	orders "storefront-console/internal/features/orders/domain"
)

// Range names a relative or calendar time window for revenue filtering.
type Range string

const (
	// RangeToday selects orders created on the current calendar day.
	RangeToday Range = "today"
	// RangeWeek selects a rolling 7-day window, boundary inclusive.
	RangeWeek Range = "7d"
	// RangeMonth30 selects a rolling 30-day window, boundary inclusive.
	RangeMonth30 Range = "30d"
	// RangeCalendarMonth selects the current calendar month.
	RangeCalendarMonth Range = "month"
)

// ErrInvalidRange is returned for unknown range names.
var ErrInvalidRange = errors.New("invalid range")

// ParseRange validates a raw range name.
func ParseRange(raw string) (Range, error) {
	switch Range(raw) {
	case RangeToday, RangeWeek, RangeMonth30, RangeCalendarMonth:
		return Range(raw), nil
	default:
		return "", ErrInvalidRange
	}
}

// dayHours converts a day count into the rolling-window duration.
func dayHours(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}

// sameDay reports whether two instants share a calendar day.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// FilterByRange selects the orders whose creation time falls inside the
// window. Orders without a creation time cannot be bucketed and are excluded
// from every range. Rolling windows measure fractional days and include the
// exact boundary.
func FilterByRange(all []orders.Order, rng Range, now time.Time) []orders.Order {
	out := make([]orders.Order, 0, len(all))

	for _, o := range all {
		if o.CreatedAt.IsZero() {
			continue
		}

		var in bool
		switch rng {
		case RangeToday:
			in = sameDay(o.CreatedAt, now)
		case RangeWeek:
			in = now.Sub(o.CreatedAt) <= dayHours(7)
		case RangeMonth30:
			in = now.Sub(o.CreatedAt) <= dayHours(30)
		case RangeCalendarMonth:
			in = o.CreatedAt.Year() == now.Year() && o.CreatedAt.Month() == now.Month()
		}

		if in {
			out = append(out, o)
		}
	}

	return out
}

// StatusRow is one line of the per-status breakdown.
type StatusRow struct {
	// Status is the aggregation bucket, a known stage or "unknown".
	Status string `json:"status"`
	// Count is the number of orders in the bucket.
	Count int `json:"count"`
	// Amount is the summed order total for the bucket.
	Amount float64 `json:"amount"`
}

// RevenueBucket is a single calendar-day point of the chart series.
type RevenueBucket struct {
	// Date is the ISO calendar day (2006-01-02).
	Date string `json:"date"`
	// Revenue is the summed order total for that day.
	Revenue float64 `json:"revenue"`
	// Label is the short display form, e.g. "Mar 10".
	Label string `json:"label"`
}

// Report holds the aggregates computed over one filtered order set.
type Report struct {
	// TotalRevenue is the sum of resolved order totals.
	TotalRevenue float64 `json:"total_revenue"`
	// TotalOrders is the filtered order count.
	TotalOrders int `json:"total_orders"`
	// AvgOrderValue is TotalRevenue/TotalOrders rounded to the nearest
	// currency unit, 0 for an empty set.
	AvgOrderValue float64 `json:"avg_order_value"`
	// RefundAmount sums totals of cancel- and refund-like orders.
	RefundAmount float64 `json:"refund_amount"`
	// StatusBreakdown lists per-status aggregates, largest amount first.
	StatusBreakdown []StatusRow `json:"status_breakdown"`
	// ChartSeries lists per-day revenue points in ascending date order.
	ChartSeries []RevenueBucket `json:"chart_series"`
}

// Aggregate reduces a filtered order set into the console's report figures.
// Everything is recomputed from scratch; the filtered set is one seller's
// orders, so correctness-by-recomputation beats cache invalidation here.
func Aggregate(filtered []orders.Order) Report {
	report := Report{
		TotalOrders:     len(filtered),
		StatusBreakdown: []StatusRow{},
		ChartSeries:     []RevenueBucket{},
	}

	byStatus := make(map[string]*StatusRow)
	byDay := make(map[string]*RevenueBucket)

	for _, o := range filtered {
		report.TotalRevenue += o.Total

		if o.Status.IsRefundLike() {
			report.RefundAmount += o.Total
		}

		bucket := o.Status.Bucket()
		row, ok := byStatus[bucket]
		if !ok {
			row = &StatusRow{Status: bucket}
			byStatus[bucket] = row
		}
		row.Count++
		row.Amount += o.Total

		if !o.CreatedAt.IsZero() {
			day := o.CreatedAt.Format("2006-01-02")
			point, ok := byDay[day]
			if !ok {
				point = &RevenueBucket{
					Date:  day,
					Label: o.CreatedAt.Format("Jan 2"),
				}
				byDay[day] = point
			}
			point.Revenue += o.Total
		}
	}

	if report.TotalOrders > 0 {
		report.AvgOrderValue = math.Round(report.TotalRevenue / float64(report.TotalOrders))
	}

	for _, row := range byStatus {
		report.StatusBreakdown = append(report.StatusBreakdown, *row)
	}
	sort.Slice(report.StatusBreakdown, func(i, j int) bool {
		a, b := report.StatusBreakdown[i], report.StatusBreakdown[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Status < b.Status
	})

	for _, point := range byDay {
		report.ChartSeries = append(report.ChartSeries, *point)
	}
	sort.Slice(report.ChartSeries, func(i, j int) bool {
		return report.ChartSeries[i].Date < report.ChartSeries[j].Date
	})

	return report
}

// GrowthStats is the today-vs-yesterday order indicator, computed over the
// full unfiltered set.
type GrowthStats struct {
	// OrdersToday counts orders created on the current calendar day.
	OrdersToday int `json:"orders_today"`
	// OrdersYesterday counts orders created the previous calendar day.
	OrdersYesterday int `json:"orders_yesterday"`
	// GrowthPercent is the rounded relative change; 0 when there is no
	// baseline rather than an undefined value.
	GrowthPercent float64 `json:"orders_growth_percent"`
}

// Growth computes the day-over-day order indicator.
func Growth(all []orders.Order, now time.Time) GrowthStats {
	yesterday := now.AddDate(0, 0, -1)

	var stats GrowthStats
	for _, o := range all {
		if o.CreatedAt.IsZero() {
			continue
		}
		if sameDay(o.CreatedAt, now) {
			stats.OrdersToday++
		} else if sameDay(o.CreatedAt, yesterday) {
			stats.OrdersYesterday++
		}
	}

	if stats.OrdersYesterday > 0 {
		delta := float64(stats.OrdersToday-stats.OrdersYesterday) / float64(stats.OrdersYesterday)
		stats.GrowthPercent = math.Round(delta * 100)
	}

	return stats
}
