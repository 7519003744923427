// Package timeseries turns dated records into evenly indexed series
// ready for regression and charting.
package timeseries

import (
	"sort"
	"time"

	"github.com/opsintel/backend-go/internal/domain"
)

// Period selects the resampling bucket size.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// ParsePeriod validates a period string from the API or CLI.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return Period(s), nil
	case "":
		return PeriodDaily, nil
	default:
		return "", &domain.UnsupportedInputError{Input: "period " + s}
	}
}

// Point is one resampled observation. TimeIndex is contiguous 0..n-1 in
// date order and is the regression feature downstream.
type Point struct {
	Date      time.Time `json:"date"`
	TimeIndex int       `json:"time_index"`
	DayOfWeek int       `json:"day_of_week"`
	Month     int       `json:"month"`
	Quarter   int       `json:"quarter"`
	Value     float64   `json:"value"`
}

// Observation is a raw (date, value) pair before bucketing.
type Observation struct {
	Date  time.Time
	Value float64
}

// Resample groups observations into period buckets, sums values per
// bucket and returns the buckets sorted ascending by date. Empty input
// yields an empty series; row order of the input never affects the result.
func Resample(obs []Observation, period Period) ([]Point, error) {
	switch period {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
	default:
		return nil, &domain.UnsupportedInputError{Input: "period " + string(period)}
	}

	sums := make(map[time.Time]float64)
	for _, o := range obs {
		sums[bucketStart(o.Date, period)] += o.Value
	}

	dates := make([]time.Time, 0, len(sums))
	for d := range sums {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	points := make([]Point, len(dates))
	for i, d := range dates {
		points[i] = Point{
			Date:      d,
			TimeIndex: i,
			DayOfWeek: dayOfWeek(d),
			Month:     int(d.Month()),
			Quarter:   (int(d.Month())-1)/3 + 1,
			Value:     sums[d],
		}
	}
	return points, nil
}

// bucketStart maps a date onto the first day of its bucket: the calendar
// date itself, the Monday of its ISO week, or the first of its month.
func bucketStart(t time.Time, period Period) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	switch period {
	case PeriodWeekly:
		return day.AddDate(0, 0, -dayOfWeek(day))
	case PeriodMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// dayOfWeek returns Monday=0 .. Sunday=6.
func dayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// FromSales projects a sales table into revenue observations.
func FromSales(t *domain.SalesTable) []Observation {
	if t == nil {
		return nil
	}
	obs := make([]Observation, len(t.Rows))
	for i, r := range t.Rows {
		obs[i] = Observation{Date: r.Date, Value: r.Revenue}
	}
	return obs
}

// FromExpenses projects an expense table into amount observations.
func FromExpenses(t *domain.ExpenseTable) []Observation {
	if t == nil {
		return nil
	}
	obs := make([]Observation, len(t.Rows))
	for i, r := range t.Rows {
		obs[i] = Observation{Date: r.Date, Value: r.Amount}
	}
	return obs
}
