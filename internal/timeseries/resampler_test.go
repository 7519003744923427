package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResample(t *testing.T) {
	t.Run("daily sums per calendar date", func(t *testing.T) {
		obs := []Observation{
			{Date: day(2025, 3, 2), Value: 10},
			{Date: day(2025, 3, 1), Value: 5},
			{Date: day(2025, 3, 2), Value: 7},
		}

		points, err := Resample(obs, PeriodDaily)
		require.NoError(t, err)
		require.Len(t, points, 2)

		assert.Equal(t, day(2025, 3, 1), points[0].Date)
		assert.Equal(t, 5.0, points[0].Value)
		assert.Equal(t, day(2025, 3, 2), points[1].Date)
		assert.Equal(t, 17.0, points[1].Value)
	})

	t.Run("weekly buckets start on Monday", func(t *testing.T) {
		// 2025-03-05 is a Wednesday, 2025-03-09 a Sunday: same week.
		// 2025-03-10 is the following Monday.
		obs := []Observation{
			{Date: day(2025, 3, 5), Value: 1},
			{Date: day(2025, 3, 9), Value: 2},
			{Date: day(2025, 3, 10), Value: 4},
		}

		points, err := Resample(obs, PeriodWeekly)
		require.NoError(t, err)
		require.Len(t, points, 2)

		assert.Equal(t, day(2025, 3, 3), points[0].Date)
		assert.Equal(t, 3.0, points[0].Value)
		assert.Equal(t, day(2025, 3, 10), points[1].Date)
		assert.Equal(t, 4.0, points[1].Value)
	})

	t.Run("monthly buckets start on the first", func(t *testing.T) {
		obs := []Observation{
			{Date: day(2025, 1, 15), Value: 1},
			{Date: day(2025, 1, 31), Value: 2},
			{Date: day(2025, 2, 1), Value: 4},
		}

		points, err := Resample(obs, PeriodMonthly)
		require.NoError(t, err)
		require.Len(t, points, 2)

		assert.Equal(t, day(2025, 1, 1), points[0].Date)
		assert.Equal(t, 3.0, points[0].Value)
		assert.Equal(t, day(2025, 2, 1), points[1].Date)
	})

	t.Run("time index is contiguous in date order", func(t *testing.T) {
		obs := []Observation{
			{Date: day(2025, 4, 10), Value: 1},
			{Date: day(2025, 4, 1), Value: 1},
			{Date: day(2025, 4, 5), Value: 1},
		}

		points, err := Resample(obs, PeriodDaily)
		require.NoError(t, err)
		for i, p := range points {
			assert.Equal(t, i, p.TimeIndex)
			if i > 0 {
				assert.True(t, points[i-1].Date.Before(p.Date))
			}
		}
	})

	t.Run("input order does not change the result", func(t *testing.T) {
		obs := []Observation{
			{Date: day(2025, 5, 3), Value: 2},
			{Date: day(2025, 5, 1), Value: 7},
			{Date: day(2025, 5, 2), Value: 1},
			{Date: day(2025, 5, 1), Value: 3},
		}
		reversed := make([]Observation, len(obs))
		for i, o := range obs {
			reversed[len(obs)-1-i] = o
		}

		a, err := Resample(obs, PeriodDaily)
		require.NoError(t, err)
		b, err := Resample(reversed, PeriodDaily)
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	t.Run("empty input yields empty series", func(t *testing.T) {
		points, err := Resample(nil, PeriodDaily)
		require.NoError(t, err)
		assert.Empty(t, points)
	})

	t.Run("calendar features", func(t *testing.T) {
		// 2025-08-15 is a Friday in Q3.
		points, err := Resample([]Observation{{Date: day(2025, 8, 15), Value: 1}}, PeriodDaily)
		require.NoError(t, err)
		require.Len(t, points, 1)

		assert.Equal(t, 4, points[0].DayOfWeek)
		assert.Equal(t, 8, points[0].Month)
		assert.Equal(t, 3, points[0].Quarter)
	})
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input   string
		want    Period
		wantErr bool
	}{
		{"daily", PeriodDaily, false},
		{"weekly", PeriodWeekly, false},
		{"monthly", PeriodMonthly, false},
		{"", PeriodDaily, false},
		{"hourly", "", true},
	}

	for _, tt := range tests {
		t.Run("input "+tt.input, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
