package valuation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Alfystar/LibreFolio-sub004/valuation"
)

func date(year int, month time.Month, day int) valuation.Date {
	return valuation.NewDate(year, month, day)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestYearFraction_Act365(t *testing.T) {
	tests := []struct {
		name  string
		start valuation.Date
		end   valuation.Date
		want  decimal.Decimal
	}{
		{
			name:  "365 days over a non-leap span is exactly one",
			start: date(2025, time.January, 1),
			end:   date(2026, time.January, 1),
			want:  dec("1"),
		},
		{
			name:  "73 days is exactly one fifth",
			start: date(2025, time.January, 1),
			end:   date(2025, time.March, 15),
			want:  dec("0.2"),
		},
		{
			name:  "zero span is zero",
			start: date(2025, time.June, 1),
			end:   date(2025, time.June, 1),
			want:  decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := valuation.YearFraction(tt.start, tt.end, valuation.DayCountAct365)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestYearFraction_Act360(t *testing.T) {
	// 360 actual days divide out to exactly one.
	got := valuation.YearFraction(date(2025, time.January, 1), date(2025, time.December, 27), valuation.DayCountAct360)
	assert.True(t, got.Equal(dec("1")), "got %s", got)

	// 90 actual days is a quarter.
	got = valuation.YearFraction(date(2025, time.January, 1), date(2025, time.April, 1), valuation.DayCountAct360)
	assert.True(t, got.Equal(dec("0.25")), "got %s", got)
}

func TestYearFraction_ActAct(t *testing.T) {
	// Any full calendar year is exactly one, leap or not.
	for _, year := range []int{2023, 2024, 2025} {
		got := valuation.YearFraction(date(year, time.January, 1), date(year+1, time.January, 1), valuation.DayCountActAct)
		assert.True(t, got.Equal(dec("1")), "year %d: got %s", year, got)
	}

	// A span crossing a year boundary splits per calendar year:
	// 2024-07-01 .. 2025-07-01 = 184/366 + 181/365.
	got := valuation.YearFraction(date(2024, time.July, 1), date(2025, time.July, 1), valuation.DayCountActAct)
	want := dec("184").DivRound(dec("366"), 18).Add(dec("181").DivRound(dec("365"), 18))
	assert.True(t, got.Equal(want), "got %s, want %s", got, want)
}

func TestYearFraction_Thirty360(t *testing.T) {
	tests := []struct {
		name  string
		start valuation.Date
		end   valuation.Date
		want  decimal.Decimal
	}{
		{
			name:  "one 30/360 year",
			start: date(2025, time.January, 1),
			end:   date(2026, time.January, 1),
			want:  dec("1"),
		},
		{
			name:  "month ends capped at 30 on both sides",
			start: date(2025, time.January, 31),
			end:   date(2025, time.March, 31),
			want:  dec("60").DivRound(dec("360"), 18),
		},
		{
			name:  "short February counts its actual day numbers",
			start: date(2025, time.January, 30),
			end:   date(2025, time.February, 28),
			want:  dec("28").DivRound(dec("360"), 18),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := valuation.YearFraction(tt.start, tt.end, valuation.DayCount30360)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestYearFraction_ZeroSpanAllConventions(t *testing.T) {
	d := date(2025, time.May, 17)
	for _, dc := range []valuation.DayCount{
		valuation.DayCountAct365,
		valuation.DayCountAct360,
		valuation.DayCountActAct,
		valuation.DayCount30360,
	} {
		assert.True(t, valuation.YearFraction(d, d, dc).IsZero(), "convention %s", dc)
	}
}
