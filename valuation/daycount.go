/*
daycount.go - Day-count conventions

PURPOSE:
  Converts a (start, end, convention) triple into an exact fractional-year
  value. This is the leaf of the whole engine: every accrual starts with a
  year fraction, and a drifting fraction would compound into a drifting
  valuation. All arithmetic is decimal; binary floats never appear.

CONVENTIONS:
  ACT/365  actual days / 365
  ACT/360  actual days / 360
  ACT/ACT  per calendar year: days in that year within range / days in that
           calendar year (366 for leap years). A full calendar year is
           exactly 1.0 regardless of leap status.
  30/360   US/NASD: each day-of-month capped at 30 before subtraction,
           360*(y2-y1) + 30*(m2-m1) + (d2-d1), divided by 360.

INTERVAL SEMANTICS:
  The end date is the EXCLUSIVE accrual bound: YearFraction(d, d, c) == 0,
  and YearFraction over [Jan 1, Jan 1 of next year) is a full year. The
  resolver hands out effective periods with exclusive ends, so fractions
  tile without double-counting boundary days.

SEE ALSO:
  - accrual.go: Consumes year fractions
  - resolver.go: Produces the [start, end) windows measured here
*/
package valuation

import "github.com/shopspring/decimal"

// DayCount identifies a day-count convention.
type DayCount string

const (
	DayCountAct365 DayCount = "ACT/365"
	DayCountAct360 DayCount = "ACT/360"
	DayCountActAct DayCount = "ACT/ACT"
	DayCount30360  DayCount = "30/360"
)

// Valid reports whether the convention is one of the supported four.
func (dc DayCount) Valid() bool {
	switch dc {
	case DayCountAct365, DayCountAct360, DayCountActAct, DayCount30360:
		return true
	}
	return false
}

// fractionPrecision is the number of decimal digits kept when dividing day
// counts. Divisions like 73/365 stay exact; non-terminating ones are cut
// here, deterministically, so identical inputs always produce identical
// fractions.
const fractionPrecision = 18

var (
	days360 = decimal.NewFromInt(360)
	days365 = decimal.NewFromInt(365)
)

// YearFraction converts the half-open day span [start, end) into a fraction
// of a year under the given convention. Defined for end >= start; returns
// zero when the dates are equal. Pure function, no side effects.
func YearFraction(start, end Date, dc DayCount) decimal.Decimal {
	if !end.After(start) {
		return decimal.Zero
	}

	switch dc {
	case DayCountAct365:
		return decimal.NewFromInt(int64(DaysBetween(start, end))).DivRound(days365, fractionPrecision)
	case DayCountAct360:
		return decimal.NewFromInt(int64(DaysBetween(start, end))).DivRound(days360, fractionPrecision)
	case DayCountActAct:
		return actActFraction(start, end)
	case DayCount30360:
		return thirty360Fraction(start, end)
	default:
		// Unknown conventions are rejected at schedule construction;
		// a zero here keeps the function total.
		return decimal.Zero
	}
}

// actActFraction sums, per calendar year overlapped by [start, end), the
// in-range day count divided by that year's length. This makes any full
// calendar year contribute exactly 1.
func actActFraction(start, end Date) decimal.Decimal {
	fraction := decimal.Zero
	for year := start.Year(); year <= end.Year(); year++ {
		yearStart := NewDate(year, 1, 1)
		yearEnd := NewDate(year+1, 1, 1)

		segStart := start
		if yearStart.After(segStart) {
			segStart = yearStart
		}
		segEnd := minDate(end, yearEnd)
		if !segEnd.After(segStart) {
			continue
		}

		days := decimal.NewFromInt(int64(DaysBetween(segStart, segEnd)))
		base := decimal.NewFromInt(int64(daysInYear(year)))
		fraction = fraction.Add(days.DivRound(base, fractionPrecision))
	}
	return fraction
}

// thirty360Fraction applies the US/NASD 30/360 rule: day-of-month capped at
// 30 on both ends before subtraction.
func thirty360Fraction(start, end Date) decimal.Decimal {
	y1, m1, d1 := start.Year(), int(start.Month()), start.Day()
	y2, m2, d2 := end.Year(), int(end.Month()), end.Day()

	if d1 > 30 {
		d1 = 30
	}
	if d2 > 30 {
		d2 = 30
	}

	days := 360*(y2-y1) + 30*(m2-m1) + (d2 - d1)
	return decimal.NewFromInt(int64(days)).DivRound(days360, fractionPrecision)
}
