/*
accrual.go - Interest accrual models

PURPOSE:
  Given a principal, an annual rate, a time fraction, and a compounding
  mode, computes the interest accrued. Supports simple interest and
  compound interest at six frequencies including continuous.

FORMULAS:
  Simple:               P * r * t
  Compound (discrete):  P * ((1 + r/n)^(n*t) - 1)   n = periods per year
  Compound (continuous) P * (e^(r*t) - 1)

PRECISION:
  Everything is shopspring/decimal. Exponentiation with fractional
  exponents and e^x are computed to mathPrecision digits, which is far
  beyond any monetary rounding a caller will apply. The zero fast paths
  (rate, fraction, or principal zero) return an exact decimal zero.

SEE ALSO:
  - daycount.go: Produces the time fractions consumed here
  - engine.go: Sums accruals across resolved periods
*/
package valuation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COMPOUNDING MODE
// =============================================================================

// Compounding selects the accrual model for a rate period.
type Compounding string

const (
	CompoundingSimple   Compounding = "SIMPLE"
	CompoundingCompound Compounding = "COMPOUND"
)

func (c Compounding) Valid() bool {
	return c == CompoundingSimple || c == CompoundingCompound
}

// Frequency is the compounding frequency. Only meaningful (and only
// permitted) when the compounding mode is COMPOUND.
type Frequency string

const (
	FrequencyDaily      Frequency = "DAILY"
	FrequencyMonthly    Frequency = "MONTHLY"
	FrequencyQuarterly  Frequency = "QUARTERLY"
	FrequencySemiannual Frequency = "SEMIANNUAL"
	FrequencyAnnual     Frequency = "ANNUAL"
	FrequencyContinuous Frequency = "CONTINUOUS"
)

// PeriodsPerYear returns the discrete compounding period count, or 0 for
// CONTINUOUS and unknown frequencies.
func (f Frequency) PeriodsPerYear() int64 {
	switch f {
	case FrequencyDaily:
		return 365
	case FrequencyMonthly:
		return 12
	case FrequencyQuarterly:
		return 4
	case FrequencySemiannual:
		return 2
	case FrequencyAnnual:
		return 1
	default:
		return 0
	}
}

func (f Frequency) Valid() bool {
	return f == FrequencyContinuous || f.PeriodsPerYear() > 0
}

// =============================================================================
// RATE TERMS - The accrual parameters shared by scheduled, grace, and late
// =============================================================================

// RateTerms bundles the parameters every accrual needs: how much, compounded
// how, measured with which day-count rule.
type RateTerms struct {
	AnnualRate  decimal.Decimal
	Compounding Compounding
	Frequency   Frequency // set iff Compounding == CompoundingCompound
	DayCount    DayCount
}

// Validate enforces the RateTerms invariants. Called once at schedule
// construction; calculation code never re-checks.
func (rt RateTerms) Validate() error {
	if rt.AnnualRate.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeRate, rt.AnnualRate)
	}
	if !rt.Compounding.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCompounding, rt.Compounding)
	}
	if !rt.DayCount.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDayCount, rt.DayCount)
	}
	switch rt.Compounding {
	case CompoundingSimple:
		if rt.Frequency != "" {
			return fmt.Errorf("%w: frequency %q with SIMPLE compounding", ErrFrequencyNotAllowed, rt.Frequency)
		}
	case CompoundingCompound:
		if rt.Frequency == "" {
			return ErrFrequencyRequired
		}
		if !rt.Frequency.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownFrequency, rt.Frequency)
		}
	}
	return nil
}

// =============================================================================
// ACCRUAL
// =============================================================================

// mathPrecision is the decimal digit count used for exponentials. Monetary
// results are multiples of the principal, so this leaves ample headroom over
// any presentation rounding.
const mathPrecision = 24

var one = decimal.NewFromInt(1)

// Accrue returns the interest earned by principal at annualRate over the
// given year fraction under the given compounding mode. Pure function.
// Zero principal, zero rate, or zero fraction yields an exact zero.
func Accrue(principal, annualRate, fraction decimal.Decimal, compounding Compounding, frequency Frequency) (decimal.Decimal, error) {
	if principal.IsZero() || annualRate.IsZero() || fraction.IsZero() {
		return decimal.Zero, nil
	}

	switch compounding {
	case CompoundingSimple:
		return principal.Mul(annualRate).Mul(fraction), nil

	case CompoundingCompound:
		growth, err := growthFactor(annualRate, fraction, frequency)
		if err != nil {
			return decimal.Zero, err
		}
		return principal.Mul(growth.Sub(one)), nil

	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownCompounding, compounding)
	}
}

// AccrueTerms is the RateTerms convenience form of Accrue.
func AccrueTerms(principal, fraction decimal.Decimal, terms RateTerms) (decimal.Decimal, error) {
	return Accrue(principal, terms.AnnualRate, fraction, terms.Compounding, terms.Frequency)
}

// growthFactor computes (1 + r/n)^(n*t) for discrete frequencies and e^(r*t)
// for continuous compounding.
func growthFactor(annualRate, fraction decimal.Decimal, frequency Frequency) (decimal.Decimal, error) {
	if frequency == FrequencyContinuous {
		return annualRate.Mul(fraction).ExpTaylor(mathPrecision)
	}

	n := frequency.PeriodsPerYear()
	if n == 0 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownFrequency, frequency)
	}

	periods := decimal.NewFromInt(n)
	base := one.Add(annualRate.DivRound(periods, mathPrecision))
	return base.PowWithPrecision(periods.Mul(fraction), mathPrecision)
}
