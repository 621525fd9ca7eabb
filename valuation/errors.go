/*
errors.go - Centralized error types for the valuation engine

PURPOSE:
  All engine errors in one place. The policy is two-tier:

  1. CONSTRUCTION TIME (fail fast): malformed schedules are rejected by
     NewSchedule. Once a Schedule value exists, it is valid forever.
  2. CALCULATION TIME (single failure mode): asking for a value strictly
     before the schedule's first period start. Everything else is total.

USAGE:
  Callers branch with errors.Is():

    if errors.Is(err, valuation.ErrBeforeScheduleStart) {
        // date precedes the schedule - a client mistake, not an engine fault
    }

SEE ALSO:
  - schedule.go: Uses the construction-time sentinels
  - resolver.go: The only producer of ErrBeforeScheduleStart
*/
package valuation

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmptySchedule is returned when a schedule has no rate periods.
	ErrEmptySchedule = errors.New("schedule must contain at least one rate period")

	// ErrInvalidPeriod is returned when a period ends before it starts.
	ErrInvalidPeriod = errors.New("invalid rate period: end before start")

	// ErrPeriodOverlap is returned when consecutive periods overlap.
	ErrPeriodOverlap = errors.New("rate periods overlap")

	// ErrPeriodGap is returned when consecutive periods leave a gap of more
	// than one day. Adjacent (next start = end + 1 day) and touching
	// (next start = end) periods are both fine.
	ErrPeriodGap = errors.New("gap between rate periods exceeds one day")

	// ErrNegativeRate is returned for a negative annual rate.
	ErrNegativeRate = errors.New("annual rate must not be negative")

	// ErrNegativeGraceDays is returned for a negative grace period length.
	ErrNegativeGraceDays = errors.New("grace period days must not be negative")

	// ErrFrequencyRequired is returned when COMPOUND terms omit a frequency.
	ErrFrequencyRequired = errors.New("compound frequency required for COMPOUND compounding")

	// ErrFrequencyNotAllowed is returned when SIMPLE terms carry a frequency.
	ErrFrequencyNotAllowed = errors.New("compound frequency not allowed")

	// ErrUnknownDayCount is returned for an unsupported day-count convention.
	ErrUnknownDayCount = errors.New("unknown day-count convention")

	// ErrUnknownCompounding is returned for an unsupported compounding mode.
	ErrUnknownCompounding = errors.New("unknown compounding mode")

	// ErrUnknownFrequency is returned for an unsupported compound frequency.
	ErrUnknownFrequency = errors.New("unknown compound frequency")

	// ErrBeforeScheduleStart is the engine's only calculation-time failure:
	// the target date precedes the first period's start.
	ErrBeforeScheduleStart = errors.New("target date precedes schedule start")

	// ErrInvalidRange is returned by History when the range end precedes its
	// start.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrUnknownTransactionType is returned when a transaction record
	// carries a type the engine has never heard of.
	ErrUnknownTransactionType = errors.New("unknown transaction type")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// BeforeScheduleStartError reports the offending target date alongside the
// schedule start it fell short of.
type BeforeScheduleStartError struct {
	Target        Date
	ScheduleStart Date
}

func (e *BeforeScheduleStartError) Error() string {
	return fmt.Sprintf("target date %s precedes schedule start %s", e.Target, e.ScheduleStart)
}

func (e *BeforeScheduleStartError) Unwrap() error {
	return ErrBeforeScheduleStart
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true when the error stems from invalid input rather
// than an engine fault. Construction failures and out-of-range dates both
// qualify.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptySchedule) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrPeriodOverlap) ||
		errors.Is(err, ErrPeriodGap) ||
		errors.Is(err, ErrNegativeRate) ||
		errors.Is(err, ErrNegativeGraceDays) ||
		errors.Is(err, ErrFrequencyRequired) ||
		errors.Is(err, ErrFrequencyNotAllowed) ||
		errors.Is(err, ErrUnknownDayCount) ||
		errors.Is(err, ErrUnknownCompounding) ||
		errors.Is(err, ErrUnknownFrequency) ||
		errors.Is(err, ErrUnknownTransactionType) ||
		errors.Is(err, ErrBeforeScheduleStart) ||
		errors.Is(err, ErrInvalidRange)
}
