/*
schedule.go - Immutable rate schedule

PURPOSE:
  A Schedule is the declarative description of how an instrument yields:
  an ordered sequence of rate periods plus an optional late-interest
  (penalty) configuration. All invariants are enforced ONCE, in
  NewSchedule. Calculation code trusts the value completely - once a
  Schedule exists, resolving any in-range date cannot fail.

INVARIANTS (checked at construction, never again):
  - at least one period
  - periods sorted ascending by start, non-overlapping
  - consecutive periods adjacent or touching (gap of at most one day)
  - every period individually valid (end >= start, non-negative rate,
    frequency present iff COMPOUND, known day count)
  - late interest, when present, individually valid with grace days >= 0

IMMUTABILITY:
  Fields are unexported and accessors return copies. A rate change means
  building a NEW Schedule from a new document - there is no mutation path,
  so concurrent readers never need locking.

SEE ALSO:
  - resolver.go: Walks the schedule for a target date
  - factory/schedule.go: Builds Schedules from JSON documents
*/
package valuation

import (
	"fmt"
	"sort"
)

// =============================================================================
// RATE PERIOD
// =============================================================================

// RatePeriod is one span of the schedule. Start and End are inclusive
// calendar dates; accrual treats the day after End as the exclusive bound
// once the period has fully elapsed.
type RatePeriod struct {
	Start Date
	End   Date
	RateTerms
}

// Validate checks the period's own invariants.
func (p RatePeriod) Validate() error {
	if p.End.Before(p.Start) {
		return fmt.Errorf("%w: %s before %s", ErrInvalidPeriod, p.End, p.Start)
	}
	return p.RateTerms.Validate()
}

// =============================================================================
// LATE INTEREST
// =============================================================================

// LateInterest is the penalty regime applied after maturity plus grace.
// During the grace window itself the LAST scheduled period's terms continue
// to apply; these terms only bite once grace has elapsed.
type LateInterest struct {
	RateTerms
	GraceDays int
}

func (li LateInterest) Validate() error {
	if li.GraceDays < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeGraceDays, li.GraceDays)
	}
	return li.RateTerms.Validate()
}

// =============================================================================
// SCHEDULE
// =============================================================================

// Schedule is an immutable, validated rate schedule. Build one with
// NewSchedule; the zero value is not usable.
type Schedule struct {
	periods []RatePeriod
	late    *LateInterest
}

// NewSchedule validates and builds a Schedule. The input slice is copied and
// sorted by period start; the caller keeps ownership of its slice.
func NewSchedule(periods []RatePeriod, late *LateInterest) (*Schedule, error) {
	if len(periods) == 0 {
		return nil, ErrEmptySchedule
	}

	sorted := make([]RatePeriod, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	for i, p := range sorted {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("period %d: %w", i, err)
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		gap := DaysBetween(prev.End, p.Start)
		if gap < 0 {
			return nil, fmt.Errorf("%w: period %d starts %s, before period %d ends %s",
				ErrPeriodOverlap, i, p.Start, i-1, prev.End)
		}
		if gap > 1 {
			return nil, fmt.Errorf("%w: %d days between %s and %s",
				ErrPeriodGap, gap, prev.End, p.Start)
		}
	}

	s := &Schedule{periods: sorted}
	if late != nil {
		if err := late.Validate(); err != nil {
			return nil, fmt.Errorf("late interest: %w", err)
		}
		l := *late
		s.late = &l
	}
	return s, nil
}

// Periods returns a copy of the ordered rate periods.
func (s *Schedule) Periods() []RatePeriod {
	out := make([]RatePeriod, len(s.periods))
	copy(out, s.periods)
	return out
}

// Late returns a copy of the late-interest configuration, or nil when the
// schedule has none.
func (s *Schedule) Late() *LateInterest {
	if s.late == nil {
		return nil
	}
	l := *s.late
	return &l
}

// Start is the first period's start date.
func (s *Schedule) Start() Date { return s.periods[0].Start }

// Maturity is the last period's end date.
func (s *Schedule) Maturity() Date { return s.periods[len(s.periods)-1].End }

// GraceEnd is maturity plus the grace window. Without a late-interest
// configuration it coincides with maturity.
func (s *Schedule) GraceEnd() Date {
	if s.late == nil {
		return s.Maturity()
	}
	return s.Maturity().AddDays(s.late.GraceDays)
}
