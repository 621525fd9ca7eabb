/*
resolver.go - Effective period resolution

PURPOSE:
  Turns (schedule, target date) into the ordered list of effective periods
  to accrue over. Past maturity it synthesizes a grace window (still at the
  final scheduled rate - grace is a repayment extension, not yet a penalty)
  and a late window (at the penalty terms). Because grace and late are
  ordinary EffectivePeriod values, the summation loop in the engine treats
  all three kinds identically.

COMPLEXITY:
  One walk over the schedule's periods: O(periods), independent of how many
  days lie between the schedule start and the target. Schedules span years;
  a day-by-day walk would be thousands of iterations for the same answer.

WINDOW SEMANTICS:
  Effective periods carry half-open accrual windows [Start, End). A period's
  exclusive end is the next period's start (for touching periods) or the day
  after its inclusive end date, clamped to the target. Consequently the
  emitted windows tile [schedule start, target] exactly: each window starts
  where the previous one ends, boundary days are counted once, and a target
  equal to the schedule start accrues nothing.

FREEZE POLICY:
  Past maturity with no late-interest configuration, nothing further is
  emitted: the value freezes at the matured value. Policy decision, not an
  error.

SEE ALSO:
  - schedule.go: The validated input
  - engine.go: Accrues over the result
*/
package valuation

// =============================================================================
// EFFECTIVE PERIOD - Tagged accrual window
// =============================================================================

// PeriodKind tags the origin of an effective period.
type PeriodKind string

const (
	PeriodScheduled PeriodKind = "scheduled"
	PeriodGrace     PeriodKind = "grace"
	PeriodLate      PeriodKind = "late"
)

// EffectivePeriod is one accrual window. Start is inclusive, End exclusive.
// Created transiently per resolution; never persisted.
type EffectivePeriod struct {
	Kind  PeriodKind
	Start Date
	End   Date
	RateTerms
}

// Days returns the window length in days.
func (p EffectivePeriod) Days() int { return DaysBetween(p.Start, p.End) }

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve produces the effective periods covering [schedule start, target].
// The only failure mode is a target strictly before the schedule start; for
// any other date resolution is total.
func Resolve(s *Schedule, target Date) ([]EffectivePeriod, error) {
	if target.Before(s.Start()) {
		return nil, &BeforeScheduleStartError{Target: target, ScheduleStart: s.Start()}
	}

	periods := s.periods
	effective := make([]EffectivePeriod, 0, len(periods)+2)

	for i, p := range periods {
		if p.Start.After(target) {
			break
		}
		end := p.End.AddDays(1)
		if i+1 < len(periods) && periods[i+1].Start.Before(end) {
			// Touching periods share the boundary date; the next period owns it.
			end = periods[i+1].Start
		}
		end = minDate(end, target)
		if end.After(p.Start) {
			effective = append(effective, EffectivePeriod{
				Kind:      PeriodScheduled,
				Start:     p.Start,
				End:       end,
				RateTerms: p.RateTerms,
			})
		}
	}

	maturity := s.Maturity()
	if !target.After(maturity) {
		return effective, nil
	}
	if s.late == nil {
		// No penalty regime: the value freezes at the matured value.
		return effective, nil
	}

	// Grace window, accruing at the final scheduled period's terms.
	graceStart := maturity.AddDays(1)
	graceEnd := minDate(s.GraceEnd().AddDays(1), target)
	if graceEnd.After(graceStart) {
		effective = append(effective, EffectivePeriod{
			Kind:      PeriodGrace,
			Start:     graceStart,
			End:       graceEnd,
			RateTerms: periods[len(periods)-1].RateTerms,
		})
	}

	// Late window, accruing at the penalty terms.
	lateStart := s.GraceEnd().AddDays(1)
	if target.After(lateStart) {
		effective = append(effective, EffectivePeriod{
			Kind:      PeriodLate,
			Start:     lateStart,
			End:       target,
			RateTerms: s.late.RateTerms,
		})
	}

	return effective, nil
}
