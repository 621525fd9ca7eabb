/*
Package factory provides JSON to Go schedule conversion.

PURPOSE:
  Converts schedule documents - the JSON produced and stored by the
  persistence layer - into validated valuation.Schedule values. All parsing
  and invariant checking happens HERE, once, at the system boundary. Code
  past this point works with typed, trusted values and never re-validates.

JSON SCHEMA:
  {
    "schedule": [
      {"start_date": "2025-01-01", "end_date": "2025-06-30",
       "annual_rate": "0.05", "compounding": "SIMPLE",
       "day_count": "ACT/365"},
      {"start_date": "2025-07-01", "end_date": "2025-12-31",
       "annual_rate": "0.06", "compounding": "COMPOUND",
       "compound_frequency": "QUARTERLY", "day_count": "ACT/365"}
    ],
    "late_interest": {
      "annual_rate": "0.12", "compounding": "SIMPLE",
      "day_count": "ACT/365", "grace_period_days": 30
    }
  }

  annual_rate accepts a JSON number or string; compound_frequency is
  required iff compounding is COMPOUND; late_interest is optional.

USAGE:
  f := factory.NewScheduleFactory()
  schedule, err := f.ParseSchedule(documentJSON)

SEE ALSO:
  - valuation/schedule.go: The validated value type and its invariants
  - asset/service.go: Parses stored documents through this factory
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Alfystar/LibreFolio-sub004/valuation"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScheduleJSON is the document representation of a schedule.
type ScheduleJSON struct {
	Schedule     []PeriodJSON      `json:"schedule"`
	LateInterest *LateInterestJSON `json:"late_interest,omitempty"`
}

// PeriodJSON is one rate period of the document.
type PeriodJSON struct {
	StartDate         string          `json:"start_date"`
	EndDate           string          `json:"end_date"`
	AnnualRate        decimal.Decimal `json:"annual_rate"`
	Compounding       string          `json:"compounding"`
	CompoundFrequency string          `json:"compound_frequency,omitempty"`
	DayCount          string          `json:"day_count"`
}

// LateInterestJSON is the optional penalty configuration.
type LateInterestJSON struct {
	AnnualRate        decimal.Decimal `json:"annual_rate"`
	Compounding       string          `json:"compounding"`
	CompoundFrequency string          `json:"compound_frequency,omitempty"`
	DayCount          string          `json:"day_count"`
	GracePeriodDays   int             `json:"grace_period_days"`
}

// =============================================================================
// SCHEDULE FACTORY
// =============================================================================

// ScheduleFactory converts schedule documents to valuation.Schedule values
// and back. Stateless; construct one and share it freely.
type ScheduleFactory struct{}

func NewScheduleFactory() *ScheduleFactory {
	return &ScheduleFactory{}
}

// ParseSchedule parses a JSON document into a validated Schedule.
func (f *ScheduleFactory) ParseSchedule(doc string) (*valuation.Schedule, error) {
	var sj ScheduleJSON
	if err := json.Unmarshal([]byte(doc), &sj); err != nil {
		return nil, fmt.Errorf("parse schedule document: %w", err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts a ScheduleJSON to a validated Schedule.
func (f *ScheduleFactory) FromJSON(sj ScheduleJSON) (*valuation.Schedule, error) {
	periods := make([]valuation.RatePeriod, 0, len(sj.Schedule))
	for i, pj := range sj.Schedule {
		start, err := valuation.ParseDate(pj.StartDate)
		if err != nil {
			return nil, fmt.Errorf("period %d start_date: %w", i, err)
		}
		end, err := valuation.ParseDate(pj.EndDate)
		if err != nil {
			return nil, fmt.Errorf("period %d end_date: %w", i, err)
		}
		periods = append(periods, valuation.RatePeriod{
			Start: start,
			End:   end,
			RateTerms: valuation.RateTerms{
				AnnualRate:  pj.AnnualRate,
				Compounding: valuation.Compounding(pj.Compounding),
				Frequency:   valuation.Frequency(pj.CompoundFrequency),
				DayCount:    valuation.DayCount(pj.DayCount),
			},
		})
	}

	var late *valuation.LateInterest
	if sj.LateInterest != nil {
		late = &valuation.LateInterest{
			RateTerms: valuation.RateTerms{
				AnnualRate:  sj.LateInterest.AnnualRate,
				Compounding: valuation.Compounding(sj.LateInterest.Compounding),
				Frequency:   valuation.Frequency(sj.LateInterest.CompoundFrequency),
				DayCount:    valuation.DayCount(sj.LateInterest.DayCount),
			},
			GraceDays: sj.LateInterest.GracePeriodDays,
		}
	}

	return valuation.NewSchedule(periods, late)
}

// ToJSON converts a Schedule back to its document representation, used when
// echoing stored schedules through the API.
func (f *ScheduleFactory) ToJSON(s *valuation.Schedule) ScheduleJSON {
	periods := s.Periods()
	sj := ScheduleJSON{Schedule: make([]PeriodJSON, 0, len(periods))}
	for _, p := range periods {
		sj.Schedule = append(sj.Schedule, PeriodJSON{
			StartDate:         p.Start.String(),
			EndDate:           p.End.String(),
			AnnualRate:        p.AnnualRate,
			Compounding:       string(p.Compounding),
			CompoundFrequency: string(p.Frequency),
			DayCount:          string(p.DayCount),
		})
	}
	if late := s.Late(); late != nil {
		sj.LateInterest = &LateInterestJSON{
			AnnualRate:        late.AnnualRate,
			Compounding:       string(late.Compounding),
			CompoundFrequency: string(late.Frequency),
			DayCount:          string(late.DayCount),
			GracePeriodDays:   late.GraceDays,
		}
	}
	return sj
}
