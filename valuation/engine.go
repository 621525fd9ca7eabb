/*
engine.go - Valuation orchestration

PURPOSE:
  Combines the resolver and the principal source: the value of an
  instrument at a date is its folded principal plus the interest accrued
  over every resolved effective period. The engine is completely stateless;
  any number of goroutines may share one instance without synchronization
  because there is nothing to synchronize.

PRINCIPAL BASIS:
  Every effective period accrues on the same principal - the fold at the
  target date. Interest earned in an earlier period is NOT reinvested into
  a later period's base. That is a deliberate design decision (scheduled
  yield on face value), not an approximation to fix later.

SEE ALSO:
  - resolver.go: Produces the periods summed here
  - principal.go: Produces the principal basis
*/
package valuation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RESULT
// =============================================================================

// Result is a computed valuation. A return value, not a stored entity: the
// engine never persists what it derives.
type Result struct {
	AsOf      Date
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Value     decimal.Decimal
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine derives instrument values from a schedule and a principal source.
// Construct explicitly with NewEngine and inject where needed; there is no
// package-level instance or registry.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// ValueAt computes the instrument value at the given date: folded principal
// plus interest accrued across every resolved effective period. Idempotent;
// identical inputs produce identical results.
func (e *Engine) ValueAt(ctx context.Context, s *Schedule, principals PrincipalSource, at Date) (Result, error) {
	principal, err := principals.PrincipalAt(ctx, at)
	if err != nil {
		return Result{}, fmt.Errorf("resolve principal at %s: %w", at, err)
	}

	periods, err := Resolve(s, at)
	if err != nil {
		return Result{}, err
	}

	interest := decimal.Zero
	for _, p := range periods {
		fraction := YearFraction(p.Start, p.End, p.DayCount)
		accrued, err := AccrueTerms(principal, fraction, p.RateTerms)
		if err != nil {
			return Result{}, fmt.Errorf("accrue %s period [%s, %s): %w", p.Kind, p.Start, p.End, err)
		}
		interest = interest.Add(accrued)
	}

	return Result{
		AsOf:      at,
		Principal: principal,
		Interest:  interest,
		Value:     principal.Add(interest),
	}, nil
}

// History computes one Result per calendar day in [from, to], inclusive.
// Pure function of its inputs: safe to call repeatedly, identical results
// every time.
func (e *Engine) History(ctx context.Context, s *Schedule, principals PrincipalSource, from, to Date) ([]Result, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s before %s", ErrInvalidRange, to, from)
	}

	results := make([]Result, 0, DaysBetween(from, to)+1)
	for day := from; day.BeforeOrEqual(to); day = day.AddDays(1) {
		r, err := e.ValueAt(ctx, s, principals, day)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
