package valuation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alfystar/LibreFolio-sub004/valuation"
)

func tenThousandAtStart() *valuation.TransactionSource {
	return valuation.NewTransactionSource([]valuation.TransactionRecord{
		buy("100", "100", date(2025, time.January, 1)),
	})
}

// =============================================================================
// P2P LOAN SCENARIO
// =============================================================================
// Principal 10000; 2025-01-01..2025-06-30 at 5% simple ACT/365;
// 2025-07-01..2025-12-31 at 6% simple ACT/365; 12% simple late interest
// after a 30-day grace window.

func TestEngine_LoanScenario(t *testing.T) {
	ctx := context.Background()
	engine := valuation.NewEngine()
	s := twoPeriodSchedule(t)
	source := tenThousandAtStart()

	// 73 days into the first period: 10000 * 0.05 * 0.2 = 100, exactly.
	spring, err := engine.ValueAt(ctx, s, source, date(2025, time.March, 15))
	require.NoError(t, err)
	assert.True(t, spring.Value.Equal(dec("10100")), "got %s", spring.Value)
	assert.True(t, spring.Principal.Equal(dec("10000")))

	yearEnd, err := engine.ValueAt(ctx, s, source, date(2025, time.December, 31))
	require.NoError(t, err)
	assert.True(t, yearEnd.Value.GreaterThan(spring.Value))

	inGrace, err := engine.ValueAt(ctx, s, source, date(2026, time.January, 15))
	require.NoError(t, err)
	assert.True(t, inGrace.Value.GreaterThan(yearEnd.Value))

	pastGrace, err := engine.ValueAt(ctx, s, source, date(2026, time.February, 5))
	require.NoError(t, err)
	assert.True(t, pastGrace.Value.GreaterThan(inGrace.Value))
}

func TestEngine_GraceAccruesAtFinalScheduledRate(t *testing.T) {
	ctx := context.Background()
	engine := valuation.NewEngine()
	s := twoPeriodSchedule(t)
	source := tenThousandAtStart()

	matured, err := engine.ValueAt(ctx, s, source, date(2026, time.January, 1))
	require.NoError(t, err)
	oneDayIn, err := engine.ValueAt(ctx, s, source, date(2026, time.January, 2))
	require.NoError(t, err)

	// One grace day at 6%, not 12%: 10000 * 0.06 * (1/365).
	wantDelta := dec("10000").Mul(dec("0.06")).Mul(dec("1").DivRound(dec("365"), 18))
	gotDelta := oneDayIn.Value.Sub(matured.Value)
	assert.True(t, gotDelta.Equal(wantDelta), "grace day delta %s, want %s", gotDelta, wantDelta)
}

// =============================================================================
// QUARTERLY-COMPOUND BOND SCENARIO
// =============================================================================

func TestEngine_QuarterlyBondScenario(t *testing.T) {
	ctx := context.Background()
	engine := valuation.NewEngine()

	s, err := valuation.NewSchedule([]valuation.RatePeriod{
		{
			Start: date(2025, time.January, 1),
			End:   date(2025, time.December, 31),
			RateTerms: valuation.RateTerms{
				AnnualRate:  dec("0.04"),
				Compounding: valuation.CompoundingCompound,
				Frequency:   valuation.FrequencyQuarterly,
				DayCount:    valuation.DayCountAct365,
			},
		},
	}, nil)
	require.NoError(t, err)

	source := valuation.NewTransactionSource([]valuation.TransactionRecord{
		buy("200", "100", date(2025, time.January, 1)),
	})

	// Day zero: nothing accrued, exactly the principal.
	opening, err := engine.ValueAt(ctx, s, source, date(2025, time.January, 1))
	require.NoError(t, err)
	assert.True(t, opening.Value.Equal(dec("20000")), "got %s", opening.Value)
	assert.True(t, opening.Interest.IsZero())

	// Strictly increasing through the year.
	previous := opening.Value
	for _, day := range []valuation.Date{
		date(2025, time.February, 1),
		date(2025, time.April, 1),
		date(2025, time.July, 1),
		date(2025, time.October, 1),
		date(2025, time.December, 31),
	} {
		r, err := engine.ValueAt(ctx, s, source, day)
		require.NoError(t, err)
		assert.True(t, r.Value.GreaterThan(previous), "%s: %s not greater than %s", day, r.Value, previous)
		previous = r.Value
	}
}

// =============================================================================
// ENGINE PROPERTIES
// =============================================================================

func TestEngine_Idempotence(t *testing.T) {
	ctx := context.Background()
	engine := valuation.NewEngine()
	s := twoPeriodSchedule(t)
	source := tenThousandAtStart()
	at := date(2025, time.September, 10)

	first, err := engine.ValueAt(ctx, s, source, at)
	require.NoError(t, err)
	second, err := engine.ValueAt(ctx, s, source, at)
	require.NoError(t, err)

	assert.Equal(t, first.Value.String(), second.Value.String())
	assert.Equal(t, first.Interest.String(), second.Interest.String())
}

func TestEngine_MonotonicGrowth(t *testing.T) {
	// Positive rates, no outflows: value never decreases, through the
	// scheduled span, the grace window, and late territory.
	ctx := context.Background()
	engine := valuation.NewEngine()
	s := twoPeriodSchedule(t)
	source := tenThousandAtStart()

	previous, err := engine.ValueAt(ctx, s, source, s.Start())
	require.NoError(t, err)
	for day := s.Start().AddDays(1); day.BeforeOrEqual(date(2026, time.March, 1)); day = day.AddDays(1) {
		r, err := engine.ValueAt(ctx, s, source, day)
		require.NoError(t, err)
		assert.True(t, r.Value.GreaterThanOrEqual(previous.Value),
			"%s: %s < %s", day, r.Value, previous.Value)
		previous = r
	}
}

func TestEngine_FreezesWithoutLateConfig(t *testing.T) {
	ctx := context.Background()
	engine := valuation.NewEngine()

	s, err := valuation.NewSchedule([]valuation.RatePeriod{
		{Start: date(2025, time.January, 1), End: date(2025, time.December, 31), RateTerms: simpleTerms("0.05")},
	}, nil)
	require.NoError(t, err)
	source := tenThousandAtStart()

	matured, err := engine.ValueAt(ctx, s, source, date(2026, time.January, 1))
	require.NoError(t, err)
	muchLater, err := engine.ValueAt(ctx, s, source, date(2027, time.June, 1))
	require.NoError(t, err)

	assert.True(t, matured.Value.Equal(muchLater.Value), "%s vs %s", matured.Value, muchLater.Value)
}

func TestEngine_PrincipalChangesMidSchedule(t *testing.T) {
	// A partial sell halves the basis; the whole accrual reflects the
	// reduced principal from that valuation onward.
	ctx := context.Background()
	engine := valuation.NewEngine()
	s := twoPeriodSchedule(t)

	source := valuation.NewTransactionSource([]valuation.TransactionRecord{
		buy("100", "100", date(2025, time.January, 1)),
		sell("50", "100", date(2025, time.June, 1)),
	})

	before, err := engine.ValueAt(ctx, s, source, date(2025, time.May, 31))
	require.NoError(t, err)
	assert.True(t, before.Principal.Equal(dec("10000")))

	after, err := engine.ValueAt(ctx, s, source, date(2025, time.June, 2))
	require.NoError(t, err)
	assert.True(t, after.Principal.Equal(dec("5000")))
	assert.True(t, after.Value.LessThan(before.Value))
}

// =============================================================================
// HISTORY
// =============================================================================

func TestEngine_History(t *testing.T) {
	ctx := context.Background()
	engine := valuation.NewEngine()
	s := twoPeriodSchedule(t)
	source := tenThousandAtStart()

	from := date(2025, time.March, 1)
	to := date(2025, time.March, 10)

	history, err := engine.History(ctx, s, source, from, to)
	require.NoError(t, err)
	require.Len(t, history, 10)
	assert.True(t, history[0].AsOf.Equal(from))
	assert.True(t, history[9].AsOf.Equal(to))

	// Restartable: a second run is identical.
	again, err := engine.History(ctx, s, source, from, to)
	require.NoError(t, err)
	for i := range history {
		assert.Equal(t, history[i].Value.String(), again[i].Value.String())
	}
}

func TestEngine_HistoryErrors(t *testing.T) {
	ctx := context.Background()
	engine := valuation.NewEngine()
	s := twoPeriodSchedule(t)
	source := tenThousandAtStart()

	_, err := engine.History(ctx, s, source, date(2025, time.March, 10), date(2025, time.March, 1))
	assert.ErrorIs(t, err, valuation.ErrInvalidRange)

	_, err = engine.History(ctx, s, source, date(2024, time.December, 1), date(2025, time.March, 1))
	assert.ErrorIs(t, err, valuation.ErrBeforeScheduleStart)
}
