package asset_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alfystar/LibreFolio-sub004/asset"
	"github.com/Alfystar/LibreFolio-sub004/asset/store"
	"github.com/Alfystar/LibreFolio-sub004/valuation"
)

const loanDocument = `{
	"schedule": [
		{"start_date": "2025-01-01", "end_date": "2025-06-30",
		 "annual_rate": "0.05", "compounding": "SIMPLE", "day_count": "ACT/365"},
		{"start_date": "2025-07-01", "end_date": "2025-12-31",
		 "annual_rate": "0.06", "compounding": "SIMPLE", "day_count": "ACT/365"}
	],
	"late_interest": {
		"annual_rate": "0.12", "compounding": "SIMPLE",
		"day_count": "ACT/365", "grace_period_days": 30
	}
}`

func newTestService(t *testing.T) (*asset.Service, asset.Asset) {
	t.Helper()
	svc := asset.NewService(store.NewMemory())

	a, err := svc.CreateAsset(context.Background(), "Bridge Loan 2025", "EUR")
	require.NoError(t, err)
	return svc, a
}

func mustDate(t *testing.T, s string) valuation.Date {
	t.Helper()
	d, err := valuation.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestService_CreateAsset(t *testing.T) {
	svc, a := newTestService(t)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "Bridge Loan 2025", a.Name)
	assert.Equal(t, "EUR", a.Currency)

	loaded, err := svc.GetAsset(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, loaded.ID)

	b, err := svc.CreateAsset(context.Background(), "Second", "USD")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	all, err := svc.ListAssets(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestService_ReplaceSchedule(t *testing.T) {
	ctx := context.Background()
	svc, a := newTestService(t)

	s, err := svc.ReplaceSchedule(ctx, a.ID, loanDocument)
	require.NoError(t, err)
	assert.Len(t, s.Periods(), 2)

	// Stored canonical form parses back to the same schedule.
	loaded, err := svc.GetSchedule(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Periods(), loaded.Periods())
	assert.Equal(t, s.Late(), loaded.Late())
}

func TestService_ReplaceSchedule_RejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc, a := newTestService(t)

	_, err := svc.ReplaceSchedule(ctx, a.ID, `{"schedule": []}`)
	assert.ErrorIs(t, err, valuation.ErrEmptySchedule)

	// The invalid document never reached the store.
	_, err = svc.GetSchedule(ctx, a.ID)
	assert.ErrorIs(t, err, asset.ErrScheduleNotFound)
}

func TestService_ReplaceSchedule_UnknownAsset(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ReplaceSchedule(context.Background(), "nope", loanDocument)
	assert.ErrorIs(t, err, asset.ErrAssetNotFound)
}

func TestService_RecordTransaction(t *testing.T) {
	ctx := context.Background()
	svc, a := newTestService(t)

	tx, err := svc.RecordTransaction(ctx, a.ID, valuation.TransactionRecord{
		Type:      valuation.TransactionBuy,
		Quantity:  decimal.NewFromInt(100),
		Price:     decimal.NewFromInt(100),
		TradeDate: mustDate(t, "2025-01-01"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, a.ID, tx.AssetID)

	txs, err := svc.ListTransactions(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, tx.ID, txs[0].ID)
}

func TestService_RecordTransaction_UnknownType(t *testing.T) {
	svc, a := newTestService(t)

	_, err := svc.RecordTransaction(context.Background(), a.ID, valuation.TransactionRecord{
		Type:      "DIVIDEND",
		TradeDate: mustDate(t, "2025-01-01"),
	})
	assert.ErrorIs(t, err, valuation.ErrUnknownTransactionType)
	assert.True(t, valuation.IsClientError(err))
}

func TestService_ValueAt(t *testing.T) {
	ctx := context.Background()
	svc, a := newTestService(t)

	_, err := svc.ReplaceSchedule(ctx, a.ID, loanDocument)
	require.NoError(t, err)
	_, err = svc.RecordTransaction(ctx, a.ID, valuation.TransactionRecord{
		Type:      valuation.TransactionBuy,
		Quantity:  decimal.NewFromInt(100),
		Price:     decimal.NewFromInt(100),
		TradeDate: mustDate(t, "2025-01-01"),
	})
	require.NoError(t, err)

	// 73 days at 5% simple ACT/365 on 10000: exactly 100 of interest.
	r, err := svc.ValueAt(ctx, a.ID, mustDate(t, "2025-03-15"))
	require.NoError(t, err)
	assert.True(t, r.Value.Equal(decimal.NewFromInt(10100)), "got %s", r.Value)
	assert.True(t, r.Principal.Equal(decimal.NewFromInt(10000)))
}

func TestService_ValueAt_Errors(t *testing.T) {
	ctx := context.Background()
	svc, a := newTestService(t)

	_, err := svc.ValueAt(ctx, "nope", mustDate(t, "2025-03-15"))
	assert.ErrorIs(t, err, asset.ErrAssetNotFound)

	_, err = svc.ValueAt(ctx, a.ID, mustDate(t, "2025-03-15"))
	assert.ErrorIs(t, err, asset.ErrScheduleNotFound)

	_, err = svc.ReplaceSchedule(ctx, a.ID, loanDocument)
	require.NoError(t, err)
	_, err = svc.ValueAt(ctx, a.ID, mustDate(t, "2024-06-01"))
	assert.ErrorIs(t, err, valuation.ErrBeforeScheduleStart)
}

func TestService_History(t *testing.T) {
	ctx := context.Background()
	svc, a := newTestService(t)

	_, err := svc.ReplaceSchedule(ctx, a.ID, loanDocument)
	require.NoError(t, err)
	_, err = svc.RecordTransaction(ctx, a.ID, valuation.TransactionRecord{
		Type:      valuation.TransactionBuy,
		Quantity:  decimal.NewFromInt(100),
		Price:     decimal.NewFromInt(100),
		TradeDate: mustDate(t, "2025-01-01"),
	})
	require.NoError(t, err)

	history, err := svc.History(ctx, a.ID, mustDate(t, "2025-03-01"), mustDate(t, "2025-03-05"))
	require.NoError(t, err)
	require.Len(t, history, 5)
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i].Value.GreaterThan(history[i-1].Value))
	}

	_, err = svc.History(ctx, a.ID, mustDate(t, "2025-03-05"), mustDate(t, "2025-03-01"))
	assert.ErrorIs(t, err, valuation.ErrInvalidRange)
}

func TestStorePrincipalSource_FoldsPersistedLedger(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.SaveAsset(ctx, asset.Asset{ID: "a1", Name: "Loan"}))

	entries := []struct {
		id    string
		typ   valuation.TransactionType
		qty   string
		price string
		date  string
	}{
		{"t1", valuation.TransactionBuy, "100", "100", "2025-01-01"},
		{"t2", valuation.TransactionSell, "20", "100", "2025-03-01"},
		{"t3", valuation.TransactionInterest, "0", "-500", "2025-06-01"},
	}
	for _, e := range entries {
		require.NoError(t, m.AppendTransaction(ctx, asset.Transaction{
			ID:        e.id,
			AssetID:   "a1",
			Type:      e.typ,
			Quantity:  decimal.RequireFromString(e.qty),
			Price:     decimal.RequireFromString(e.price),
			TradeDate: mustDate(t, e.date),
		}))
	}

	source := asset.NewStorePrincipalSource(m, "a1")

	// The asOf cutoff applies to the persisted ledger the same way it
	// applies to an in-memory one.
	got, err := source.PrincipalAt(ctx, mustDate(t, "2025-02-01"))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(10000)), "got %s", got)

	got, err = source.PrincipalAt(ctx, mustDate(t, "2025-12-31"))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(7500)), "got %s", got)
}

func TestStorePrincipalSource_PropagatesStoreErrors(t *testing.T) {
	source := asset.NewStorePrincipalSource(store.NewMemory(), "missing")

	_, err := source.PrincipalAt(context.Background(), mustDate(t, "2025-01-01"))
	assert.ErrorIs(t, err, asset.ErrAssetNotFound)
}

func TestStorePrincipalSource_SeesLateAppends(t *testing.T) {
	// Unlike TransactionSource, the store-backed source folds live data:
	// a valuation after a new append reflects it without rebuilding.
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.SaveAsset(ctx, asset.Asset{ID: "a1", Name: "Loan"}))
	source := asset.NewStorePrincipalSource(m, "a1")

	got, err := source.PrincipalAt(ctx, mustDate(t, "2025-06-01"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	require.NoError(t, m.AppendTransaction(ctx, asset.Transaction{
		ID:        "t1",
		AssetID:   "a1",
		Type:      valuation.TransactionBuy,
		Quantity:  decimal.NewFromInt(100),
		Price:     decimal.NewFromInt(100),
		TradeDate: mustDate(t, "2025-01-01"),
	}))

	got, err = source.PrincipalAt(ctx, mustDate(t, "2025-06-01"))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(10000)), "got %s", got)
}

func TestMemoryStore_DuplicateTransactionID(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	a := asset.Asset{ID: "a1", Name: "x", CreatedAt: time.Now()}
	require.NoError(t, m.SaveAsset(ctx, a))

	tx := asset.Transaction{
		ID:        "t1",
		AssetID:   a.ID,
		Type:      valuation.TransactionBuy,
		Quantity:  decimal.NewFromInt(1),
		Price:     decimal.NewFromInt(1),
		TradeDate: mustDate(t, "2025-01-01"),
	}
	require.NoError(t, m.AppendTransaction(ctx, tx))
	assert.ErrorIs(t, m.AppendTransaction(ctx, tx), asset.ErrDuplicateTransaction)
}

func TestMemoryStore_SortsLedgerByTradeDate(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.SaveAsset(ctx, asset.Asset{ID: "a1", Name: "x"}))

	dates := []string{"2025-03-01", "2025-01-01", "2025-02-01"}
	for i, d := range dates {
		require.NoError(t, m.AppendTransaction(ctx, asset.Transaction{
			ID:        string(rune('a' + i)),
			AssetID:   "a1",
			Type:      valuation.TransactionBuy,
			Quantity:  decimal.NewFromInt(1),
			Price:     decimal.NewFromInt(1),
			TradeDate: mustDate(t, d),
		}))
	}

	txs, err := m.ListTransactions(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, txs, 3)
	for i := 1; i < len(txs); i++ {
		assert.True(t, txs[i-1].TradeDate.BeforeOrEqual(txs[i].TradeDate))
	}
}
