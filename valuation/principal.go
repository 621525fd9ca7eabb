/*
principal.go - Principal resolution from transaction history

PURPOSE:
  The engine never stores a principal; it folds one from the instrument's
  transaction history on every call. BUY adds quantity*price, SELL subtracts
  it, and an INTEREST record with a negative price is a principal repayment.
  Everything else (fees, coupon payouts) leaves principal untouched.

PRINCIPAL SOURCE:
  Where the transaction list comes from is the caller's business. The
  PrincipalSource interface keeps the engine agnostic: tests and the CLI
  fold an in-memory list (TransactionSource), the service layer folds rows
  loaded from the store. Both honor the same contract - no reserved
  parameters, no test-only back doors.

NEGATIVE PRINCIPAL:
  A fold can go negative when repayments exceed purchases. The engine
  returns it as computed; whether that is an upstream data error is not
  decided here (see DESIGN.md).

SEE ALSO:
  - engine.go: Adds folded principal to accrued interest
  - asset/service.go: The store-backed PrincipalSource
*/
package valuation

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TRANSACTION RECORD - Collaborator data, consumed read-only
// =============================================================================

// TransactionType classifies a transaction record. The engine only reacts
// to BUY, SELL, and repayment-style INTEREST; other types pass through the
// fold untouched.
type TransactionType string

const (
	TransactionBuy      TransactionType = "BUY"
	TransactionSell     TransactionType = "SELL"
	TransactionInterest TransactionType = "INTEREST"
	TransactionFee      TransactionType = "FEE"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionBuy, TransactionSell, TransactionInterest, TransactionFee:
		return true
	}
	return false
}

// TransactionRecord is one entry of an instrument's trade history.
type TransactionRecord struct {
	Type      TransactionType
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	TradeDate Date
}

// =============================================================================
// PRINCIPAL FOLD
// =============================================================================

// FoldPrincipal computes the outstanding principal at asOf by folding every
// record with TradeDate <= asOf. The fold is a pure sum; record order does
// not matter.
func FoldPrincipal(records []TransactionRecord, asOf Date) decimal.Decimal {
	principal := decimal.Zero
	for _, r := range records {
		if r.TradeDate.After(asOf) {
			continue
		}
		switch r.Type {
		case TransactionBuy:
			principal = principal.Add(r.Quantity.Mul(r.Price))
		case TransactionSell:
			principal = principal.Sub(r.Quantity.Mul(r.Price))
		case TransactionInterest:
			// A negative price is a principal repayment; positive-price
			// interest is a payout and does not touch principal.
			if r.Price.IsNegative() {
				principal = principal.Add(r.Price)
			}
		}
	}
	return principal
}

// =============================================================================
// PRINCIPAL SOURCE
// =============================================================================

// PrincipalSource yields the outstanding principal at a date. Implementations
// must be pure with respect to their inputs: identical calls return identical
// values.
type PrincipalSource interface {
	PrincipalAt(ctx context.Context, asOf Date) (decimal.Decimal, error)
}

// TransactionSource folds an in-memory transaction list. The list is copied
// at construction, so later mutation of the caller's slice cannot leak in.
type TransactionSource struct {
	records []TransactionRecord
}

func NewTransactionSource(records []TransactionRecord) *TransactionSource {
	copied := make([]TransactionRecord, len(records))
	copy(copied, records)
	return &TransactionSource{records: copied}
}

func (s *TransactionSource) PrincipalAt(_ context.Context, asOf Date) (decimal.Decimal, error) {
	return FoldPrincipal(s.records, asOf), nil
}
