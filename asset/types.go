/*
Package asset ties the valuation engine to stored data.

PURPOSE:
  The valuation package computes values from inputs it is handed; it never
  touches storage. This package owns the stored entities - assets, their
  schedule documents, their transaction ledgers - and the Service that
  loads them, runs the engine, and returns results.

KEY TYPES:
  Asset:       A scheduled-interest instrument (loan, bond, deposit)
  Transaction: A persisted ledger entry with identity and audit fields
  Store:       Persistence interface (memory and sqlite implementations)
  Service:     The use-case layer the API and CLI call into

SEE ALSO:
  - valuation/engine.go: The pure computation this package feeds
  - asset/store/memory.go: In-memory Store for tests
  - store/sqlite/sqlite.go: SQLite-backed Store
*/
package asset

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alfystar/LibreFolio-sub004/valuation"
)

// AssetID identifies a stored asset.
type AssetID string

// Asset is a scheduled-interest instrument. The schedule and transactions
// are stored separately and joined by AssetID.
type Asset struct {
	ID        AssetID
	Name      string
	Currency  string
	CreatedAt time.Time
}

// Transaction is a persisted ledger entry. It carries identity and audit
// fields on top of the valuation-level record; Record() strips them back
// off for the engine.
type Transaction struct {
	ID        string
	AssetID   AssetID
	Type      valuation.TransactionType
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	TradeDate valuation.Date
	CreatedAt time.Time
}

// Record converts the stored transaction to its valuation form.
func (t Transaction) Record() valuation.TransactionRecord {
	return valuation.TransactionRecord{
		Type:      t.Type,
		Quantity:  t.Quantity,
		Price:     t.Price,
		TradeDate: t.TradeDate,
	}
}

// Records converts a stored ledger to valuation records.
func Records(txs []Transaction) []valuation.TransactionRecord {
	records := make([]valuation.TransactionRecord, 0, len(txs))
	for _, t := range txs {
		records = append(records, t.Record())
	}
	return records
}
