/*
Package sqlite provides a SQLite-backed implementation of asset.Store.

PURPOSE:
  Persists assets, schedule documents, and transaction ledgers using
  SQLite. In production the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  The transactions table is append-only:
  - No UPDATE statements on transactions
  - No DELETE statements on transactions
  Schedule documents are the one mutable piece; replacing a schedule is
  an explicit upsert.

KEY TABLES:
  assets:       Instrument records
  schedules:    One schedule document per asset (validated JSON)
  transactions: Immutable ledger of principal movements

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/valuation.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := asset.NewService(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - asset/store.go: Interface definition
  - asset/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/Alfystar/LibreFolio-sub004/asset"
	"github.com/Alfystar/LibreFolio-sub004/valuation"
)

// Store implements asset.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		currency TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- One schedule document per asset; replaced whole on update
	CREATE TABLE IF NOT EXISTS schedules (
		asset_id TEXT PRIMARY KEY REFERENCES assets(id),
		document TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Transactions (append-only ledger)
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		asset_id TEXT NOT NULL REFERENCES assets(id),
		tx_type TEXT NOT NULL,
		quantity TEXT NOT NULL,
		price TEXT NOT NULL,
		trade_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Ledger load is the valuation hot path
	CREATE INDEX IF NOT EXISTS idx_transactions_asset_date
		ON transactions(asset_id, trade_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ASSETS
// =============================================================================

func (s *Store) SaveAsset(ctx context.Context, a asset.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO assets (id, name, currency, created_at) VALUES (?, ?, ?, ?)",
		string(a.ID), a.Name, a.Currency, a.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return asset.ErrDuplicateAsset
		}
		return fmt.Errorf("failed to save asset: %w", err)
	}
	return nil
}

func (s *Store) GetAsset(ctx context.Context, id asset.AssetID) (asset.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getAsset(ctx, id)
}

func (s *Store) getAsset(ctx context.Context, id asset.AssetID) (asset.Asset, error) {
	var a asset.Asset
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, currency, created_at FROM assets WHERE id = ?",
		string(id),
	).Scan(&a.ID, &a.Name, &a.Currency, &createdAt)

	if err == sql.ErrNoRows {
		return asset.Asset{}, asset.ErrAssetNotFound
	}
	if err != nil {
		return asset.Asset{}, fmt.Errorf("failed to load asset: %w", err)
	}

	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return a, nil
}

func (s *Store) ListAssets(ctx context.Context) ([]asset.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, currency, created_at FROM assets ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []asset.Asset
	for rows.Next() {
		var a asset.Asset
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Name, &a.Currency, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// =============================================================================
// SCHEDULES
// =============================================================================

func (s *Store) SaveSchedule(ctx context.Context, id asset.AssetID, document string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getAsset(ctx, id); err != nil {
		return err
	}

	query := `
		INSERT INTO schedules (asset_id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(asset_id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		string(id), document, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

func (s *Store) GetSchedule(ctx context.Context, id asset.AssetID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.getAsset(ctx, id); err != nil {
		return "", err
	}

	var document string
	err := s.db.QueryRowContext(ctx,
		"SELECT document FROM schedules WHERE asset_id = ?",
		string(id),
	).Scan(&document)

	if err == sql.ErrNoRows {
		return "", asset.ErrScheduleNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load schedule: %w", err)
	}
	return document, nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *Store) AppendTransaction(ctx context.Context, tx asset.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getAsset(ctx, tx.AssetID); err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (id, asset_id, tx_type, quantity, price, trade_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		tx.ID,
		string(tx.AssetID),
		string(tx.Type),
		tx.Quantity.String(),
		tx.Price.String(),
		tx.TradeDate.String(),
		tx.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return asset.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, id asset.AssetID) ([]asset.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.getAsset(ctx, id); err != nil {
		return nil, err
	}

	query := `
		SELECT id, asset_id, tx_type, quantity, price, trade_date, created_at
		FROM transactions
		WHERE asset_id = ?
		ORDER BY trade_date ASC, created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []asset.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func scanTransaction(rows *sql.Rows) (asset.Transaction, error) {
	var (
		tx        asset.Transaction
		quantity  string
		price     string
		tradeDate string
		createdAt string
	)

	err := rows.Scan(&tx.ID, &tx.AssetID, &tx.Type, &quantity, &price, &tradeDate, &createdAt)
	if err != nil {
		return tx, fmt.Errorf("failed to scan transaction: %w", err)
	}

	tx.Quantity, err = decimal.NewFromString(quantity)
	if err != nil {
		return tx, fmt.Errorf("failed to parse quantity %q: %w", quantity, err)
	}
	tx.Price, err = decimal.NewFromString(price)
	if err != nil {
		return tx, fmt.Errorf("failed to parse price %q: %w", price, err)
	}
	tx.TradeDate, err = valuation.ParseDate(tradeDate)
	if err != nil {
		return tx, fmt.Errorf("failed to parse trade date %q: %w", tradeDate, err)
	}
	tx.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return tx, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"transactions", "schedules", "assets"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
