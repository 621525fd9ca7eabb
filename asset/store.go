package asset

import (
	"context"
	"errors"
)

// Storage sentinels. Handlers map the not-found pair to 404 and the
// duplicate pair to 409.
var (
	ErrAssetNotFound        = errors.New("asset not found")
	ErrScheduleNotFound     = errors.New("no schedule configured for asset")
	ErrDuplicateAsset       = errors.New("asset already exists")
	ErrDuplicateTransaction = errors.New("transaction already recorded")
)

// Store persists assets, their schedule documents, and their transaction
// ledgers. Schedule documents are stored as the raw JSON the factory
// validated; transactions are append-only.
type Store interface {
	SaveAsset(ctx context.Context, a Asset) error
	GetAsset(ctx context.Context, id AssetID) (Asset, error)
	ListAssets(ctx context.Context) ([]Asset, error)

	// SaveSchedule replaces the asset's schedule document.
	SaveSchedule(ctx context.Context, id AssetID, document string) error
	GetSchedule(ctx context.Context, id AssetID) (string, error)

	AppendTransaction(ctx context.Context, tx Transaction) error
	ListTransactions(ctx context.Context, id AssetID) ([]Transaction, error)
}
