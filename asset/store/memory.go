// Package store provides asset.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/Alfystar/LibreFolio-sub004/asset"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	assets       map[asset.AssetID]asset.Asset
	schedules    map[asset.AssetID]string
	transactions map[asset.AssetID][]asset.Transaction
	txIDs        map[string]bool
}

func NewMemory() *Memory {
	return &Memory{
		assets:       make(map[asset.AssetID]asset.Asset),
		schedules:    make(map[asset.AssetID]string),
		transactions: make(map[asset.AssetID][]asset.Transaction),
		txIDs:        make(map[string]bool),
	}
}

func (m *Memory) SaveAsset(_ context.Context, a asset.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.assets[a.ID]; ok {
		return asset.ErrDuplicateAsset
	}
	m.assets[a.ID] = a
	return nil
}

func (m *Memory) GetAsset(_ context.Context, id asset.AssetID) (asset.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.assets[id]
	if !ok {
		return asset.Asset{}, asset.ErrAssetNotFound
	}
	return a, nil
}

func (m *Memory) ListAssets(_ context.Context) ([]asset.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]asset.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) SaveSchedule(_ context.Context, id asset.AssetID, document string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.assets[id]; !ok {
		return asset.ErrAssetNotFound
	}
	m.schedules[id] = document
	return nil
}

func (m *Memory) GetSchedule(_ context.Context, id asset.AssetID) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.assets[id]; !ok {
		return "", asset.ErrAssetNotFound
	}
	doc, ok := m.schedules[id]
	if !ok {
		return "", asset.ErrScheduleNotFound
	}
	return doc, nil
}

// AppendTransaction adds a single ledger entry, keeping the ledger sorted
// by trade date. Append-only.
func (m *Memory) AppendTransaction(_ context.Context, tx asset.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.assets[tx.AssetID]; !ok {
		return asset.ErrAssetNotFound
	}
	if m.txIDs[tx.ID] {
		return asset.ErrDuplicateTransaction
	}

	txs := m.transactions[tx.AssetID]
	i := sort.Search(len(txs), func(i int) bool {
		return txs[i].TradeDate.After(tx.TradeDate)
	})
	txs = append(txs, asset.Transaction{})
	copy(txs[i+1:], txs[i:])
	txs[i] = tx
	m.transactions[tx.AssetID] = txs

	m.txIDs[tx.ID] = true
	return nil
}

func (m *Memory) ListTransactions(_ context.Context, id asset.AssetID) ([]asset.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.assets[id]; !ok {
		return nil, asset.ErrAssetNotFound
	}
	result := make([]asset.Transaction, len(m.transactions[id]))
	copy(result, m.transactions[id])
	return result, nil
}
