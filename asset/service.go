package asset

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/Alfystar/LibreFolio-sub004/factory"
	"github.com/Alfystar/LibreFolio-sub004/valuation"
)

// =============================================================================
// SERVICE - Use-case layer over Store + engine
// =============================================================================

// Service loads stored assets and runs valuations over them. It owns no
// state beyond the store handle; every valuation recomputes from the
// stored schedule and ledger.
type Service struct {
	store   Store
	factory *factory.ScheduleFactory
	engine  *valuation.Engine
}

func NewService(store Store) *Service {
	return &Service{
		store:   store,
		factory: factory.NewScheduleFactory(),
		engine:  valuation.NewEngine(),
	}
}

// CreateAsset registers a new asset and assigns it an ID.
func (s *Service) CreateAsset(ctx context.Context, name, currency string) (Asset, error) {
	a := Asset{
		ID:        AssetID(ulid.Make().String()),
		Name:      name,
		Currency:  currency,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveAsset(ctx, a); err != nil {
		return Asset{}, fmt.Errorf("save asset: %w", err)
	}
	return a, nil
}

func (s *Service) GetAsset(ctx context.Context, id AssetID) (Asset, error) {
	return s.store.GetAsset(ctx, id)
}

func (s *Service) ListAssets(ctx context.Context) ([]Asset, error) {
	return s.store.ListAssets(ctx)
}

// ReplaceSchedule validates a schedule document and stores its canonical
// form. An invalid document never reaches the store.
func (s *Service) ReplaceSchedule(ctx context.Context, id AssetID, document string) (*valuation.Schedule, error) {
	if _, err := s.store.GetAsset(ctx, id); err != nil {
		return nil, err
	}

	schedule, err := s.factory.ParseSchedule(document)
	if err != nil {
		return nil, err
	}

	canonical, err := json.Marshal(s.factory.ToJSON(schedule))
	if err != nil {
		return nil, fmt.Errorf("encode schedule document: %w", err)
	}
	if err := s.store.SaveSchedule(ctx, id, string(canonical)); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}
	return schedule, nil
}

// GetSchedule loads and parses the asset's stored schedule.
func (s *Service) GetSchedule(ctx context.Context, id AssetID) (*valuation.Schedule, error) {
	doc, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	schedule, err := s.factory.ParseSchedule(doc)
	if err != nil {
		// A stored document was validated on the way in; failing here
		// means the store was tampered with or the schema drifted.
		return nil, fmt.Errorf("stored schedule for %s is corrupt: %w", id, err)
	}
	return schedule, nil
}

// RecordTransaction appends a ledger entry, assigning identity and audit
// fields.
func (s *Service) RecordTransaction(ctx context.Context, id AssetID, rec valuation.TransactionRecord) (Transaction, error) {
	if !rec.Type.Valid() {
		return Transaction{}, fmt.Errorf("%w: %q", valuation.ErrUnknownTransactionType, rec.Type)
	}
	if _, err := s.store.GetAsset(ctx, id); err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		ID:        ulid.Make().String(),
		AssetID:   id,
		Type:      rec.Type,
		Quantity:  rec.Quantity,
		Price:     rec.Price,
		TradeDate: rec.TradeDate,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.AppendTransaction(ctx, tx); err != nil {
		return Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	return tx, nil
}

func (s *Service) ListTransactions(ctx context.Context, id AssetID) ([]Transaction, error) {
	if _, err := s.store.GetAsset(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, id)
}

// ValueAt values the asset on a date from its stored schedule and ledger.
func (s *Service) ValueAt(ctx context.Context, id AssetID, at valuation.Date) (valuation.Result, error) {
	schedule, source, err := s.load(ctx, id)
	if err != nil {
		return valuation.Result{}, err
	}
	return s.engine.ValueAt(ctx, schedule, source, at)
}

// History produces one valuation per day over [from, to].
func (s *Service) History(ctx context.Context, id AssetID, from, to valuation.Date) ([]valuation.Result, error) {
	schedule, source, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.History(ctx, schedule, source, from, to)
}

func (s *Service) load(ctx context.Context, id AssetID) (*valuation.Schedule, valuation.PrincipalSource, error) {
	schedule, err := s.GetSchedule(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return schedule, NewStorePrincipalSource(s.store, id), nil
}

// =============================================================================
// STORE-BACKED PRINCIPAL SOURCE
// =============================================================================

// StorePrincipalSource folds the persisted ledger on demand. The engine
// stays storage-agnostic; this is the persistence-side counterpart of
// valuation.TransactionSource.
type StorePrincipalSource struct {
	store Store
	id    AssetID
}

func NewStorePrincipalSource(store Store, id AssetID) *StorePrincipalSource {
	return &StorePrincipalSource{store: store, id: id}
}

func (s *StorePrincipalSource) PrincipalAt(ctx context.Context, asOf valuation.Date) (decimal.Decimal, error) {
	txs, err := s.store.ListTransactions(ctx, s.id)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return valuation.FoldPrincipal(Records(txs), asOf), nil
}
