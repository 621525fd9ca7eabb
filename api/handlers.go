/*
handlers.go - HTTP API handlers for the valuation service

PURPOSE:
  Exposes the asset service via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the asset.Service.

ENDPOINTS:
  Assets:
    GET    /api/assets                    List all assets
    POST   /api/assets                    Create asset
    GET    /api/assets/{id}               Get asset details

  Schedules:
    GET    /api/assets/{id}/schedule      Get the stored schedule
    PUT    /api/assets/{id}/schedule      Replace the schedule

  Transactions:
    GET    /api/assets/{id}/transactions  Ledger for the asset
    POST   /api/assets/{id}/transactions  Append a ledger entry

  Valuation:
    GET    /api/assets/{id}/value?date=YYYY-MM-DD
    GET    /api/assets/{id}/history?from=YYYY-MM-DD&to=YYYY-MM-DD

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Asset or schedule not found
  - 409: Duplicate asset or transaction
  - 422: Valuation target precedes the schedule start
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Alfystar/LibreFolio-sub004/asset"
	"github.com/Alfystar/LibreFolio-sub004/factory"
	"github.com/Alfystar/LibreFolio-sub004/valuation"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *asset.Service
	Factory *factory.ScheduleFactory
}

// NewHandler creates a new handler over the given service.
func NewHandler(svc *asset.Service) *Handler {
	return &Handler{
		Service: svc,
		Factory: factory.NewScheduleFactory(),
	}
}

// =============================================================================
// ASSET HANDLERS
// =============================================================================

// ListAssets returns all assets.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Service.ListAssets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assets", err)
		return
	}

	dtos := make([]AssetDTO, len(assets))
	for i, a := range assets {
		dtos[i] = toAssetDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAsset returns a single asset.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id := asset.AssetID(chi.URLParam(r, "id"))

	a, err := h.Service.GetAsset(r.Context(), id)
	if err != nil {
		writeServiceError(w, "Failed to get asset", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetDTO(a))
}

// CreateAsset creates a new asset.
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	a, err := h.Service.CreateAsset(r.Context(), req.Name, req.Currency)
	if err != nil {
		writeServiceError(w, "Failed to create asset", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssetDTO(a))
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// GetSchedule returns the stored schedule document.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id := asset.AssetID(chi.URLParam(r, "id"))

	s, err := h.Service.GetSchedule(r.Context(), id)
	if err != nil {
		writeServiceError(w, "Failed to get schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, ScheduleDTO{
		AssetID:  string(id),
		Schedule: h.Factory.ToJSON(s),
	})
}

// ReplaceSchedule validates and stores a schedule document.
func (h *Handler) ReplaceSchedule(w http.ResponseWriter, r *http.Request) {
	id := asset.AssetID(chi.URLParam(r, "id"))

	var doc json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := h.Service.ReplaceSchedule(r.Context(), id, string(doc))
	if err != nil {
		writeServiceError(w, "Failed to replace schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, ScheduleDTO{
		AssetID:  string(id),
		Schedule: h.Factory.ToJSON(s),
	})
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ListTransactions returns the asset's ledger.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id := asset.AssetID(chi.URLParam(r, "id"))

	txs, err := h.Service.ListTransactions(r.Context(), id)
	if err != nil {
		writeServiceError(w, "Failed to list transactions", err)
		return
	}

	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RecordTransaction appends a ledger entry.
func (h *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	id := asset.AssetID(chi.URLParam(r, "id"))

	var req RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := parseTransactionRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction", err)
		return
	}

	tx, err := h.Service.RecordTransaction(r.Context(), id, rec)
	if err != nil {
		writeServiceError(w, "Failed to record transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

func parseTransactionRequest(req RecordTransactionRequest) (valuation.TransactionRecord, error) {
	var rec valuation.TransactionRecord
	var err error

	rec.Type = valuation.TransactionType(req.Type)

	if req.Quantity != "" {
		if rec.Quantity, err = decimal.NewFromString(req.Quantity); err != nil {
			return rec, err
		}
	}
	if req.Price != "" {
		if rec.Price, err = decimal.NewFromString(req.Price); err != nil {
			return rec, err
		}
	}
	if rec.TradeDate, err = valuation.ParseDate(req.TradeDate); err != nil {
		return rec, err
	}
	return rec, nil
}

// =============================================================================
// VALUATION HANDLERS
// =============================================================================

// GetValue values the asset on a date. Defaults to today when ?date is
// omitted.
func (h *Handler) GetValue(w http.ResponseWriter, r *http.Request) {
	id := asset.AssetID(chi.URLParam(r, "id"))

	at := valuation.Today()
	if s := r.URL.Query().Get("date"); s != "" {
		var err error
		if at, err = valuation.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'date' (use YYYY-MM-DD)", err)
			return
		}
	}

	result, err := h.Service.ValueAt(r.Context(), id, at)
	if err != nil {
		writeServiceError(w, "Failed to value asset", err)
		return
	}
	writeJSON(w, http.StatusOK, toValuationDTO(result))
}

// GetHistory returns one valuation per day over [from, to].
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := asset.AssetID(chi.URLParam(r, "id"))

	from, err := valuation.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'from' date (use YYYY-MM-DD)", err)
		return
	}
	to, err := valuation.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'to' date (use YYYY-MM-DD)", err)
		return
	}

	results, err := h.Service.History(r.Context(), id, from, to)
	if err != nil {
		writeServiceError(w, "Failed to compute history", err)
		return
	}

	points := make([]ValuationDTO, len(results))
	for i, result := range results {
		points[i] = toValuationDTO(result)
	}
	writeJSON(w, http.StatusOK, HistoryDTO{
		AssetID: string(id),
		From:    from.String(),
		To:      to.String(),
		Points:  points,
	})
}

// =============================================================================
// DTO CONVERSION
// =============================================================================

func toAssetDTO(a asset.Asset) AssetDTO {
	return AssetDTO{
		ID:        string(a.ID),
		Name:      a.Name,
		Currency:  a.Currency,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func toTransactionDTO(tx asset.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:        tx.ID,
		AssetID:   string(tx.AssetID),
		Type:      string(tx.Type),
		Quantity:  tx.Quantity.String(),
		Price:     tx.Price.String(),
		TradeDate: tx.TradeDate.String(),
		CreatedAt: tx.CreatedAt.Format(time.RFC3339),
	}
}

func toValuationDTO(r valuation.Result) ValuationDTO {
	return ValuationDTO{
		AsOf:      r.AsOf.String(),
		Principal: r.Principal.String(),
		Interest:  r.Interest.String(),
		Value:     r.Value.String(),
	}
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

// writeServiceError maps service errors to HTTP statuses. The order
// matters: ErrBeforeScheduleStart is a client error but carries its own
// status.
func writeServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, valuation.ErrBeforeScheduleStart):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	case errors.Is(err, asset.ErrAssetNotFound), errors.Is(err, asset.ErrScheduleNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, asset.ErrDuplicateAsset), errors.Is(err, asset.ErrDuplicateTransaction):
		writeError(w, http.StatusConflict, message, err)
	case valuation.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
