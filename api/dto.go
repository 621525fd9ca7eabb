/*
dto.go - Request/response data structures

PURPOSE:
  JSON shapes for the REST API. Monetary amounts are rendered as strings
  so clients never receive lossy floats; dates travel as YYYY-MM-DD.

SEE ALSO:
  - handlers.go: Handlers producing these shapes
  - factory/schedule.go: The schedule document format (reused verbatim)
*/
package api

import "github.com/Alfystar/LibreFolio-sub004/factory"

// =============================================================================
// REQUEST DTOs
// =============================================================================

// CreateAssetRequest creates a new asset.
type CreateAssetRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// RecordTransactionRequest appends a ledger entry. Quantity and price are
// decimal strings.
type RecordTransactionRequest struct {
	Type      string `json:"type"`
	Quantity  string `json:"quantity"`
	Price     string `json:"price"`
	TradeDate string `json:"trade_date"`
}

// =============================================================================
// RESPONSE DTOs
// =============================================================================

// AssetDTO is the API representation of an asset.
type AssetDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	CreatedAt string `json:"created_at"`
}

// TransactionDTO is the API representation of a ledger entry.
type TransactionDTO struct {
	ID        string `json:"id"`
	AssetID   string `json:"asset_id"`
	Type      string `json:"type"`
	Quantity  string `json:"quantity"`
	Price     string `json:"price"`
	TradeDate string `json:"trade_date"`
	CreatedAt string `json:"created_at"`
}

// ScheduleDTO echoes the stored schedule document.
type ScheduleDTO struct {
	AssetID  string               `json:"asset_id"`
	Schedule factory.ScheduleJSON `json:"schedule"`
}

// ValuationDTO is a single valuation result.
type ValuationDTO struct {
	AsOf      string `json:"as_of"`
	Principal string `json:"principal"`
	Interest  string `json:"interest"`
	Value     string `json:"value"`
}

// HistoryDTO is a daily valuation series.
type HistoryDTO struct {
	AssetID string         `json:"asset_id"`
	From    string         `json:"from"`
	To      string         `json:"to"`
	Points  []ValuationDTO `json:"points"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
