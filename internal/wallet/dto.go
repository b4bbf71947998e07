package wallet

import (
	"github.com/shopspring/decimal"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
)

// TopUpInput captures a seller-initiated balance credit.
type TopUpInput struct {
	Amount decimal.Decimal
	Note   *string
}

// LedgerList wraps the paginated wallet entries plus the next page cursor.
type LedgerList struct {
	Entries    []models.WalletEntry `json:"entries"`
	NextCursor string               `json:"next_cursor,omitempty"`
}
