package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
)

// Repository defines persistence operations for wallet tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)
	FindWalletBySeller(ctx context.Context, sellerID uuid.UUID) (*models.Wallet, error)
	DebitBalance(ctx context.Context, sellerID uuid.UUID, amount decimal.Decimal) (int64, error)
	CreditBalance(ctx context.Context, sellerID uuid.UUID, amount decimal.Decimal) (int64, error)
	AppendEntry(ctx context.Context, entry *models.WalletEntry) error
	ListEntries(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*LedgerList, error)
}
