package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printforge/fulfillment-backend/pkg/enums"
)

// WalletEntry records an immutable credit or debit against a seller wallet.
type WalletEntry struct {
	ID        uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WalletID  uuid.UUID                `gorm:"column:wallet_id;type:uuid;not null;index"`
	SellerID  uuid.UUID                `gorm:"column:seller_id;type:uuid;not null;index"`
	Type      enums.WalletEntryType    `gorm:"column:type;type:wallet_entry_type;not null"`
	Amount    decimal.Decimal          `gorm:"column:amount;type:numeric(12,2);not null"`
	RefType   enums.WalletEntryRefType `gorm:"column:ref_type;type:wallet_entry_ref_type;not null"`
	RefID     uuid.UUID                `gorm:"column:ref_id;type:uuid;not null"`
	Note      *string                  `gorm:"column:note"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
}
