package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printforge/fulfillment-backend/pkg/enums"
)

// Order aggregates one seller's fulfillment request. Status is a derived
// projection of the sibling jobs once the admin decision is made.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID     uuid.UUID         `gorm:"column:seller_id;type:uuid;not null;index"`
	Status       enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending_approval'"`
	TotalAmount  decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	RejectReason *string           `gorm:"column:reject_reason"`
	Jobs         []Job             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
