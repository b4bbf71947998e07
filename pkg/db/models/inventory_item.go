package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem tracks on-hand and reserved stock for one (sku, color, size)
// triple. Color/size are empty strings when not applicable; lookups must use
// the same sentinel or they silently miss.
type InventoryItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU         string    `gorm:"column:sku;not null;uniqueIndex:idx_inventory_variant,priority:1"`
	Color       string    `gorm:"column:color;not null;default:'';uniqueIndex:idx_inventory_variant,priority:2"`
	Size        string    `gorm:"column:size;not null;default:'';uniqueIndex:idx_inventory_variant,priority:3"`
	OnHandQty   int       `gorm:"column:on_hand_qty;not null;default:0"`
	ReservedQty int       `gorm:"column:reserved_qty;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
