package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/printforge/fulfillment-backend/pkg/enums"
)

// InventoryMovement is an immutable audit record of one stock delta. Rows are
// appended in the same transaction as the quantity change and never updated.
type InventoryMovement struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU            string                `gorm:"column:sku;not null;index"`
	Color          string                `gorm:"column:color;not null;default:''"`
	Size           string                `gorm:"column:size;not null;default:''"`
	OnHandChange   int                   `gorm:"column:on_hand_change;not null;default:0"`
	ReservedChange int                   `gorm:"column:reserved_change;not null;default:0"`
	Type           enums.MovementType    `gorm:"column:type;type:movement_type;not null"`
	RefType        enums.MovementRefType `gorm:"column:ref_type;type:movement_ref_type;not null"`
	RefID          uuid.UUID             `gorm:"column:ref_id;type:uuid;not null;index"`
	ActorID        *uuid.UUID            `gorm:"column:actor_id;type:uuid"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
}
