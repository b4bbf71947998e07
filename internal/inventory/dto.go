package inventory

import (
	"github.com/google/uuid"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
)

// VariantKey identifies one stock row. Color and size carry the empty-string
// sentinel when not applicable; lookups must pass the same sentinel.
type VariantKey struct {
	SKU   string
	Color string
	Size  string
}

// CreateItemInput captures the fields for a new inventory item.
type CreateItemInput struct {
	SKU       string
	Color     string
	Size      string
	OnHandQty int
}

// AdjustInput describes a manual stock correction made by an admin. Type must
// be ADJUSTMENT or RESTOCK; other movement types are reserved for the
// lifecycle controller.
type AdjustInput struct {
	ItemID      uuid.UUID
	OnHandDelta int
	Type        enums.MovementType
}

// MovementInput captures one stock delta plus the audit references recorded
// with it. Deltas are signed; the guarded update rejects any change that would
// drive a quantity negative.
type MovementInput struct {
	SKU           string
	Color         string
	Size          string
	OnHandDelta   int
	ReservedDelta int
	Type          enums.MovementType
	RefType       enums.MovementRefType
	RefID         uuid.UUID
	ActorID       *uuid.UUID
}

// ReserveInput moves qty from available into reserved for one variant.
type ReserveInput struct {
	SKU     string
	Color   string
	Size    string
	Qty     int
	RefType enums.MovementRefType
	RefID   uuid.UUID
	ActorID *uuid.UUID
}

// ItemList wraps the paginated items plus the next page cursor.
type ItemList struct {
	Items      []models.InventoryItem `json:"items"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// MovementList wraps the paginated movements plus the next page cursor.
type MovementList struct {
	Movements  []models.InventoryMovement `json:"movements"`
	NextCursor string                     `json:"next_cursor,omitempty"`
}
