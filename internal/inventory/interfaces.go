package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
)

// Repository defines persistence operations for inventory tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindItem(ctx context.Context, key VariantKey) (*models.InventoryItem, error)
	FindItemByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context, params pagination.Params) (*ItemList, error)
	AdjustQuantities(ctx context.Context, key VariantKey, onHandDelta, reservedDelta int) (int64, error)
	ReserveQuantity(ctx context.Context, key VariantKey, qty int) (int64, error)
	AppendMovement(ctx context.Context, movement *models.InventoryMovement) error
	ListMovements(ctx context.Context, sku string, params pagination.Params) (*MovementList, error)
}
