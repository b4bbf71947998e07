package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindItem(ctx context.Context, key VariantKey) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("sku = ? AND color = ? AND size = ?", key.SKU, key.Color, key.Size).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListItems(ctx context.Context, params pagination.Params) (*ItemList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var items []models.InventoryItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	list := &ItemList{}
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	list.Items = items
	return list, nil
}

// AdjustQuantities applies signed deltas with a guard keeping both quantities
// non-negative. Returns rows affected; 0 means the guard refused or no row.
func (r *repository) AdjustQuantities(ctx context.Context, key VariantKey, onHandDelta, reservedDelta int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET on_hand_qty = on_hand_qty + ?,
			reserved_qty = reserved_qty + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE sku = ? AND color = ? AND size = ?
			AND on_hand_qty + ? >= 0
			AND reserved_qty + ? >= 0
	`, onHandDelta, reservedDelta, key.SKU, key.Color, key.Size, onHandDelta, reservedDelta)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ReserveQuantity moves qty from available into reserved. The guard requires
// on_hand - reserved >= qty so reservations never exceed physical stock.
func (r *repository) ReserveQuantity(ctx context.Context, key VariantKey, qty int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET reserved_qty = reserved_qty + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE sku = ? AND color = ? AND size = ?
			AND on_hand_qty - reserved_qty >= ?
	`, qty, key.SKU, key.Color, key.Size, qty)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) AppendMovement(ctx context.Context, movement *models.InventoryMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) ListMovements(ctx context.Context, sku string, params pagination.Params) (*MovementList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.InventoryMovement{}).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit))

	if sku != "" {
		query = query.Where("sku = ?", sku)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var movements []models.InventoryMovement
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}

	list := &MovementList{}
	if len(movements) > limit {
		movements = movements[:limit]
		last := movements[len(movements)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	list.Movements = movements
	return list, nil
}
