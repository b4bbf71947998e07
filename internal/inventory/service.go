package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db"
	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/printforge/fulfillment-backend/pkg/errors"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines inventory operations for the admin surface plus the
// tx-scoped primitives the lifecycle controllers call.
type Service interface {
	CreateItem(ctx context.Context, actorID uuid.UUID, input CreateItemInput) (*models.InventoryItem, error)
	Adjust(ctx context.Context, actorID uuid.UUID, input AdjustInput) (*models.InventoryItem, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context, params pagination.Params) (*ItemList, error)
	ListMovements(ctx context.Context, sku string, params pagination.Params) (*MovementList, error)

	// ApplyMovement and Reserve run inside a caller-owned transaction so the
	// quantity change and its movement row commit or roll back together with
	// the rest of the lifecycle write.
	ApplyMovement(ctx context.Context, tx *gorm.DB, input MovementInput) error
	Reserve(ctx context.Context, tx *gorm.DB, input ReserveInput) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateItem(ctx context.Context, actorID uuid.UUID, input CreateItemInput) (*models.InventoryItem, error) {
	if strings.TrimSpace(input.SKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if input.OnHandQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "on-hand quantity cannot be negative")
	}

	item := &models.InventoryItem{
		SKU:       input.SKU,
		Color:     input.Color,
		Size:      input.Size,
		OnHandQty: input.OnHandQty,
	}

	var created *models.InventoryItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		saved, err := repo.CreateItem(ctx, item)
		if err != nil {
			if db.IsUniqueViolation(err, "idx_inventory_variant") {
				return pkgerrors.New(pkgerrors.CodeConflict, "inventory item already exists for variant")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
		}

		if saved.OnHandQty > 0 {
			actor := actorID
			movement := &models.InventoryMovement{
				SKU:          saved.SKU,
				Color:        saved.Color,
				Size:         saved.Size,
				OnHandChange: saved.OnHandQty,
				Type:         enums.MovementTypeRestock,
				RefType:      enums.MovementRefTypeManual,
				RefID:        saved.ID,
				ActorID:      &actor,
			}
			if err := repo.AppendMovement(ctx, movement); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record initial stock movement")
			}
		}

		created = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Adjust(ctx context.Context, actorID uuid.UUID, input AdjustInput) (*models.InventoryItem, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if input.OnHandDelta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment delta cannot be zero")
	}
	if input.Type != enums.MovementTypeAdjustment && input.Type != enums.MovementTypeRestock {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movement type must be adjustment or restock")
	}

	var updated *models.InventoryItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindItemByID(ctx, input.ItemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
		}

		actor := actorID
		if err := s.ApplyMovement(ctx, tx, MovementInput{
			SKU:         item.SKU,
			Color:       item.Color,
			Size:        item.Size,
			OnHandDelta: input.OnHandDelta,
			Type:        input.Type,
			RefType:     enums.MovementRefTypeManual,
			RefID:       item.ID,
			ActorID:     &actor,
		}); err != nil {
			return err
		}

		updated, err = repo.FindItemByID(ctx, input.ItemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload inventory item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) GetItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return item, nil
}

func (s *service) ListItems(ctx context.Context, params pagination.Params) (*ItemList, error) {
	list, err := s.repo.ListItems(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory items")
	}
	return list, nil
}

func (s *service) ListMovements(ctx context.Context, sku string, params pagination.Params) (*MovementList, error) {
	list, err := s.repo.ListMovements(ctx, sku, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory movements")
	}
	return list, nil
}

// ApplyMovement applies signed deltas via the guarded update and appends the
// movement row in the same transaction. A missing item row is always fatal;
// a guard refusal on an existing row surfaces as insufficient stock.
func (s *service) ApplyMovement(ctx context.Context, tx *gorm.DB, input MovementInput) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory movement")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid movement type")
	}
	if input.OnHandDelta == 0 && input.ReservedDelta == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "movement deltas cannot both be zero")
	}
	if input.RefID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "movement reference required")
	}

	repo := s.repo.WithTx(tx)
	key := VariantKey{SKU: input.SKU, Color: input.Color, Size: input.Size}

	rows, err := repo.AdjustQuantities(ctx, key, input.OnHandDelta, input.ReservedDelta)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust inventory quantities")
	}
	if rows == 0 {
		if _, err := repo.FindItem(ctx, key); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
	}

	movement := &models.InventoryMovement{
		SKU:            input.SKU,
		Color:          input.Color,
		Size:           input.Size,
		OnHandChange:   input.OnHandDelta,
		ReservedChange: input.ReservedDelta,
		Type:           input.Type,
		RefType:        input.RefType,
		RefID:          input.RefID,
		ActorID:        input.ActorID,
	}
	if err := repo.AppendMovement(ctx, movement); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record inventory movement")
	}
	return nil
}

// Reserve moves qty from available into reserved, guarded so reservations
// never exceed on-hand stock, and records a RESERVE movement.
func (s *service) Reserve(ctx context.Context, tx *gorm.DB, input ReserveInput) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory reserve")
	}
	if input.Qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reserve quantity must be positive")
	}
	if input.RefID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "reserve reference required")
	}

	repo := s.repo.WithTx(tx)
	key := VariantKey{SKU: input.SKU, Color: input.Color, Size: input.Size}

	rows, err := repo.ReserveQuantity(ctx, key, input.Qty)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve inventory")
	}
	if rows == 0 {
		if _, err := repo.FindItem(ctx, key); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
	}

	movement := &models.InventoryMovement{
		SKU:            input.SKU,
		Color:          input.Color,
		Size:           input.Size,
		ReservedChange: input.Qty,
		Type:           enums.MovementTypeReserve,
		RefType:        input.RefType,
		RefID:          input.RefID,
		ActorID:        input.ActorID,
	}
	if err := repo.AppendMovement(ctx, movement); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record reserve movement")
	}
	return nil
}
