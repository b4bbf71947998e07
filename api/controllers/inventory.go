package controllers

import (
	"net/http"
	"strings"

	"github.com/printforge/fulfillment-backend/api/responses"
	"github.com/printforge/fulfillment-backend/api/validators"
	"github.com/printforge/fulfillment-backend/internal/inventory"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/printforge/fulfillment-backend/pkg/errors"
	"github.com/printforge/fulfillment-backend/pkg/logger"
)

type createInventoryItemRequest struct {
	SKU       string `json:"sku" validate:"required,max=64"`
	Color     string `json:"color" validate:"max=32"`
	Size      string `json:"size" validate:"max=16"`
	OnHandQty int    `json:"on_hand_qty" validate:"min=0"`
}

type inventoryAdjustmentRequest struct {
	ItemID      string `json:"item_id" validate:"required,uuid"`
	OnHandDelta int    `json:"on_hand_delta" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=adjustment restock"`
}

func InventoryCreateItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createInventoryItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), actor, inventory.CreateItemInput{
			SKU:       validators.SanitizeString(req.SKU, 64),
			Color:     validators.SanitizeString(req.Color, 32),
			Size:      validators.SanitizeString(req.Size, 16),
			OnHandQty: req.OnHandQty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func InventoryAdjust(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req inventoryAdjustmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := parseUUIDString(req.ItemID, "item_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		movementType, err := enums.ParseMovementType(req.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement type"))
			return
		}

		item, err := svc.Adjust(r.Context(), actor, inventory.AdjustInput{
			ItemID:      itemID,
			OnHandDelta: req.OnHandDelta,
			Type:        movementType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func InventoryItemDetail(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func InventoryListItems(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListItems(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func InventoryListMovements(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sku := strings.TrimSpace(r.URL.Query().Get("sku"))

		list, err := svc.ListMovements(r.Context(), sku, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
