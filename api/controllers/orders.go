package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/printforge/fulfillment-backend/api/responses"
	"github.com/printforge/fulfillment-backend/api/validators"
	"github.com/printforge/fulfillment-backend/internal/orders"
	pkgerrors "github.com/printforge/fulfillment-backend/pkg/errors"
	"github.com/printforge/fulfillment-backend/pkg/logger"
)

type placeOrderJobRequest struct {
	SKU           string  `json:"sku" validate:"required,max=64"`
	Color         string  `json:"color" validate:"max=32"`
	Size          string  `json:"size" validate:"max=16"`
	Qty           int     `json:"qty" validate:"required,gt=0"`
	DesignFileURL *string `json:"design_file_url,omitempty" validate:"omitempty,url"`
}

type placeOrderRequest struct {
	Jobs        []placeOrderJobRequest `json:"jobs" validate:"required,min=1,dive"`
	TotalAmount string                 `json:"total_amount" validate:"required"`
}

// OrderPlace accepts a seller order: one job per line, wallet charged and
// stock reserved before the admin ever sees it.
func OrderPlace(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seller, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req placeOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		total, err := decimal.NewFromString(req.TotalAmount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid total amount"))
			return
		}

		input := orders.PlaceInput{TotalAmount: total}
		for _, line := range req.Jobs {
			input.Jobs = append(input.Jobs, orders.PlaceJobInput{
				SKU:           validators.SanitizeString(line.SKU, 64),
				Color:         validators.SanitizeString(line.Color, 32),
				Size:          validators.SanitizeString(line.Size, 16),
				Qty:           line.Qty,
				DesignFileURL: line.DesignFileURL,
			})
		}

		order, err := svc.Place(r.Context(), seller, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seller, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListBySeller(r.Context(), seller, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seller, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, orderID.String())
		}

		order, err := svc.Get(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if order.SellerID != seller {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to seller"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}
