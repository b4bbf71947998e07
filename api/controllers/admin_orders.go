package controllers

import (
	"net/http"

	"github.com/printforge/fulfillment-backend/api/responses"
	"github.com/printforge/fulfillment-backend/api/validators"
	"github.com/printforge/fulfillment-backend/internal/orders"
	"github.com/printforge/fulfillment-backend/pkg/logger"
)

type orderDecisionRequest struct {
	Action string  `json:"action" validate:"required,oneof=approve reject"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// AdminOrderDecision approves or rejects a pending order. Approval issues the
// shop-floor scan tokens; rejection releases reserved stock and refunds the
// seller wallet.
func AdminOrderDecision(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req orderDecisionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, orderID.String())
		}

		result, err := svc.Decide(ctx, actor, orders.DecideInput{
			OrderID: orderID,
			Action:  orders.DecisionAction(req.Action),
			Reason:  req.Reason,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
