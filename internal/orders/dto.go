package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
)

// PlaceJobInput is one production line in a new order.
type PlaceJobInput struct {
	SKU           string
	Color         string
	Size          string
	Qty           int
	DesignFileURL *string
}

// PlaceInput captures a seller's fulfillment request.
type PlaceInput struct {
	Jobs        []PlaceJobInput
	TotalAmount decimal.Decimal
}

// DecisionAction represents the admin decision on a pending order.
type DecisionAction string

const (
	DecisionApprove DecisionAction = "approve"
	DecisionReject  DecisionAction = "reject"
)

// DecideInput carries the admin decision plus its context.
type DecideInput struct {
	OrderID uuid.UUID
	Action  DecisionAction
	Reason  *string
}

// OrderSummary exposes the aggregated fields returned in the seller list.
type OrderSummary struct {
	ID          uuid.UUID         `json:"id"`
	Status      enums.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	JobCount    int               `json:"job_count"`
	CreatedAt   time.Time         `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// TokenGrant reports one token issued during approval.
type TokenGrant struct {
	JobID uuid.UUID           `json:"job_id"`
	Type  enums.ScanTokenType `json:"type"`
	Token string              `json:"token"`
}

// DecisionResult reports the order state after the admin decision, plus any
// tokens issued on approval.
type DecisionResult struct {
	Order  *models.Order `json:"order"`
	Tokens []TokenGrant  `json:"tokens,omitempty"`
}
