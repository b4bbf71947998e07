package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateJobs(ctx context.Context, jobs []models.Job) error
	FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOrderWithJobs(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindJobsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Job, error)
	UpdateOrderDecisionConditional(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, rejectReason *string) (int64, error)
	RejectJobs(ctx context.Context, orderID uuid.UUID) (int64, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*OrderList, error)
}
