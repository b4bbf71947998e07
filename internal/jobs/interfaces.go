package jobs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
)

// Repository defines persistence operations for job and order status rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	FindJobsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Job, error)
	UpdateJobStatusConditional(ctx context.Context, jobID uuid.UUID, from, to enums.JobStatus, assignedStaffID *uuid.UUID) (int64, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateOrderStatusConditional(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (int64, error)
}
