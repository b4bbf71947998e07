package tickets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
)

// Repository defines persistence operations for support tickets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ticket *models.SupportTicket) (*models.SupportTicket, error)
	Find(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*TicketList, error)
	ListByStatus(ctx context.Context, status enums.TicketStatus, params pagination.Params) (*TicketList, error)
	UpdateStatusConditional(ctx context.Context, id uuid.UUID, from, to enums.TicketStatus, reply *string, repliedBy *uuid.UUID) (int64, error)
}
