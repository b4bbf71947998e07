package tickets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tickets repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, ticket *models.SupportTicket) (*models.SupportTicket, error) {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*TicketList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("seller_id = ?", sellerID)
	return r.list(ctx, query, params)
}

func (r *repository) ListByStatus(ctx context.Context, status enums.TicketStatus, params pagination.Params) (*TicketList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("status = ?", status)
	return r.list(ctx, query, params)
}

func (r *repository) list(ctx context.Context, query *gorm.DB, params pagination.Params) (*TicketList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query = query.
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

	var rows []models.SupportTicket
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	list := &TicketList{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	list.Tickets = rows
	return list, nil
}

// UpdateStatusConditional moves a ticket between states only when it is still
// in the expected one. Rows affected = 0 means the ticket already moved on.
func (r *repository) UpdateStatusConditional(ctx context.Context, id uuid.UUID, from, to enums.TicketStatus, reply *string, repliedBy *uuid.UUID) (int64, error) {
	updates := map[string]any{"status": to}
	if reply != nil {
		updates["reply"] = *reply
	}
	if repliedBy != nil {
		updates["replied_by"] = *repliedBy
	}
	res := r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
