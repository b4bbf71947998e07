package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/printforge/fulfillment-backend/pkg/enums"
)

// SupportTicket is a seller-raised question answered by back-office staff.
type SupportTicket struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID  uuid.UUID          `gorm:"column:seller_id;type:uuid;not null;index"`
	Subject   string             `gorm:"column:subject;not null"`
	Body      string             `gorm:"column:body;not null"`
	Status    enums.TicketStatus `gorm:"column:status;type:ticket_status;not null;default:'open'"`
	Reply     *string            `gorm:"column:reply"`
	RepliedBy *uuid.UUID         `gorm:"column:replied_by;type:uuid"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
