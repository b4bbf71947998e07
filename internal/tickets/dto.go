package tickets

import (
	"github.com/printforge/fulfillment-backend/pkg/db/models"
)

// CreateInput captures a seller-raised support question.
type CreateInput struct {
	Subject string
	Body    string
}

// ReplyInput carries the staff answer posted on an open ticket.
type ReplyInput struct {
	Reply string
}

// TicketList wraps the paginated tickets plus the next page cursor.
type TicketList struct {
	Tickets    []models.SupportTicket `json:"tickets"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}
