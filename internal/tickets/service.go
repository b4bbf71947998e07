package tickets

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/printforge/fulfillment-backend/pkg/errors"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
)

// Service defines support ticket operations for sellers and back-office staff.
type Service interface {
	Create(ctx context.Context, sellerID uuid.UUID, input CreateInput) (*models.SupportTicket, error)
	Get(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*TicketList, error)
	ListOpen(ctx context.Context, params pagination.Params) (*TicketList, error)
	Reply(ctx context.Context, staffID uuid.UUID, ticketID uuid.UUID, input ReplyInput) (*models.SupportTicket, error)
	Close(ctx context.Context, ticketID uuid.UUID) (*models.SupportTicket, error)
}

type service struct {
	repo Repository
}

// NewService builds a tickets service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tickets repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, sellerID uuid.UUID, input CreateInput) (*models.SupportTicket, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller identity missing")
	}
	if strings.TrimSpace(input.Subject) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket subject required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket body required")
	}

	ticket, err := s.repo.Create(ctx, &models.SupportTicket{
		SellerID: sellerID,
		Subject:  input.Subject,
		Body:     input.Body,
		Status:   enums.TicketStatusOpen,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ticket")
	}
	return ticket, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket id required")
	}
	ticket, err := s.repo.Find(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ticket")
	}
	return ticket, nil
}

func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*TicketList, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	list, err := s.repo.ListBySeller(ctx, sellerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tickets")
	}
	return list, nil
}

func (s *service) ListOpen(ctx context.Context, params pagination.Params) (*TicketList, error) {
	list, err := s.repo.ListByStatus(ctx, enums.TicketStatusOpen, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open tickets")
	}
	return list, nil
}

func (s *service) Reply(ctx context.Context, staffID uuid.UUID, ticketID uuid.UUID, input ReplyInput) (*models.SupportTicket, error) {
	if staffID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if ticketID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket id required")
	}
	if strings.TrimSpace(input.Reply) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reply body required")
	}

	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.UpdateStatusConditional(ctx, ticketID, enums.TicketStatusOpen, enums.TicketStatusAnswered, &input.Reply, &staffID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "answer ticket")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ticket is not open").
			WithDetails(map[string]any{"status": ticket.Status})
	}
	return s.Get(ctx, ticketID)
}

func (s *service) Close(ctx context.Context, ticketID uuid.UUID) (*models.SupportTicket, error) {
	if ticketID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket id required")
	}

	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == enums.TicketStatusClosed {
		return ticket, nil
	}

	rows, err := s.repo.UpdateStatusConditional(ctx, ticketID, ticket.Status, enums.TicketStatusClosed, nil, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close ticket")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ticket moved while closing")
	}
	return s.Get(ctx, ticketID)
}
