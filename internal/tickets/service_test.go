package tickets

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/printforge/fulfillment-backend/pkg/errors"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
)

type stubTicketsRepo struct {
	tickets map[uuid.UUID]*models.SupportTicket
}

func newStubTicketsRepo() *stubTicketsRepo {
	return &stubTicketsRepo{tickets: map[uuid.UUID]*models.SupportTicket{}}
}

func (s *stubTicketsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubTicketsRepo) Create(ctx context.Context, ticket *models.SupportTicket) (*models.SupportTicket, error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	s.tickets[ticket.ID] = ticket
	return ticket, nil
}

func (s *stubTicketsRepo) Find(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (s *stubTicketsRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*TicketList, error) {
	list := &TicketList{}
	for _, ticket := range s.tickets {
		if ticket.SellerID == sellerID {
			list.Tickets = append(list.Tickets, *ticket)
		}
	}
	return list, nil
}

func (s *stubTicketsRepo) ListByStatus(ctx context.Context, status enums.TicketStatus, params pagination.Params) (*TicketList, error) {
	list := &TicketList{}
	for _, ticket := range s.tickets {
		if ticket.Status == status {
			list.Tickets = append(list.Tickets, *ticket)
		}
	}
	return list, nil
}

func (s *stubTicketsRepo) UpdateStatusConditional(ctx context.Context, id uuid.UUID, from, to enums.TicketStatus, reply *string, repliedBy *uuid.UUID) (int64, error) {
	ticket, ok := s.tickets[id]
	if !ok || ticket.Status != from {
		return 0, nil
	}
	ticket.Status = to
	if reply != nil {
		ticket.Reply = reply
	}
	if repliedBy != nil {
		ticket.RepliedBy = repliedBy
	}
	return 1, nil
}

func newTicketsService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateTicketValidation(t *testing.T) {
	svc := newTicketsService(t, newStubTicketsRepo())

	_, err := svc.Create(context.Background(), uuid.Nil, CreateInput{Subject: "x", Body: "y"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected error %v", err)
	}

	_, err = svc.Create(context.Background(), uuid.New(), CreateInput{Subject: "  ", Body: "y"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}

	_, err = svc.Create(context.Background(), uuid.New(), CreateInput{Subject: "x", Body: ""})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCreateTicketOpensTicket(t *testing.T) {
	repo := newStubTicketsRepo()
	svc := newTicketsService(t, repo)
	sellerID := uuid.New()

	ticket, err := svc.Create(context.Background(), sellerID, CreateInput{
		Subject: "missing order",
		Body:    "order never arrived",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if ticket.Status != enums.TicketStatusOpen || ticket.SellerID != sellerID {
		t.Fatalf("unexpected ticket %+v", ticket)
	}
}

func TestReplyAnswersOpenTicket(t *testing.T) {
	repo := newStubTicketsRepo()
	svc := newTicketsService(t, repo)
	staffID := uuid.New()

	ticket, err := svc.Create(context.Background(), uuid.New(), CreateInput{Subject: "q", Body: "b"})
	if err != nil {
		t.Fatalf("seed ticket: %v", err)
	}

	answered, err := svc.Reply(context.Background(), staffID, ticket.ID, ReplyInput{Reply: "resolved"})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if answered.Status != enums.TicketStatusAnswered {
		t.Fatalf("unexpected status %s", answered.Status)
	}
	if answered.Reply == nil || *answered.Reply != "resolved" {
		t.Fatalf("reply not recorded %+v", answered.Reply)
	}
	if answered.RepliedBy == nil || *answered.RepliedBy != staffID {
		t.Fatalf("staff not recorded %+v", answered.RepliedBy)
	}
}

func TestReplyRejectsNonOpenTicket(t *testing.T) {
	repo := newStubTicketsRepo()
	svc := newTicketsService(t, repo)

	ticket, _ := svc.Create(context.Background(), uuid.New(), CreateInput{Subject: "q", Body: "b"})
	repo.tickets[ticket.ID].Status = enums.TicketStatusClosed

	_, err := svc.Reply(context.Background(), uuid.New(), ticket.ID, ReplyInput{Reply: "too late"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestReplyUnknownTicket(t *testing.T) {
	svc := newTicketsService(t, newStubTicketsRepo())

	_, err := svc.Reply(context.Background(), uuid.New(), uuid.New(), ReplyInput{Reply: "hello"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCloseTicketIsIdempotent(t *testing.T) {
	repo := newStubTicketsRepo()
	svc := newTicketsService(t, repo)

	ticket, _ := svc.Create(context.Background(), uuid.New(), CreateInput{Subject: "q", Body: "b"})

	closed, err := svc.Close(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if closed.Status != enums.TicketStatusClosed {
		t.Fatalf("unexpected status %s", closed.Status)
	}

	again, err := svc.Close(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("expected idempotent close got %v", err)
	}
	if again.Status != enums.TicketStatusClosed {
		t.Fatalf("unexpected status %s", again.Status)
	}
}
