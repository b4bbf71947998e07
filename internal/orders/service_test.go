package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/internal/audit"
	"github.com/printforge/fulfillment-backend/internal/inventory"
	"github.com/printforge/fulfillment-backend/internal/scantokens"
	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/printforge/fulfillment-backend/pkg/errors"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	order *models.Order
	jobs  []models.Job
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.order = order
	return order, nil
}

func (s *stubOrdersRepo) CreateJobs(ctx context.Context, jobs []models.Job) error {
	for i := range jobs {
		if jobs[i].ID == uuid.Nil {
			jobs[i].ID = uuid.New()
		}
	}
	s.jobs = append(s.jobs, jobs...)
	return nil
}

func (s *stubOrdersRepo) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrdersRepo) FindOrderWithJobs(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Jobs = s.jobs
	return order, nil
}

func (s *stubOrdersRepo) FindJobsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Job, error) {
	var rows []models.Job
	for _, job := range s.jobs {
		if job.OrderID == orderID {
			rows = append(rows, job)
		}
	}
	return rows, nil
}

func (s *stubOrdersRepo) UpdateOrderDecisionConditional(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, rejectReason *string) (int64, error) {
	if s.order == nil || s.order.ID != orderID || s.order.Status != from {
		return 0, nil
	}
	s.order.Status = to
	if rejectReason != nil {
		s.order.RejectReason = rejectReason
	}
	return 1, nil
}

func (s *stubOrdersRepo) RejectJobs(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	for i := range s.jobs {
		if s.jobs[i].OrderID == orderID && s.jobs[i].Status == enums.JobStatusReceived {
			s.jobs[i].Status = enums.JobStatusRejected
			count++
		}
	}
	return count, nil
}

func (s *stubOrdersRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	panic("not implemented")
}

type stubInventoryGateway struct {
	reserves   []inventory.ReserveInput
	movements  []inventory.MovementInput
	reserveErr error
}

func (s *stubInventoryGateway) Reserve(ctx context.Context, tx *gorm.DB, input inventory.ReserveInput) error {
	if s.reserveErr != nil {
		return s.reserveErr
	}
	s.reserves = append(s.reserves, input)
	return nil
}

func (s *stubInventoryGateway) ApplyMovement(ctx context.Context, tx *gorm.DB, input inventory.MovementInput) error {
	s.movements = append(s.movements, input)
	return nil
}

type walletCall struct {
	sellerID uuid.UUID
	amount   decimal.Decimal
	refType  enums.WalletEntryRefType
	refID    uuid.UUID
}

type stubWalletGateway struct {
	debits   []walletCall
	credits  []walletCall
	debitErr error
}

func (s *stubWalletGateway) Debit(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID, amount decimal.Decimal, refType enums.WalletEntryRefType, refID uuid.UUID, note *string) error {
	if s.debitErr != nil {
		return s.debitErr
	}
	s.debits = append(s.debits, walletCall{sellerID: sellerID, amount: amount, refType: refType, refID: refID})
	return nil
}

func (s *stubWalletGateway) Credit(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID, amount decimal.Decimal, refType enums.WalletEntryRefType, refID uuid.UUID, note *string) error {
	s.credits = append(s.credits, walletCall{sellerID: sellerID, amount: amount, refType: refType, refID: refID})
	return nil
}

type stubTokenIssuer struct {
	issued []scantokens.IssueInput
}

func (s *stubTokenIssuer) Issue(ctx context.Context, tx *gorm.DB, input scantokens.IssueInput) (*models.ScanToken, error) {
	s.issued = append(s.issued, input)
	return &models.ScanToken{
		ID:      uuid.New(),
		Token:   uuid.NewString(),
		Type:    input.Type,
		JobID:   input.JobID,
		MaxUses: input.MaxUses,
	}, nil
}

type stubAuditRecorder struct {
	entries []audit.Entry
}

func (s *stubAuditRecorder) Record(ctx context.Context, tx *gorm.DB, entry audit.Entry) error {
	s.entries = append(s.entries, entry)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func newTestService(repo Repository, inv *stubInventoryGateway, wallet *stubWalletGateway, tokens *stubTokenIssuer, auditRec *stubAuditRecorder) Service {
	svc, err := NewService(repo, stubTxRunner{}, inv, wallet, tokens, auditRec, 2)
	if err != nil {
		panic(err)
	}
	return svc
}

func TestPlaceValidation(t *testing.T) {
	svc := newTestService(&stubOrdersRepo{}, &stubInventoryGateway{}, &stubWalletGateway{}, &stubTokenIssuer{}, &stubAuditRecorder{})

	cases := []struct {
		name  string
		input PlaceInput
	}{
		{"no jobs", PlaceInput{TotalAmount: decimal.RequireFromString("10.00")}},
		{"zero qty", PlaceInput{
			Jobs:        []PlaceJobInput{{SKU: "TSHIRT-BASIC", Qty: 0}},
			TotalAmount: decimal.RequireFromString("10.00"),
		}},
		{"negative qty", PlaceInput{
			Jobs:        []PlaceJobInput{{SKU: "TSHIRT-BASIC", Qty: -1}},
			TotalAmount: decimal.RequireFromString("10.00"),
		}},
		{"missing sku", PlaceInput{
			Jobs:        []PlaceJobInput{{SKU: "  ", Qty: 1}},
			TotalAmount: decimal.RequireFromString("10.00"),
		}},
		{"zero total", PlaceInput{
			Jobs: []PlaceJobInput{{SKU: "TSHIRT-BASIC", Qty: 1}},
		}},
	}
	for _, tc := range cases {
		_, err := svc.Place(context.Background(), uuid.New(), tc.input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestPlaceDebitsWalletAndReservesStock(t *testing.T) {
	repo := &stubOrdersRepo{}
	inv := &stubInventoryGateway{}
	wallet := &stubWalletGateway{}
	auditRec := &stubAuditRecorder{}
	svc := newTestService(repo, inv, wallet, &stubTokenIssuer{}, auditRec)
	sellerID := uuid.New()

	order, err := svc.Place(context.Background(), sellerID, PlaceInput{
		Jobs: []PlaceJobInput{
			{SKU: "HOODIE-PREM", Color: "Black", Size: "5XL", Qty: 2},
			{SKU: "MUG-CLASSIC", Qty: 1},
		},
		TotalAmount: decimal.RequireFromString("45.00"),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if order.Status != enums.OrderStatusPendingApproval {
		t.Fatalf("unexpected status %s", order.Status)
	}
	if len(order.Jobs) != 2 || order.Jobs[0].Status != enums.JobStatusReceived {
		t.Fatalf("unexpected jobs %+v", order.Jobs)
	}

	if len(wallet.debits) != 1 {
		t.Fatalf("expected one debit got %d", len(wallet.debits))
	}
	debit := wallet.debits[0]
	if !debit.amount.Equal(decimal.RequireFromString("45.00")) || debit.refID != order.ID {
		t.Fatalf("unexpected debit %+v", debit)
	}

	if len(inv.reserves) != 2 {
		t.Fatalf("expected two reservations got %d", len(inv.reserves))
	}
	if inv.reserves[0].Qty != 2 || inv.reserves[0].SKU != "HOODIE-PREM" {
		t.Fatalf("unexpected reservation %+v", inv.reserves[0])
	}
	if inv.reserves[1].Qty != 1 || inv.reserves[1].SKU != "MUG-CLASSIC" {
		t.Fatalf("unexpected reservation %+v", inv.reserves[1])
	}

	if len(auditRec.entries) != 1 || auditRec.entries[0].Action != "order.placed" {
		t.Fatalf("unexpected audit entries %+v", auditRec.entries)
	}
}

func TestPlaceInsufficientBalance(t *testing.T) {
	repo := &stubOrdersRepo{}
	inv := &stubInventoryGateway{}
	wallet := &stubWalletGateway{debitErr: pkgerrors.New(pkgerrors.CodeConflict, "insufficient balance")}
	svc := newTestService(repo, inv, wallet, &stubTokenIssuer{}, &stubAuditRecorder{})

	_, err := svc.Place(context.Background(), uuid.New(), PlaceInput{
		Jobs:        []PlaceJobInput{{SKU: "TSHIRT-BASIC", Qty: 1}},
		TotalAmount: decimal.RequireFromString("45.00"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error %v", err)
	}
	if len(inv.reserves) != 0 {
		t.Fatalf("stock reserved despite failed debit")
	}
}

func TestPlaceInsufficientStock(t *testing.T) {
	repo := &stubOrdersRepo{}
	inv := &stubInventoryGateway{reserveErr: pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")}
	svc := newTestService(repo, inv, &stubWalletGateway{}, &stubTokenIssuer{}, &stubAuditRecorder{})

	_, err := svc.Place(context.Background(), uuid.New(), PlaceInput{
		Jobs:        []PlaceJobInput{{SKU: "TSHIRT-BASIC", Qty: 500}},
		TotalAmount: decimal.RequireFromString("45.00"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error %v", err)
	}
}

func seedPendingOrder(total string, jobs ...models.Job) *stubOrdersRepo {
	orderID := uuid.New()
	repo := &stubOrdersRepo{
		order: &models.Order{
			ID:          orderID,
			SellerID:    uuid.New(),
			Status:      enums.OrderStatusPendingApproval,
			TotalAmount: decimal.RequireFromString(total),
		},
	}
	for i := range jobs {
		jobs[i].ID = uuid.New()
		jobs[i].OrderID = orderID
		if jobs[i].Status == "" {
			jobs[i].Status = enums.JobStatusReceived
		}
		repo.jobs = append(repo.jobs, jobs[i])
	}
	return repo
}

func TestDecideApproveIssuesTokens(t *testing.T) {
	url := "https://files.example.com/designs/back.png"
	repo := seedPendingOrder("45.00",
		models.Job{SKU: "HOODIE-PREM", Qty: 2, DesignFileURL: &url},
		models.Job{SKU: "MUG-CLASSIC", Qty: 1},
	)
	tokens := &stubTokenIssuer{}
	auditRec := &stubAuditRecorder{}
	svc := newTestService(repo, &stubInventoryGateway{}, &stubWalletGateway{}, tokens, auditRec)

	result, err := svc.Decide(context.Background(), uuid.New(), DecideInput{
		OrderID: repo.order.ID,
		Action:  DecisionApprove,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.Order.Status != enums.OrderStatusReceived {
		t.Fatalf("unexpected status %s", result.Order.Status)
	}

	// one STATUS token per job plus one FILE token for the designed job
	if len(tokens.issued) != 3 {
		t.Fatalf("expected three tokens got %d", len(tokens.issued))
	}
	statusCount, fileCount := 0, 0
	for _, issued := range tokens.issued {
		switch issued.Type {
		case enums.ScanTokenTypeStatus:
			statusCount++
			if issued.MaxUses == nil || *issued.MaxUses != 2 {
				t.Fatalf("unexpected status token cap %+v", issued.MaxUses)
			}
		case enums.ScanTokenTypeFile:
			fileCount++
			if issued.MaxUses != nil {
				t.Fatalf("file token should be uncapped")
			}
		}
	}
	if statusCount != 2 || fileCount != 1 {
		t.Fatalf("unexpected token mix status=%d file=%d", statusCount, fileCount)
	}
	if len(result.Tokens) != 3 {
		t.Fatalf("expected three grants got %d", len(result.Tokens))
	}
	if len(auditRec.entries) != 1 || auditRec.entries[0].Action != "order.approved" {
		t.Fatalf("unexpected audit entries %+v", auditRec.entries)
	}
}

func TestDecideRejectReleasesStockAndRefunds(t *testing.T) {
	reason := "duplicate"
	repo := seedPendingOrder("45.00",
		models.Job{SKU: "HOODIE-PREM", Qty: 3},
		models.Job{SKU: "MUG-CLASSIC", Qty: 5},
	)
	sellerID := repo.order.SellerID
	inv := &stubInventoryGateway{}
	wallet := &stubWalletGateway{}
	auditRec := &stubAuditRecorder{}
	svc := newTestService(repo, inv, wallet, &stubTokenIssuer{}, auditRec)

	result, err := svc.Decide(context.Background(), uuid.New(), DecideInput{
		OrderID: repo.order.ID,
		Action:  DecisionReject,
		Reason:  &reason,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.Order.Status != enums.OrderStatusRejected {
		t.Fatalf("unexpected status %s", result.Order.Status)
	}
	if result.Order.RejectReason == nil || *result.Order.RejectReason != reason {
		t.Fatalf("reason not recorded %+v", result.Order.RejectReason)
	}
	for _, job := range repo.jobs {
		if job.Status != enums.JobStatusRejected {
			t.Fatalf("job not rejected %+v", job)
		}
	}

	// release exactly qty per job, reserved only, no on-hand change
	if len(inv.movements) != 2 {
		t.Fatalf("expected two releases got %d", len(inv.movements))
	}
	released := 0
	for _, move := range inv.movements {
		if move.Type != enums.MovementTypeReservationRelease || move.OnHandDelta != 0 {
			t.Fatalf("unexpected movement %+v", move)
		}
		released += -move.ReservedDelta
	}
	if released != 8 {
		t.Fatalf("expected 8 units released got %d", released)
	}

	if len(wallet.credits) != 1 {
		t.Fatalf("expected one credit got %d", len(wallet.credits))
	}
	credit := wallet.credits[0]
	if !credit.amount.Equal(decimal.RequireFromString("45.00")) || credit.sellerID != sellerID {
		t.Fatalf("unexpected credit %+v", credit)
	}
	if credit.refType != enums.WalletEntryRefTypeOrder || credit.refID != repo.order.ID {
		t.Fatalf("unexpected credit refs %+v", credit)
	}
	if len(wallet.debits) != 0 {
		t.Fatalf("unexpected debits %d", len(wallet.debits))
	}
}

func TestDecideRejectZeroJobOrder(t *testing.T) {
	repo := seedPendingOrder("45.00")
	inv := &stubInventoryGateway{}
	wallet := &stubWalletGateway{}
	svc := newTestService(repo, inv, wallet, &stubTokenIssuer{}, &stubAuditRecorder{})

	result, err := svc.Decide(context.Background(), uuid.New(), DecideInput{
		OrderID: repo.order.ID,
		Action:  DecisionReject,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.Order.Status != enums.OrderStatusRejected {
		t.Fatalf("unexpected status %s", result.Order.Status)
	}
	if len(inv.movements) != 0 {
		t.Fatalf("unexpected inventory movements %d", len(inv.movements))
	}
	if len(wallet.credits) != 1 {
		t.Fatalf("expected refund even with zero jobs got %d credits", len(wallet.credits))
	}
}

func TestDecideNonPendingOrder(t *testing.T) {
	repo := seedPendingOrder("45.00", models.Job{SKU: "TSHIRT-BASIC", Qty: 1})
	repo.order.Status = enums.OrderStatusReceived
	tokens := &stubTokenIssuer{}
	svc := newTestService(repo, &stubInventoryGateway{}, &stubWalletGateway{}, tokens, &stubAuditRecorder{})

	_, err := svc.Decide(context.Background(), uuid.New(), DecideInput{
		OrderID: repo.order.ID,
		Action:  DecisionApprove,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error %v", err)
	}
	if len(tokens.issued) != 0 {
		t.Fatalf("tokens issued despite conflict")
	}
}

func TestDecideUnknownOrder(t *testing.T) {
	svc := newTestService(&stubOrdersRepo{}, &stubInventoryGateway{}, &stubWalletGateway{}, &stubTokenIssuer{}, &stubAuditRecorder{})

	_, err := svc.Decide(context.Background(), uuid.New(), DecideInput{
		OrderID: uuid.New(),
		Action:  DecisionApprove,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDecideInvalidAction(t *testing.T) {
	svc := newTestService(&stubOrdersRepo{}, &stubInventoryGateway{}, &stubWalletGateway{}, &stubTokenIssuer{}, &stubAuditRecorder{})

	_, err := svc.Decide(context.Background(), uuid.New(), DecideInput{
		OrderID: uuid.New(),
		Action:  DecisionAction("cancel"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}
}
