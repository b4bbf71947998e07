package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/internal/audit"
	"github.com/printforge/fulfillment-backend/internal/inventory"
	"github.com/printforge/fulfillment-backend/internal/scantokens"
	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/printforge/fulfillment-backend/pkg/errors"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type inventoryGateway interface {
	Reserve(ctx context.Context, tx *gorm.DB, input inventory.ReserveInput) error
	ApplyMovement(ctx context.Context, tx *gorm.DB, input inventory.MovementInput) error
}

type walletGateway interface {
	Debit(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID, amount decimal.Decimal, refType enums.WalletEntryRefType, refID uuid.UUID, note *string) error
	Credit(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID, amount decimal.Decimal, refType enums.WalletEntryRefType, refID uuid.UUID, note *string) error
}

type tokenIssuer interface {
	Issue(ctx context.Context, tx *gorm.DB, input scantokens.IssueInput) (*models.ScanToken, error)
}

// Service defines order placement plus the admin decision entry point.
type Service interface {
	Place(ctx context.Context, sellerID uuid.UUID, input PlaceInput) (*models.Order, error)
	Decide(ctx context.Context, actorID uuid.UUID, input DecideInput) (*DecisionResult, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*OrderList, error)
}

type service struct {
	repo               Repository
	tx                 txRunner
	inventory          inventoryGateway
	wallet             walletGateway
	tokens             tokenIssuer
	audit              audit.Recorder
	statusTokenMaxUses int
}

// NewService builds an orders service with the required dependencies.
// statusTokenMaxUses caps STATUS token scans; two covers both production edges.
func NewService(repo Repository, tx txRunner, inv inventoryGateway, wallet walletGateway, tokens tokenIssuer, auditRec audit.Recorder, statusTokenMaxUses int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory gateway required")
	}
	if wallet == nil {
		return nil, fmt.Errorf("wallet gateway required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token issuer required")
	}
	if auditRec == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if statusTokenMaxUses <= 0 {
		return nil, fmt.Errorf("status token max uses must be positive")
	}
	return &service{
		repo:               repo,
		tx:                 tx,
		inventory:          inv,
		wallet:             wallet,
		tokens:             tokens,
		audit:              auditRec,
		statusTokenMaxUses: statusTokenMaxUses,
	}, nil
}

func (s *service) Place(ctx context.Context, sellerID uuid.UUID, input PlaceInput) (*models.Order, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller identity missing")
	}
	if len(input.Jobs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one job")
	}
	for i, line := range input.Jobs {
		if strings.TrimSpace(line.SKU) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "job sku required").
				WithDetails(map[string]any{"index": i})
		}
		if line.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "job quantity must be positive").
				WithDetails(map[string]any{"index": i})
		}
	}
	if !input.TotalAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total amount must be positive")
	}

	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.CreateOrder(ctx, &models.Order{
			SellerID:    sellerID,
			Status:      enums.OrderStatusPendingApproval,
			TotalAmount: input.TotalAmount,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		jobs := make([]models.Job, 0, len(input.Jobs))
		for _, line := range input.Jobs {
			jobs = append(jobs, models.Job{
				OrderID:       order.ID,
				SKU:           line.SKU,
				Color:         line.Color,
				Size:          line.Size,
				Qty:           line.Qty,
				Status:        enums.JobStatusReceived,
				DesignFileURL: line.DesignFileURL,
			})
		}
		if err := repo.CreateJobs(ctx, jobs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create jobs")
		}

		if err := s.wallet.Debit(ctx, tx, sellerID, input.TotalAmount, enums.WalletEntryRefTypeOrder, order.ID, nil); err != nil {
			return err
		}

		actor := sellerID
		for i := range jobs {
			if err := s.inventory.Reserve(ctx, tx, inventory.ReserveInput{
				SKU:     jobs[i].SKU,
				Color:   jobs[i].Color,
				Size:    jobs[i].Size,
				Qty:     jobs[i].Qty,
				RefType: enums.MovementRefTypeJob,
				RefID:   jobs[i].ID,
				ActorID: &actor,
			}); err != nil {
				return err
			}
		}

		if err := s.audit.Record(ctx, tx, audit.Entry{
			ActorID: &actor,
			Action:  "order.placed",
			RefType: "order",
			RefID:   order.ID,
			Metadata: map[string]any{
				"total_amount": input.TotalAmount.String(),
				"job_count":    len(jobs),
			},
		}); err != nil {
			return err
		}

		order.Jobs = jobs
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

func (s *service) Decide(ctx context.Context, actorID uuid.UUID, input DecideInput) (*DecisionResult, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var target enums.OrderStatus
	switch input.Action {
	case DecisionApprove:
		target = enums.OrderStatusReceived
	case DecisionReject:
		target = enums.OrderStatusRejected
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decision must be approve or reject")
	}

	var result *DecisionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		var reason *string
		if target == enums.OrderStatusRejected {
			reason = input.Reason
		}
		rows, err := repo.UpdateOrderDecisionConditional(ctx, order.ID, enums.OrderStatusPendingApproval, target, reason)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order decision")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order decision not allowed in current state").
				WithDetails(map[string]any{"status": order.Status})
		}

		jobs, err := repo.FindJobsByOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order jobs")
		}

		switch target {
		case enums.OrderStatusReceived:
			grants, err := s.issueTokens(ctx, tx, jobs)
			if err != nil {
				return err
			}
			if err := s.audit.Record(ctx, tx, audit.Entry{
				ActorID: &actorID,
				Action:  "order.approved",
				RefType: "order",
				RefID:   order.ID,
			}); err != nil {
				return err
			}
			result = &DecisionResult{Tokens: grants}

		case enums.OrderStatusRejected:
			if _, err := repo.RejectJobs(ctx, order.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject order jobs")
			}
			for i := range jobs {
				if jobs[i].Status != enums.JobStatusReceived {
					continue
				}
				if err := s.inventory.ApplyMovement(ctx, tx, inventory.MovementInput{
					SKU:           jobs[i].SKU,
					Color:         jobs[i].Color,
					Size:          jobs[i].Size,
					ReservedDelta: -jobs[i].Qty,
					Type:          enums.MovementTypeReservationRelease,
					RefType:       enums.MovementRefTypeJob,
					RefID:         jobs[i].ID,
					ActorID:       &actorID,
				}); err != nil {
					return err
				}
			}
			if err := s.wallet.Credit(ctx, tx, order.SellerID, order.TotalAmount, enums.WalletEntryRefTypeOrder, order.ID, input.Reason); err != nil {
				return err
			}
			meta := map[string]any{"refund": order.TotalAmount.String()}
			if input.Reason != nil {
				meta["reason"] = *input.Reason
			}
			if err := s.audit.Record(ctx, tx, audit.Entry{
				ActorID:  &actorID,
				Action:   "order.rejected",
				RefType:  "order",
				RefID:    order.ID,
				Metadata: meta,
			}); err != nil {
				return err
			}
			result = &DecisionResult{}
		}

		updated, err := repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		result.Order = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrderWithJobs(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	list, err := s.repo.ListBySeller(ctx, sellerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// issueTokens mints one STATUS token per job, plus a FILE token for jobs that
// carry a design file.
func (s *service) issueTokens(ctx context.Context, tx *gorm.DB, jobs []models.Job) ([]TokenGrant, error) {
	grants := make([]TokenGrant, 0, len(jobs))
	for i := range jobs {
		maxUses := s.statusTokenMaxUses
		status, err := s.tokens.Issue(ctx, tx, scantokens.IssueInput{
			JobID:   jobs[i].ID,
			Type:    enums.ScanTokenTypeStatus,
			MaxUses: &maxUses,
		})
		if err != nil {
			return nil, err
		}
		grants = append(grants, TokenGrant{JobID: jobs[i].ID, Type: status.Type, Token: status.Token})

		if jobs[i].DesignFileURL == nil {
			continue
		}
		file, err := s.tokens.Issue(ctx, tx, scantokens.IssueInput{
			JobID: jobs[i].ID,
			Type:  enums.ScanTokenTypeFile,
		})
		if err != nil {
			return nil, err
		}
		grants = append(grants, TokenGrant{JobID: jobs[i].ID, Type: file.Type, Token: file.Token})
	}
	return grants, nil
}
