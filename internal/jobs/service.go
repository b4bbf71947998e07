package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/internal/audit"
	"github.com/printforge/fulfillment-backend/internal/inventory"
	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/printforge/fulfillment-backend/pkg/errors"
	"github.com/printforge/fulfillment-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type inventoryMover interface {
	ApplyMovement(ctx context.Context, tx *gorm.DB, input inventory.MovementInput) error
}

type tokenGateway interface {
	Resolve(ctx context.Context, token string) (*models.ScanToken, error)
	ConsumeUse(ctx context.Context, tx *gorm.DB, token *models.ScanToken) error
}

// Service is the lifecycle controller. It is the sole writer of job status
// and of order status past the approval decision.
type Service interface {
	ApplyStatusTransition(ctx context.Context, actorID, jobID uuid.UUID) (*TransitionResult, error)
	ScanTransition(ctx context.Context, actorID uuid.UUID, token string) (*TransitionResult, error)
	ResolveToken(ctx context.Context, token string) (*TokenResolution, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Job, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	inventory inventoryMover
	tokens    tokenGateway
	audit     audit.Recorder
	metrics   *metrics.ScanMetrics
}

// NewService builds the lifecycle controller with the required dependencies.
// Metrics may be nil when scraping is disabled.
func NewService(repo Repository, tx txRunner, inv inventoryMover, tokens tokenGateway, auditRec audit.Recorder, scanMetrics *metrics.ScanMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("jobs repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory mover required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token gateway required")
	}
	if auditRec == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		inventory: inv,
		tokens:    tokens,
		audit:     auditRec,
		metrics:   scanMetrics,
	}, nil
}

func (s *service) ApplyStatusTransition(ctx context.Context, actorID, jobID uuid.UUID) (*TransitionResult, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if jobID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id required")
	}

	var result *TransitionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		result, err = s.applyTransitionTx(ctx, tx, actorID, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) ScanTransition(ctx context.Context, actorID uuid.UUID, token string) (*TransitionResult, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	started := time.Now()

	row, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		s.metrics.IncDenied(denialReason(err))
		return nil, err
	}
	if row.Type != enums.ScanTokenTypeStatus {
		s.metrics.IncDenied("token_type_mismatch")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token type mismatch")
	}

	var result *TransitionResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.tokens.ConsumeUse(ctx, tx, row); err != nil {
			return err
		}
		var err error
		result, err = s.applyTransitionTx(ctx, tx, actorID, row.JobID)
		return err
	})
	if err != nil {
		s.metrics.IncDenied(denialReason(err))
		return nil, err
	}

	edge := fmt.Sprintf("%s_to_%s", result.From, result.To)
	s.metrics.IncApplied(edge)
	s.metrics.ObserveDuration(edge, time.Since(started))
	return result, nil
}

func (s *service) ResolveToken(ctx context.Context, token string) (*TokenResolution, error) {
	row, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	job, err := s.repo.FindJob(ctx, row.JobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job")
	}

	resolution := &TokenResolution{Type: row.Type, Job: job}
	if row.Type == enums.ScanTokenTypeFile {
		resolution.DesignFileURL = job.DesignFileURL
	}
	return resolution, nil
}

func (s *service) GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	if jobID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id required")
	}
	job, err := s.repo.FindJob(ctx, jobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job")
	}
	return job, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Job, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	rows, err := s.repo.FindJobsByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list jobs")
	}
	return rows, nil
}

// applyTransitionTx performs one lifecycle edge with all of its side effects
// inside the supplied transaction: the conditional job update, the inventory
// deduction on the production edge, the order projection, and the audit row.
func (s *service) applyTransitionTx(ctx context.Context, tx *gorm.DB, actorID, jobID uuid.UUID) (*TransitionResult, error) {
	repo := s.repo.WithTx(tx)

	job, err := repo.FindJob(ctx, jobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job")
	}

	order, err := repo.FindOrder(ctx, job.OrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	// production edges only exist once the admin decision has landed
	if order.Status == enums.OrderStatusPendingApproval || order.Status == enums.OrderStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not in production").
			WithDetails(map[string]any{"order_status": order.Status})
	}

	var target enums.JobStatus
	var staff *uuid.UUID
	switch job.Status {
	case enums.JobStatusReceived:
		target = enums.JobStatusInProcess
		staff = &actorID
	case enums.JobStatusInProcess:
		target = enums.JobStatusCompleted
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid status transition").
			WithDetails(map[string]any{"status": job.Status})
	}

	rows, err := repo.UpdateJobStatusConditional(ctx, job.ID, job.Status, target, staff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update job status")
	}
	if rows == 0 {
		// another scan won the edge between our read and write
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid status transition")
	}

	result := &TransitionResult{
		JobID:   job.ID,
		OrderID: job.OrderID,
		From:    job.Status,
		To:      target,
	}

	switch target {
	case enums.JobStatusInProcess:
		if err := s.inventory.ApplyMovement(ctx, tx, inventory.MovementInput{
			SKU:           job.SKU,
			Color:         job.Color,
			Size:          job.Size,
			OnHandDelta:   -job.Qty,
			ReservedDelta: -job.Qty,
			Type:          enums.MovementTypeProductionUse,
			RefType:       enums.MovementRefTypeJob,
			RefID:         job.ID,
			ActorID:       &actorID,
		}); err != nil {
			return nil, err
		}
		if _, err := repo.UpdateOrderStatusConditional(ctx, job.OrderID, enums.OrderStatusReceived, enums.OrderStatusInProcess); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "propagate order status")
		}

	case enums.JobStatusCompleted:
		siblings, err := repo.FindJobsByOrder(ctx, job.OrderID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload sibling jobs")
		}
		allCompleted := true
		for _, sibling := range siblings {
			if sibling.Status != enums.JobStatusCompleted {
				allCompleted = false
				break
			}
		}
		if allCompleted {
			if _, err := repo.UpdateOrderStatusConditional(ctx, job.OrderID, enums.OrderStatusInProcess, enums.OrderStatusCompleted); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete order")
			}
		}
	}

	order, err = repo.FindOrder(ctx, job.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	result.OrderStatus = order.Status

	if err := s.audit.Record(ctx, tx, audit.Entry{
		ActorID: &actorID,
		Action:  "job.transition",
		RefType: "job",
		RefID:   job.ID,
		Metadata: map[string]any{
			"from":     string(result.From),
			"to":       string(result.To),
			"order_id": job.OrderID,
		},
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func denialReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "internal"
	}
	switch typed.Code() {
	case pkgerrors.CodeNotFound:
		return "not_found"
	case pkgerrors.CodeTokenExhausted:
		return "token_exhausted"
	case pkgerrors.CodeStateConflict:
		return "invalid_transition"
	case pkgerrors.CodeValidation:
		return "validation"
	case pkgerrors.CodeConflict:
		return "insufficient_stock"
	default:
		return "internal"
	}
}
