package scantokens

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/printforge/fulfillment-backend/pkg/errors"
)

const tokenBytes = 24

// IssueInput captures the fields for a new scan token.
type IssueInput struct {
	JobID   uuid.UUID
	Type    enums.ScanTokenType
	MaxUses *int
}

// Service issues tokens and enforces their usage caps. Issue and ConsumeUse
// run inside a caller-owned transaction; Resolve is read-only.
type Service interface {
	Issue(ctx context.Context, tx *gorm.DB, input IssueInput) (*models.ScanToken, error)
	Resolve(ctx context.Context, token string) (*models.ScanToken, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.ScanToken, error)
	ConsumeUse(ctx context.Context, tx *gorm.DB, token *models.ScanToken) error
}

type service struct {
	repo Repository
}

// NewService builds a scan token service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("scan token repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Issue(ctx context.Context, tx *gorm.DB, input IssueInput) (*models.ScanToken, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for token issue")
	}
	if input.JobID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid token type")
	}
	if input.MaxUses != nil && *input.MaxUses <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max uses must be positive")
	}

	value, err := generateToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate token")
	}

	token := &models.ScanToken{
		Token:   value,
		Type:    input.Type,
		JobID:   input.JobID,
		MaxUses: input.MaxUses,
	}
	created, err := s.repo.WithTx(tx).Create(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create scan token")
	}
	return created, nil
}

func (s *service) Resolve(ctx context.Context, token string) (*models.ScanToken, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token required")
	}
	row, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "scan token not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load scan token")
	}
	return row, nil
}

func (s *service) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.ScanToken, error) {
	if jobID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id required")
	}
	rows, err := s.repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list scan tokens")
	}
	return rows, nil
}

// ConsumeUse burns one use of a STATUS token. The guarded update makes the
// cap check and the increment a single atomic step, so two concurrent scans
// of a one-use-left token cannot both pass.
func (s *service) ConsumeUse(ctx context.Context, tx *gorm.DB, token *models.ScanToken) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for token use")
	}
	if token == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "token required")
	}

	rows, err := s.repo.WithTx(tx).IncrementUse(ctx, token.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume token use")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeTokenExhausted, "scan token exhausted").
			WithDetails(map[string]any{"token_id": token.ID})
	}
	token.UsedCount++
	return nil
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
