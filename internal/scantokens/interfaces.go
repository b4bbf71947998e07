package scantokens

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
)

// Repository defines persistence operations for scan tokens.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, token *models.ScanToken) (*models.ScanToken, error)
	FindByToken(ctx context.Context, token string) (*models.ScanToken, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.ScanToken, error)
	IncrementUse(ctx context.Context, id uuid.UUID) (int64, error)
}
