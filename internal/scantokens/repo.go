package scantokens

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a scan token repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, token *models.ScanToken) (*models.ScanToken, error) {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

func (r *repository) FindByToken(ctx context.Context, token string) (*models.ScanToken, error) {
	var row models.ScanToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.ScanToken, error) {
	var rows []models.ScanToken
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// IncrementUse bumps used_count with a guard honoring max_uses. Returns rows
// affected; 0 means the token is exhausted or missing.
func (r *repository) IncrementUse(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE scan_tokens
		SET used_count = used_count + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND (max_uses IS NULL OR used_count < max_uses)
	`, id)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
