package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	pkgerrors "github.com/printforge/fulfillment-backend/pkg/errors"
)

// Entry describes one back-office action to record.
type Entry struct {
	ActorID  *uuid.UUID
	Action   string
	RefType  string
	RefID    uuid.UUID
	Metadata any
}

// Recorder appends audit rows inside the caller's transaction so the audit
// trail commits or rolls back with the action it describes.
type Recorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry Entry) error
}

type recorder struct {
	db *gorm.DB
}

// NewRecorder builds an audit recorder bound to the provided DB. The DB handle
// is only used when Record is called without a transaction.
func NewRecorder(db *gorm.DB) (Recorder, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &recorder{db: db}, nil
}

func (r *recorder) Record(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if entry.Action == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "audit action required")
	}
	if entry.RefID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "audit reference required")
	}

	db := r.db
	if tx != nil {
		db = tx
	}

	row := &models.AuditLog{
		ActorID: entry.ActorID,
		Action:  entry.Action,
		RefType: entry.RefType,
		RefID:   entry.RefID,
	}
	if entry.Metadata != nil {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode audit metadata")
		}
		row.Metadata = raw
	}

	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record audit entry")
	}
	return nil
}
