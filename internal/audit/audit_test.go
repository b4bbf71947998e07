package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	pkgerrors "github.com/printforge/fulfillment-backend/pkg/errors"
)

func setupAuditTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS audit_logs (
  id TEXT PRIMARY KEY,
  actor_id TEXT,
  action TEXT NOT NULL,
  ref_type TEXT NOT NULL,
  ref_id TEXT NOT NULL,
  metadata TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestRecorderAppendsRow(t *testing.T) {
	db := setupAuditTestDB(t)
	rec, err := NewRecorder(db)
	require.NoError(t, err)

	actorID := uuid.New()
	jobID := uuid.New()
	err = rec.Record(context.Background(), db, Entry{
		ActorID: &actorID,
		Action:  "job.transition",
		RefType: "job",
		RefID:   jobID,
		Metadata: map[string]string{
			"from": "received",
			"to":   "in_process",
		},
	})
	require.NoError(t, err)

	var rows []models.AuditLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "job.transition", rows[0].Action)
	assert.Equal(t, jobID, rows[0].RefID)
	assert.JSONEq(t, `{"from":"received","to":"in_process"}`, string(rows[0].Metadata))
}

func TestRecorderValidation(t *testing.T) {
	db := setupAuditTestDB(t)
	rec, err := NewRecorder(db)
	require.NoError(t, err)

	err = rec.Record(context.Background(), nil, Entry{RefID: uuid.New()})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
