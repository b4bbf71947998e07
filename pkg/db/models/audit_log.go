package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog records one back-office action for traceability. Append-only.
type AuditLog struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ActorID   *uuid.UUID      `gorm:"column:actor_id;type:uuid"`
	Action    string          `gorm:"column:action;not null"`
	RefType   string          `gorm:"column:ref_type;not null"`
	RefID     uuid.UUID       `gorm:"column:ref_id;type:uuid;not null;index"`
	Metadata  json.RawMessage `gorm:"column:metadata;type:jsonb"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
