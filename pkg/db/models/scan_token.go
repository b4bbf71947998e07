package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/printforge/fulfillment-backend/pkg/enums"
)

// ScanToken is a capability bound to a job. STATUS tokens drive lifecycle
// transitions; FILE tokens only resolve the design-file link.
type ScanToken struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Token     string              `gorm:"column:token;not null;uniqueIndex"`
	Type      enums.ScanTokenType `gorm:"column:type;type:scan_token_type;not null"`
	JobID     uuid.UUID           `gorm:"column:job_id;type:uuid;not null;index"`
	UsedCount int                 `gorm:"column:used_count;not null;default:0"`
	MaxUses   *int                `gorm:"column:max_uses"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
