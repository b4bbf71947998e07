package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/printforge/fulfillment-backend/pkg/enums"
)

// Job is one unit of production work for one product variant within an order.
// Color and size use the empty-string sentinel when not applicable, matching
// the inventory composite key.
type Job struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	SKU             string          `gorm:"column:sku;not null"`
	Color           string          `gorm:"column:color;not null;default:''"`
	Size            string          `gorm:"column:size;not null;default:''"`
	Qty             int             `gorm:"column:qty;not null"`
	Status          enums.JobStatus `gorm:"column:status;type:job_status;not null;default:'received'"`
	AssignedStaffID *uuid.UUID      `gorm:"column:assigned_staff_id;type:uuid"`
	DesignFileURL   *string         `gorm:"column:design_file_url"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
