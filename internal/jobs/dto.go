package jobs

import (
	"github.com/google/uuid"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
)

// TransitionResult reports the edge that was applied plus the order status
// after propagation.
type TransitionResult struct {
	JobID       uuid.UUID         `json:"job_id"`
	OrderID     uuid.UUID         `json:"order_id"`
	From        enums.JobStatus   `json:"from"`
	To          enums.JobStatus   `json:"to"`
	OrderStatus enums.OrderStatus `json:"order_status"`
}

// TokenResolution is the read-only answer for a scanned token. FILE tokens
// carry the design file link; STATUS tokens carry a job snapshot.
type TokenResolution struct {
	Type          enums.ScanTokenType `json:"type"`
	Job           *models.Job         `json:"job"`
	DesignFileURL *string             `json:"design_file_url,omitempty"`
}
