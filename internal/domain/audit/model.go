package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is one entry in the scheduling decision trail. Detail carries the
// decision's metadata (tactic, tier, disruption score) as free-form JSON.
type Event struct {
	ID           uuid.UUID              `db:"id" json:"id"`
	Action       string                 `db:"action" json:"action"`
	ResourceType string                 `db:"resource_type" json:"resource_type"`
	ResourceID   uuid.UUID              `db:"resource_id" json:"resource_id"`
	Detail       map[string]interface{} `db:"detail" json:"detail,omitempty"`
	RecordedAt   time.Time              `db:"recorded_at" json:"recorded_at"`
}
