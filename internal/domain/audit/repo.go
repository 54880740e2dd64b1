package audit

import (
	"context"

	"github.com/google/uuid"
)

type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Event, int, error)
}
