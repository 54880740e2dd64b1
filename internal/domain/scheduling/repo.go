package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AssignmentRepository interface {
	Create(ctx context.Context, a *Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	DeleteBySurgery(ctx context.Context, surgeryID uuid.UUID) error
	// ListByDate returns the day's assignments joined with each surgery's
	// urgency and duration, ordered by start time.
	ListByDate(ctx context.Context, date time.Time) ([]*Assignment, error)
	// LockDay serializes all insertion decisions for one schedule day. It
	// must be called inside a transaction; the lock is released on commit or
	// rollback.
	LockDay(ctx context.Context, date time.Time) error
}
