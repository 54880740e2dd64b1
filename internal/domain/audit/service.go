package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	repo EventRepository
	log  zerolog.Logger
}

func NewService(repo EventRepository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Record appends an event to the trail. Failures are logged, never returned:
// a scheduling decision that already committed must not be unwound because
// its audit write failed.
func (s *Service) Record(ctx context.Context, action, resourceType string, resourceID uuid.UUID, detail map[string]interface{}) {
	e := &Event{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Detail:       detail,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.log.Error().Err(err).
			Str("action", action).
			Str("resource_id", resourceID.String()).
			Msg("audit write failed")
	}
}

func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) SearchEvents(ctx context.Context, params map[string]string, limit, offset int) ([]*Event, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}
