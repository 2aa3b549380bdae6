package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicgrid/civic-report-api/internal/api/metrics"
	"github.com/civicgrid/civic-report-api/internal/core/domain"
	"github.com/civicgrid/civic-report-api/internal/core/policy"
	"github.com/civicgrid/civic-report-api/internal/core/ports"
)

// FeedbackService implements the append-only feedback flow.
type FeedbackService struct {
	repo   ports.FeedbackRepository
	logger zerolog.Logger
}

func NewFeedbackService(repo ports.FeedbackRepository, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{repo: repo, logger: logger}
}

// Create validates and persists a feedback record. The rating bounds are
// enforced again here so the invariant holds even for callers that bypass the
// HTTP schema layer.
func (s *FeedbackService) Create(ctx context.Context, input ports.CreateFeedbackInput) (*domain.Feedback, error) {
	if strings.TrimSpace(input.Location) == "" ||
		strings.TrimSpace(input.Sector) == "" ||
		strings.TrimSpace(input.Description) == "" {
		return nil, domain.ErrMissingFields
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domain.ErrMissingFields
	}

	feedback := &domain.Feedback{
		OwnerUID:    input.OwnerUID,
		Location:    input.Location,
		Rating:      input.Rating,
		Sector:      input.Sector,
		Description: input.Description,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, feedback)
	if err != nil {
		s.logger.Error().Err(err).Str("uid", input.OwnerUID).Msg("failed to create feedback")
		return nil, err
	}

	metrics.FeedbackCreatedTotal.WithLabelValues(created.Sector).Inc()
	s.logger.Info().Str("feedback_id", created.ID).Str("sector", created.Sector).Msg("feedback created")
	return created, nil
}

// ListByOwner returns the caller's own feedback. No ordering guarantee.
func (s *FeedbackService) ListByOwner(ctx context.Context, ownerUID string) ([]*domain.Feedback, error) {
	return s.repo.ListByOwner(ctx, ownerUID)
}

// ListAll returns every feedback record, newest first. Admin and superadmin.
func (s *FeedbackService) ListAll(ctx context.Context, role domain.Role) ([]*domain.Feedback, error) {
	if d := policy.Decide(role, policy.ActionListAllFeedback, "", ""); !d.Allowed {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListAll(ctx)
}
