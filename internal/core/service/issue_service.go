package service

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicgrid/civic-report-api/internal/api/metrics"
	"github.com/civicgrid/civic-report-api/internal/core/domain"
	"github.com/civicgrid/civic-report-api/internal/core/policy"
	"github.com/civicgrid/civic-report-api/internal/core/ports"
)

// IssueService implements the issue lifecycle: creation, role-scoped listing,
// and status transitions gated by the role policy.
type IssueService struct {
	repo   ports.IssueRepository
	logger zerolog.Logger
}

func NewIssueService(repo ports.IssueRepository, logger zerolog.Logger) *IssueService {
	return &IssueService{repo: repo, logger: logger}
}

// Create inserts a new issue with status pending. The image reference, when
// present, has already been flushed to disk by the upload handler.
func (s *IssueService) Create(ctx context.Context, input ports.CreateIssueInput) (*domain.Issue, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Location) == "" ||
		strings.TrimSpace(input.Description) == "" {
		return nil, domain.ErrMissingFields
	}

	issue := &domain.Issue{
		OwnerUID:    input.OwnerUID,
		Name:        input.Name,
		Location:    input.Location,
		Description: input.Description,
		CreatedAt:   time.Now().UTC(),
		Status:      domain.StatusPending,
		Image:       input.ImageRef,
	}

	created, err := s.repo.Create(ctx, issue)
	if err != nil {
		s.logger.Error().Err(err).Str("uid", input.OwnerUID).Msg("failed to create issue")
		return nil, err
	}

	metrics.IssuesCreatedTotal.Inc()
	s.logger.Info().Str("issue_id", created.ID).Str("uid", created.OwnerUID).Msg("issue created")
	return created, nil
}

// ListAll returns every issue, newest first. Admin only.
func (s *IssueService) ListAll(ctx context.Context, role domain.Role, baseURL string) ([]*domain.Issue, error) {
	if d := policy.Decide(role, policy.ActionListAllIssues, "", ""); !d.Allowed {
		return nil, domain.ErrForbidden
	}

	issues, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	absolutizeAll(issues, baseURL)
	return issues, nil
}

// ListByOwner returns the caller's issues, newest first.
func (s *IssueService) ListByOwner(ctx context.Context, ownerUID, baseURL string) ([]*domain.Issue, error) {
	issues, err := s.repo.ListByOwner(ctx, ownerUID)
	if err != nil {
		return nil, err
	}
	absolutizeAll(issues, baseURL)
	return issues, nil
}

// SetStatus applies a status transition. Ordering of the checks matters:
// lookup (404) first, then ownership (403), then vocabulary (the requested
// value must be inside the caller role's status set). There is no precondition
// on the prior status; an admin may set solved directly from pending.
func (s *IssueService) SetStatus(ctx context.Context, input ports.SetStatusInput, baseURL string) (*domain.Issue, error) {
	issue, err := s.repo.FindByID(ctx, input.IssueID)
	if err != nil {
		return nil, err
	}

	if d := policy.Decide(input.Role, policy.ActionSetIssueStatus, issue.OwnerUID, input.CallerUID); !d.Allowed {
		s.logger.Warn().
			Str("issue_id", input.IssueID).
			Str("caller", input.CallerUID).
			Str("reason", d.Reason).
			Msg("status change denied")
		return nil, domain.ErrForbidden
	}

	if !policy.StatusVocabulary(input.Role).Contains(input.Status) {
		return nil, domain.ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, input.IssueID, input.Status); err != nil {
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(input.Status), string(input.Role)).Inc()
	s.logger.Info().
		Str("issue_id", input.IssueID).
		Str("status", string(input.Status)).
		Str("role", string(input.Role)).
		Msg("issue status updated")

	issue.Status = input.Status
	absolutize(issue, baseURL)
	return issue, nil
}

// absolutize rewrites a stored image reference into a fully-qualified URL for
// the current serving endpoint. Presentation-time only; the stored value is
// untouched.
func absolutize(issue *domain.Issue, baseURL string) {
	if issue.Image == "" || baseURL == "" {
		return
	}
	if strings.HasPrefix(issue.Image, "http://") || strings.HasPrefix(issue.Image, "https://") {
		return
	}
	issue.Image = strings.TrimRight(baseURL, "/") + "/uploads/" + path.Base(issue.Image)
}

func absolutizeAll(issues []*domain.Issue, baseURL string) {
	for _, issue := range issues {
		absolutize(issue, baseURL)
	}
}
