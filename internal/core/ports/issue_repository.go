package ports

import (
	"context"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

// IssueRepository defines persistence operations for issues.
type IssueRepository interface {
	Create(ctx context.Context, i *domain.Issue) (*domain.Issue, error)
	FindByID(ctx context.Context, id string) (*domain.Issue, error)
	// ListAll returns every issue, newest first by creation time.
	ListAll(ctx context.Context) ([]*domain.Issue, error)
	// ListByOwner returns the owner's issues, newest first.
	ListByOwner(ctx context.Context, ownerUID string) ([]*domain.Issue, error)
	// UpdateStatus overwrites only the status field of an existing issue.
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}
