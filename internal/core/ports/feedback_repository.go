package ports

import (
	"context"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

// FeedbackRepository persists feedback records. There is deliberately no
// update or delete: feedback is append-only.
type FeedbackRepository interface {
	Create(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]*domain.Feedback, error)
	// ListAll returns every feedback record, newest first.
	ListAll(ctx context.Context) ([]*domain.Feedback, error)
}
