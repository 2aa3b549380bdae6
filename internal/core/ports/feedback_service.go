package ports

import (
	"context"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

// CreateFeedbackInput carries a citizen's sector rating. Rating must be an
// integer in [1,5]; the schema layer rejects everything else before this
// struct is built.
type CreateFeedbackInput struct {
	OwnerUID    string
	Location    string
	Rating      int
	Sector      string
	Description string
}

// FeedbackService defines the feedback use cases.
type FeedbackService interface {
	Create(ctx context.Context, input CreateFeedbackInput) (*domain.Feedback, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]*domain.Feedback, error)
	ListAll(ctx context.Context, role domain.Role) ([]*domain.Feedback, error)
}
