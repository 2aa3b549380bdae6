package ports

import (
	"context"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

// CreateIssueInput carries the fields for a new issue. ImageRef is the stored
// reference produced by the FileStore, or empty when no image was uploaded.
type CreateIssueInput struct {
	OwnerUID    string
	Name        string
	Location    string
	Description string
	ImageRef    string
}

// SetStatusInput identifies a status transition request. Role and CallerUID
// come from the verified session credential, never from the request body.
type SetStatusInput struct {
	IssueID   string
	Status    domain.Status
	Role      domain.Role
	CallerUID string
}

// IssueService defines the issue lifecycle use cases. baseURL is the scheme
// and host of the current request, used to absolutize stored image references
// at read time.
type IssueService interface {
	Create(ctx context.Context, input CreateIssueInput) (*domain.Issue, error)
	ListAll(ctx context.Context, role domain.Role, baseURL string) ([]*domain.Issue, error)
	ListByOwner(ctx context.Context, ownerUID, baseURL string) ([]*domain.Issue, error)
	SetStatus(ctx context.Context, input SetStatusInput, baseURL string) (*domain.Issue, error)
}
