package ports

import (
	"context"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

// AccountRepository persists profile records, the source of truth for roles.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	FindByUID(ctx context.Context, uid string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// List returns all accounts, newest first.
	List(ctx context.Context) ([]*domain.Account, error)
	// SetRole overwrites the role of an existing account. Used only by the
	// superadmin bootstrap to repair a drifted role.
	SetRole(ctx context.Context, uid string, role domain.Role) error
}
