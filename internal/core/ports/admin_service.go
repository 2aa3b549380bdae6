package ports

import (
	"context"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

// CreateAdminInput carries the fields for a new admin account. All three are
// required.
type CreateAdminInput struct {
	Name     string
	Email    string
	Password string
}

// AdminService covers superadmin provisioning and reporting, plus the startup
// bootstrap that guarantees the well-known superadmin account exists.
type AdminService interface {
	CreateAdmin(ctx context.Context, caller domain.Role, input CreateAdminInput) (*domain.Account, error)
	ListAccounts(ctx context.Context, caller domain.Role) ([]*domain.Account, error)
	DashboardCounts(ctx context.Context, caller domain.Role) (*domain.RoleCounts, error)
	// EnsureSuperadmin is idempotent: repeated runs never create duplicates
	// and repair a drifted role on the well-known account.
	EnsureSuperadmin(ctx context.Context) error
}
