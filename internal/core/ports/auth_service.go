package ports

import (
	"context"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

// RegisterInput carries everything needed to create a citizen account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput is either an email/password pair or a federated provider UID;
// ProviderUID wins when both are present, mirroring the federated-first flow.
type LoginInput struct {
	Email       string
	Password    string
	ProviderUID string
}

// AuthResult is returned by Register and Login: the signed session credential
// plus the identity it was minted for.
type AuthResult struct {
	Token    string
	UID      string
	Name     string
	Email    string
	Role     domain.Role
	Provider string
}

// AuthService registers citizens and exchanges credentials for session tokens.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	// Profile returns the caller's own account summary.
	Profile(ctx context.Context, uid string) (*domain.Account, error)
}
