package ports

import (
	"context"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

// IdentityGateway is the system of record for credentials and account
// existence. It knows nothing about roles; those live on the profile record.
type IdentityGateway interface {
	// CreateIdentity registers a new login. Fails with ErrIdentityExists
	// when the email is already taken.
	CreateIdentity(ctx context.Context, name, email, password string) (*domain.Identity, error)
	// VerifyPassword resolves an email/password pair to an identity, or
	// ErrInvalidCredentials.
	VerifyPassword(ctx context.Context, email, password string) (*domain.Identity, error)
	FindByUID(ctx context.Context, uid string) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// DeleteIdentity removes a login. Used only as the compensating action
	// when admin provisioning fails halfway.
	DeleteIdentity(ctx context.Context, uid string) error
}
