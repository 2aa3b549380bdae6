package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicgrid/civic-report-api/internal/api/metrics"
	"github.com/civicgrid/civic-report-api/internal/core/domain"
	"github.com/civicgrid/civic-report-api/internal/core/policy"
	"github.com/civicgrid/civic-report-api/internal/core/ports"
)

// SuperadminBootstrap holds the well-known bootstrap account credentials.
type SuperadminBootstrap struct {
	Name     string
	Email    string
	Password string
}

// AdminService covers superadmin provisioning, account listing, role counts,
// and the startup bootstrap.
type AdminService struct {
	gateway   ports.IdentityGateway
	accounts  ports.AccountRepository
	cache     ports.CountsCache
	bootstrap SuperadminBootstrap
	logger    zerolog.Logger
}

// NewAdminService builds the service. cache may be nil, in which case every
// dashboard call scans the account collection.
func NewAdminService(gateway ports.IdentityGateway, accounts ports.AccountRepository, cache ports.CountsCache, bootstrap SuperadminBootstrap, logger zerolog.Logger) *AdminService {
	return &AdminService{
		gateway:   gateway,
		accounts:  accounts,
		cache:     cache,
		bootstrap: bootstrap,
		logger:    logger,
	}
}

// CreateAdmin provisions an admin account: identity first, then profile.
// The two writes are not atomic; on profile failure the identity is deleted
// best-effort and the caller gets ErrPartialProvisioning.
func (s *AdminService) CreateAdmin(ctx context.Context, caller domain.Role, input ports.CreateAdminInput) (*domain.Account, error) {
	if d := policy.Decide(caller, policy.ActionCreateAdmin, "", ""); !d.Allowed {
		return nil, domain.ErrForbidden
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}

	identity, err := s.gateway.CreateIdentity(ctx, input.Name, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		UID:       identity.UID,
		Name:      input.Name,
		Email:     input.Email,
		Role:      domain.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		metrics.ProvisioningFailuresTotal.WithLabelValues("profile_write").Inc()
		if delErr := s.gateway.DeleteIdentity(ctx, identity.UID); delErr != nil {
			s.logger.Error().Err(delErr).Str("uid", identity.UID).Msg("rollback of orphaned identity failed")
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPartialProvisioning, err)
	}

	s.logger.Info().Str("uid", identity.UID).Str("email", input.Email).Msg("admin provisioned")
	return account, nil
}

// ListAccounts returns every profile record, newest first. Superadmin only.
func (s *AdminService) ListAccounts(ctx context.Context, caller domain.Role) ([]*domain.Account, error) {
	if d := policy.Decide(caller, policy.ActionListAccounts, "", ""); !d.Allowed {
		return nil, domain.ErrForbidden
	}
	return s.accounts.List(ctx)
}

// DashboardCounts tallies accounts by role. Unrecognized roles count as
// "other". Results are served from the cache when available.
func (s *AdminService) DashboardCounts(ctx context.Context, caller domain.Role) (*domain.RoleCounts, error) {
	if d := policy.Decide(caller, policy.ActionRoleCounts, "", ""); !d.Allowed {
		return nil, domain.ErrForbidden
	}

	if s.cache != nil {
		if counts, ok, err := s.cache.Get(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("counts cache read failed, scanning")
		} else if ok {
			return counts, nil
		}
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := &domain.RoleCounts{}
	for _, a := range accounts {
		switch domain.ParseRole(string(a.Role)) {
		case domain.RoleSuperadmin:
			counts.Superadmin++
		case domain.RoleAdmin:
			counts.Admin++
		case domain.RoleUser:
			counts.User++
		default:
			counts.Other++
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, counts); err != nil {
			s.logger.Warn().Err(err).Msg("counts cache write failed")
		}
	}
	return counts, nil
}

// EnsureSuperadmin guarantees the well-known bootstrap account exists with
// role superadmin. Idempotent: repeated runs create nothing new and repair a
// drifted role. Errors are returned for logging; the caller must not treat
// them as fatal.
func (s *AdminService) EnsureSuperadmin(ctx context.Context) error {
	identity, err := s.gateway.FindByEmail(ctx, s.bootstrap.Email)
	if errors.Is(err, domain.ErrIdentityNotFound) {
		identity, err = s.gateway.CreateIdentity(ctx, s.bootstrap.Name, s.bootstrap.Email, s.bootstrap.Password)
	}
	if err != nil {
		return fmt.Errorf("superadmin identity: %w", err)
	}

	account, err := s.accounts.FindByUID(ctx, identity.UID)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		account = &domain.Account{
			UID:       identity.UID,
			Name:      s.bootstrap.Name,
			Email:     s.bootstrap.Email,
			Role:      domain.RoleSuperadmin,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return fmt.Errorf("superadmin profile: %w", err)
		}
		s.logger.Info().Str("uid", identity.UID).Msg("superadmin profile created")
	case err != nil:
		return fmt.Errorf("superadmin lookup: %w", err)
	case account.Role != domain.RoleSuperadmin:
		if err := s.accounts.SetRole(ctx, identity.UID, domain.RoleSuperadmin); err != nil {
			return fmt.Errorf("superadmin role repair: %w", err)
		}
		s.logger.Info().Str("uid", identity.UID).Msg("superadmin role repaired")
	}

	return nil
}
