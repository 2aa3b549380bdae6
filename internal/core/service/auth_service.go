package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/civicgrid/civic-report-api/internal/api/metrics"
	"github.com/civicgrid/civic-report-api/internal/core/domain"
	"github.com/civicgrid/civic-report-api/internal/core/ports"
)

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// AuthService registers citizens and mints session credentials. Tokens carry
// the role at issue time; a later role change is not reflected until re-login.
type AuthService struct {
	gateway   ports.IdentityGateway
	accounts  ports.AccountRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(gateway ports.IdentityGateway, accounts ports.AccountRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{
		gateway:   gateway,
		accounts:  accounts,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Register creates the identity, the profile record (role=user), and returns
// a session token so the client is logged in immediately.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
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
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		s.logger.Error().Err(err).Str("uid", identity.UID).Msg("profile write failed after identity creation")
		return nil, err
	}

	token, err := s.signToken(identity.UID, identity.Email, domain.RoleUser, ProviderPassword)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("uid", identity.UID).Msg("citizen registered")
	return &ports.AuthResult{
		Token:    token,
		UID:      identity.UID,
		Name:     input.Name,
		Email:    identity.Email,
		Role:     domain.RoleUser,
		Provider: ProviderPassword,
	}, nil
}

// Login exchanges credentials for a session token. A federated provider UID
// takes precedence over email/password when both are supplied.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	var (
		identity *domain.Identity
		provider string
		err      error
	)

	switch {
	case input.ProviderUID != "":
		provider = ProviderGoogle
		identity, err = s.gateway.FindByUID(ctx, input.ProviderUID)
	case input.Email != "" && input.Password != "":
		provider = ProviderPassword
		identity, err = s.gateway.VerifyPassword(ctx, input.Email, input.Password)
	default:
		return nil, domain.ErrMissingFields
	}
	if err != nil {
		return nil, err
	}

	role := s.lookupRole(ctx, identity.UID)
	token, err := s.signToken(identity.UID, identity.Email, role, provider)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues(provider).Inc()
	s.logger.Info().Str("uid", identity.UID).Str("provider", provider).Msg("login")

	return &ports.AuthResult{
		Token:    token,
		UID:      identity.UID,
		Name:     identity.Name,
		Email:    identity.Email,
		Role:     role,
		Provider: provider,
	}, nil
}

// Profile returns the caller's own account record.
func (s *AuthService) Profile(ctx context.Context, uid string) (*domain.Account, error) {
	return s.accounts.FindByUID(ctx, uid)
}

// lookupRole reads the role from the profile record, defaulting to user for
// identities without one (federated logins that never registered a profile).
func (s *AuthService) lookupRole(ctx context.Context, uid string) domain.Role {
	account, err := s.accounts.FindByUID(ctx, uid)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			s.logger.Warn().Err(err).Str("uid", uid).Msg("role lookup failed, defaulting to user")
		}
		return domain.RoleUser
	}
	return account.Role
}

func (s *AuthService) signToken(uid, email string, role domain.Role, provider string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"uid":      uid,
		"email":    email,
		"role":     string(role),
		"provider": provider,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
