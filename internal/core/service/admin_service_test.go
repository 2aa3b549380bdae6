package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
	"github.com/civicgrid/civic-report-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub gateway and account repository (shared with auth tests)
// ---------------------------------------------------------------------------

type stubGateway struct {
	identities map[string]*domain.Identity // by uid
	nextID     int
	createErr  error
	deleteErr  error
	deleted    []string
}

func newStubGateway() *stubGateway {
	return &stubGateway{identities: make(map[string]*domain.Identity)}
}

func (g *stubGateway) CreateIdentity(_ context.Context, name, email, password string) (*domain.Identity, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	for _, id := range g.identities {
		if id.Email == email {
			return nil, domain.ErrIdentityExists
		}
	}
	g.nextID++
	identity := &domain.Identity{
		UID:          fmt.Sprintf("id-%d", g.nextID),
		Name:         name,
		Email:        email,
		PasswordHash: password, // stub keeps it plain
		Provider:     "password",
		CreatedAt:    time.Now().UTC(),
	}
	g.identities[identity.UID] = identity
	clone := *identity
	return &clone, nil
}

func (g *stubGateway) VerifyPassword(_ context.Context, email, password string) (*domain.Identity, error) {
	for _, id := range g.identities {
		if id.Email == email {
			if id.PasswordHash != password {
				return nil, domain.ErrInvalidCredentials
			}
			clone := *id
			return &clone, nil
		}
	}
	return nil, domain.ErrInvalidCredentials
}

func (g *stubGateway) FindByUID(_ context.Context, uid string) (*domain.Identity, error) {
	id, ok := g.identities[uid]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	clone := *id
	return &clone, nil
}

func (g *stubGateway) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	for _, id := range g.identities {
		if id.Email == email {
			clone := *id
			return &clone, nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (g *stubGateway) DeleteIdentity(_ context.Context, uid string) error {
	if g.deleteErr != nil {
		return g.deleteErr
	}
	delete(g.identities, uid)
	g.deleted = append(g.deleted, uid)
	return nil
}

type stubAccountRepo struct {
	accounts  map[string]*domain.Account // by uid
	createErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *a
	r.accounts[a.UID] = &clone
	return nil
}

func (r *stubAccountRepo) FindByUID(_ context.Context, uid string) (*domain.Account, error) {
	a, ok := r.accounts[uid]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubAccountRepo) SetRole(_ context.Context, uid string, role domain.Role) error {
	a, ok := r.accounts[uid]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Role = role
	return nil
}

var testBootstrap = SuperadminBootstrap{
	Name:     "Super Admin",
	Email:    "superadmin@civicgrid.local",
	Password: "superadmin",
}

func newAdminService(g *stubGateway, r *stubAccountRepo) *AdminService {
	return NewAdminService(g, r, nil, testBootstrap, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// CreateAdmin
// ---------------------------------------------------------------------------

func TestAdminService_CreateAdmin_Success(t *testing.T) {
	gateway := newStubGateway()
	accounts := newStubAccountRepo()
	svc := newAdminService(gateway, accounts)

	account, err := svc.CreateAdmin(context.Background(), domain.RoleSuperadmin, ports.CreateAdminInput{
		Name: "City Admin", Email: "admin@city.gov", Password: "secret",
	})
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if account.Role != domain.RoleAdmin {
		t.Fatalf("role = %q, want admin", account.Role)
	}
	if _, err := accounts.FindByUID(context.Background(), account.UID); err != nil {
		t.Fatalf("profile record missing: %v", err)
	}
}

func TestAdminService_CreateAdmin_SuperadminOnly(t *testing.T) {
	svc := newAdminService(newStubGateway(), newStubAccountRepo())

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleUser, domain.RoleUnknown} {
		_, err := svc.CreateAdmin(context.Background(), role, ports.CreateAdminInput{
			Name: "x", Email: "x@y.z", Password: "p",
		})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("role %q: err = %v, want ErrForbidden", role, err)
		}
	}
}

func TestAdminService_CreateAdmin_MissingFields(t *testing.T) {
	svc := newAdminService(newStubGateway(), newStubAccountRepo())

	_, err := svc.CreateAdmin(context.Background(), domain.RoleSuperadmin, ports.CreateAdminInput{
		Name: "x", Email: "", Password: "p",
	})
	if !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("err = %v, want ErrMissingFields", err)
	}
}

func TestAdminService_CreateAdmin_DuplicateEmailNoProfile(t *testing.T) {
	gateway := newStubGateway()
	accounts := newStubAccountRepo()
	svc := newAdminService(gateway, accounts)

	input := ports.CreateAdminInput{Name: "Admin", Email: "dup@city.gov", Password: "p"}
	if _, err := svc.CreateAdmin(context.Background(), domain.RoleSuperadmin, input); err != nil {
		t.Fatalf("first CreateAdmin: %v", err)
	}

	before := len(accounts.accounts)
	_, err := svc.CreateAdmin(context.Background(), domain.RoleSuperadmin, input)
	if !errors.Is(err, domain.ErrIdentityExists) {
		t.Fatalf("err = %v, want ErrIdentityExists", err)
	}
	if len(accounts.accounts) != before {
		t.Fatalf("profile record created despite gateway failure")
	}
}

func TestAdminService_CreateAdmin_RollbackOnProfileFailure(t *testing.T) {
	gateway := newStubGateway()
	accounts := newStubAccountRepo()
	accounts.createErr = errors.New("store unavailable")
	svc := newAdminService(gateway, accounts)

	_, err := svc.CreateAdmin(context.Background(), domain.RoleSuperadmin, ports.CreateAdminInput{
		Name: "Admin", Email: "admin@city.gov", Password: "p",
	})
	if !errors.Is(err, domain.ErrPartialProvisioning) {
		t.Fatalf("err = %v, want ErrPartialProvisioning", err)
	}
	if len(gateway.deleted) != 1 {
		t.Fatalf("orphaned identity not rolled back: deleted=%v", gateway.deleted)
	}
	if len(gateway.identities) != 0 {
		t.Fatalf("identity still present after rollback")
	}
}

// ---------------------------------------------------------------------------
// Dashboard counts
// ---------------------------------------------------------------------------

func TestAdminService_DashboardCounts(t *testing.T) {
	accounts := newStubAccountRepo()
	accounts.accounts["1"] = &domain.Account{UID: "1", Role: domain.RoleSuperadmin}
	accounts.accounts["2"] = &domain.Account{UID: "2", Role: domain.RoleAdmin}
	accounts.accounts["3"] = &domain.Account{UID: "3", Role: domain.RoleUser}
	accounts.accounts["4"] = &domain.Account{UID: "4", Role: domain.RoleUser}
	accounts.accounts["5"] = &domain.Account{UID: "5", Role: domain.Role("moderator")}

	svc := newAdminService(newStubGateway(), accounts)

	counts, err := svc.DashboardCounts(context.Background(), domain.RoleSuperadmin)
	if err != nil {
		t.Fatalf("DashboardCounts: %v", err)
	}
	want := domain.RoleCounts{Superadmin: 1, Admin: 1, User: 2, Other: 1}
	if *counts != want {
		t.Fatalf("counts = %+v, want %+v", *counts, want)
	}

	if _, err := svc.DashboardCounts(context.Background(), domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("admin DashboardCounts err = %v, want ErrForbidden", err)
	}
}

func TestAdminService_ListAccounts_SuperadminOnly(t *testing.T) {
	svc := newAdminService(newStubGateway(), newStubAccountRepo())

	if _, err := svc.ListAccounts(context.Background(), domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("admin ListAccounts err = %v, want ErrForbidden", err)
	}
	if _, err := svc.ListAccounts(context.Background(), domain.RoleSuperadmin); err != nil {
		t.Fatalf("superadmin ListAccounts err = %v", err)
	}
}

// ---------------------------------------------------------------------------
// Bootstrap
// ---------------------------------------------------------------------------

func TestAdminService_EnsureSuperadmin_Idempotent(t *testing.T) {
	gateway := newStubGateway()
	accounts := newStubAccountRepo()
	svc := newAdminService(gateway, accounts)

	for i := 0; i < 2; i++ {
		if err := svc.EnsureSuperadmin(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	var supers []*domain.Account
	for _, a := range accounts.accounts {
		if a.Role == domain.RoleSuperadmin {
			supers = append(supers, a)
		}
	}
	if len(supers) != 1 {
		t.Fatalf("got %d superadmin accounts, want exactly 1", len(supers))
	}
	if supers[0].Email != testBootstrap.Email {
		t.Fatalf("superadmin email = %q, want %q", supers[0].Email, testBootstrap.Email)
	}
	if len(gateway.identities) != 1 {
		t.Fatalf("got %d identities, want 1", len(gateway.identities))
	}
}

func TestAdminService_EnsureSuperadmin_RepairsRole(t *testing.T) {
	gateway := newStubGateway()
	accounts := newStubAccountRepo()
	svc := newAdminService(gateway, accounts)

	identity, err := gateway.CreateIdentity(context.Background(), testBootstrap.Name, testBootstrap.Email, testBootstrap.Password)
	if err != nil {
		t.Fatalf("seed identity: %v", err)
	}
	accounts.accounts[identity.UID] = &domain.Account{
		UID: identity.UID, Email: testBootstrap.Email, Role: domain.RoleUser,
	}

	if err := svc.EnsureSuperadmin(context.Background()); err != nil {
		t.Fatalf("EnsureSuperadmin: %v", err)
	}
	if got := accounts.accounts[identity.UID].Role; got != domain.RoleSuperadmin {
		t.Fatalf("role = %q, want superadmin", got)
	}
}
