package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
	"github.com/civicgrid/civic-report-api/internal/core/ports"
)

type stubAuthService struct {
	registerIn ports.RegisterInput
	loginIn    ports.LoginInput
	result     *ports.AuthResult
	profile    *domain.Account
	err        error
}

func (s *stubAuthService) Register(_ context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	s.registerIn = input
	return s.result, s.err
}

func (s *stubAuthService) Login(_ context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	s.loginIn = input
	return s.result, s.err
}

func (s *stubAuthService) Profile(_ context.Context, uid string) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{result: &ports.AuthResult{
		Token: "signed.jwt", UID: "u1", Name: "Alice",
		Email: "alice@example.com", Role: domain.RoleUser, Provider: "password",
	}}
	h := NewAuthHandler(svc)

	body := bytes.NewBufferString(`{"name":"Alice","email":"alice@example.com","password":"hunter2"}`)
	c, rec := newTestContext(t, http.MethodPost, "/register", body, "application/json")

	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["jwt"] != "signed.jwt" {
		t.Fatalf("jwt field = %q, body = %s", got["jwt"], rec.Body.String())
	}
	if got["role"] != "user" {
		t.Fatalf("role = %q", got["role"])
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing name", `{"email":"a@b.c","password":"p"}`, "name is required"},
		{"bad email", `{"name":"a","email":"not-an-email","password":"p"}`, "email must be a valid email"},
		{"missing password", `{"name":"a","email":"a@b.c"}`, "password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodPost, "/register", bytes.NewBufferString(tt.body), "application/json")
			err := h.Register(c)
			if code := httpStatus(t, err); code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", code)
			}
			if msg := err.Error(); !strings.Contains(msg, tt.wantMsg) {
				t.Fatalf("message %q does not mention %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{result: &ports.AuthResult{
		Token: "signed.jwt", UID: "u1", Role: domain.RoleAdmin, Provider: "password",
	}}
	h := NewAuthHandler(svc)

	body := bytes.NewBufferString(`{"email":"a@b.c","password":"p"}`)
	c, rec := newTestContext(t, http.MethodPost, "/login", body, "application/json")

	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.loginIn.Email != "a@b.c" || svc.loginIn.Password != "p" {
		t.Fatalf("login input = %+v", svc.loginIn)
	}
}

func TestAuthHandler_Login_ProviderUID(t *testing.T) {
	svc := &stubAuthService{result: &ports.AuthResult{
		Token: "signed.jwt", UID: "ext-1", Role: domain.RoleUser, Provider: "google",
	}}
	h := NewAuthHandler(svc)

	body := bytes.NewBufferString(`{"provider_uid":"ext-1"}`)
	c, _ := newTestContext(t, http.MethodPost, "/login", body, "application/json")

	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if svc.loginIn.ProviderUID != "ext-1" {
		t.Fatalf("provider uid = %q", svc.loginIn.ProviderUID)
	}
}

func TestAuthHandler_Login_DomainErrorPassthrough(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidCredentials})

	body := bytes.NewBufferString(`{"email":"a@b.c","password":"wrong"}`)
	c, _ := newTestContext(t, http.MethodPost, "/login", body, "application/json")

	// Domain errors ride through to the central error handler untouched.
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthHandler_Dashboard(t *testing.T) {
	svc := &stubAuthService{profile: &domain.Account{UID: "u1", Name: "Alice", Role: domain.RoleUser}}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/dashboard", nil, "")
	asClaims(c, "u1", domain.RoleUser)

	if err := h.Dashboard(c); err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	c2, _ := newTestContext(t, http.MethodGet, "/dashboard", nil, "")
	if code := httpStatus(t, h.Dashboard(c2)); code != http.StatusUnauthorized {
		t.Fatalf("no-claims status = %d, want 401", code)
	}
}
