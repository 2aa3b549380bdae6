package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
	"github.com/civicgrid/civic-report-api/internal/core/ports"
)

// SuperadminHandler handles admin provisioning and account reporting.
type SuperadminHandler struct {
	service ports.AdminService
}

func NewSuperadminHandler(service ports.AdminService) *SuperadminHandler {
	return &SuperadminHandler{service: service}
}

type createAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type accountListResponse struct {
	Users []*domain.Account `json:"users"`
}

type dashboardResponse struct {
	Stats *domain.RoleCounts `json:"stats"`
}

// CreateAdmin handles POST /superadmin/create-admin.
//
// @Summary      Provision an admin account
// @Tags         superadmin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAdminRequest  true  "Admin account details"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /superadmin/create-admin [post]
func (h *SuperadminHandler) CreateAdmin(c echo.Context) error {
	_, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.service.CreateAdmin(c.Request().Context(), role, ports.CreateAdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, account)
}

// ListAccounts handles GET /superadmin/users.
//
// @Summary      List all accounts
// @Tags         superadmin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountListResponse
// @Failure      403  {object}  map[string]string
// @Router       /superadmin/users [get]
func (h *SuperadminHandler) ListAccounts(c echo.Context) error {
	_, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	accounts, err := h.service.ListAccounts(c.Request().Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountListResponse{Users: accounts})
}

// Dashboard handles GET /superadmin/dashboard.
//
// @Summary      Role counts
// @Tags         superadmin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      403  {object}  map[string]string
// @Router       /superadmin/dashboard [get]
func (h *SuperadminHandler) Dashboard(c echo.Context) error {
	_, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	counts, err := h.service.DashboardCounts(c.Request().Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{Stats: counts})
}
