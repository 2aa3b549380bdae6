package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
	"github.com/civicgrid/civic-report-api/internal/core/ports"
)

// IssueHandler handles issue submission, listing, and status transitions.
type IssueHandler struct {
	service ports.IssueService
	files   ports.FileStore
}

func NewIssueHandler(service ports.IssueService, files ports.FileStore) *IssueHandler {
	return &IssueHandler{service: service, files: files}
}

type issueListResponse struct {
	Issues []*domain.Issue `json:"issues"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create handles POST /issues: multipart form with issue_name, location,
// description, and an optional image file. The image is flushed to disk
// before the record referencing it is written.
//
// @Summary      Report a new issue
// @Tags         issues
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        issue_name   formData  string  true   "Short issue title"
// @Param        location     formData  string  true   "Free-text location"
// @Param        description  formData  string  true   "Problem description"
// @Param        image        formData  file    false  "Optional photo"
// @Success      201  {object}  domain.Issue
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /issues [post]
func (h *IssueHandler) Create(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	input := ports.CreateIssueInput{
		OwnerUID:    uid,
		Name:        c.FormValue("issue_name"),
		Location:    c.FormValue("location"),
		Description: c.FormValue("description"),
	}

	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		src, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable image upload")
		}
		defer src.Close()

		ref, err := h.files.Save(c.Request().Context(), fh.Filename, src)
		if err != nil {
			return err
		}
		input.ImageRef = ref
	}

	issue, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}

	issue.Image = absoluteRef(issue.Image, requestBaseURL(c))
	return c.JSON(http.StatusCreated, issue)
}

// ListAll handles GET /issues. Admin only; the RBAC middleware gates the
// route and the service re-checks via the role policy.
//
// @Summary      List all issues
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  issueListResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /issues [get]
func (h *IssueHandler) ListAll(c echo.Context) error {
	_, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	issues, err := h.service.ListAll(c.Request().Context(), role, requestBaseURL(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, issueListResponse{Issues: issues})
}

// ListMine handles GET /my-issues.
//
// @Summary      List the caller's issues
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  issueListResponse
// @Failure      401  {object}  map[string]string
// @Router       /my-issues [get]
func (h *IssueHandler) ListMine(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	issues, err := h.service.ListByOwner(c.Request().Context(), uid, requestBaseURL(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, issueListResponse{Issues: issues})
}

// SetStatus handles PATCH /issues/:id/status.
//
// @Summary      Transition an issue's status
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Issue id"
// @Param        body  body      setStatusRequest  true  "New status"
// @Success      200   {object}  domain.Issue
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /issues/{id}/status [patch]
func (h *IssueHandler) SetStatus(c echo.Context) error {
	uid, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	issue, err := h.service.SetStatus(c.Request().Context(), ports.SetStatusInput{
		IssueID:   c.Param("id"),
		Status:    domain.Status(req.Status),
		Role:      role,
		CallerUID: uid,
	}, requestBaseURL(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, issue)
}

// absoluteRef mirrors the service-side rewrite for the single issue returned
// straight from creation, where the stored reference is still relative.
func absoluteRef(ref, baseURL string) string {
	if ref == "" || strings.HasPrefix(ref, "http") {
		return ref
	}
	return baseURL + ref
}
