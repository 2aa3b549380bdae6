package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
	"github.com/civicgrid/civic-report-api/internal/core/ports"
)

// FeedbackHandler handles sector feedback submission and listing.
type FeedbackHandler struct {
	service ports.FeedbackService
}

func NewFeedbackHandler(service ports.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

type createFeedbackRequest struct {
	Location    string `json:"location" validate:"required"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Sector      string `json:"sector" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type feedbackListResponse struct {
	Feedbacks []*domain.Feedback `json:"feedbacks"`
}

// Create handles POST /feedback. A non-numeric rating fails the JSON bind;
// a numeric one outside [1,5] fails validation. Both return 400.
//
// @Summary      Submit sector feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createFeedbackRequest  true  "Feedback details"
// @Success      201   {object}  domain.Feedback
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /feedback [post]
func (h *FeedbackHandler) Create(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	feedback, err := h.service.Create(c.Request().Context(), ports.CreateFeedbackInput{
		OwnerUID:    uid,
		Location:    req.Location,
		Rating:      req.Rating,
		Sector:      req.Sector,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, feedback)
}

// ListMine handles GET /my-feedback.
//
// @Summary      List the caller's feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  feedbackListResponse
// @Failure      401  {object}  map[string]string
// @Router       /my-feedback [get]
func (h *FeedbackHandler) ListMine(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	feedbacks, err := h.service.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedbackListResponse{Feedbacks: feedbacks})
}

// ListAll handles GET /feedback. Admin and superadmin only.
//
// @Summary      List all feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  feedbackListResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /feedback [get]
func (h *FeedbackHandler) ListAll(c echo.Context) error {
	_, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	feedbacks, err := h.service.ListAll(c.Request().Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedbackListResponse{Feedbacks: feedbacks})
}
