package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to deterministic status codes and renders the {"error": msg}
// envelope. Upstream failures surface their originating message with a 500;
// anything unrecognised is logged and returned as a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrIssueNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrIdentityNotFound):
		return http.StatusNotFound, err.Error()
	// Identity-gateway and provisioning failures keep their originating
	// message on the 500 path.
	case errors.Is(err, domain.ErrIdentityExists),
		errors.Is(err, domain.ErrPartialProvisioning):
		return http.StatusInternalServerError, err.Error()
	}

	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		log.Error().Err(ue.Err).Str("op", ue.Op).Str("path", c.Path()).Msg("upstream failure")
		return http.StatusInternalServerError, ue.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
