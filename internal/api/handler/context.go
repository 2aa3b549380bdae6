package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// fast-fails before any service call: uid must be present (proves the
// middleware ran) and the role must have parsed to a known value.
func ctxClaims(c echo.Context) (uid string, role domain.Role, err error) {
	uid, _ = c.Get("uid").(string)
	if uid == "" {
		return "", domain.RoleUnknown, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ = c.Get("role").(domain.Role)
	if role == domain.RoleUnknown {
		return "", domain.RoleUnknown, echo.NewHTTPError(http.StatusForbidden, "unrecognized role")
	}
	return uid, role, nil
}

// requestBaseURL reconstructs the scheme and host serving this request, used
// to absolutize stored image references at read time.
func requestBaseURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host
}
