package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identityforge/identity-api/internal/api/middleware"
	"github.com/identityforge/identity-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty subject
// proves the middleware ran. A handler wired onto a protected route without
// the middleware is a routing bug — reject with 401 rather than serving an
// unauthenticated request.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok || principal.Subject == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return principal, nil
}
