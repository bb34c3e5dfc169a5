package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identityforge/identity-api/internal/api/metrics"
	"github.com/identityforge/identity-api/internal/core/domain"
	"github.com/identityforge/identity-api/internal/core/ports"
)

const bearerPrefix = "Bearer "

// principalKey is the echo context key under which Auth stores the principal.
const principalKey = "principal"

// BearerAuthenticator implements ports.RequestAuthenticator on top of a
// token codec. It is pure computation: no I/O, no mutation, safe for
// concurrent use.
type BearerAuthenticator struct {
	tokens ports.TokenCodec
	log    zerolog.Logger
}

func NewBearerAuthenticator(tokens ports.TokenCodec, log zerolog.Logger) *BearerAuthenticator {
	return &BearerAuthenticator{tokens: tokens, log: log}
}

// Authenticate derives a principal from an Authorization header value.
// The "Bearer " prefix is matched case-sensitively. A missing header, a
// malformed header, an empty token, and every token verification failure all
// return domain.ErrInvalidCredentials; the real cause is logged at debug
// level and never leaves the process.
func (a *BearerAuthenticator) Authenticate(authorizationHeader string) (domain.Principal, error) {
	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
		return domain.Principal{}, domain.ErrInvalidCredentials
	}

	token := strings.TrimSpace(strings.TrimPrefix(authorizationHeader, bearerPrefix))
	if token == "" {
		metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
		return domain.Principal{}, domain.ErrInvalidCredentials
	}

	claims, err := a.tokens.Verify(token, time.Now())
	if err != nil {
		a.log.Debug().Err(err).Msg("token rejected")
		metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
		return domain.Principal{}, domain.ErrInvalidCredentials
	}

	metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
	return domain.Principal{Subject: claims.Subject, Role: claims.Role}, nil
}

// Auth guards protected routes. On success the principal is stored in the
// echo context; on any failure the response is the uniform 401.
func Auth(authn ports.RequestAuthenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := authn.Authenticate(c.Request().Header.Get("Authorization"))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFromContext returns the principal stored by Auth, if any.
func PrincipalFromContext(c echo.Context) (domain.Principal, bool) {
	principal, ok := c.Get(principalKey).(domain.Principal)
	return principal, ok
}
