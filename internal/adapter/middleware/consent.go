package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Verifier resolves a consent token to the account id it was issued for.
type Verifier interface {
	Verify(raw string) (string, error)
}

// RequireConsent guards /accounts/:account_id routes. The bearer token must
// have been issued for the account in the path.
func RequireConsent(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing consent token"})
			}
			subject, err := v.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid consent token"})
			}
			if subject != c.Param("account_id") {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "consent does not cover this account"})
			}
			return next(c)
		}
	}
}

func bearer(h string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
