// internal/api/middleware.go
package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIKeyHeader carries the shared secret on mutating requests.
const APIKeyHeader = "X-Api-Key"

// Verifier is the pluggable credential check guarding mutating endpoints.
// The default implementation compares a shared secret; stronger schemes can
// be substituted without touching the handlers.
type Verifier interface {
	// Verify inspects the request and returns nil when access is allowed.
	Verify(ctx echo.Context) error
}

// SecretVerifier compares the X-Api-Key header against a configured secret.
type SecretVerifier struct {
	secret string
}

// NewSecretVerifier creates the default shared-secret verifier.
func NewSecretVerifier(secret string) *SecretVerifier {
	return &SecretVerifier{secret: secret}
}

// Verify allows the request when the header matches the secret in constant
// time. An empty configured secret disables the check.
func (v *SecretVerifier) Verify(ctx echo.Context) error {
	if v.secret == "" {
		return nil
	}

	provided := ctx.Request().Header.Get(APIKeyHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(v.secret)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing API key")
	}
	return nil
}

// AuthMiddleware rejects requests the verifier does not allow.
func (c *Controller) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if err := c.verifier.Verify(ctx); err != nil {
			c.apiLogger.Warn("unauthorized request",
				"path", ctx.Request().URL.Path,
				"ip", ctx.RealIP())
			return ctx.JSON(http.StatusUnauthorized, map[string]string{
				"error": "unauthorized",
			})
		}
		return next(ctx)
	}
}
