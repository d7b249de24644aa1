package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/services"
)

// SessionKey is the fiber.Ctx Locals key holding the *services.Session.
const SessionKey = "session"

// SessionResolver turns a bearer token into a session.
type SessionResolver interface {
	SessionFromToken(token string) (*services.Session, error)
}

// SessionFrom returns the session attached to the request, or nil.
func SessionFrom(c *fiber.Ctx) *services.Session {
	session, _ := c.Locals(SessionKey).(*services.Session)
	return session
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(auth SessionResolver, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		session, err := auth.SessionFromToken(tokenString)
		if err != nil {
			log.Debug("JWT validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(SessionKey, session)
		return c.Next()
	}
}

// OptionalSession attaches a session when the request carries a valid token
// and lets anonymous requests through untouched.
func OptionalSession(auth SessionResolver, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c); ok {
			session, err := auth.SessionFromToken(tokenString)
			if err != nil {
				log.Debug("Ignoring invalid session token", zap.Error(err))
			} else {
				c.Locals(SessionKey, session)
			}
		}
		return c.Next()
	}
}

// RedirectToSignIn sends requests without a valid session to signInPath
// with 303 See Other.
func RedirectToSignIn(auth SessionResolver, signInPath string, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Redirect(signInPath, fiber.StatusSeeOther)
		}
		session, err := auth.SessionFromToken(tokenString)
		if err != nil {
			log.Debug("Redirecting invalid session to sign-in", zap.Error(err))
			return c.Redirect(signInPath, fiber.StatusSeeOther)
		}
		c.Locals(SessionKey, session)
		return c.Next()
	}
}
