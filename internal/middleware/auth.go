package middleware

import (
	"strings"

	"career-console/internal/identity"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

// SessionKey is the Locals key holding the caller's identity.Session.
const SessionKey = "identity_session"

// DevUser is injected when authentication is skipped.
var DevUser = identity.User{Subject: "dev", Name: "Developer", Email: "dev@careercompass.local"}

// AuthMiddleware validates the caller's bearer token and injects an
// identity.Session into the request context. Websocket upgrades cannot set
// headers, so the token may also arrive as the access_token query parameter.
func AuthMiddleware(skipAuth bool, secret string) fiber.Handler {
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}

	return func(c *fiber.Ctx) error {
		if skipAuth {
			c.Locals(SessionKey, identity.Session(identity.NewStaticSession("dev-token", DevUser)))
			return c.Next()
		}

		token := c.Query("access_token")
		if authHeader := c.Get("Authorization"); authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid authorization header format",
				})
			}
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		// sessions outlive the request; detach the token from fiber's buffers
		sess, err := identity.NewBearerSession(fiberutils.CopyString(token), key)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(SessionKey, identity.Session(sess))
		return c.Next()
	}
}

// SessionFrom returns the session injected by AuthMiddleware.
func SessionFrom(c *fiber.Ctx) (identity.Session, bool) {
	sess, ok := c.Locals(SessionKey).(identity.Session)
	return sess, ok && sess != nil
}
