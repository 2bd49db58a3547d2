package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"career-console/internal/identity"
	"career-console/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(skipAuth bool) *fiber.App {
	app := fiber.New()
	app.Use(AuthMiddleware(skipAuth, "s3cret"))
	app.Get("/me", func(c *fiber.Ctx) error {
		sess, ok := SessionFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		user, _ := sess.CurrentUser()
		return c.SendString(user.Email)
	})
	return app
}

func token(t *testing.T, secret string) string {
	return tokenFor(t, secret, "ana@example.com")
}

func tokenFor(t *testing.T, secret, email string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, utils.UserClaims{Email: email}).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		skipAuth bool
		target   string
		header   string
		status   int
	}{
		{name: "skip auth injects dev user", skipAuth: true, target: "/me", status: fiber.StatusOK},
		{name: "missing token", target: "/me", status: fiber.StatusUnauthorized},
		{name: "malformed header", target: "/me", header: "Token abc", status: fiber.StatusUnauthorized},
		{name: "wrong signature", target: "/me", header: "Bearer " + token(t, "other"), status: fiber.StatusUnauthorized},
		{name: "valid header", target: "/me", header: "Bearer " + token(t, "s3cret"), status: fiber.StatusOK},
		{name: "valid query token", target: "/me?access_token=" + token(t, "s3cret"), status: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := newAuthApp(tt.skipAuth).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAuthMiddlewareSessionOutlivesRequest(t *testing.T) {
	var kept []identity.Session
	app := fiber.New()
	app.Use(AuthMiddleware(false, "s3cret"))
	app.Get("/me", func(c *fiber.Ctx) error {
		sess, _ := SessionFrom(c)
		kept = append(kept, sess)
		return c.SendStatus(fiber.StatusOK)
	})

	first := tokenFor(t, "s3cret", "ana@example.com")
	second := tokenFor(t, "s3cret", "bob@example.com")

	// header and query paths both read from request buffers fiber reuses
	targets := []struct{ url, header string }{
		{url: "/me", header: "Bearer " + first},
		{url: "/me", header: "Bearer " + second},
		{url: "/me?access_token=" + first},
		{url: "/me?access_token=" + second},
	}
	for _, tt := range targets {
		req := httptest.NewRequest("GET", tt.url, nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	require.Len(t, kept, 4)
	for i, want := range []string{first, second, first, second} {
		got, err := kept[i].Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got, "session %d", i)
	}
	user, _ := kept[0].CurrentUser()
	assert.Equal(t, "ana@example.com", user.Email)
}
