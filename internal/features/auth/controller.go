package auth

import (
	"errors"
	"time"

	"career-console/internal/identity"
	"career-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

const stateCookie = "oauth_state"

type AuthController struct {
	AuthService AuthService
}

func NewAuthController(authService AuthService) *AuthController {
	return &AuthController{
		AuthService: authService,
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login godoc
// @Summary      Sign in
// @Description  Redirects the browser to the identity provider
// @Tags         auth
// @Success      302
// @Router       /api/auth/login [get]
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	loginURL, state := ctrl.AuthService.BeginLogin()
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect(loginURL, fiber.StatusFound)
}

// Callback godoc
// @Summary      Complete sign in
// @Description  Exchanges the authorization code for tokens
// @Tags         auth
// @Produce      json
// @Param        code query string true "Authorization code"
// @Param        state query string true "Login state"
// @Success      200  {object} TokenResponse
// @Failure      400  {object} map[string]interface{}
// @Failure      401  {object} map[string]interface{}
// @Router       /api/auth/callback [get]
func (ctrl *AuthController) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing authorization code",
		})
	}

	resp, err := ctrl.AuthService.CompleteLogin(c.Context(), code, c.Query("state"), c.Cookies(stateCookie))
	c.ClearCookie(stateCookie)
	if errors.Is(err, ErrInvalidState) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(resp)
}

// Refresh godoc
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RefreshRequest true "Refresh token"
// @Success      200  {object} TokenResponse
// @Failure      401  {object} map[string]interface{}
// @Router       /api/auth/refresh [post]
func (ctrl *AuthController) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	resp, err := ctrl.AuthService.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(resp)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object} identity.User
// @Failure      401  {object} map[string]interface{}
// @Router       /api/auth/me [get]
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	user, ok := sess.CurrentUser()
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": identity.ErrNotAuthenticated.Error()})
	}
	return c.JSON(user)
}

// Logout godoc
// @Summary      Sign out
// @Description  Redirects the browser to the identity provider's logout page
// @Tags         auth
// @Param        return_to query string false "Where to land after logout"
// @Success      302
// @Router       /api/auth/logout [get]
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	return c.Redirect(ctrl.AuthService.LogoutURL(c.Query("return_to", "/")), fiber.StatusFound)
}
