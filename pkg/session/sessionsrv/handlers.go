package sessionsrv

import (
	"time"

	"github.com/Abraxas-365/gatekeeper/pkg/session"
	"github.com/gofiber/fiber/v2"
)

// Handlers exposes the session lifecycle over HTTP.
type Handlers struct {
	svc      *Service
	tokenTTL time.Duration
}

// NewHandlers creates the HTTP surface for the orchestrator. tokenTTL bounds
// the session cookie lifetime.
func NewHandlers(svc *Service, tokenTTL time.Duration) *Handlers {
	return &Handlers{svc: svc, tokenTTL: tokenTTL}
}

// RegisterRoutes mounts the auth endpoints on the app.
func (h *Handlers) RegisterRoutes(app *fiber.App) {
	app.Post("/signup", h.Signup)
	app.Post("/login", h.Login)
	app.Post("/verify-2fa", h.Verify2FA)
	app.Post("/logout", h.Logout)
	app.Post("/verify-token", h.VerifyToken)
}

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Requires2FA bool   `json:"requires2FA"`
}

// Signup handles POST /signup.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return session.ErrInvalidCredentials()
	}

	if err := h.svc.Signup(c.Context(), req.Email, req.Password, req.Requires2FA); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully!",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login. Without 2FA the session token is set as an
// HTTPOnly cookie and the call returns 200. With 2FA the call returns
// 206 Partial Content carrying the login attempt ID, never the code.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return session.ErrInvalidCredentials()
	}

	result, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	if result.TwoFARequired {
		return c.Status(fiber.StatusPartialContent).JSON(fiber.Map{
			"message":        "2FA required",
			"loginAttemptId": result.LoginAttemptID,
		})
	}

	h.setSessionCookie(c, result.Token)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
	})
}

type verify2FARequest struct {
	Email          string `json:"email"`
	LoginAttemptID string `json:"loginAttemptId"`
	Code           string `json:"2FACode"`
}

// Verify2FA handles POST /verify-2fa, completing a pending challenge.
func (h *Handlers) Verify2FA(c *fiber.Ctx) error {
	var req verify2FARequest
	if err := c.BodyParser(&req); err != nil {
		return session.ErrInvalidCredentials()
	}

	token, err := h.svc.Verify2FA(c.Context(), req.Email, req.LoginAttemptID, req.Code)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
	})
}

// Logout handles POST /logout. The token comes from the session cookie; on
// success the cookie is cleared so the client discards its copy.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	token := c.Cookies(session.CookieName)

	if err := h.svc.Logout(c.Context(), token); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out",
	})
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

// VerifyToken handles POST /verify-token for resource servers.
func (h *Handlers) VerifyToken(c *fiber.Ctx) error {
	var req verifyTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return session.ErrInvalidToken()
	}

	claims, err := h.svc.VerifyToken(c.Context(), req.Token)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Token valid",
		"subject": claims.Subject,
	})
}

func (h *Handlers) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Expires:  time.Now().Add(h.tokenTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
