package sessionsrv_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/gatekeeper/pkg/errx"
	"github.com/Abraxas-365/gatekeeper/pkg/session"
	"github.com/Abraxas-365/gatekeeper/pkg/session/sessionsrv"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *fixture) {
	t.Helper()
	f := newFixture(t, nil)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *errx.Error
			if errx.As(err, &e) {
				return c.Status(e.HTTPStatus).JSON(e)
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	sessionsrv.NewHandlers(f.svc, 15*time.Minute).RegisterRoutes(app)

	middleware := session.NewTokenMiddleware(f.tokens)
	app.Get("/me", middleware.Authenticate(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"email": session.ClaimsFromLocals(c).Subject})
	})

	return app, f
}

func postJSON(t *testing.T, app *fiber.App, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestHTTP_SignupLoginLogoutFlow(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/signup", fiber.Map{
		"email":    testEmail,
		"password": testPassword,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "User created successfully!", decodeBody(t, resp)["message"])

	resp = postJSON(t, app, "/login", fiber.Map{
		"email":    testEmail,
		"password": testPassword,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cookie := sessionCookie(t, resp)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)

	// The issued token authorizes both styles of access.
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, meResp.StatusCode)
	require.Equal(t, testEmail, decodeBody(t, meResp)["email"])

	resp = postJSON(t, app, "/verify-token", fiber.Map{"token": cookie.Value})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, testEmail, decodeBody(t, resp)["subject"])

	resp = postJSON(t, app, "/logout", nil, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cleared := sessionCookie(t, resp)
	require.Empty(t, cleared.Value)

	// Logout has real effect: the same token no longer verifies.
	resp = postJSON(t, app, "/verify-token", fiber.Map{"token": cookie.Value})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHTTP_SignupConflict(t *testing.T) {
	app, _ := newTestApp(t)
	body := fiber.Map{"email": testEmail, "password": testPassword}

	resp := postJSON(t, app, "/signup", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/signup", body)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestHTTP_SignupRejectsWeakPassword(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/signup", fiber.Map{"email": testEmail, "password": "short"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_LoginIncorrectCredentials(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/signup", fiber.Map{"email": testEmail, "password": testPassword})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/login", fiber.Map{"email": testEmail, "password": "Wrong456789!"})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, app, "/login", fiber.Map{"email": "nobody@example.com", "password": testPassword})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHTTP_TwoFAFlow(t *testing.T) {
	app, f := newTestApp(t)

	resp := postJSON(t, app, "/signup", fiber.Map{
		"email":       testEmail,
		"password":    testPassword,
		"requires2FA": true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/login", fiber.Map{"email": testEmail, "password": testPassword})
	require.Equal(t, fiber.StatusPartialContent, resp.StatusCode)
	body := decodeBody(t, resp)
	attemptID, _ := body["loginAttemptId"].(string)
	require.NotEmpty(t, attemptID)
	require.Empty(t, resp.Cookies(), "no session cookie before the second factor")

	code := f.sender.lastCode(t)
	resp = postJSON(t, app, "/verify-2fa", fiber.Map{
		"email":          testEmail,
		"loginAttemptId": attemptID,
		"2FACode":        code,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotEmpty(t, sessionCookie(t, resp).Value)

	// Replay of the consumed code.
	resp = postJSON(t, app, "/verify-2fa", fiber.Map{
		"email":          testEmail,
		"loginAttemptId": attemptID,
		"2FACode":        code,
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHTTP_LogoutWithoutCookie(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/logout", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_ProtectedRouteRejectsAnonymous(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
