package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoshichaam/authportal/internal/middleware"
	"github.com/hoshichaam/authportal/internal/services"
)

// newTestApp mounts every route with the auth client pointed at upstream.
func newTestApp(t *testing.T, upstream http.Handler) *fiber.App {
	t.Helper()
	app, _ := newGatedApp(t, upstream)
	return app
}

// newGatedApp is newTestApp that also hands back the in-flight gate.
func newGatedApp(t *testing.T, upstream http.Handler) (*fiber.App, *gate) {
	t.Helper()
	if upstream == nil {
		upstream = http.NotFoundHandler()
	}
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	g := &gate{}
	return newApp(srv.URL, g), g
}

// newOfflineApp points the auth client at an address nobody listens on.
func newOfflineApp(t *testing.T) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()
	return newApp(baseURL, &gate{})
}

func newApp(baseURL string, g *gate) *fiber.App {
	client := services.NewAuthClient(baseURL, 2*time.Second)
	app := fiber.New()
	register(app, Deps{
		SignIn:      services.NewSignInService(client),
		SignUp:      services.NewSignUpService(client),
		Flash:       middleware.NewFlash("test-secret", false),
		Sessions:    NewSessionStore(time.Minute, false),
		CORSOrigins: "http://localhost:3000",
	}, g)
	return app
}

func formRequest(target string, form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

func jsonRequest(target, body string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

func getRequest(target string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}

func cookieNamed(resp *http.Response, name string) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, nil)
	resp, body := do(t, app, getRequest("/healthz"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}

func TestRootRedirectsToSignIn(t *testing.T) {
	app := newTestApp(t, nil)
	resp, _ := do(t, app, getRequest("/"))
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/signin", resp.Header.Get("Location"))
}

func TestAPIPreflightAllowsCredentials(t *testing.T) {
	app := newTestApp(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/signin", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, _ := do(t, app, req)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
