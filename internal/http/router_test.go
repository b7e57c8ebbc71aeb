package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakulp007/amplify-semanticui-auth/internal/auth"
	"github.com/nakulp007/amplify-semanticui-auth/internal/config"
	"github.com/nakulp007/amplify-semanticui-auth/internal/database"
	"github.com/nakulp007/amplify-semanticui-auth/internal/database/audit"
	"github.com/nakulp007/amplify-semanticui-auth/internal/identity"
)

const testPages = `
{{define "home"}}home authenticated={{.State.Authenticated}}{{end}}
{{define "login"}}login{{end}}
{{define "signup"}}signup{{end}}
{{define "signup_confirm"}}confirm{{end}}
{{define "notfound"}}not found{{end}}`

func setupRouter(t *testing.T) (*gin.Engine, *identity.MemoryProvider) {
	return setupRouterWith(t, nil)
}

func setupRouterWith(t *testing.T, mutate func(*RouterConfig)) (*gin.Engine, *identity.MemoryProvider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	templates := filepath.Join(dir, "templates")
	require.NoError(t, os.Mkdir(templates, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(templates, "pages.html"), []byte(testPages), 0o644))

	db, err := database.NewDatabase(filepath.Join(dir, "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	sessions, err := auth.NewSessionManager(sqlDB, config.Auth{SessionLifetime: time.Hour})
	require.NoError(t, err)

	provider := identity.NewMemoryProvider()

	cfg := RouterConfig{
		Provider:       provider,
		Database:       db,
		Audit:          audit.NewRepository(db.DB),
		SessionManager: sessions,
		Attempts:       auth.NewAttemptStore(0),
		TemplatesPath:  templates,
		Version:        "test",
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewRouter(cfg), provider
}

func TestRouter_HomePage(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "authenticated=false")
}

func TestRouter_NotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/no/such/page", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestRouter_HSTSWhenCookiesAreSecure(t *testing.T) {
	router, _ := setupRouterWith(t, func(cfg *RouterConfig) { cfg.SecureCookies = true })

	// Behind a TLS-terminating proxy the forwarded proto selects HSTS
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=")

	router, _ = setupRouter(t)
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestRouter_AuditRequiresAuthentication(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/audit", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_LoginFlow(t *testing.T) {
	router, provider := setupRouter(t)

	ctx := context.Background()
	_, err := provider.SignUp(ctx, "admin@example.com", "Passw0rd!")
	require.NoError(t, err)
	require.NoError(t, provider.ConfirmSignUp(ctx, "admin@example.com", provider.ConfirmationCode("admin@example.com")))

	form := url.Values{"email": {"admin@example.com"}, "password": {"Passw0rd!"}}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// Carry the session cookie into the next request
	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/", nil)
	for _, cookie := range w.Result().Cookies() {
		req2.AddCookie(cookie)
	}
	router.ServeHTTP(w2, req2)

	assert.Contains(t, w2.Body.String(), "authenticated=true")
}
