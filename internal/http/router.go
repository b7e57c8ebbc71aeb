package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nakulp007/amplify-semanticui-auth/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// HSTS only makes sense once cookies are HTTPS-only
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	router.Use(cfg.SessionManager.SessionLoadSave())

	// Resolve the auth state before any handler runs
	bootstrapper := auth.NewBootstrapper(cfg.Provider, cfg.SessionManager, cfg.Audit)
	router.Use(bootstrapper.Middleware())

	// Load HTML templates
	tmpl := template.Must(template.New("").ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	// Serve static files
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	views := NewViewController(cfg.Version)
	flows := auth.NewFlowController(cfg.Provider, cfg.SessionManager, cfg.Attempts, cfg.Audit)
	healthController := NewHealthController(cfg.Database, cfg.Provider, cfg.Attempts, cfg.Version)
	auditController := NewAuditController(cfg.Audit, cfg.SessionManager)

	routes := append([]auth.Route{
		{Method: http.MethodGet, Path: "/", Policy: auth.PolicyOpen, Handler: views.HomePage},
		{Method: http.MethodGet, Path: "/health", Policy: auth.PolicyOpen, Handler: healthController.Status},
		{Method: http.MethodGet, Path: "/api/audit", Policy: auth.PolicyOpen, Handler: auditController.Recent},
	}, flows.Routes()...)
	auth.Register(router, routes)

	// Unknown paths fall through to the not-found view, matched last
	router.NoRoute(views.NotFound)

	return router
}
