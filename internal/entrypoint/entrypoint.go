package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nakulp007/amplify-semanticui-auth/internal/auth"
	"github.com/nakulp007/amplify-semanticui-auth/internal/config"
	"github.com/nakulp007/amplify-semanticui-auth/internal/database"
	"github.com/nakulp007/amplify-semanticui-auth/internal/database/audit"
	http_controllers "github.com/nakulp007/amplify-semanticui-auth/internal/http"
	"github.com/nakulp007/amplify-semanticui-auth/internal/identity"
	"github.com/nakulp007/amplify-semanticui-auth/internal/scheduler"
	"github.com/nakulp007/amplify-semanticui-auth/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Scratch v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	auditRepo := audit.NewRepository(db.DB)

	// Select the identity provider. A configured endpoint selects the
	// Cognito-compatible client; without one, users live in process
	// memory and confirmation codes go to the log.
	var provider identity.Provider
	if cfg.Identity.Endpoint != "" {
		log.Printf("Identity provider: %s", cfg.Identity.Endpoint)
		provider = identity.NewCognitoClient(cfg.Identity.Endpoint, cfg.Identity.ClientID, cfg.Identity.Timeout)
	} else {
		log.Printf("WARNING: no identity endpoint configured, using in-memory provider (development only)")
		memory := identity.NewMemoryProvider()
		memory.LogCodes = true
		provider = memory
	}

	// Get underlying SQL DB for session store
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	// Use the configured CSRF secret, or generate an ephemeral one
	sessionSecret := cfg.Auth.SessionSecret
	if sessionSecret == "" {
		sessionSecret, err = auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}
	csrfSecret, err := auth.DecodeSessionSecret(sessionSecret)
	if err != nil {
		log.Fatalf("Invalid AUTH_SESSION_SECRET: %v", err)
	}

	attempts := auth.NewAttemptStore(cfg.Auth.SignupAttemptTTL)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupAuditEventsQueue(auditRepo),
			tasks.NewSweepSignupAttemptsQueue(attempts),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		maintenance = scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance.Schedule, cfg.Maintenance.AuditRetentionDays)
		if err := maintenance.Start(); err != nil {
			log.Fatalf("Failed to start maintenance scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Provider:       provider,
		Database:       db,
		Audit:          auditRepo,
		SessionManager: sessionManager,
		Attempts:       attempts,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
