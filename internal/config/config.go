package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Identity
		Auth
		Database
		UI
		Tasks
		Maintenance
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	// Identity configures the remote identity provider. When Endpoint is
	// empty the server falls back to the in-memory provider, which is only
	// suitable for local development.
	Identity struct {
		Endpoint string
		ClientID string
		Timeout  time.Duration
	}
	Auth struct {
		SessionSecret    string
		SessionLifetime  time.Duration
		SecureCookies    bool // Set to false for local dev without HTTPS
		SignupAttemptTTL time.Duration
	}
	Database struct {
		Path string
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Maintenance struct {
		Schedule           string // Cron format: "30 * * * *" = hourly at :30
		AuditRetentionDays int    // Days to keep audit events (default: 30)
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")

	// Identity provider defaults
	v.SetDefault("identity_endpoint", "")
	v.SetDefault("identity_client_id", "")
	v.SetDefault("identity_timeout", "10s")

	// Auth defaults
	v.SetDefault("auth_session_secret", "") // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_secure_cookies", true) // HTTPS-only cookies
	v.SetDefault("auth_signup_attempt_ttl", "1h")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Maintenance defaults
	v.SetDefault("maintenance_schedule", "30 * * * *") // Hourly at :30
	v.SetDefault("audit_retention_days", 30)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Identity: Identity{
			Endpoint: v.GetString("IDENTITY_ENDPOINT"),
			ClientID: v.GetString("IDENTITY_CLIENT_ID"),
			Timeout:  v.GetDuration("IDENTITY_TIMEOUT"),
		},
		Auth: Auth{
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			SignupAttemptTTL: v.GetDuration("AUTH_SIGNUP_ATTEMPT_TTL"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Maintenance: Maintenance{
			Schedule:           v.GetString("MAINTENANCE_SCHEDULE"),
			AuditRetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
