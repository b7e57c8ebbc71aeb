package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nakulp007/amplify-semanticui-auth/internal/auth"
	"github.com/nakulp007/amplify-semanticui-auth/internal/database"
	"github.com/nakulp007/amplify-semanticui-auth/internal/identity"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db       *database.Database
	provider identity.Provider
	attempts *auth.AttemptStore
	version  string
}

func NewHealthController(db *database.Database, provider identity.Provider, attempts *auth.AttemptStore, version string) *HealthController {
	return &HealthController{
		db:       db,
		provider: provider,
		attempts: attempts,
		version:  version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	// Report which kind of identity provider is serving sign-ins
	switch h.provider.(type) {
	case *identity.CognitoClient:
		checks["identity_provider"] = "remote"
	case *identity.MemoryProvider:
		checks["identity_provider"] = "in-memory"
	case nil:
		checks["identity_provider"] = "not configured"
		status = "unhealthy"
	default:
		checks["identity_provider"] = "custom"
	}

	if h.attempts != nil {
		checks["signup_attempts"] = fmt.Sprintf("%d pending", h.attempts.Len())
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
