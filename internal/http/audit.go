package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nakulp007/amplify-semanticui-auth/internal/auth"
	"github.com/nakulp007/amplify-semanticui-auth/internal/database/audit"
	"github.com/nakulp007/amplify-semanticui-auth/internal/entities"
)

type AuditController struct {
	repo     *audit.Repository
	sessions *auth.SessionManager
}

func NewAuditController(repo *audit.Repository, sessions *auth.SessionManager) *AuditController {
	return &AuditController{
		repo:     repo,
		sessions: sessions,
	}
}

// Recent returns the signed-in user's recent auth events.
// GET /api/audit
func (ac *AuditController) Recent(c *gin.Context) {
	state := auth.StateFrom(c)
	if state == nil || !state.Authenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit := 25
	offset := (page - 1) * limit

	email := ac.sessions.Email(c.Request)

	var (
		events []entities.AuditEvent
		total  int64
		err    error
	)
	if eventType := c.Query("type"); eventType != "" {
		events, total, err = ac.repo.GetEventsByType(entities.AuditEventType(eventType), limit, offset)
	} else {
		events, total, err = ac.repo.GetEvents(email, limit, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"page":   page,
	})
}
