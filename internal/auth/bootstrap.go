package auth

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/nakulp007/amplify-semanticui-auth/internal/entities"
	"github.com/nakulp007/amplify-semanticui-auth/internal/identity"
)

// Recorder persists audit events. Satisfied by the audit repository;
// a nil Recorder disables auditing.
type Recorder interface {
	LogEvent(event *entities.AuditEvent) error
}

// Bootstrapper resolves the session's authentication state before any
// handler runs. No gated view can observe an unresolved state: the
// middleware sets Authenticating to false exactly once, after the
// provider check settles and before c.Next().
type Bootstrapper struct {
	provider identity.Provider
	sessions *SessionManager
	audit    Recorder
}

func NewBootstrapper(provider identity.Provider, sessions *SessionManager, audit Recorder) *Bootstrapper {
	return &Bootstrapper{
		provider: provider,
		sessions: sessions,
		audit:    audit,
	}
}

// Middleware returns the bootstrap handler. It must be registered after
// SessionLoadSave and before every route.
func (b *Bootstrapper) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := &State{Authenticating: true}

		token := b.sessions.ProviderToken(c.Request)
		_, err := b.provider.CurrentSession(c.Request.Context(), token)
		switch {
		case err == nil:
			state.Authenticated = true
		case errors.Is(err, identity.ErrNoCurrentSession):
			// Expected when nobody is signed in. A token the provider no
			// longer recognizes is dropped so later requests short-circuit.
			if token != "" {
				b.sessions.ClearProviderToken(c.Request)
			}
		default:
			state.BootstrapError = err.Error()
			log.Printf("WARNING: session bootstrap failed: %v", err)
			b.record(c, err)
		}

		state.Authenticating = false
		c.Set(ContextKeyState, state)
		c.Next()
	}
}

func (b *Bootstrapper) record(c *gin.Context, err error) {
	if b.audit == nil {
		return
	}

	event := &entities.AuditEvent{
		Email:       b.sessions.Email(c.Request),
		EventType:   entities.AuditEventBootstrap,
		Description: "Session check failed",
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		Status:      entities.AuditStatusFailed,
		ErrorMsg:    err.Error(),
	}
	if logErr := b.audit.LogEvent(event); logErr != nil {
		log.Printf("WARNING: failed to record audit event: %v", logErr)
	}
}
