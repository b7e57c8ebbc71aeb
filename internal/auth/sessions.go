package auth

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/nakulp007/amplify-semanticui-auth/internal/config"
)

// Session data keys
const (
	SessionKeyProviderToken = "provider_token"
	SessionKeyEmail         = "email"
	SessionKeySignupAttempt = "signup_attempt_id"
)

// SessionManager wraps scs.SessionManager with application-specific
// methods. The session stores the provider's opaque token and the email
// it was issued for; whether the token still represents a live session
// is the provider's call, made at bootstrap.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager backed by the
// given SQLite connection.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	// Create sessions table if it doesn't exist
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// SignIn stores a freshly issued provider token in the session. The
// token is renewed first to prevent session fixation.
func (sm *SessionManager) SignIn(r *http.Request, email, providerToken string) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	sm.Put(r.Context(), SessionKeyProviderToken, providerToken)
	sm.Put(r.Context(), SessionKeyEmail, email)

	return nil
}

// SignOut removes all session data and invalidates the session. Any
// transient UI flags the session carried go with it.
func (sm *SessionManager) SignOut(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// ProviderToken retrieves the stored provider session token.
// Returns "" when nobody is signed in.
func (sm *SessionManager) ProviderToken(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyProviderToken)
}

// Email retrieves the email the current provider token was issued for.
func (sm *SessionManager) Email(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyEmail)
}

// ClearProviderToken drops a token the provider no longer recognizes.
func (sm *SessionManager) ClearProviderToken(r *http.Request) {
	sm.Remove(r.Context(), SessionKeyProviderToken)
	sm.Remove(r.Context(), SessionKeyEmail)
}

// SetSignupAttemptID binds an in-memory signup attempt to this session.
func (sm *SessionManager) SetSignupAttemptID(r *http.Request, id string) {
	sm.Put(r.Context(), SessionKeySignupAttempt, id)
}

// SignupAttemptID returns the bound signup attempt ID, or "".
func (sm *SessionManager) SignupAttemptID(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeySignupAttempt)
}

// ClearSignupAttemptID unbinds the signup attempt from this session.
func (sm *SessionManager) ClearSignupAttemptID(r *http.Request) {
	sm.Remove(r.Context(), SessionKeySignupAttempt)
}
