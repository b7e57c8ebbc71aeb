package http

import (
	"github.com/nakulp007/amplify-semanticui-auth/internal/auth"
	"github.com/nakulp007/amplify-semanticui-auth/internal/database"
	"github.com/nakulp007/amplify-semanticui-auth/internal/database/audit"
	"github.com/nakulp007/amplify-semanticui-auth/internal/identity"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Provider identity.Provider
	Database *database.Database
	Audit    *audit.Repository

	// Session and signup flow state
	SessionManager *auth.SessionManager
	Attempts       *auth.AttemptStore

	// CSRF protection (disabled when the secret is empty)
	CSRFSecret    []byte
	SecureCookies bool

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
