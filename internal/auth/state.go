package auth

import "github.com/gin-gonic/gin"

// ContextKeyState is the Gin context key under which the resolved
// authentication state is stored.
const ContextKeyState = "auth_state"

// State is the authentication state of one browser session for the
// duration of one request. It has exactly two writers: the bootstrapper,
// which resolves it before any handler runs, and the flow controller on
// login/logout success. Everything else only reads it.
type State struct {
	Authenticated  bool
	Authenticating bool

	// BootstrapError carries a bootstrap failure message for the views
	// to surface. Empty in the expected no-session case.
	BootstrapError string
}

// SetAuthenticated is the only permitted way to change Authenticated
// outside bootstrap. Safe to call repeatedly with the same value.
func (s *State) SetAuthenticated(authenticated bool) {
	s.Authenticated = authenticated
}

// StateFrom returns the request's resolved authentication state, or nil
// if the bootstrapper has not run. Guards treat nil as a wiring error.
func StateFrom(c *gin.Context) *State {
	if v, exists := c.Get(ContextKeyState); exists {
		if state, ok := v.(*State); ok {
			return state
		}
	}
	return nil
}
