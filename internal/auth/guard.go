package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Policy is a route's access policy.
type Policy int

const (
	// PolicyOpen renders the target unconditionally.
	PolicyOpen Policy = iota
	// PolicyPublicOnly redirects authenticated visitors to the root path
	// instead of rendering (keeps signed-in users off login/signup).
	PolicyPublicOnly
)

// Route declares one guarded route. Immutable once registered.
type Route struct {
	Method  string
	Path    string
	Policy  Policy
	Handler gin.HandlerFunc
}

// Guard wraps a route's handler with its policy. The policy branch is
// taken here, at registration time, not per request.
func Guard(route Route) gin.HandlerFunc {
	switch route.Policy {
	case PolicyPublicOnly:
		return func(c *gin.Context) {
			state := resolvedState(c)
			if state == nil {
				return
			}
			if state.Authenticated {
				c.Redirect(http.StatusFound, "/")
				c.Abort()
				return
			}
			route.Handler(c)
		}
	default:
		return func(c *gin.Context) {
			if resolvedState(c) == nil {
				return
			}
			route.Handler(c)
		}
	}
}

// Register installs guarded routes on the router.
func Register(router gin.IRoutes, routes []Route) {
	for _, route := range routes {
		router.Handle(route.Method, route.Path, Guard(route))
	}
}

// resolvedState returns the request's authentication state, aborting
// the request if bootstrap never ran or never resolved. That only
// happens on middleware-ordering mistakes, and failing loudly beats
// rendering a view against unknown state.
func resolvedState(c *gin.Context) *State {
	state := StateFrom(c)
	if state == nil || state.Authenticating {
		c.AbortWithStatus(http.StatusInternalServerError)
		return nil
	}
	return state
}
