package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nakulp007/amplify-semanticui-auth/internal/auth"
)

// ViewController serves the plain pages that carry no flow logic of
// their own.
type ViewController struct {
	version string
}

func NewViewController(version string) *ViewController {
	return &ViewController{version: version}
}

// HomePage renders the landing page for everyone; the template varies
// its menu on the resolved auth state.
// GET /
func (vc *ViewController) HomePage(c *gin.Context) {
	state := auth.StateFrom(c)

	data := gin.H{
		"Title":     "Scratch",
		"State":     state,
		"Version":   vc.version,
		"CSRFToken": auth.GetCSRFToken(c),
	}
	// CSRF failures bounce back with an error in the query string
	if msg := c.Query("error"); msg != "" {
		data["Error"] = msg
	}
	c.HTML(http.StatusOK, "home", data)
}

// NotFound renders the catch-all page for unknown paths.
func (vc *ViewController) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "notfound", gin.H{
		"Title":     "Not Found",
		"State":     auth.StateFrom(c),
		"CSRFToken": auth.GetCSRFToken(c),
	})
}
