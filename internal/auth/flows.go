package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nakulp007/amplify-semanticui-auth/internal/entities"
	"github.com/nakulp007/amplify-semanticui-auth/internal/identity"
)

// FlowController orchestrates the login, signup, confirmation and
// logout flows against the identity provider. Each operation is one
// logical transaction: the session and the authentication state mutate
// only after the provider call settles, and always before the redirect
// that depends on them.
type FlowController struct {
	provider identity.Provider
	sessions *SessionManager
	attempts *AttemptStore
	audit    Recorder
}

func NewFlowController(provider identity.Provider, sessions *SessionManager, attempts *AttemptStore, audit Recorder) *FlowController {
	return &FlowController{
		provider: provider,
		sessions: sessions,
		attempts: attempts,
		audit:    audit,
	}
}

// Routes returns the controller's guarded route table. Priority order:
// login and signup are public-only; the catch-all not-found view is the
// router's NoRoute concern.
func (fc *FlowController) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/login", Policy: PolicyPublicOnly, Handler: fc.LoginPage},
		{Method: http.MethodPost, Path: "/login", Policy: PolicyPublicOnly, Handler: fc.Login},
		{Method: http.MethodGet, Path: "/signup", Policy: PolicyPublicOnly, Handler: fc.SignupPage},
		{Method: http.MethodPost, Path: "/signup", Policy: PolicyPublicOnly, Handler: fc.Signup},
		{Method: http.MethodPost, Path: "/signup/confirm", Policy: PolicyPublicOnly, Handler: fc.ConfirmSignup},
		{Method: http.MethodPost, Path: "/logout", Policy: PolicyOpen, Handler: fc.Logout},
		// Support GET for simple logout links
		{Method: http.MethodGet, Path: "/logout", Policy: PolicyOpen, Handler: fc.Logout},
	}
}

// LoginPage renders the login form.
func (fc *FlowController) LoginPage(c *gin.Context) {
	fc.renderLogin(c, gin.H{})
}

// Login handles the login form submission.
func (fc *FlowController) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	// Empty fields never reach the provider; the form is re-rendered
	// with what the visitor typed preserved.
	if email == "" || password == "" {
		fc.renderLogin(c, gin.H{"Email": email})
		return
	}

	session, err := fc.provider.SignIn(c.Request.Context(), email, password)
	if err != nil {
		fc.record(c, entities.AuditEventLogin, email, err)
		fc.renderLogin(c, gin.H{"Email": email, "Error": err.Error()})
		return
	}

	if err := fc.sessions.SignIn(c.Request, email, session.Token); err != nil {
		fc.record(c, entities.AuditEventLogin, email, err)
		fc.renderLogin(c, gin.H{"Email": email, "Error": "Failed to create session"})
		return
	}

	// State mutates before the navigation that depends on it
	if state := StateFrom(c); state != nil {
		state.SetAuthenticated(true)
	}

	fc.record(c, entities.AuditEventLogin, email, nil)
	c.Redirect(http.StatusFound, "/")
}

// SignupPage renders whichever signup sub-form matches the attempt
// state: the registration form when no confirmed-pending attempt is
// bound to this session, the confirmation form otherwise.
func (fc *FlowController) SignupPage(c *gin.Context) {
	attempt := fc.currentAttempt(c)
	if attempt.State() == SignupStateConfirmationPending {
		fc.renderConfirm(c, attempt, gin.H{})
		return
	}
	fc.renderSignup(c, gin.H{})
}

// Signup handles the registration form submission.
func (fc *FlowController) Signup(c *gin.Context) {
	// Forward-only: a session already holding a confirmation-pending
	// attempt cannot restart registration by re-posting this form.
	if attempt := fc.currentAttempt(c); attempt.State() == SignupStateConfirmationPending {
		c.Redirect(http.StatusFound, "/signup")
		return
	}

	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	if email == "" || password == "" || password != confirmPassword {
		fc.renderSignup(c, gin.H{"Email": email})
		return
	}

	pending, err := fc.provider.SignUp(c.Request.Context(), email, password)
	if err != nil {
		fc.record(c, entities.AuditEventSignup, email, err)
		fc.renderSignup(c, gin.H{"Email": email, "Error": err.Error()})
		return
	}

	attempt, err := fc.attempts.Begin(email, password, pending)
	if err != nil {
		fc.record(c, entities.AuditEventSignup, email, err)
		fc.renderSignup(c, gin.H{"Email": email, "Error": "Failed to start confirmation"})
		return
	}
	fc.sessions.SetSignupAttemptID(c.Request, attempt.ID)

	fc.record(c, entities.AuditEventSignup, email, nil)
	c.Redirect(http.StatusFound, "/signup")
}

// ConfirmSignup handles the confirmation-code submission. On success
// the flow signs the visitor in with the credentials captured at
// registration; the two steps are one user-visible transaction, but a
// sign-in failure after a successful confirmation is surfaced as its
// own error and leaves the visitor unauthenticated.
func (fc *FlowController) ConfirmSignup(c *gin.Context) {
	attempt := fc.currentAttempt(c)
	if attempt.State() != SignupStateConfirmationPending {
		// The attempt is gone (restart, expiry, or never started).
		c.Redirect(http.StatusFound, "/signup")
		return
	}

	code := strings.TrimSpace(c.PostForm("confirmation_code"))
	if code == "" {
		fc.renderConfirm(c, attempt, gin.H{})
		return
	}

	if err := fc.provider.ConfirmSignUp(c.Request.Context(), attempt.Email, code); err != nil {
		fc.record(c, entities.AuditEventConfirm, attempt.Email, err)
		fc.renderConfirm(c, attempt, gin.H{"Error": err.Error()})
		return
	}

	session, err := fc.provider.SignIn(c.Request.Context(), attempt.Email, attempt.Password)
	if err != nil {
		fc.record(c, entities.AuditEventConfirm, attempt.Email, err)
		fc.renderConfirm(c, attempt, gin.H{"Error": err.Error()})
		return
	}

	if err := fc.sessions.SignIn(c.Request, attempt.Email, session.Token); err != nil {
		fc.record(c, entities.AuditEventConfirm, attempt.Email, err)
		fc.renderConfirm(c, attempt, gin.H{"Error": "Failed to create session"})
		return
	}

	fc.attempts.Drop(attempt.ID)
	fc.sessions.ClearSignupAttemptID(c.Request)

	if state := StateFrom(c); state != nil {
		state.SetAuthenticated(true)
	}

	fc.record(c, entities.AuditEventConfirm, attempt.Email, nil)
	c.Redirect(http.StatusFound, "/")
}

// Logout signs the visitor out. The provider call is best-effort; the
// local session is destroyed no matter what.
func (fc *FlowController) Logout(c *gin.Context) {
	email := fc.sessions.Email(c.Request)
	token := fc.sessions.ProviderToken(c.Request)

	if token != "" {
		if err := fc.provider.SignOut(c.Request.Context(), token); err != nil {
			log.Printf("WARNING: provider sign-out failed: %v", err)
		}
	}

	if id := fc.sessions.SignupAttemptID(c.Request); id != "" {
		fc.attempts.Drop(id)
	}
	if err := fc.sessions.SignOut(c.Request); err != nil {
		log.Printf("WARNING: failed to destroy session: %v", err)
	}

	if state := StateFrom(c); state != nil {
		state.SetAuthenticated(false)
	}

	fc.record(c, entities.AuditEventLogout, email, nil)
	c.Redirect(http.StatusFound, "/login")
}

// currentAttempt resolves the signup attempt bound to this session,
// clearing a dangling ID whose attempt no longer exists.
func (fc *FlowController) currentAttempt(c *gin.Context) *SignupAttempt {
	id := fc.sessions.SignupAttemptID(c.Request)
	if id == "" {
		return nil
	}

	attempt := fc.attempts.Get(id)
	if attempt == nil {
		fc.sessions.ClearSignupAttemptID(c.Request)
	}
	return attempt
}

func (fc *FlowController) renderLogin(c *gin.Context, data gin.H) {
	fc.render(c, "login", "Login", data)
}

func (fc *FlowController) renderSignup(c *gin.Context, data gin.H) {
	fc.render(c, "signup", "Signup", data)
}

func (fc *FlowController) renderConfirm(c *gin.Context, attempt *SignupAttempt, data gin.H) {
	data["Destination"] = attempt.PendingUser.Destination
	fc.render(c, "signup_confirm", "Verify", data)
}

func (fc *FlowController) render(c *gin.Context, name, title string, data gin.H) {
	data["Title"] = title
	data["State"] = StateFrom(c)
	data["CSRFToken"] = GetCSRFToken(c)
	c.HTML(http.StatusOK, name, data)
}

func (fc *FlowController) record(c *gin.Context, eventType entities.AuditEventType, email string, opErr error) {
	if fc.audit == nil {
		return
	}

	event := &entities.AuditEvent{
		Email:     email,
		EventType: eventType,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Status:    entities.AuditStatusSuccess,
	}
	switch eventType {
	case entities.AuditEventLogin:
		event.Description = "Signed in"
	case entities.AuditEventSignup:
		event.Description = "Registered"
	case entities.AuditEventConfirm:
		event.Description = "Confirmed account"
	case entities.AuditEventLogout:
		event.Description = "Signed out"
	}
	if opErr != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = opErr.Error()
	}

	if err := fc.audit.LogEvent(event); err != nil {
		log.Printf("WARNING: failed to record audit event: %v", err)
	}
}
