package identity

import "context"

// Session is the opaque proof of authentication issued by the provider.
// Callers hold its token only to hand it back on later calls; the
// contents are the provider's business.
type Session struct {
	Token string
}

// PendingUser references an account that has been registered but not yet
// confirmed. Destination describes where the confirmation code was sent
// (typically a masked email address).
type PendingUser struct {
	ID          string
	Destination string
}

// Provider is the external service of record for credentials, sessions
// and account confirmation. All calls are remote and may fail; failure
// kinds are the sentinel errors in this package, matched via errors.Is.
type Provider interface {
	// CurrentSession validates a previously issued session token.
	// Returns ErrNoCurrentSession when the token is empty or no longer
	// backed by a session.
	CurrentSession(ctx context.Context, token string) (*Session, error)

	// SignIn exchanges credentials for a session.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new account. The account is unusable until
	// ConfirmSignUp succeeds with the code delivered out of band.
	SignUp(ctx context.Context, email, password string) (*PendingUser, error)

	// ConfirmSignUp completes registration with the delivered code.
	ConfirmSignUp(ctx context.Context, email, code string) error

	// SignOut revokes a session token. Best effort: local cleanup must
	// not depend on it succeeding.
	SignOut(ctx context.Context, token string) error
}
