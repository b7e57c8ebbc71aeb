package identity

import "errors"

// ErrNoCurrentSession is returned by CurrentSession when nobody is signed
// in. Callers treat it as an expected condition, not a failure.
var ErrNoCurrentSession = errors.New("no current session")

// ErrInvalidCredentials is returned by SignIn for a bad email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUsernameExists is returned by SignUp when the email is already registered.
var ErrUsernameExists = errors.New("username already exists")

// ErrInvalidPassword is returned by SignUp when the password fails the
// provider's policy.
var ErrInvalidPassword = errors.New("invalid password")

// ErrCodeMismatch is returned by ConfirmSignUp for a wrong confirmation code.
var ErrCodeMismatch = errors.New("confirmation code mismatch")

// ErrExpiredCode is returned by ConfirmSignUp when the code is no longer valid.
var ErrExpiredCode = errors.New("confirmation code expired")

// ErrUserNotConfirmed is returned by SignIn for an account that has not
// completed confirmation.
var ErrUserNotConfirmed = errors.New("user is not confirmed")

// Error pairs a failure kind with the message the provider returned.
// The message is what gets shown to the user; the kind is what callers
// branch on via errors.Is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "identity provider error"
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError wraps a provider failure with its user-facing message.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
