package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"sync"
)

// MemoryProvider is an in-process user pool. It backs local development
// (confirmation codes are printed to the log instead of emailed) and the
// package tests. Not for production use.
type MemoryProvider struct {
	mu     sync.Mutex
	users  map[string]*memoryUser
	tokens map[string]string // session token -> email

	// LogCodes prints confirmation codes on SignUp, the local stand-in
	// for code delivery.
	LogCodes bool
}

type memoryUser struct {
	sub         string
	password    string
	code        string
	codeExpired bool
	confirmed   bool
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		users:  make(map[string]*memoryUser),
		tokens: make(map[string]string),
	}
}

func (p *MemoryProvider) CurrentSession(_ context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoCurrentSession
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.tokens[token]; !ok {
		return nil, NewError(ErrNoCurrentSession, "No current user")
	}
	return &Session{Token: token}, nil
}

func (p *MemoryProvider) SignIn(_ context.Context, email, password string) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[email]
	if !ok || user.password != password {
		return nil, NewError(ErrInvalidCredentials, "Incorrect username or password.")
	}
	if !user.confirmed {
		return nil, NewError(ErrUserNotConfirmed, "User is not confirmed.")
	}

	token, err := randomHex(32)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	p.tokens[token] = email

	return &Session{Token: token}, nil
}

func (p *MemoryProvider) SignUp(_ context.Context, email, password string) (*PendingUser, error) {
	if len(password) < 8 {
		return nil, NewError(ErrInvalidPassword, "Password did not conform with policy: Password not long enough")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.users[email]; ok && existing.confirmed {
		return nil, NewError(ErrUsernameExists, "An account with the given email already exists.")
	}

	sub, err := randomHex(16)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	code, err := randomCode()
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	p.users[email] = &memoryUser{
		sub:      sub,
		password: password,
		code:     code,
	}

	if p.LogCodes {
		log.Printf("[identity] confirmation code for %s: %s", email, code)
	}

	return &PendingUser{ID: sub, Destination: maskEmail(email)}, nil
}

func (p *MemoryProvider) ConfirmSignUp(_ context.Context, email, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[email]
	if !ok {
		return NewError(nil, "Username/client id combination not found.")
	}
	if user.confirmed {
		return nil
	}
	if user.codeExpired {
		return NewError(ErrExpiredCode, "Invalid code provided, please request a code again.")
	}
	if user.code != code {
		return NewError(ErrCodeMismatch, "Invalid verification code provided, please try again.")
	}

	user.confirmed = true
	user.code = ""
	return nil
}

func (p *MemoryProvider) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.tokens, token)
	return nil
}

// ConfirmationCode returns the pending code for an email. Test hook.
func (p *MemoryProvider) ConfirmationCode(email string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if user, ok := p.users[email]; ok {
		return user.code
	}
	return ""
}

// ExpireCode invalidates a pending confirmation code. Test hook.
func (p *MemoryProvider) ExpireCode(email string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if user, ok := p.users[email]; ok {
		user.codeExpired = true
	}
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// randomCode produces a 6-digit confirmation code.
func randomCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	n := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	return fmt.Sprintf("%06d", n%1000000), nil
}

func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	return email[:1] + "***@" + email[at+1:]
}
