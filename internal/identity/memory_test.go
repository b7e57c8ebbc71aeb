package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProvider_FullLifecycle(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	// Registration leaves the account unconfirmed
	pending, err := p.SignUp(ctx, "a@x.com", "Passw0rd!")
	require.NoError(t, err)
	assert.NotEmpty(t, pending.ID)
	assert.Equal(t, "a***@x.com", pending.Destination)

	_, err = p.SignIn(ctx, "a@x.com", "Passw0rd!")
	require.ErrorIs(t, err, ErrUserNotConfirmed)

	// Wrong code is rejected, right code confirms
	err = p.ConfirmSignUp(ctx, "a@x.com", "000000")
	require.ErrorIs(t, err, ErrCodeMismatch)

	code := p.ConfirmationCode("a@x.com")
	require.Len(t, code, 6)
	require.NoError(t, p.ConfirmSignUp(ctx, "a@x.com", code))

	// Sign in issues a token that CurrentSession validates
	session, err := p.SignIn(ctx, "a@x.com", "Passw0rd!")
	require.NoError(t, err)

	got, err := p.CurrentSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Token, got.Token)

	// Sign out revokes it
	require.NoError(t, p.SignOut(ctx, session.Token))
	_, err = p.CurrentSession(ctx, session.Token)
	require.ErrorIs(t, err, ErrNoCurrentSession)
}

func TestMemoryProvider_SignUpRejections(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	_, err := p.SignUp(ctx, "a@x.com", "short")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = p.SignUp(ctx, "a@x.com", "Passw0rd!")
	require.NoError(t, err)
	require.NoError(t, p.ConfirmSignUp(ctx, "a@x.com", p.ConfirmationCode("a@x.com")))

	_, err = p.SignUp(ctx, "a@x.com", "Passw0rd!")
	require.ErrorIs(t, err, ErrUsernameExists)
}

func TestMemoryProvider_SignInRejections(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	_, err := p.SignIn(ctx, "nobody@x.com", "whatever1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignUp(ctx, "a@x.com", "Passw0rd!")
	require.NoError(t, err)
	require.NoError(t, p.ConfirmSignUp(ctx, "a@x.com", p.ConfirmationCode("a@x.com")))

	_, err = p.SignIn(ctx, "a@x.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMemoryProvider_ExpiredCode(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	_, err := p.SignUp(ctx, "a@x.com", "Passw0rd!")
	require.NoError(t, err)

	code := p.ConfirmationCode("a@x.com")
	p.ExpireCode("a@x.com")

	err = p.ConfirmSignUp(ctx, "a@x.com", code)
	require.ErrorIs(t, err, ErrExpiredCode)
}

func TestMemoryProvider_CurrentSessionEmptyToken(t *testing.T) {
	p := NewMemoryProvider()

	_, err := p.CurrentSession(context.Background(), "")
	require.ErrorIs(t, err, ErrNoCurrentSession)
}
