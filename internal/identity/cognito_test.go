package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPoolServer fakes the user pool's JSON API, dispatching on the
// X-Amz-Target header like the real service does.
func newPoolServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := r.Header.Get("X-Amz-Target")
		if handler, ok := handlers[target]; ok {
			handler(w, r)
			return
		}
		t.Errorf("unexpected target %q", target)
		w.WriteHeader(http.StatusBadRequest)
	}))
}

func writeException(w http.ResponseWriter, name, message string) {
	w.Header().Set("Content-Type", "application/x-amz-json-1.1")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"__type":  name,
		"message": message,
	})
}

func TestCognitoClient_SignIn(t *testing.T) {
	server := newPoolServer(t, map[string]http.HandlerFunc{
		"AWSCognitoIdentityProviderService.InitiateAuth": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				ClientId       string            `json:"ClientId"`
				AuthFlow       string            `json:"AuthFlow"`
				AuthParameters map[string]string `json:"AuthParameters"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "client-123", req.ClientId)
			assert.Equal(t, "USER_PASSWORD_AUTH", req.AuthFlow)
			assert.Equal(t, "a@x.com", req.AuthParameters["USERNAME"])

			_ = json.NewEncoder(w).Encode(map[string]any{
				"AuthenticationResult": map[string]string{"AccessToken": "tok-1"},
			})
		},
	})
	defer server.Close()

	client := NewCognitoClient(server.URL, "client-123", time.Second)
	session, err := client.SignIn(context.Background(), "a@x.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)
}

func TestCognitoClient_SignInRejected(t *testing.T) {
	server := newPoolServer(t, map[string]http.HandlerFunc{
		"AWSCognitoIdentityProviderService.InitiateAuth": func(w http.ResponseWriter, r *http.Request) {
			writeException(w, "NotAuthorizedException", "Incorrect username or password.")
		},
	})
	defer server.Close()

	client := NewCognitoClient(server.URL, "client-123", time.Second)
	_, err := client.SignIn(context.Background(), "a@x.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Incorrect username or password.", err.Error())
}

func TestCognitoClient_CurrentSession(t *testing.T) {
	server := newPoolServer(t, map[string]http.HandlerFunc{
		"AWSCognitoIdentityProviderService.GetUser": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				AccessToken string `json:"AccessToken"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			if req.AccessToken == "tok-valid" {
				_ = json.NewEncoder(w).Encode(map[string]string{"Username": "a@x.com"})
				return
			}
			writeException(w, "NotAuthorizedException", "Invalid Access Token")
		},
	})
	defer server.Close()

	client := NewCognitoClient(server.URL, "client-123", time.Second)

	t.Run("valid token", func(t *testing.T) {
		session, err := client.CurrentSession(context.Background(), "tok-valid")
		require.NoError(t, err)
		assert.Equal(t, "tok-valid", session.Token)
	})

	t.Run("revoked token reads as no session", func(t *testing.T) {
		_, err := client.CurrentSession(context.Background(), "tok-stale")
		require.ErrorIs(t, err, ErrNoCurrentSession)
	})

	t.Run("empty token short-circuits", func(t *testing.T) {
		_, err := client.CurrentSession(context.Background(), "")
		require.ErrorIs(t, err, ErrNoCurrentSession)
	})
}

func TestCognitoClient_SignUpAndConfirm(t *testing.T) {
	server := newPoolServer(t, map[string]http.HandlerFunc{
		"AWSCognitoIdentityProviderService.SignUp": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"UserSub": "sub-42",
				"CodeDeliveryDetails": map[string]string{
					"Destination": "a***@x.com",
				},
			})
		},
		"AWSCognitoIdentityProviderService.ConfirmSignUp": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				ConfirmationCode string `json:"ConfirmationCode"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			if req.ConfirmationCode != "123456" {
				writeException(w, "CodeMismatchException", "Invalid verification code provided, please try again.")
				return
			}
			w.Write([]byte("{}"))
		},
	})
	defer server.Close()

	client := NewCognitoClient(server.URL, "client-123", time.Second)

	pending, err := client.SignUp(context.Background(), "a@x.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "sub-42", pending.ID)
	assert.Equal(t, "a***@x.com", pending.Destination)

	err = client.ConfirmSignUp(context.Background(), "a@x.com", "000000")
	require.ErrorIs(t, err, ErrCodeMismatch)

	err = client.ConfirmSignUp(context.Background(), "a@x.com", "123456")
	require.NoError(t, err)
}

func TestCognitoClient_ExceptionMapping(t *testing.T) {
	tests := []struct {
		name string
		kind error
	}{
		{"UsernameExistsException", ErrUsernameExists},
		{"InvalidPasswordException", ErrInvalidPassword},
		{"ExpiredCodeException", ErrExpiredCode},
		{"UserNotConfirmedException", ErrUserNotConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decodeException("SignUp", http.StatusBadRequest, mustJSON(t, map[string]string{
				"__type":  tt.name,
				"message": "boom",
			}))
			require.ErrorIs(t, err, tt.kind)
			assert.Equal(t, "boom", err.Error())
		})
	}

	t.Run("namespaced type", func(t *testing.T) {
		err := decodeException("SignUp", http.StatusBadRequest, mustJSON(t, map[string]string{
			"__type": "com.amazonaws.cognito#UsernameExistsException",
		}))
		require.ErrorIs(t, err, ErrUsernameExists)
	})

	t.Run("unclassified exception stays verbatim", func(t *testing.T) {
		err := decodeException("SignUp", http.StatusBadRequest, mustJSON(t, map[string]string{
			"__type":  "TooManyRequestsException",
			"message": "Rate exceeded",
		}))
		require.Error(t, err)
		assert.Equal(t, "Rate exceeded", err.Error())
		assert.NotErrorIs(t, err, ErrUsernameExists)
	})

	t.Run("non-JSON body", func(t *testing.T) {
		err := decodeException("SignUp", http.StatusBadGateway, []byte("<html>"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 502")
	})
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
