package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CognitoClient talks to a Cognito-style user pool over its JSON API.
// Every operation is a single POST to the endpoint with an X-Amz-Target
// header naming the action.
type CognitoClient struct {
	httpClient *http.Client
	endpoint   string
	clientID   string
}

const cognitoTargetPrefix = "AWSCognitoIdentityProviderService."

// NewCognitoClient creates a provider client for the given user pool
// endpoint and app client ID.
func NewCognitoClient(endpoint, clientID string, timeout time.Duration) *CognitoClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CognitoClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		clientID:   clientID,
	}
}

func (c *CognitoClient) CurrentSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoCurrentSession
	}

	var out struct {
		Username string `json:"Username"`
	}
	err := c.call(ctx, "GetUser", map[string]any{"AccessToken": token}, &out)
	if err != nil {
		// A revoked or expired token means nobody is signed in, which is
		// the expected-absence case rather than a provider failure.
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, NewError(ErrNoCurrentSession, "No current user")
		}
		return nil, err
	}

	return &Session{Token: token}, nil
}

func (c *CognitoClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var out struct {
		AuthenticationResult struct {
			AccessToken string `json:"AccessToken"`
		} `json:"AuthenticationResult"`
	}
	err := c.call(ctx, "InitiateAuth", map[string]any{
		"ClientId": c.clientID,
		"AuthFlow": "USER_PASSWORD_AUTH",
		"AuthParameters": map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	}, &out)
	if err != nil {
		return nil, err
	}

	if out.AuthenticationResult.AccessToken == "" {
		return nil, fmt.Errorf("sign in: provider returned no access token")
	}

	return &Session{Token: out.AuthenticationResult.AccessToken}, nil
}

func (c *CognitoClient) SignUp(ctx context.Context, email, password string) (*PendingUser, error) {
	var out struct {
		UserSub             string `json:"UserSub"`
		CodeDeliveryDetails struct {
			Destination string `json:"Destination"`
		} `json:"CodeDeliveryDetails"`
	}
	err := c.call(ctx, "SignUp", map[string]any{
		"ClientId": c.clientID,
		"Username": email,
		"Password": password,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &PendingUser{
		ID:          out.UserSub,
		Destination: out.CodeDeliveryDetails.Destination,
	}, nil
}

func (c *CognitoClient) ConfirmSignUp(ctx context.Context, email, code string) error {
	return c.call(ctx, "ConfirmSignUp", map[string]any{
		"ClientId":         c.clientID,
		"Username":         email,
		"ConfirmationCode": code,
	}, nil)
}

func (c *CognitoClient) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return c.call(ctx, "GlobalSignOut", map[string]any{"AccessToken": token}, nil)
}

// call performs a single provider action and decodes the response into
// out (which may be nil for actions with empty responses).
func (c *CognitoClient) call(ctx context.Context, action string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/x-amz-json-1.1")
	req.Header.Set("X-Amz-Target", cognitoTargetPrefix+action)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", action, err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeException(action, resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", action, err)
		}
	}

	return nil
}

// cognitoException is the error envelope of the JSON API.
type cognitoException struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}

// exceptionKinds maps remote exception names to this package's failure
// kinds. Anything absent stays unclassified and is surfaced as-is.
var exceptionKinds = map[string]error{
	"NotAuthorizedException":    ErrInvalidCredentials,
	"UserNotFoundException":     ErrInvalidCredentials,
	"UsernameExistsException":   ErrUsernameExists,
	"InvalidPasswordException":  ErrInvalidPassword,
	"CodeMismatchException":     ErrCodeMismatch,
	"ExpiredCodeException":      ErrExpiredCode,
	"UserNotConfirmedException": ErrUserNotConfirmed,
}

func decodeException(action string, status int, data []byte) error {
	var exc cognitoException
	if err := json.Unmarshal(data, &exc); err != nil || exc.Type == "" {
		return fmt.Errorf("%s: unexpected status %d", action, status)
	}

	// The type field sometimes carries a namespace prefix.
	name := exc.Type
	if idx := strings.LastIndex(name, "#"); idx >= 0 {
		name = name[idx+1:]
	}

	msg := exc.Message
	if msg == "" {
		msg = name
	}

	if kind, ok := exceptionKinds[name]; ok {
		return NewError(kind, msg)
	}
	return NewError(nil, msg)
}
