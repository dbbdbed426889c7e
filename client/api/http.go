package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// HTTPAuthenticator talks to a Scholarbase server over its JSON API.
type HTTPAuthenticator struct {
	baseURL string
	client  *http.Client
}

// NewHTTPAuthenticator creates an authenticator against the given base URL
// (e.g. "https://scholarbase.nitsrinagar.ac.in"). Passing a nil client uses
// a default with a 30 second timeout.
func NewHTTPAuthenticator(baseURL string, client *http.Client) *HTTPAuthenticator {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPAuthenticator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (a *HTTPAuthenticator) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := a.post(ctx, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (a *HTTPAuthenticator) Signup(ctx context.Context, name, email, password string) (*Session, error) {
	var session Session
	err := a.post(ctx, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (a *HTTPAuthenticator) Validate(ctx context.Context, token string) (*auth.Identity, error) {
	var body struct {
		User auth.Identity `json:"user"`
	}
	if err := a.post(ctx, "/api/auth/verify", token, nil, &body); err != nil {
		return nil, err
	}
	return &body.User, nil
}

// Logout is a no-op against the HTTP API: bearer tokens are stateless, so
// there is nothing server-side to revoke. The session store discards the
// token locally.
func (a *HTTPAuthenticator) Logout(ctx context.Context, token string) error {
	return nil
}

// post sends a JSON request and decodes either the success body into out or
// the {status, message} error envelope into an *Error.
func (a *HTTPAuthenticator) post(ctx context.Context, path, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// decodeError maps the server's error envelope to an *Error. A body that
// isn't the envelope (proxy error page, truncated response) still yields an
// *Error with the status code so callers never see a bare decode failure.
func decodeError(resp *http.Response) error {
	var envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Message == "" {
		return &Error{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return &Error{Code: resp.StatusCode, Message: envelope.Message}
}
