package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client talks to the identity platform's REST endpoints. The anon key
// authenticates user-scoped calls; the service key is required for the
// admin identity-deletion endpoint.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

// NewClient builds a provider client. A nil httpClient gets a default with
// a conservative timeout.
func NewClient(baseURL, anonKey, serviceKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		httpClient: httpClient,
	}
}

var _ IdentityProvider = (*Client)(nil)

// CreateIdentity registers a new identity for the credentials, attaching
// the metadata as identity attributes.
func (c *Client) CreateIdentity(ctx context.Context, email, password string, metadata Metadata) (*Identity, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	}

	var identity Identity
	if err := c.do(ctx, http.MethodPost, "/signup", c.anonKey, payload, &identity); err != nil {
		return nil, err
	}
	if identity.ID == "" {
		return nil, nil
	}
	return &identity, nil
}

// Authenticate exchanges credentials for a session.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}

	var session Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", c.anonKey, payload, &session); err != nil {
		return nil, err
	}
	if session.AccessToken == "" && session.Identity.ID == "" {
		return nil, nil
	}
	return &session, nil
}

// SignOut revokes the session bound to the access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

// RequestPasswordReset triggers the provider's recovery email flow.
func (c *Client) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	path := "/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	return c.do(ctx, http.MethodPost, path, c.anonKey, map[string]any{"email": email}, nil)
}

// UpdatePassword replaces the credential secret of the session owner.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return c.do(ctx, http.MethodPut, "/user", accessToken, map[string]any{"password": newPassword}, nil)
}

// DeleteIdentity removes an identity through the admin endpoint. Used as
// the compensating action when profile creation fails after signup.
func (c *Client) DeleteIdentity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), c.serviceKey, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal provider payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create provider request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return fmt.Errorf("decode provider response: %w", err)
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var wire struct {
		Code        string `json:"error_code"`
		Msg         string `json:"msg"`
		Message     string `json:"message"`
		ErrorText   string `json:"error"`
		Description string `json:"error_description"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&wire)

	message := wire.Msg
	if message == "" {
		message = wire.Message
	}
	if message == "" {
		message = wire.ErrorText
	}

	return &Error{
		Code:        wire.Code,
		Message:     message,
		Description: wire.Description,
		Status:      resp.StatusCode,
	}
}
