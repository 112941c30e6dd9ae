// Package provider defines the boundary to the external identity platform.
// The platform owns credentials, password hashing and session issuance; this
// service only sequences calls against it.
package provider

import (
	"context"
	"fmt"
)

// Metadata is attached to an identity at creation time and echoed back in
// authentication responses.
type Metadata struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// Identity is the provider's view of a user. ID is the subject identifier
// that profile rows key on.
type Identity struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Metadata Metadata `json:"user_metadata"`
}

// Session is returned by a successful password authentication.
type Session struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	Identity    Identity `json:"user"`
}

// Error is a decoded provider failure. Message, Description and Code are
// the lookup keys for user-facing translation, in that priority order.
type Error struct {
	Code        string
	Message     string
	Description string
	Status      int
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("provider: %s", e.Message)
	case e.Description != "":
		return fmt.Sprintf("provider: %s", e.Description)
	case e.Code != "":
		return fmt.Sprintf("provider: %s", e.Code)
	default:
		return fmt.Sprintf("provider: status %d", e.Status)
	}
}

// IdentityProvider declares the remote identity operations used by the
// credential orchestrator.
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, email, password string, metadata Metadata) (*Identity, error)
	Authenticate(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	RequestPasswordReset(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
	DeleteIdentity(ctx context.Context, id string) error
}
