// Package autherr defines the closed set of user-facing authentication
// messages and the error kinds raised by the credential orchestrator.
// Raw provider or store error text must never reach a response body;
// handlers surface errors exclusively through MessageFor.
package autherr

import (
	"errors"

	"github.com/brightdesk/auth-gateway/internal/provider"
)

// The closed set of user-facing sentences.
const (
	DefaultMessage        = "An error occurred. Please try again."
	MsgInvalidCredentials = "Invalid email or password. Please try again."
	MsgEmailTaken         = "This email is already registered. Please try logging in instead."
	MsgWeakPassword       = "Password must be at least 6 characters long."
	MsgInvalidEmail       = "Please enter a valid email address."
)

// messages maps known provider error codes and strings to fixed sentences.
// Keys are case-sensitive.
var messages = map[string]string{
	"invalid_credentials":                      MsgInvalidCredentials,
	"email_taken":                              MsgEmailTaken,
	"weak_password":                            MsgWeakPassword,
	"invalid_email":                            MsgInvalidEmail,
	"Invalid login credentials":                MsgInvalidCredentials,
	"Email already registered":                 MsgEmailTaken,
	"Password should be at least 6 characters": MsgWeakPassword,
	"Invalid email format":                     MsgInvalidEmail,
}

// Sentinel errors for the orchestration failure taxonomy. ErrEmailTaken's
// text is itself a table key, so MessageFor resolves it to the friendly
// duplicate-email sentence.
var (
	ErrEmailTaken            = errors.New("Email already registered")
	ErrNoUserData            = errors.New("no user data received")
	ErrProfileCreationFailed = errors.New("failed to create user profile")
	ErrMissingFields         = errors.New("email and password are required")
	ErrUnauthorized          = errors.New("unauthorized: only admins can delete users")
	ErrInvalidUserID         = errors.New("invalid user id")
	ErrSignOutFailed         = errors.New("failed to sign out")
)

// ValidationError reports a pre-flight check failure for a single field.
// It is raised before any remote call is issued.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError for the given field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// SignOutMessage is the single fixed sentence surfaced for sign-out
// failures, regardless of the underlying cause.
const SignOutMessage = "Failed to sign out. Please try again."

// MessageFor translates a failure into a sentence from the closed message
// set. The lookup key is extracted from provider errors in priority order:
// message, description, code. A nil error yields an empty string; unknown
// keys fall back to DefaultMessage.
func MessageFor(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrSignOutFailed) {
		return SignOutMessage
	}

	if msg, ok := messages[lookupKey(err)]; ok {
		return msg
	}
	return DefaultMessage
}

func lookupKey(err error) string {
	var provErr *provider.Error
	if errors.As(err, &provErr) {
		if provErr.Message != "" {
			return provErr.Message
		}
		if provErr.Description != "" {
			return provErr.Description
		}
		return provErr.Code
	}
	return err.Error()
}
