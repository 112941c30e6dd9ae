package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/brightdesk/auth-gateway/internal/autherr"
	"github.com/brightdesk/auth-gateway/internal/entity"
	"github.com/brightdesk/auth-gateway/internal/provider"
	"github.com/brightdesk/auth-gateway/internal/repository"
)

const (
	// RoleUser is the default role attached to new identities.
	RoleUser = "user"
	// RoleAdmin unlocks the administrative read-side queries.
	RoleAdmin = "admin"
)

// AuthService sequences the multi-step credential flows against the
// external identity provider and profile store. Both collaborators are
// injected so tests can substitute fakes.
type AuthService struct {
	idp              provider.IdentityProvider
	profiles         repository.ProfilesRepository
	resetRedirectURL string
}

// NewAuthService constructs a new AuthService.
func NewAuthService(idp provider.IdentityProvider, profiles repository.ProfilesRepository, resetRedirectURL string) *AuthService {
	return &AuthService{idp: idp, profiles: profiles, resetRedirectURL: resetRedirectURL}
}

// Signup creates an identity and its matching profile row. The two remote
// writes form one logical transaction: if the profile insert fails, the
// just-created identity is deleted best-effort and the caller sees
// ErrProfileCreationFailed.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, autherr.Invalid("name", "Name is required")
	}
	if !ValidateEmail(email) {
		return nil, autherr.Invalid("email", "Please enter a valid email address")
	}
	if !ValidatePassword(password) {
		return nil, autherr.Invalid("password", "Password must be at least 6 characters long")
	}

	identity, err := s.idp.CreateIdentity(ctx, email, password, provider.Metadata{Name: name, Role: RoleUser})
	if err != nil {
		if isDuplicateSignal(err) {
			return nil, autherr.ErrEmailTaken
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}

	id, ok := subjectID(identity)
	if !ok {
		return nil, autherr.ErrNoUserData
	}

	user, err := compensated(ctx,
		func(ctx context.Context) (*entity.User, error) {
			return s.profiles.Insert(ctx, id, identity.Email, name, RoleUser)
		},
		func(ctx context.Context) error {
			return s.idp.DeleteIdentity(ctx, identity.ID)
		},
	)
	if err != nil {
		log.Printf("profile insert for %s failed, identity rolled back: %v", id, err)
		return nil, autherr.ErrProfileCreationFailed
	}

	return user, nil
}

// Login authenticates the credentials and loads the matching profile row,
// creating it on the fly when the store reports it missing.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, *provider.Session, error) {
	if email == "" || password == "" {
		return nil, nil, autherr.ErrMissingFields
	}

	session, err := s.idp.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, fmt.Errorf("authenticate: %w", err)
	}
	if session == nil {
		return nil, nil, autherr.ErrNoUserData
	}

	id, ok := subjectID(&session.Identity)
	if !ok {
		return nil, nil, autherr.ErrNoUserData
	}

	user, err := s.profiles.FindByID(ctx, id)
	if errors.Is(err, repository.ErrProfileNotFound) {
		user, err = s.healProfile(ctx, id, &session.Identity)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}

	if terr := s.profiles.TouchLastSeen(ctx, id); terr != nil {
		log.Printf("touch last seen for %s: %v", id, terr)
	}

	return user, session, nil
}

// Logout revokes the provider session. Any failure surfaces as the single
// fixed sign-out error; the cause is logged and discarded.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	if err := s.idp.SignOut(ctx, accessToken); err != nil {
		log.Printf("provider sign-out failed: %v", err)
		return autherr.ErrSignOutFailed
	}
	return nil
}

// RequestPasswordReset triggers the provider's recovery flow for the email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := s.idp.RequestPasswordReset(ctx, email, s.resetRedirectURL); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	return nil
}

// UpdatePassword replaces the credential secret of the session owner.
func (s *AuthService) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	if err := s.idp.UpdatePassword(ctx, accessToken, newPassword); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// healProfile recreates a missing profile row for an authenticated
// identity: name falls back to the email local part, role to the identity
// metadata defaulting to "user".
func (s *AuthService) healProfile(ctx context.Context, id uuid.UUID, identity *provider.Identity) (*entity.User, error) {
	role := identity.Metadata.Role
	if role == "" {
		role = RoleUser
	}
	return s.profiles.Insert(ctx, id, identity.Email, localPart(identity.Email), role)
}

// isDuplicateSignal recognizes the provider's duplicate-email failures,
// which take priority over the generic message mapping.
func isDuplicateSignal(err error) bool {
	text := err.Error()
	var provErr *provider.Error
	if errors.As(err, &provErr) && provErr.Description != "" {
		text += " " + provErr.Description
	}
	return strings.Contains(text, "duplicate key") || strings.Contains(text, "already registered")
}

// subjectID extracts the identity's subject identifier. A provider success
// without a usable id is treated as missing user data.
func subjectID(identity *provider.Identity) (uuid.UUID, bool) {
	if identity == nil || identity.ID == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(identity.ID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}
