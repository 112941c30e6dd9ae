package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brightdesk/auth-gateway/internal/autherr"
	"github.com/brightdesk/auth-gateway/internal/entity"
	"github.com/brightdesk/auth-gateway/internal/provider"
	"github.com/brightdesk/auth-gateway/internal/repository"
)

type mockIdentityProvider struct {
	createIdentity       func(ctx context.Context, email, password string, metadata provider.Metadata) (*provider.Identity, error)
	authenticate         func(ctx context.Context, email, password string) (*provider.Session, error)
	signOut              func(ctx context.Context, accessToken string) error
	requestPasswordReset func(ctx context.Context, email, redirectTo string) error
	updatePassword       func(ctx context.Context, accessToken, newPassword string) error
	deleteIdentity       func(ctx context.Context, id string) error
}

func (m *mockIdentityProvider) CreateIdentity(ctx context.Context, email, password string, metadata provider.Metadata) (*provider.Identity, error) {
	if m.createIdentity != nil {
		return m.createIdentity(ctx, email, password, metadata)
	}
	return nil, errors.New("CreateIdentity not implemented")
}

func (m *mockIdentityProvider) Authenticate(ctx context.Context, email, password string) (*provider.Session, error) {
	if m.authenticate != nil {
		return m.authenticate(ctx, email, password)
	}
	return nil, errors.New("Authenticate not implemented")
}

func (m *mockIdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	if m.signOut != nil {
		return m.signOut(ctx, accessToken)
	}
	return errors.New("SignOut not implemented")
}

func (m *mockIdentityProvider) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	if m.requestPasswordReset != nil {
		return m.requestPasswordReset(ctx, email, redirectTo)
	}
	return errors.New("RequestPasswordReset not implemented")
}

func (m *mockIdentityProvider) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	if m.updatePassword != nil {
		return m.updatePassword(ctx, accessToken, newPassword)
	}
	return errors.New("UpdatePassword not implemented")
}

func (m *mockIdentityProvider) DeleteIdentity(ctx context.Context, id string) error {
	if m.deleteIdentity != nil {
		return m.deleteIdentity(ctx, id)
	}
	return errors.New("DeleteIdentity not implemented")
}

type mockProfilesRepository struct {
	findByID      func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	insert        func(ctx context.Context, id uuid.UUID, email, name, role string) (*entity.User, error)
	list          func(ctx context.Context) ([]entity.User, error)
	stats         func(ctx context.Context) (entity.UserStats, error)
	delete        func(ctx context.Context, id uuid.UUID) error
	touchLastSeen func(ctx context.Context, id uuid.UUID) error
}

func (m *mockProfilesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *mockProfilesRepository) Insert(ctx context.Context, id uuid.UUID, email, name, role string) (*entity.User, error) {
	if m.insert != nil {
		return m.insert(ctx, id, email, name, role)
	}
	return nil, errors.New("Insert not implemented")
}

func (m *mockProfilesRepository) List(ctx context.Context) ([]entity.User, error) {
	if m.list != nil {
		return m.list(ctx)
	}
	return nil, errors.New("List not implemented")
}

func (m *mockProfilesRepository) Stats(ctx context.Context) (entity.UserStats, error) {
	if m.stats != nil {
		return m.stats(ctx)
	}
	return entity.UserStats{}, errors.New("Stats not implemented")
}

func (m *mockProfilesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	return errors.New("Delete not implemented")
}

func (m *mockProfilesRepository) TouchLastSeen(ctx context.Context, id uuid.UUID) error {
	if m.touchLastSeen != nil {
		return m.touchLastSeen(ctx, id)
	}
	return nil
}

const testSubjectID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"

func TestAuthService_Signup_Validation(t *testing.T) {
	tests := map[string]struct {
		signupName string
		email      string
		password   string
		field      string
	}{
		"empty name":           {signupName: "", email: "a@b.com", password: "secret1", field: "name"},
		"whitespace-only name": {signupName: "   ", email: "a@b.com", password: "secret1", field: "name"},
		"invalid email":        {signupName: "Ann", email: "not-an-email", password: "secret1", field: "email"},
		"empty email":          {signupName: "Ann", email: "", password: "secret1", field: "email"},
		"short password":       {signupName: "Ann", email: "a@b.com", password: "12345", field: "password"},
		"empty password":       {signupName: "Ann", email: "a@b.com", password: "", field: "password"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			remoteCalls := 0
			idp := &mockIdentityProvider{
				createIdentity: func(ctx context.Context, email, password string, metadata provider.Metadata) (*provider.Identity, error) {
					remoteCalls++
					return nil, errors.New("must not be called")
				},
			}
			service := NewAuthService(idp, &mockProfilesRepository{}, "")

			_, err := service.Signup(context.Background(), tt.signupName, tt.email, tt.password)

			var ve *autherr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, ve.Field)
			}
			if remoteCalls != 0 {
				t.Fatalf("validation failure must not issue remote calls, got %d", remoteCalls)
			}
		})
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	created := time.Now()
	idp := &mockIdentityProvider{
		createIdentity: func(ctx context.Context, email, password string, metadata provider.Metadata) (*provider.Identity, error) {
			if metadata.Name != "Ann" || metadata.Role != RoleUser {
				t.Fatalf("unexpected metadata: %+v", metadata)
			}
			return &provider.Identity{ID: testSubjectID, Email: email, Metadata: metadata}, nil
		},
	}
	profiles := &mockProfilesRepository{
		insert: func(ctx context.Context, id uuid.UUID, email, name, role string) (*entity.User, error) {
			if id.String() != testSubjectID {
				t.Fatalf("profile id must equal identity subject, got %s", id)
			}
			return &entity.User{ID: id, Email: email, Name: name, Role: role, CreatedAt: created}, nil
		},
	}

	service := NewAuthService(idp, profiles, "")
	user, err := service.Signup(context.Background(), "Ann", "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "a@b.com" || user.Name != "Ann" || user.Role != "user" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !user.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at from profile row")
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	tests := map[string]error{
		"provider duplicate message": &provider.Error{Message: "User already registered"},
		"database duplicate key":     errors.New(`duplicate key value violates unique constraint "users_email_key"`),
	}

	for name, providerErr := range tests {
		t.Run(name, func(t *testing.T) {
			idp := &mockIdentityProvider{
				createIdentity: func(ctx context.Context, email, password string, metadata provider.Metadata) (*provider.Identity, error) {
					return nil, providerErr
				},
			}
			service := NewAuthService(idp, &mockProfilesRepository{}, "")

			_, err := service.Signup(context.Background(), "Ann", "a@b.com", "secret1")
			if !errors.Is(err, autherr.ErrEmailTaken) {
				t.Fatalf("expected ErrEmailTaken, got %v", err)
			}
		})
	}
}

func TestAuthService_Signup_NoUserData(t *testing.T) {
	tests := map[string]*provider.Identity{
		"nil identity":   nil,
		"empty id":       {ID: "", Email: "a@b.com"},
		"unparseable id": {ID: "not-a-uuid", Email: "a@b.com"},
	}

	for name, identity := range tests {
		t.Run(name, func(t *testing.T) {
			idp := &mockIdentityProvider{
				createIdentity: func(ctx context.Context, email, password string, metadata provider.Metadata) (*provider.Identity, error) {
					return identity, nil
				},
			}
			service := NewAuthService(idp, &mockProfilesRepository{}, "")

			_, err := service.Signup(context.Background(), "Ann", "a@b.com", "secret1")
			if !errors.Is(err, autherr.ErrNoUserData) {
				t.Fatalf("expected ErrNoUserData, got %v", err)
			}
		})
	}
}

func TestAuthService_Signup_ProfileInsertFailureCompensates(t *testing.T) {
	tests := map[string]struct {
		deleteErr error
	}{
		"compensating delete succeeds": {deleteErr: nil},
		"compensating delete fails":    {deleteErr: errors.New("admin endpoint unavailable")},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			deletes := 0
			idp := &mockIdentityProvider{
				createIdentity: func(ctx context.Context, email, password string, metadata provider.Metadata) (*provider.Identity, error) {
					return &provider.Identity{ID: testSubjectID, Email: email}, nil
				},
				deleteIdentity: func(ctx context.Context, id string) error {
					if id != testSubjectID {
						t.Fatalf("compensation must target the created identity, got %s", id)
					}
					deletes++
					return tt.deleteErr
				},
			}
			profiles := &mockProfilesRepository{
				insert: func(ctx context.Context, id uuid.UUID, email, name, role string) (*entity.User, error) {
					return nil, errors.New("insert profile: connection reset")
				},
			}

			service := NewAuthService(idp, profiles, "")
			_, err := service.Signup(context.Background(), "Ann", "a@b.com", "secret1")
			if !errors.Is(err, autherr.ErrProfileCreationFailed) {
				t.Fatalf("expected ErrProfileCreationFailed, got %v", err)
			}
			if deletes != 1 {
				t.Fatalf("expected exactly one compensating delete, got %d", deletes)
			}
		})
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	remoteCalls := 0
	idp := &mockIdentityProvider{
		authenticate: func(ctx context.Context, email, password string) (*provider.Session, error) {
			remoteCalls++
			return nil, errors.New("must not be called")
		},
	}
	service := NewAuthService(idp, &mockProfilesRepository{}, "")

	for _, creds := range [][2]string{{"", "secret1"}, {"a@b.com", ""}, {"", ""}} {
		_, _, err := service.Login(context.Background(), creds[0], creds[1])
		if !errors.Is(err, autherr.ErrMissingFields) {
			t.Fatalf("expected ErrMissingFields for %v, got %v", creds, err)
		}
	}
	if remoteCalls != 0 {
		t.Fatalf("missing fields must not issue remote calls, got %d", remoteCalls)
	}
}

func TestAuthService_Login_InvalidCredentialsMapsToClosedSet(t *testing.T) {
	idp := &mockIdentityProvider{
		authenticate: func(ctx context.Context, email, password string) (*provider.Session, error) {
			return nil, &provider.Error{Message: "Invalid login credentials"}
		},
	}
	service := NewAuthService(idp, &mockProfilesRepository{}, "")

	_, _, err := service.Login(context.Background(), "a@b.com", "wrong-pass")
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := autherr.MessageFor(err); got != autherr.MsgInvalidCredentials {
		t.Fatalf("expected invalid-credentials sentence, got %q", got)
	}
}

func TestAuthService_Login_SelfHealsMissingProfile(t *testing.T) {
	session := &provider.Session{
		AccessToken: "token-123",
		Identity:    provider.Identity{ID: testSubjectID, Email: "ann@example.com", Metadata: provider.Metadata{}},
	}
	idp := &mockIdentityProvider{
		authenticate: func(ctx context.Context, email, password string) (*provider.Session, error) {
			return session, nil
		},
	}

	inserted := 0
	profiles := &mockProfilesRepository{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
			return nil, repository.ErrProfileNotFound
		},
		insert: func(ctx context.Context, id uuid.UUID, email, name, role string) (*entity.User, error) {
			inserted++
			if name != "ann" {
				t.Fatalf("expected name derived from email local part, got %q", name)
			}
			if role != RoleUser {
				t.Fatalf("expected default role, got %q", role)
			}
			return &entity.User{ID: id, Email: email, Name: name, Role: role, CreatedAt: time.Now()}, nil
		},
	}

	service := NewAuthService(idp, profiles, "")
	user, sess, err := service.Login(context.Background(), "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("expected one healing insert, got %d", inserted)
	}
	if user.Name != "ann" || sess.AccessToken != "token-123" {
		t.Fatalf("unexpected result: user=%+v session=%+v", user, sess)
	}
}

func TestAuthService_Login_ProfileFetchErrorPropagates(t *testing.T) {
	idp := &mockIdentityProvider{
		authenticate: func(ctx context.Context, email, password string) (*provider.Session, error) {
			return &provider.Session{Identity: provider.Identity{ID: testSubjectID, Email: "ann@example.com"}}, nil
		},
	}
	profiles := &mockProfilesRepository{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
			return nil, errors.New("query profile by id: connection refused")
		},
	}

	service := NewAuthService(idp, profiles, "")
	_, _, err := service.Login(context.Background(), "ann@example.com", "secret1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, repository.ErrProfileNotFound) {
		t.Fatalf("non-not-found fetch errors must not trigger healing")
	}
}

func TestAuthService_Login_TouchLastSeenFailureIgnored(t *testing.T) {
	idp := &mockIdentityProvider{
		authenticate: func(ctx context.Context, email, password string) (*provider.Session, error) {
			return &provider.Session{Identity: provider.Identity{ID: testSubjectID, Email: "ann@example.com"}}, nil
		},
	}
	profiles := &mockProfilesRepository{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
			return &entity.User{ID: id, Email: "ann@example.com", Name: "Ann", Role: "user"}, nil
		},
		touchLastSeen: func(ctx context.Context, id uuid.UUID) error {
			return errors.New("touch last seen: timeout")
		},
	}

	service := NewAuthService(idp, profiles, "")
	if _, _, err := service.Login(context.Background(), "ann@example.com", "secret1"); err != nil {
		t.Fatalf("last-seen failures must not fail login: %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("provider failure collapses to sign-out error", func(t *testing.T) {
		idp := &mockIdentityProvider{
			signOut: func(ctx context.Context, accessToken string) error {
				return &provider.Error{Message: "session not found", Status: 404}
			},
		}
		service := NewAuthService(idp, &mockProfilesRepository{}, "")

		err := service.Logout(context.Background(), "token-123")
		if !errors.Is(err, autherr.ErrSignOutFailed) {
			t.Fatalf("expected ErrSignOutFailed, got %v", err)
		}
		if got := autherr.MessageFor(err); got != autherr.SignOutMessage {
			t.Fatalf("expected fixed sign-out sentence, got %q", got)
		}
	})

	t.Run("success", func(t *testing.T) {
		idp := &mockIdentityProvider{
			signOut: func(ctx context.Context, accessToken string) error {
				if accessToken != "token-123" {
					t.Fatalf("expected session token to be passed, got %q", accessToken)
				}
				return nil
			},
		}
		service := NewAuthService(idp, &mockProfilesRepository{}, "")
		if err := service.Logout(context.Background(), "token-123"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	idp := &mockIdentityProvider{
		requestPasswordReset: func(ctx context.Context, email, redirectTo string) error {
			if redirectTo != "https://app.example.com/reset-password" {
				t.Fatalf("expected configured redirect target, got %q", redirectTo)
			}
			return nil
		},
	}
	service := NewAuthService(idp, &mockProfilesRepository{}, "https://app.example.com/reset-password")
	if err := service.RequestPasswordReset(context.Background(), "ann@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuthService_UpdatePassword(t *testing.T) {
	idp := &mockIdentityProvider{
		updatePassword: func(ctx context.Context, accessToken, newPassword string) error {
			return &provider.Error{Message: "Password should be at least 6 characters"}
		},
	}
	service := NewAuthService(idp, &mockProfilesRepository{}, "")

	err := service.UpdatePassword(context.Background(), "token-123", "short")
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := autherr.MessageFor(err); got != autherr.MsgWeakPassword {
		t.Fatalf("expected weak-password sentence, got %q", got)
	}
}
