package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/brightdesk/auth-gateway/internal/autherr"
	"github.com/brightdesk/auth-gateway/internal/dto"
	"github.com/brightdesk/auth-gateway/internal/entity"
	"github.com/brightdesk/auth-gateway/internal/provider"
	"github.com/brightdesk/auth-gateway/internal/repository"
)

// UserService encapsulates the admin-gated read-side queries. The role gate
// here is a UX short-circuit, not a security boundary; the authoritative
// check lives at the backend.
type UserService struct {
	profiles repository.ProfilesRepository
	idp      provider.IdentityProvider
}

// NewUserService builds a new UserService instance.
func NewUserService(profiles repository.ProfilesRepository, idp provider.IdentityProvider) *UserService {
	return &UserService{profiles: profiles, idp: idp}
}

// ListUsers returns all profile rows for admin callers. Non-admin callers
// get an empty list without any remote call; store failures are logged and
// also yield an empty list.
func (s *UserService) ListUsers(ctx context.Context, role string) []dto.UserResponse {
	if role != RoleAdmin {
		return []dto.UserResponse{}
	}

	users, err := s.profiles.List(ctx)
	if err != nil {
		log.Printf("list profiles failed: %v", err)
		return []dto.UserResponse{}
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}
	return responses
}

// UserStats returns the dashboard counters for admin callers; everyone else
// (and any store failure) gets zeroed stats.
func (s *UserService) UserStats(ctx context.Context, role string) entity.UserStats {
	if role != RoleAdmin {
		return entity.UserStats{}
	}

	stats, err := s.profiles.Stats(ctx)
	if err != nil {
		log.Printf("profile stats failed: %v", err)
		return entity.UserStats{}
	}
	return stats
}

// DeleteUser removes the profile row and then the identity. Non-admin
// callers fail with ErrUnauthorized before any remote call.
func (s *UserService) DeleteUser(ctx context.Context, role, id string) error {
	if role != RoleAdmin {
		return autherr.ErrUnauthorized
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return autherr.ErrInvalidUserID
	}

	if err := s.profiles.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if err := s.idp.DeleteIdentity(ctx, userID.String()); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}

// toUserResponse maps a profile row to its API shape, deriving a display
// name from the email when the row has none.
func toUserResponse(u entity.User) dto.UserResponse {
	name := u.Name
	if name == "" {
		name = localPart(u.Email)
	}
	role := u.Role
	if role == "" {
		role = RoleUser
	}
	return dto.UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      name,
		Role:      role,
		CreatedAt: u.CreatedAt,
	}
}
