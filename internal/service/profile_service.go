package service

import (
	"context"
	"strings"

	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/repository"
)

// ProfileService manages per-user contact and delivery defaults, plus the
// admin user listing.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	roleRepo    repository.RoleRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, roleRepo repository.RoleRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, roleRepo: roleRepo}
}

func (s *ProfileService) Profile(ctx context.Context, userID string) (*entity.Profile, error) {
	return s.profileRepo.FindByUser(ctx, userID)
}

// Role returns the user's role from the mirrored role table, defaulting to
// "user" when no row exists. The token claim is what gates requests; this is
// the authoritative value shown on the profile page.
func (s *ProfileService) Role(ctx context.Context, userID string) (string, error) {
	return s.roleRepo.FindRole(ctx, userID)
}

// ProfileInput is the profile-edit payload.
type ProfileInput struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Municipality string `json:"municipality"`
}

func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileInput) (*entity.Profile, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, &InputError{Field: "full_name", Message: "full name is required"}
	}
	p := &entity.Profile{
		UserID:       userID,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Email:        in.Email,
		Address:      in.Address,
		Municipality: in.Municipality,
	}
	if err := s.profileRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UserWithRole pairs a profile with its role claim for the admin user list.
type UserWithRole struct {
	entity.Profile
	Role string `json:"role"`
}

// AllUsers lists every known profile with its role; users without a
// user_roles row default to "user".
func (s *ProfileService) AllUsers(ctx context.Context) ([]UserWithRole, error) {
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// No bulk profile listing is needed anywhere else, so reuse the role map
	// as the user set and fetch profiles individually.
	users := make([]UserWithRole, 0, len(roles))
	for userID, role := range roles {
		p, err := s.profileRepo.FindByUser(ctx, userID)
		if err == entity.ErrNotFound {
			p = &entity.Profile{UserID: userID}
		} else if err != nil {
			return nil, err
		}
		users = append(users, UserWithRole{Profile: *p, Role: role})
	}
	return users, nil
}
