package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadito/backend/internal/entity"
)

func TestProfileUpdate_RequiresFullName(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo(), &fakeRoleRepo{})

	_, err := svc.Update(context.Background(), "u1", ProfileInput{FullName: "   "})
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "full_name", inputErr.Field)
}

func TestProfileUpdate_Upserts(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeRoleRepo{})

	p, err := svc.Update(context.Background(), "u1", ProfileInput{
		FullName: "Ana Pérez", Phone: "53512345", Municipality: "Plaza",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)

	stored, err := repo.FindByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", stored.FullName)
}

func TestRole_DefaultsToUser(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo(), &fakeRoleRepo{roles: map[string]string{"u1": "admin"}})

	role, err := svc.Role(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	role, err = svc.Role(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, "user", role)
}

func TestAllUsers_MissingProfileDefaultsToBlank(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	profileRepo.profiles["u1"] = &entity.Profile{UserID: "u1", FullName: "Ana"}
	roleRepo := &fakeRoleRepo{roles: map[string]string{"u1": "admin", "u2": "user"}}

	svc := NewProfileService(profileRepo, roleRepo)
	users, err := svc.AllUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	byID := make(map[string]UserWithRole)
	for _, u := range users {
		byID[u.UserID] = u
	}
	assert.Equal(t, "admin", byID["u1"].Role)
	assert.Equal(t, "Ana", byID["u1"].FullName)
	assert.Equal(t, "user", byID["u2"].Role)
	assert.Empty(t, byID["u2"].FullName, "no profile row yet, blank placeholder")
}
