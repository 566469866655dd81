package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

func TestCreateUser_AssignsIDAndDefaults(t *testing.T) {
	s := createTestStore(t)
	u := &models.User{Name: "Asha", Email: "asha@shop.com", Mobile: "98765", PasswordHash: "hash"}

	require.NoError(t, s.CreateUser(context.Background(), u))

	assert.NotZero(t, u.ID)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := createTestStore(t)
	createTestUser(t, s, "dup@shop.com")

	err := s.CreateUser(context.Background(), &models.User{Name: "Again", Email: "dup@shop.com", PasswordHash: "x"})
	assert.True(t, apperr.Is(err, apperr.KindDuplicateEmail), "got %v", err)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestGetUser(t *testing.T) {
	s := createTestStore(t)
	u := createTestUser(t, s, "find@shop.com")
	ctx := context.Background()

	byEmail, err := s.GetUserByEmail(ctx, "find@shop.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "555", byEmail.Mobile)

	byID, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "find@shop.com", byID.Email)

	_, err = s.GetUserByEmail(ctx, "missing@shop.com")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestEmailExists(t *testing.T) {
	s := createTestStore(t)
	createTestUser(t, s, "here@shop.com")
	ctx := context.Background()

	ok, err := s.EmailExists(ctx, "here@shop.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.EmailExists(ctx, "gone@shop.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
