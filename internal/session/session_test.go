package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/sweetshop-golang/internal/localstore"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

func newStore(t *testing.T) *localstore.Store {
	return localstore.Open(filepath.Join(t.TempDir(), "state.json"))
}

func TestLoad_Empty(t *testing.T) {
	s, err := Load(newStore(t))
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())
	assert.False(t, s.IsAdmin())
}

func TestSaveLoadClear(t *testing.T) {
	ls := newStore(t)
	in := &Session{
		Token: "tok",
		User:  &models.User{ID: 1, Name: "Admin", Email: "admin@shop.com", Role: models.RoleAdmin},
	}
	require.NoError(t, in.Save(ls))

	out, err := Load(ls)
	require.NoError(t, err)
	assert.True(t, out.LoggedIn())
	assert.True(t, out.IsAdmin())
	assert.Equal(t, "tok", out.Token)
	assert.Equal(t, "admin@shop.com", out.User.Email)

	require.NoError(t, Clear(ls))
	out, err = Load(ls)
	require.NoError(t, err)
	assert.False(t, out.LoggedIn())
}

func TestLoad_TokenWithoutUserIsLoggedOut(t *testing.T) {
	ls := newStore(t)
	require.NoError(t, ls.Set(KeyToken, "tok"))

	s, err := Load(ls)
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())
}
