// Package session keeps the logged-in user of the CLI between runs.
package session

import (
	"errors"

	"github.com/01moynul/sweetshop-golang/internal/localstore"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

// Keys under which the session lives in the local store.
const (
	KeyToken = "ss_token"
	KeyUser  = "ss_user"
)

// Session is the token and user returned by login or register.
type Session struct {
	Token string
	User  *models.User
}

// Load reads the stored session. A missing or partial session loads as
// logged out.
func Load(ls *localstore.Store) (*Session, error) {
	s := &Session{}
	if err := ls.Get(KeyToken, &s.Token); err != nil && !errors.Is(err, localstore.ErrNotFound) {
		return nil, err
	}

	var user models.User
	err := ls.Get(KeyUser, &user)
	switch {
	case err == nil:
		s.User = &user
	case !errors.Is(err, localstore.ErrNotFound):
		return nil, err
	}

	if s.Token == "" || s.User == nil {
		return &Session{}, nil
	}
	return s, nil
}

// Save writes both the token and the user.
func (s *Session) Save(ls *localstore.Store) error {
	if err := ls.Set(KeyToken, s.Token); err != nil {
		return err
	}
	return ls.Set(KeyUser, s.User)
}

// Clear logs out by removing both keys.
func Clear(ls *localstore.Store) error {
	return ls.Delete(KeyToken, KeyUser)
}

func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != "" && s.User != nil
}

func (s *Session) IsAdmin() bool {
	return s.LoggedIn() && s.User.IsAdmin()
}
