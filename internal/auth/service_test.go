package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
	"github.com/01moynul/sweetshop-golang/internal/config"
	"github.com/01moynul/sweetshop-golang/internal/database"
	"github.com/01moynul/sweetshop-golang/internal/models"
	"github.com/01moynul/sweetshop-golang/internal/store"
)

func createTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	db, err := database.OpenDB(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "auth.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	tokens, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	svc, err := NewService(st, tokens)
	require.NoError(t, err)
	return svc, st
}

func validInput() RegisterInput {
	return RegisterInput{Name: "Priya", Email: "priya@shop.com", Password: "secret", Mobile: "9876543210"}
}

func TestRegister_CreatesUserWithToken(t *testing.T) {
	svc, st := createTestService(t)

	session, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotZero(t, session.User.ID)
	assert.Equal(t, models.RoleUser, session.User.Role)
	assert.NotEqual(t, "secret", session.User.PasswordHash)

	id, err := svc.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: session.User.ID, Email: "priya@shop.com", Role: models.RoleUser}, id)

	stored, err := st.GetUserByEmail(context.Background(), "priya@shop.com")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", stored.Mobile)
}

func TestRegister_NeverGrantsAdmin(t *testing.T) {
	svc, _ := createTestService(t)
	in := validInput()
	in.Email = "admin@anything.com"

	session, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, session.User.Role)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := createTestService(t)

	cases := map[string]func(*RegisterInput){
		"name":     func(in *RegisterInput) { in.Name = " " },
		"email":    func(in *RegisterInput) { in.Email = "" },
		"password": func(in *RegisterInput) { in.Password = "" },
		"mobile":   func(in *RegisterInput) { in.Mobile = "" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Register(context.Background(), in)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := createTestService(t)
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.Email = "  PRIYA@shop.com "
	_, err = svc.Register(context.Background(), in)
	assert.True(t, apperr.Is(err, apperr.KindDuplicateEmail), "got %v", err)
}

func TestLogin(t *testing.T) {
	svc, _ := createTestService(t)
	registered, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "Priya@Shop.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)

	id, err := svc.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, id.ID)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, _ := createTestService(t)
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), "priya@shop.com", "nope")
	_, unknownEmail := svc.Login(context.Background(), "ghost@shop.com", "secret")

	assert.True(t, apperr.Is(wrongPassword, apperr.KindInvalidCredentials))
	assert.True(t, apperr.Is(unknownEmail, apperr.KindInvalidCredentials))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _ := createTestService(t)

	_, err := svc.Login(context.Background(), "", "secret")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Login(context.Background(), "priya@shop.com", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestLogin_SeededAdmin(t *testing.T) {
	svc, st := createTestService(t)
	require.NoError(t, database.SeedAdmin(context.Background(), st.DB(), config.AdminConfig{
		Name: "Admin", Email: "admin@shop.com", Password: "admin", Mobile: "1234567890",
	}))

	session, err := svc.Login(context.Background(), "admin@shop.com", "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, session.User.Role)

	id, err := svc.Verify(session.Token)
	require.NoError(t, err)
	assert.NoError(t, Authorize(id, models.RoleAdmin))
}

func TestLogin_SeededAdminMixedCaseEmail(t *testing.T) {
	svc, st := createTestService(t)
	require.NoError(t, database.SeedAdmin(context.Background(), st.DB(), config.AdminConfig{
		Name: "Boss", Email: "Boss@Shop.com", Password: "admin", Mobile: "1234567890",
	}))

	session, err := svc.Login(context.Background(), "Boss@Shop.com", "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, session.User.Role)
	assert.Equal(t, "boss@shop.com", session.User.Email)
}

func TestVerify_Rejects(t *testing.T) {
	svc, _ := createTestService(t)

	_, err := svc.Verify("")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	_, err = svc.Verify("not.a.token")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	other, err := NewTokenManager("other-secret", time.Hour)
	require.NoError(t, err)
	forged, err := other.GenerateToken(Identity{ID: 1, Email: "x@shop.com", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Verify(forged)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestAuthorize(t *testing.T) {
	admin := Identity{ID: 1, Role: models.RoleAdmin}
	user := Identity{ID: 2, Role: models.RoleUser}

	assert.NoError(t, Authorize(admin, models.RoleAdmin))
	assert.True(t, apperr.Is(Authorize(user, models.RoleAdmin), apperr.KindForbidden))
	assert.NoError(t, Authorize(user, models.RoleUser))
}
