package auth

import (
	"context"
	"strings"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

// UserStore is the part of the credential store the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// RegisterInput holds the fields a new account is created from.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Mobile   string
}

// Session is returned by a successful register or login.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Service registers and logs in users and verifies their tokens.
type Service struct {
	users  UserStore
	tokens *TokenManager

	// dummyHash is compared against when the email is unknown, so a miss
	// costs the same bcrypt work as a wrong password.
	dummyHash string
}

func NewService(users UserStore, tokens *TokenManager) (*Service, error) {
	var dummy models.Password
	if err := dummy.Set("sweetshop-dummy-password"); err != nil {
		return nil, err
	}
	return &Service{users: users, tokens: tokens, dummyHash: dummy.Hash}, nil
}

// Tokens exposes the token manager used by the middleware.
func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

// NormalizeEmail trims and lower-cases an address before lookup or insert.
func NormalizeEmail(email string) string {
	return models.NormalizeEmail(email)
}

// Register creates a new account with the "user" role and returns it with
// a fresh token. Admins are only ever provisioned by the seeder.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	// 1. --- Validate ---
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.Mobile = strings.TrimSpace(in.Mobile)
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Mobile == "" {
		return nil, apperr.Validation("Please enter all fields")
	}

	// 2. --- Check for an existing account ---
	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.New(apperr.KindDuplicateEmail, "User already exists")
	}

	// 3. --- Hash the password ---
	var password models.Password
	if err := password.Set(in.Password); err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}

	// 4. --- Insert ---
	// The unique index still catches a concurrent registration of the
	// same email; CreateUser maps it to KindDuplicateEmail.
	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Mobile:       in.Mobile,
		PasswordHash: password.Hash,
		Role:         models.RoleUser,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login checks the credentials and returns the user with a fresh token.
// An unknown email and a wrong password fail the same way.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Please enter all fields")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		dummy := models.Password{Hash: s.dummyHash}
		_, _ = dummy.Matches(password)
		return nil, invalidCredentials()
	}

	stored := models.Password{Hash: user.PasswordHash}
	ok, err := stored.Matches(password)
	if err != nil {
		return nil, apperr.Internal("Failed to verify password", err)
	}
	if !ok {
		return nil, invalidCredentials()
	}

	return s.issue(user)
}

// Verify turns a bearer token into the caller's identity.
func (s *Service) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, apperr.Unauthenticated("Authorization token required")
	}
	id, err := s.tokens.ValidateToken(token)
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.KindUnauthenticated, "Invalid or expired token", err)
	}
	return id, nil
}

// Authorize fails with KindForbidden unless the identity holds role.
func Authorize(id Identity, role string) error {
	if id.Role != role {
		return apperr.Forbidden("Access denied: " + role + " role required")
	}
	return nil
}

// IdentityOf is the token payload for a stored user.
func IdentityOf(u *models.User) Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

func (s *Service) issue(user *models.User) (*Session, error) {
	token, err := s.tokens.GenerateToken(IdentityOf(user))
	if err != nil {
		return nil, apperr.Internal("Failed to generate token", err)
	}
	return &Session{User: user, Token: token}, nil
}

func invalidCredentials() error {
	return apperr.New(apperr.KindInvalidCredentials, "Invalid credentials")
}
