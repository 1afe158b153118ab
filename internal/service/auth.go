package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/outreach-drafter/internal/auth"
)

// RoleOperator is the only role the service issues.
const RoleOperator = "operator"

// ErrInvalidCredentials is returned for any email or password mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService validates the configured operator's credentials and issues tokens.
type AuthService struct {
	email        string
	passwordHash []byte
	jwt          *auth.JWTManager
}

// NewAuthService constructs a new AuthService for a single operator account.
func NewAuthService(email, passwordHash string, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: []byte(passwordHash),
		jwt:          jwtManager,
	}
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(_ context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", errors.New("email and password must not be empty")
	}
	if s.email == "" || len(s.passwordHash) == 0 {
		return "", ErrInvalidCredentials
	}
	if email != s.email {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	subject := uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+s.email)).String()
	return s.jwt.GenerateToken(subject, s.email, RoleOperator)
}
