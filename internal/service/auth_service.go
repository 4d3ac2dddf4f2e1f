package service

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fense-console/internal/domain"
	"fense-console/pkg/ratelimit"
)

const (
	maxLoginAttempts = 5
	loginWindow      = 15 * time.Minute
)

// AuthService checks operator credentials against the configured admin
// account. Attempts are rate-limited per remote host.
type AuthService struct {
	username     string
	passwordHash string
	limiter      *ratelimit.Limiter
}

func NewAuthService(username, passwordHash string, limiter *ratelimit.Limiter) *AuthService {
	return &AuthService{
		username:     username,
		passwordHash: passwordHash,
		limiter:      limiter,
	}
}

// Authenticate validates a login attempt from remoteKey. A successful login
// resets the attempt counter for that key.
func (s *AuthService) Authenticate(username, password, remoteKey string) error {
	if !s.limiter.Allow(remoteKey, maxLoginAttempts, loginWindow) {
		log.Printf("Login rate limit hit for %s", remoteKey)
		return domain.ErrTooManyAttempts
	}

	if s.passwordHash == "" || username != s.username {
		return domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return domain.ErrInvalidCredentials
	}

	s.limiter.Reset(remoteKey)
	return nil
}
