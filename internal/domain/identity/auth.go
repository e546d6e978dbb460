package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid user ID or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrPasswordEmpty      = errors.New("password must not be empty")
	ErrPasswordUnchanged  = errors.New("new password must differ from the current one")
)

// HashPassword derives a bcrypt hash from the plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Session is an authenticated console session. The console layer carries it
// explicitly; there is no process-wide current user.
type Session struct {
	Token     string
	User      *User
	StartedAt time.Time
}

// AuthService authenticates users against the staff and patient rosters and
// tracks active sessions by token.
type AuthService struct {
	staff    UserRepository
	patients UserRepository
	sessions map[string]*Session
	now      func() time.Time
	log      zerolog.Logger
}

func NewAuthService(staff, patients UserRepository, log zerolog.Logger) *AuthService {
	return &AuthService{
		staff:    staff,
		patients: patients,
		sessions: map[string]*Session{},
		now:      time.Now,
		log:      log,
	}
}

// WithClock overrides the time source, for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Login verifies the credentials and opens a session. Unknown users and bad
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(userID, password string) (*Session, error) {
	user := s.lookup(userID)
	if user == nil {
		s.log.Debug().Str("user_id", userID).Msg("login attempt for unknown user")
		return nil, ErrInvalidCredentials
	}
	if !VerifyPassword(user.PasswordHash, password) {
		s.log.Debug().Str("user_id", userID).Msg("login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}
	session := &Session{
		Token:     uuid.NewString(),
		User:      user,
		StartedAt: s.now(),
	}
	s.sessions[session.Token] = session
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")
	return session, nil
}

// Logout closes the session. Closing an unknown token is a no-op.
func (s *AuthService) Logout(token string) {
	if session, ok := s.sessions[token]; ok {
		delete(s.sessions, token)
		s.log.Info().Str("user_id", session.User.ID).Msg("user logged out")
	}
}

// SessionByToken resolves an active session.
func (s *AuthService) SessionByToken(token string) (*Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// ActiveSessions returns the number of open sessions.
func (s *AuthService) ActiveSessions() int {
	return len(s.sessions)
}

// ChangePassword rehashes and persists a new password for the session's
// user. The new password must be non-empty and differ from the current one.
func (s *AuthService) ChangePassword(session *Session, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return ErrPasswordEmpty
	}
	if VerifyPassword(session.User.PasswordHash, newPassword) {
		return ErrPasswordUnchanged
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	session.User.PasswordHash = hash

	repo := s.staff
	if session.User.Role == RolePatient {
		repo = s.patients
	}
	if err := repo.Update(session.User); err != nil {
		return fmt.Errorf("persist password change: %w", err)
	}
	s.log.Info().Str("user_id", session.User.ID).Msg("password changed")
	return nil
}

func (s *AuthService) lookup(userID string) *User {
	if u, ok := s.staff.FindByID(userID); ok {
		return u
	}
	if u, ok := s.patients.FindByID(userID); ok {
		return u
	}
	return nil
}
