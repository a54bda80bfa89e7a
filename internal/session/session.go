// Package session persists the authenticated user's bearer token and profile.
// It is the only state shared between screens.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"CareerNav/internal/career"
)

// ErrNoSession is returned when nobody is logged in.
var ErrNoSession = errors.New("no active session")

// Session is the bearer token plus the profile it belongs to.
type Session struct {
	Token     string
	User      career.User
	CreatedAt time.Time
}

// Store keeps at most one Session in SQLite and caches it in memory.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	current *Session
	loaded  bool
}

// NewStore creates a store over an initialised database.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger, now: time.Now}
}

// Load returns the persisted session, or ErrNoSession. Expired JWTs are
// cleared and reported as ErrNoSession.
func (s *Store) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		sess, err := s.read()
		if err != nil {
			return nil, err
		}
		s.current = sess
		s.loaded = true
	}

	if s.current == nil {
		return nil, ErrNoSession
	}
	if s.expired(s.current.Token) {
		s.logger.Info("stored token expired, clearing session", "email", s.current.User.Email)
		if err := s.clear(); err != nil {
			return nil, err
		}
		return nil, ErrNoSession
	}

	out := *s.current
	return &out, nil
}

// Token returns the bearer token for API calls.
func (s *Store) Token() (string, error) {
	sess, err := s.Load()
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

// Save replaces the stored session. Called on login and signup only.
func (s *Store) Save(sess Session) error {
	if sess.Token == "" {
		return fmt.Errorf("cannot save session without token")
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO auth_session (id, token, user_id, user_name, user_email, created_at)
		 VALUES (1, ?, ?, ?, ?, ?)`,
		sess.Token, sess.User.ID, sess.User.Name, sess.User.Email, sess.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.current = &sess
	s.loaded = true
	s.logger.Info("session saved", "email", sess.User.Email)
	return nil
}

// Clear removes the session. Called on logout.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clear()
}

func (s *Store) clear() error {
	if _, err := s.db.Exec("DELETE FROM auth_session"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.current = nil
	s.loaded = true
	s.logger.Info("session cleared")
	return nil
}

func (s *Store) read() (*Session, error) {
	var sess Session
	var userID, name, email sql.NullString
	var created sql.NullTime
	err := s.db.QueryRow(
		"SELECT token, user_id, user_name, user_email, created_at FROM auth_session WHERE id = 1",
	).Scan(&sess.Token, &userID, &name, &email, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	sess.User = career.User{ID: userID.String, Name: name.String, Email: email.String}
	sess.CreatedAt = created.Time
	return &sess, nil
}

// expired decodes the token without verifying it; the backend owns the key.
// Opaque tokens and tokens without exp are never considered expired.
func (s *Store) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}
