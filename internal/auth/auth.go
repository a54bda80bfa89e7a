// Package auth implements login, signup and logout on top of the API client
// and the session store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"CareerNav/internal/api"
	"CareerNav/internal/career"
	"CareerNav/internal/session"
)

const MinPasswordLength = 8

var (
	ErrBadCredentials   = errors.New("incorrect email or password")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrWeakPassword     = fmt.Errorf("password must be at least %d characters and contain a letter and a digit", MinPasswordLength)
	ErrEmptyName        = errors.New("name cannot be empty")
)

// Gateway is the subset of the API client used for authentication.
type Gateway interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, name, email, password string) (career.User, error)
	MeWithToken(ctx context.Context, token string) (career.User, error)
}

// Service runs the authentication flows.
type Service struct {
	gw     Gateway
	store  *session.Store
	logger *slog.Logger
}

// NewService creates a Service.
func NewService(gw Gateway, store *session.Store, logger *slog.Logger) *Service {
	return &Service{gw: gw, store: store, logger: logger.With("component", "auth")}
}

// Login exchanges credentials for a token, fetches the profile and persists
// both. When remember is set the e-mail is kept for the next login prompt,
// otherwise any remembered e-mail is forgotten.
func (s *Service) Login(ctx context.Context, email, password string, remember bool) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if password == "" {
		return nil, ErrBadCredentials
	}

	token, err := s.gw.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.logger.Info("login rejected", "email", email)
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	user, err := s.gw.MeWithToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	sess := session.Session{Token: token, User: user, CreatedAt: time.Now().UTC()}
	if err := s.store.Save(sess); err != nil {
		return nil, err
	}

	if remember {
		err = s.store.RememberEmail(email)
	} else {
		err = s.store.ForgetEmail()
	}
	if err != nil {
		s.logger.Warn("failed to update remembered email", "error", err)
	}

	s.logger.Info("logged in", "user_id", user.ID)
	return &sess, nil
}

// Signup registers an account and logs straight into it.
func (s *Service) Signup(ctx context.Context, name, email, password, confirm string) (*session.Session, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}
	if err := CheckPassword(password); err != nil {
		return nil, err
	}

	user, err := s.gw.Signup(ctx, name, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}
	s.logger.Info("signed up", "user_id", user.ID)

	return s.Login(ctx, email, password, false)
}

// Logout drops the stored session.
func (s *Service) Logout() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.logger.Info("logged out")
	return nil
}

// CheckPassword applies the backend's password rules.
func CheckPassword(p string) error {
	if len(p) < MinPasswordLength {
		return ErrWeakPassword
	}
	var letter, digit bool
	for _, r := range p {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return ErrWeakPassword
	}
	return nil
}
