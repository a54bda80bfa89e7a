package session

import (
	"database/sql"
	"errors"
	"fmt"
)

const rememberedEmailKey = "remembered_email"

// RememberEmail stores the e-mail to prefill the next login.
func (s *Store) RememberEmail(email string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO preferences (key, value) VALUES (?, ?)",
		rememberedEmailKey, email,
	)
	if err != nil {
		return fmt.Errorf("failed to remember email: %w", err)
	}
	return nil
}

// RememberedEmail returns the stored e-mail or "".
func (s *Store) RememberedEmail() (string, error) {
	var email string
	err := s.db.QueryRow("SELECT value FROM preferences WHERE key = ?", rememberedEmailKey).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read remembered email: %w", err)
	}
	return email, nil
}

// ForgetEmail drops the stored e-mail.
func (s *Store) ForgetEmail() error {
	if _, err := s.db.Exec("DELETE FROM preferences WHERE key = ?", rememberedEmailKey); err != nil {
		return fmt.Errorf("failed to forget email: %w", err)
	}
	return nil
}
