package session

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CareerNav/internal/career"
	"CareerNav/internal/telemetry"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "careernav.db")
	db, err := telemetry.InitDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil))), path
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ada@example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestStore_EmptyByDefault(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = store.Token()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_SaveSurvivesReopen(t *testing.T) {
	store, path := newTestStore(t)
	user := career.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, store.Save(Session{Token: "opaque-token", User: user}))

	db, err := telemetry.InitDB(path)
	require.NoError(t, err)
	defer db.Close()
	reopened := NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))

	sess, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", sess.Token)
	assert.Equal(t, user, sess.User)
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Save(Session{Token: "first", User: career.User{Email: "a@x.io"}}))
	require.NoError(t, store.Save(Session{Token: "second", User: career.User{Email: "b@x.io"}}))

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM auth_session").Scan(&count))
	assert.Equal(t, 1, count)

	tok, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "second", tok)
}

func TestStore_Clear(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Save(Session{Token: "tok"}))
	require.NoError(t, store.Clear())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_SaveRequiresToken(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.Save(Session{}))
}

func TestStore_ExpiredJWTIsCleared(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Save(Session{Token: signedToken(t, time.Now().Add(-time.Minute))}))

	_, err := store.Token()
	assert.ErrorIs(t, err, ErrNoSession)

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM auth_session").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestStore_ValidJWT(t *testing.T) {
	store, _ := newTestStore(t)
	tok := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(Session{Token: tok}))

	got, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, tok, got)
}

func TestStore_RememberedEmail(t *testing.T) {
	store, _ := newTestStore(t)

	email, err := store.RememberedEmail()
	require.NoError(t, err)
	assert.Empty(t, email)

	require.NoError(t, store.RememberEmail("ada@example.com"))
	email, err = store.RememberedEmail()
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)

	require.NoError(t, store.ForgetEmail())
	email, err = store.RememberedEmail()
	require.NoError(t, err)
	assert.Empty(t, email)
}
