package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stokpanel/internal/core/apperror"
)

// memStore is an in-memory SessionStore.
type memStore struct {
	flags map[string]bool
}

func newMemStore() *memStore {
	return &memStore{flags: make(map[string]bool)}
}

func (m *memStore) Put(ctx context.Context, sessionID string) error {
	m.flags[sessionID] = true
	return nil
}

func (m *memStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	return m.flags[sessionID], nil
}

func (m *memStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.flags, sessionID)
	return nil
}

func newTestService(store SessionStore) *Service {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(Config{Username: "admin", Password: "sifre123"}, store, jwtService)
}

func TestLogin_Success(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	token, err := svc.Login(context.Background(), "admin", "sifre123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Exactly one session flag was persisted.
	assert.Len(t, store.flags, 1)
}

func TestLogin_WrongCredentials(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	for _, tc := range []struct{ user, pass string }{
		{"admin", "wrong"},
		{"someone", "sifre123"},
		{"", ""},
	} {
		_, err := svc.Login(ctx, tc.user, tc.pass)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok, "user=%q pass=%q", tc.user, tc.pass)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	}

	// Failed logins never persist a flag.
	assert.Empty(t, store.flags)
}

func TestLogin_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sifre123"), bcrypt.MinCost)
	require.NoError(t, err)

	store := newMemStore()
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	svc := NewService(Config{Username: "admin", PasswordHash: string(hash)}, store, jwtService)

	_, err = svc.Login(context.Background(), "admin", "sifre123")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "admin", "other")
	assert.Error(t, err)
}

func TestLogout_RemovesSession(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	token, err := svc.Login(ctx, "admin", "sifre123")
	require.NoError(t, err)

	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	user, err := jwtService.ValidateToken(token)
	require.NoError(t, err)

	active, err := svc.SessionActive(ctx, user.SessionID)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, svc.Logout(ctx, user.SessionID))

	active, err = svc.SessionActive(ctx, user.SessionID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestJWT_RoundTrip(t *testing.T) {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))

	token, err := jwtService.GenerateToken("admin", "session-1")
	require.NoError(t, err)

	user, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, "session-1", user.SessionID)
}

func TestJWT_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService(DefaultJWTConfig("secret-a")).GenerateToken("admin", "s")
	require.NoError(t, err)

	_, err = NewJWTService(DefaultJWTConfig("secret-b")).ValidateToken(token)
	assert.Error(t, err)
}
