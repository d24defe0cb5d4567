package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockpilot/internal/domain"
	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

type fakeAuthenticator struct {
	users map[string]string
	roles map[string]string
	calls int
}

func (f *fakeAuthenticator) Login(_ context.Context, username, password string) (*models.LoginResult, error) {
	f.calls++
	if pass, ok := f.users[username]; !ok || pass != password {
		return nil, &domain.APIError{Op: "login", Status: 401, Detail: "Usuario o contraseña incorrectos", Kind: domain.ErrInvalidCredentials}
	}
	return &models.LoginResult{AccessToken: "token-" + username, TokenType: "bearer", Role: f.roles[username]}, nil
}

func newAuth() *fakeAuthenticator {
	return &fakeAuthenticator{
		users: map[string]string{"admin": "secret", "caja1": "1234"},
		roles: map[string]string{"admin": "admin", "caja1": "empleado"},
	}
}

func TestLoginPersistsSession(t *testing.T) {
	storage := &MemoryStorage{}
	store, err := NewStore(newAuth(), storage, nil)
	require.NoError(t, err)

	session, err := store.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	assert.Equal(t, "token-admin", session.Token)
	assert.True(t, session.IsAdmin())
	assert.Equal(t, "admin", session.Username)
	assert.Equal(t, "token-admin", store.Token())

	persisted, err := storage.Load()
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, session, *persisted)
}

func TestLoginCashierRole(t *testing.T) {
	store, err := NewStore(newAuth(), nil, nil)
	require.NoError(t, err)

	session, err := store.Login(context.Background(), "caja1", "1234")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCashier, session.Role)
	assert.False(t, session.IsAdmin())
}

func TestLoginWrongPasswordPersistsNothing(t *testing.T) {
	storage := &MemoryStorage{}
	store, err := NewStore(newAuth(), storage, nil)
	require.NoError(t, err)

	_, err = store.Login(context.Background(), "admin", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, "Usuario o contraseña incorrectos", domain.Notice(err))

	_, ok := store.Current()
	assert.False(t, ok)
	assert.Empty(t, store.Token())

	persisted, err := storage.Load()
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestLogoutIsIdempotent(t *testing.T) {
	storage := &MemoryStorage{}
	store, err := NewStore(newAuth(), storage, nil)
	require.NoError(t, err)

	_, err = store.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	require.NoError(t, store.Logout())
	require.NoError(t, store.Logout())

	_, ok := store.Current()
	assert.False(t, ok)
	persisted, err := storage.Load()
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestLogoutIfTokenKeepsNewerSession(t *testing.T) {
	storage := &MemoryStorage{}
	store, err := NewStore(newAuth(), storage, nil)
	require.NoError(t, err)

	_, err = store.Login(context.Background(), "caja1", "1234")
	require.NoError(t, err)
	_, err = store.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	require.NoError(t, store.LogoutIfToken("token-caja1"))
	assert.Equal(t, "token-admin", store.Token())
	persisted, err := storage.Load()
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, "token-admin", persisted.Token)

	require.NoError(t, store.LogoutIfToken("token-admin"))
	assert.Empty(t, store.Token())
	persisted, err = storage.Load()
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestRestoreFromFileWithoutBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	storage := NewFileStorage(path)
	require.NoError(t, storage.Save(models.Session{Token: "stale", Role: models.RoleAdmin, Username: "admin"}))

	auth := newAuth()
	store, err := NewStore(auth, NewFileStorage(path), nil)
	require.NoError(t, err)

	session, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "stale", session.Token)
	assert.Equal(t, models.RoleAdmin, session.Role)
	assert.Zero(t, auth.calls, "restoring must not contact the backend")
}

func TestFileStorageMissingFile(t *testing.T) {
	storage := NewFileStorage(filepath.Join(t.TempDir(), "absent.yaml"))

	session, err := storage.Load()
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.NoError(t, storage.Clear())
}

func TestUsernameFromTokenSubject(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "maria"}).SignedString([]byte("server-secret"))
	require.NoError(t, err)

	assert.Equal(t, "maria", subjectOr(token, "fallback"))
	assert.Equal(t, "fallback", subjectOr("not-a-jwt", "fallback"))
}
