package auth_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/api/apitest"
	"github.com/Makepad-fr/tada/internal/apperr"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/logging"
)

func setup(t *testing.T) (*auth.Service, *auth.FileStore, *apitest.Server) {
	t.Helper()
	t.Setenv("TADA_TOKEN", "")
	srv := apitest.New()
	t.Cleanup(srv.Close)
	store := auth.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	client := api.New(srv.URL, 5*time.Second, store)
	return auth.NewService(client, store, logging.Discard()), store, srv
}

func TestLogin_StoresSession(t *testing.T) {
	svc, store, _ := setup(t)

	sess, err := svc.Login(context.Background(), "ada@example.com", "Passw0rd!", false)
	require.NoError(t, err)
	assert.Equal(t, apitest.Token, sess.Token)
	require.NotNil(t, sess.ExpiresAt)
	assert.Equal(t, apitest.Token, store.Token())

	u, err := svc.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
}

func TestLogin_ValidationSendsNothing(t *testing.T) {
	svc, _, srv := setup(t)

	_, err := svc.Login(context.Background(), "not-an-email", "x", false)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Equal(t, 0, srv.TotalHits())
}

func TestLogin_ServerMessage(t *testing.T) {
	svc, store, _ := setup(t)

	_, err := svc.Login(context.Background(), "ada@example.com", "wrong", false)
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", apperr.UserMessage(err))
	assert.Equal(t, "", store.Token())
}

func TestRegister(t *testing.T) {
	svc, store, srv := setup(t)

	_, err := svc.Register(context.Background(), "Bob", "bob@example.com", "Passw0rd", "Passw0rd")
	require.NoError(t, err)
	assert.Equal(t, apitest.Token, store.Token())
	assert.Equal(t, 1, srv.Hits("register"))

	_, err = svc.Register(context.Background(), "Bob", "bob@example.com", "weak", "weak")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Equal(t, 1, srv.Hits("register"))
}

func TestVerify_UnauthorizedClears(t *testing.T) {
	svc, store, _ := setup(t)
	_, err := store.Save("stale", nil, true)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background())
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	assert.Equal(t, "", store.Token())
}

func TestLogout_AlwaysClears(t *testing.T) {
	svc, store, srv := setup(t)
	_, err := svc.Login(context.Background(), "ada@example.com", "Passw0rd!", true)
	require.NoError(t, err)

	srv.Force("logout", 500)
	require.NoError(t, svc.Logout(context.Background()))
	assert.Equal(t, "", store.Token())
	sess, err := svc.Current()
	require.NoError(t, err)
	assert.Nil(t, sess)
}
