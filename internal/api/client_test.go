package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/api/apitest"
	"github.com/Makepad-fr/tada/internal/apperr"
	"github.com/Makepad-fr/tada/internal/model"
)

func newClient(t *testing.T, token string) (*api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	c := api.New(srv.URL, 5*time.Second, api.TokenFunc(func() string { return token }))
	return c, srv
}

func TestLogin(t *testing.T) {
	c, _ := newClient(t, "")

	tr, err := c.Login(context.Background(), api.Credentials{Email: "ada@example.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, apitest.Token, tr.AccessToken)
	assert.Equal(t, int64(3600), tr.ExpiresIn)

	_, err = c.Login(context.Background(), api.Credentials{Email: "ada@example.com", Password: "nope"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	assert.Equal(t, "Invalid email or password", apperr.UserMessage(err))
}

func TestLogin_UnauthorizedWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	c := api.New(srv.URL, time.Second, nil)

	_, err := c.Login(context.Background(), api.Credentials{Email: "ada@example.com", Password: "nope"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	assert.Equal(t, "Invalid email or password", apperr.UserMessage(err))

	_, err = c.ListTodos(context.Background())
	require.Error(t, err)
	assert.Equal(t, "session expired, please log in again", apperr.UserMessage(err))
}

func TestRegister_Conflict(t *testing.T) {
	c, _ := newClient(t, "")
	_, err := c.Register(context.Background(), api.Registration{
		Name: "Ada", Email: "ada@example.com", Password: "Passw0rd!", ConfirmPassword: "Passw0rd!",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Equal(t, "Email already exists", apperr.UserMessage(err))
}

func TestLogin_LegacySuccessFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false, "message": "Please fill in all fields"}`))
	}))
	defer srv.Close()

	c := api.New(srv.URL, time.Second, nil)
	_, err := c.Login(context.Background(), api.Credentials{})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Equal(t, "Please fill in all fields", apperr.UserMessage(err))
}

func TestBearerHeader(t *testing.T) {
	c, srv := newClient(t, apitest.Token)
	_, err := c.ListTodos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+apitest.Token, srv.LastAuthorization())
}

func TestTodoCRUD(t *testing.T) {
	c, srv := newClient(t, apitest.Token)
	ctx := context.Background()

	todos, err := c.ListTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
	assert.NotNil(t, todos)

	created, err := c.CreateTodo(ctx, model.Draft{Title: "Buy milk", Priority: model.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	toggled, err := c.ToggleTodo(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	updated, err := c.UpdateTodo(ctx, created.ID, model.Draft{Title: "Buy oat milk", Priority: model.PriorityLow})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, model.PriorityLow, updated.Priority)

	require.NoError(t, c.DeleteTodo(ctx, created.ID))
	assert.Empty(t, srv.Todos())

	err = c.DeleteTodo(ctx, created.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   apperr.Kind
	}{
		{http.StatusUnauthorized, apperr.KindUnauthorized},
		{http.StatusForbidden, apperr.KindUnauthorized},
		{http.StatusNotFound, apperr.KindNotFound},
		{http.StatusConflict, apperr.KindConflict},
		{http.StatusUnprocessableEntity, apperr.KindValidation},
		{http.StatusInternalServerError, apperr.KindUnexpected},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c, srv := newClient(t, apitest.Token)
			srv.Force("list", tt.status)
			_, err := c.ListTodos(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := apitest.New()
	url := srv.URL
	srv.Close()

	c := api.New(url, time.Second, nil)
	_, err := c.ListTodos(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNetwork))
	assert.Equal(t, "Cannot reach the server, try again", apperr.UserMessage(err))
}

func TestVerifyAndLogout(t *testing.T) {
	c, _ := newClient(t, apitest.Token)
	u, err := c.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.NoError(t, c.Logout(context.Background()))

	anon, _ := newClient(t, "")
	_, err = anon.Verify(context.Background())
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}
