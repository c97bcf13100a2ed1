package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/api/apitest"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/model"
)

type testEnv struct {
	t     *testing.T
	srv   *apitest.Server
	creds string
}

func newEnv(t *testing.T, todos ...model.Todo) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(home); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, k := range []string{"TADA_TIMEOUT", "TADA_THEME", "TADA_TOAST_TTL",
		"TADA_LOG_LEVEL", "TADA_LOG_FORMAT", "TADA_TOKEN"} {
		t.Setenv(k, "")
	}
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.Seed(todos...)

	creds := filepath.Join(home, "creds.json")
	t.Setenv("TADA_SERVER", srv.URL)
	t.Setenv("TADA_CREDENTIALS", creds)
	t.Setenv("TADA_LOG_FILE", filepath.Join(home, "tada.log"))
	return &testEnv{t: t, srv: srv, creds: creds}
}

func (e *testEnv) login() {
	e.t.Helper()
	_, err := auth.NewFileStore(e.creds).Save(apitest.Token, nil, true)
	require.NoError(e.t, err)
}

type result struct {
	code        int
	out, errOut string
}

func (e *testEnv) run(stdin string, args ...string) result {
	e.t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut})
	code := root.Execute(context.Background(), args)
	return result{code: code, out: ansi.Strip(out.String()), errOut: ansi.Strip(errOut.String())}
}

func seed() []model.Todo {
	return []model.Todo{
		{ID: 1, Title: "buy milk", Priority: model.PriorityLow},
		{ID: 2, Title: "write report", Priority: model.PriorityHigh, Completed: true},
	}
}

func TestLs_RequiresLogin(t *testing.T) {
	e := newEnv(t, seed()...)
	res := e.run("", "ls")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errOut, "not logged in")
	assert.Contains(t, res.errOut, "todo auth login")
	assert.Equal(t, 0, e.srv.TotalHits())
}

func TestLoginThenList(t *testing.T) {
	e := newEnv(t, seed()...)

	res := e.run("Passw0rd!\n", "auth", "login", "--email", "ada@example.com", "--remember")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "logged in as ada@example.com")
	_, err := os.Stat(e.creds)
	require.NoError(t, err)

	res = e.run("", "ls")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "buy milk")
	assert.Contains(t, res.out, "write report")
	assert.Contains(t, res.out, "50%")
	assert.Equal(t, "Bearer "+apitest.Token, e.srv.LastAuthorization())
}

func TestLogin_PromptsForEmail(t *testing.T) {
	e := newEnv(t)
	res := e.run("ada@example.com\nPassw0rd!\n", "auth", "login")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.errOut, "Email: ")
	assert.Contains(t, res.out, "Session not remembered")

	_, err := os.Stat(e.creds)
	assert.True(t, os.IsNotExist(err))
}

func TestLogin_InvalidEmailIsUsageError(t *testing.T) {
	e := newEnv(t)
	res := e.run("secret\n", "auth", "login", "-e", "nope")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.errOut, "Please enter a valid email address")
	assert.Equal(t, 0, e.srv.TotalHits())
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newEnv(t)
	res := e.run("nope\n", "auth", "login", "-e", "ada@example.com")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, 1, e.srv.Hits("login"))
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	res := e.run("Grace\ngrace@example.com\nabcDEF12!\nabcDEF12!\n", "auth", "register")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.errOut, "Password strength: strong")
	assert.Contains(t, res.out, "account created for grace@example.com")
	_, err := os.Stat(e.creds)
	assert.NoError(t, err)

	res = e.run("Grace\ngrace@example.com\nabcDEF12!\nabcDEF12!\n", "auth", "register")
	assert.Equal(t, 1, res.code)
}

func TestListFilterAndGroup(t *testing.T) {
	e := newEnv(t, seed()...)
	e.login()

	res := e.run("", "ls", "--filter", "pending")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "buy milk")
	assert.NotContains(t, res.out, "write report")

	res = e.run("", "ls", "--group")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "Pending")
	assert.Contains(t, res.out, "Completed")

	res = e.run("", "ls", "--filter", "bogus")
	assert.Equal(t, 2, res.code)
}

func TestAdd(t *testing.T) {
	e := newEnv(t, seed()...)
	e.login()

	res := e.run("", "add", "call", "mom", "-p", "high", "--due", "2099-01-02")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "added #3 call mom")

	todos := e.srv.Todos()
	require.Len(t, todos, 3)
	assert.Equal(t, "call mom", todos[0].Title)
	assert.Equal(t, model.PriorityHigh, todos[0].Priority)
	require.NotNil(t, todos[0].Deadline)
}

func TestAdd_RejectsBadInputWithoutRequest(t *testing.T) {
	e := newEnv(t)
	e.login()

	assert.Equal(t, 2, e.run("", "add", "   ").code)
	assert.Equal(t, 2, e.run("", "add", "x", "-p", "urgent").code)
	assert.Equal(t, 2, e.run("", "add", "x", "--due", "someday").code)
	assert.Equal(t, 2, e.run("", "add").code)
	assert.Equal(t, 0, e.srv.Hits("create"))
}

func TestDone(t *testing.T) {
	e := newEnv(t, seed()...)
	e.login()

	res := e.run("", "done", "1")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "#1 buy milk marked done")
	assert.True(t, e.srv.Todos()[0].Completed)

	res = e.run("", "done", "99")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errOut, "todo ls")
	assert.Equal(t, 1, e.srv.Hits("toggle"))

	assert.Equal(t, 2, e.run("", "done", "abc").code)
}

func TestEdit(t *testing.T) {
	due := seed()
	e := newEnv(t, due...)
	e.login()

	res := e.run("", "edit", "1", "--title", "buy oat milk", "--due", "2099-05-01 09:30")
	require.Equal(t, 0, res.code, res.errOut)
	rec := e.srv.Todos()[0]
	assert.Equal(t, "buy oat milk", rec.Title)
	assert.Equal(t, model.PriorityLow, rec.Priority, "untouched fields are kept")
	require.NotNil(t, rec.Deadline)

	res = e.run("", "edit", "1", "--clear-due")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Nil(t, e.srv.Todos()[0].Deadline)

	assert.Equal(t, 2, e.run("", "edit", "1", "--title", "  ").code)
}

func TestRemove_Confirmation(t *testing.T) {
	e := newEnv(t, seed()...)
	e.login()

	res := e.run("n\n", "rm", "1")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.errOut, `Delete "buy milk"? [y/N]`)
	assert.Contains(t, res.out, "Aborted.")
	assert.Equal(t, 0, e.srv.Hits("delete"))

	res = e.run("y\n", "rm", "1")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Len(t, e.srv.Todos(), 1)

	res = e.run("", "rm", "2", "-y")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Empty(t, e.srv.Todos())
}

func TestUnauthorizedClearsSession(t *testing.T) {
	e := newEnv(t, seed()...)
	_, err := auth.NewFileStore(e.creds).Save("stale", nil, true)
	require.NoError(t, err)

	res := e.run("", "ls")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errOut, "todo auth login")
	_, err = os.Stat(e.creds)
	assert.True(t, os.IsNotExist(err))
}

func TestNetworkFailure(t *testing.T) {
	e := newEnv(t, seed()...)
	e.login()
	e.srv.Close()

	res := e.run("", "ls")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errOut, "Cannot reach the server, try again")
}

func TestStatusWhoamiLogout(t *testing.T) {
	e := newEnv(t)

	res := e.run("", "auth", "status")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.out, "Not logged in.")

	e.login()
	res = e.run("", "auth", "status")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.out, "source:  file")

	res = e.run("", "auth", "whoami")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "Ada <ada@example.com>")

	res = e.run("", "auth", "logout")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Equal(t, 1, e.srv.Hits("logout"))
	_, err := os.Stat(e.creds)
	assert.True(t, os.IsNotExist(err))
}

func TestConfigErrorsAreUsageErrors(t *testing.T) {
	e := newEnv(t)
	res := e.run("", "--theme", "pink", "ls")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.errOut, "unknown theme")

	res = e.run("", "frobnicate")
	assert.Equal(t, 2, res.code)
}

func TestFlagsOverrideInvalidEnvironment(t *testing.T) {
	e := newEnv(t, seed()...)
	e.login()
	t.Setenv("TADA_THEME", "pink")

	res := e.run("", "--theme", "mono", "ls")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "buy milk")

	res = e.run("", "ls")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.errOut, "unknown theme")
}

func TestServerFlagOverridesEnvironment(t *testing.T) {
	e := newEnv(t)
	e.login()
	other := apitest.New()
	defer other.Close()

	res := e.run("", "--server", other.URL, "ls")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Equal(t, 1, other.Hits("list"))
	assert.Equal(t, 0, e.srv.Hits("list"))
}
