// Package tui is the interactive client: an auth screen and the task
// screen, driven by Bubble Tea. All state lives on App.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/apperr"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/render"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/toast"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Screen is the top-level view.
type Screen int

const (
	ScreenAuth Screen = iota
	ScreenTasks
)

// mode is what the task screen is doing.
type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirm
	modeDetail
)

// Options configures New.
type Options struct {
	Theme    ui.Theme
	ToastTTL time.Duration
	Logger   *log.Logger
}

// App is the Bubble Tea model for the whole client.
type App struct {
	auth   *auth.Service
	store  *store.Store
	logger *log.Logger
	theme  ui.Theme
	keys   KeyMap

	screen  Screen
	mode    mode
	filter  model.Filter
	user    *api.User
	loading bool

	authView  authView
	list      list.Model
	form      *taskForm
	confirmID int64
	detailID  int64

	toasts  *toast.Notifier
	spinner spinner.Model
	help    help.Model

	width, height int

	now  func() time.Time
	copy func(string) error
}

// New builds the app. The store's unauthorized hook should already
// clear the session; the app only switches screens.
func New(svc *auth.Service, st *store.Store, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = opts.Theme.Accent

	a := &App{
		auth:     svc,
		store:    st,
		logger:   opts.Logger,
		theme:    opts.Theme,
		keys:     DefaultKeyMap(),
		authView: newAuthView(),
		toasts:   toast.New(opts.ToastTTL),
		spinner:  s,
		help:     help.New(),
		width:    80,
		height:   24,
		now:      time.Now,
		copy:     clipboard.WriteAll,
	}
	a.list = newTaskList(rowDelegate{
		theme:   opts.Theme,
		pending: st.Pending,
		spinner: func() string { return a.spinner.View() },
	})
	a.resize()
	return a
}

// Message types
type errMsg struct {
	op  string
	err error
}
type todosLoadedMsg struct{ user *api.User }
type todoSavedMsg struct {
	todo    model.Todo
	created bool
}
type todoToggledMsg struct{ todo model.Todo }
type todoRemovedMsg struct{ id int64 }
type authDoneMsg struct {
	form AuthForm
	sess *auth.Session
	err  error
}
type loggedOutMsg struct{ err error }
type statusMsg struct {
	msg string
	sev toast.Severity
}

// Run starts the program on the alternate screen with mouse support.
func Run(a *App) error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Screen reports the visible screen.
func (a *App) Screen() Screen { return a.screen }

// Init implements tea.Model. A stored session is verified and the list
// loaded; otherwise the auth screen is shown.
func (a *App) Init() tea.Cmd {
	sess, err := a.auth.Current()
	if err != nil {
		a.logger.Warn("read session", "err", err)
	}
	if sess == nil {
		a.screen = ScreenAuth
		return tea.Batch(a.spinner.Tick, textinput.Blink)
	}
	a.screen = ScreenTasks
	a.loading = true
	return tea.Batch(a.spinner.Tick, a.resume())
}

func (a *App) resume() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		u, err := a.auth.Verify(ctx)
		if err != nil {
			return errMsg{op: "verify", err: err}
		}
		if err := a.store.Load(ctx); err != nil {
			return errMsg{op: "load", err: err}
		}
		return todosLoadedMsg{user: u}
	}
}

func (a *App) load() tea.Cmd {
	return func() tea.Msg {
		if err := a.store.Load(context.Background()); err != nil {
			return errMsg{op: "load", err: err}
		}
		return todosLoadedMsg{}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.toasts.Update(msg) {
		return a, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		if a.screen == ScreenAuth {
			return a.handleAuthKey(msg)
		}
		return a.handleTaskKey(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.resize()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case authDoneMsg:
		a.authView.busy = false
		if msg.err != nil {
			return a, a.toasts.Error(apperr.UserMessage(msg.err))
		}
		a.authView.clearSecrets()
		a.screen = ScreenTasks
		a.mode = modeList
		a.loading = true
		welcome := "Logged in"
		if msg.form == FormRegister {
			welcome = "Account created"
		}
		return a, tea.Batch(a.toasts.Success(welcome), a.resume())

	case todosLoadedMsg:
		a.loading = false
		if msg.user != nil {
			a.user = msg.user
		}
		a.refresh()
		return a, nil

	case todoSavedMsg:
		a.refresh()
		if msg.created {
			a.list.Select(0)
			return a, a.toasts.Success("Todo added")
		}
		return a, a.toasts.Success("Todo updated")

	case todoToggledMsg:
		a.refresh()
		if msg.todo.Completed {
			return a, a.toasts.Success("Marked as done")
		}
		return a, a.toasts.Info("Marked as pending")

	case todoRemovedMsg:
		a.refresh()
		return a, a.toasts.Success("Todo deleted")

	case loggedOutMsg:
		a.toAuth()
		if msg.err != nil {
			a.logger.Error("logout failed", "err", msg.err)
			return a, a.toasts.Error("Logged out, but the saved session could not be removed")
		}
		return a, a.toasts.Info("Logged out")

	case statusMsg:
		return a, a.toasts.Show(msg.msg, msg.sev)

	case errMsg:
		return a, a.handleErr(msg)
	}

	return a, nil
}

func (a *App) handleErr(msg errMsg) tea.Cmd {
	a.loading = false
	a.authView.busy = false
	a.refresh()
	switch apperr.KindOf(msg.err) {
	case apperr.KindUnauthorized:
		a.logger.Info("session rejected", "op", msg.op)
		a.auth.Expire()
		a.toAuth()
		return a.toasts.Error("Session expired, please log in again")
	case apperr.KindNetwork, apperr.KindUnexpected:
		a.logger.Error(msg.op+" failed", "err", msg.err)
	}
	return a.toasts.Error(apperr.UserMessage(msg.err))
}

// toAuth drops every trace of the session from the UI.
func (a *App) toAuth() {
	a.store.Reset()
	a.user = nil
	a.screen = ScreenAuth
	a.mode = modeList
	a.form = nil
	a.loading = false
	a.refresh()
}

func (a *App) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.authView.busy {
		return a, nil
	}
	if key.Matches(msg, a.keys.Cancel) {
		return a, tea.Quit
	}
	cmd, submit := a.authView.update(msg, a.keys)
	if !submit {
		return a, cmd
	}
	return a, a.submitAuth()
}

func (a *App) submitAuth() tea.Cmd {
	v := &a.authView
	if v.form == FormRegister {
		name, email, pw, confirm := v.registerValues()
		if err := auth.ValidateRegistration(name, email, pw, confirm); err != nil {
			return a.toasts.Error(apperr.UserMessage(err))
		}
		v.busy = true
		return func() tea.Msg {
			sess, err := a.auth.Register(context.Background(), name, email, pw, confirm)
			return authDoneMsg{form: FormRegister, sess: sess, err: err}
		}
	}
	email, pw, remember := v.loginValues()
	if err := auth.ValidateLogin(email, pw); err != nil {
		return a.toasts.Error(apperr.UserMessage(err))
	}
	v.busy = true
	return func() tea.Msg {
		sess, err := a.auth.Login(context.Background(), email, pw, remember)
		return authDoneMsg{form: FormLogin, sess: sess, err: err}
	}
}

func (a *App) handleTaskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case modeForm:
		return a.handleFormKey(msg)
	case modeConfirm:
		return a.handleConfirmKey(msg)
	case modeDetail:
		if key.Matches(msg, a.keys.Cancel, a.keys.Detail, a.keys.Quit) {
			a.mode = modeList
		}
		return a, nil
	}

	k := a.keys
	switch {
	case key.Matches(msg, k.Quit):
		return a, tea.Quit
	case key.Matches(msg, k.Dismiss):
		a.toasts.DismissLatest()
		return a, nil
	case key.Matches(msg, k.FilterAll):
		a.setFilter(model.FilterAll)
		return a, nil
	case key.Matches(msg, k.FilterTodo):
		a.setFilter(model.FilterPending)
		return a, nil
	case key.Matches(msg, k.FilterDone):
		a.setFilter(model.FilterCompleted)
		return a, nil
	case key.Matches(msg, k.NextFilter):
		a.setFilter(a.filter.Next())
		return a, nil
	case key.Matches(msg, k.Reload):
		if a.loading {
			return a, nil
		}
		a.loading = true
		return a, a.load()
	case key.Matches(msg, k.Logout):
		return a, func() tea.Msg {
			return loggedOutMsg{err: a.auth.Logout(context.Background())}
		}
	case key.Matches(msg, k.Add):
		a.form = newTaskForm(a.width)
		a.mode = modeForm
		return a, nil
	}

	row, ok := a.selected()
	switch {
	case !ok:
	case key.Matches(msg, k.Edit):
		if a.store.Pending(row.ID) {
			return a, a.toasts.Info("Still saving, try again in a moment")
		}
		t, found := a.store.Get(row.ID)
		if !found {
			return a, nil
		}
		a.form = editForm(t, a.width)
		a.mode = modeForm
		return a, nil
	case key.Matches(msg, k.Toggle):
		if a.store.Pending(row.ID) {
			return a, nil
		}
		return a, a.toggle(row.ID)
	case key.Matches(msg, k.Delete):
		if a.store.Pending(row.ID) {
			return a, nil
		}
		a.confirmID = row.ID
		a.mode = modeConfirm
		return a, nil
	case key.Matches(msg, k.Detail):
		a.detailID = row.ID
		a.mode = modeDetail
		return a, nil
	case key.Matches(msg, k.Copy):
		title := row.Title
		return a, func() tea.Msg {
			if err := a.copy(title); err != nil {
				return statusMsg{msg: "Copy failed: " + err.Error(), sev: toast.Error}
			}
			return statusMsg{msg: "Copied: " + title, sev: toast.Info}
		}
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

func (a *App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Cancel) {
		a.form = nil
		a.mode = modeList
		return a, nil
	}
	cmd, submit := a.form.update(msg, a.keys)
	if !submit {
		return a, cmd
	}

	d, err := a.form.draft(a.now().Location())
	if err != nil {
		return a, a.toasts.Error(apperr.UserMessage(err))
	}
	id := a.form.editID
	a.form = nil
	a.mode = modeList
	if id == 0 {
		return a, func() tea.Msg {
			t, err := a.store.Add(context.Background(), d)
			if err != nil {
				return errMsg{op: "add", err: err}
			}
			return todoSavedMsg{todo: t, created: true}
		}
	}
	return a, func() tea.Msg {
		t, err := a.store.Update(context.Background(), id, d)
		if err != nil {
			return errMsg{op: "update", err: err}
		}
		return todoSavedMsg{todo: t}
	}
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		id := a.confirmID
		a.mode = modeList
		a.confirmID = 0
		return a, func() tea.Msg {
			err := a.store.Remove(context.Background(), id, func(model.Todo) bool { return true })
			if err != nil {
				return errMsg{op: "delete", err: err}
			}
			return todoRemovedMsg{id: id}
		}
	case key.Matches(msg, a.keys.Decline):
		a.mode = modeList
		a.confirmID = 0
	}
	return a, nil
}

func (a *App) toggle(id int64) tea.Cmd {
	return func() tea.Msg {
		t, err := a.store.Toggle(context.Background(), id)
		if err != nil {
			return errMsg{op: "toggle", err: err}
		}
		return todoToggledMsg{todo: t}
	}
}

func (a *App) setFilter(f model.Filter) {
	if a.filter == f {
		return
	}
	a.filter = f
	a.refresh()
	a.list.Select(0)
}

// handleMouse dismisses a toast when one is clicked.
func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return a, nil
	}
	if a.toasts.Len() == 0 {
		return a, nil
	}
	top := lipgloss.Height(a.body())
	a.toasts.DismissAt(msg.Y - top)
	return a, nil
}

// refresh rebuilds the list from the store snapshot.
func (a *App) refresh() {
	rows := render.Rows(a.store.Snapshot(), a.filter, a.now())
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = rowItem{r}
	}
	idx := a.list.Index()
	a.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		a.list.Select(idx)
	}
}

func (a *App) selected() (render.Row, bool) {
	it, ok := a.list.SelectedItem().(rowItem)
	if !ok {
		return render.Row{}, false
	}
	return it.Row, true
}

func (a *App) resize() {
	h := a.height - 8
	if h < 3 {
		h = 3
	}
	a.list.SetSize(a.width-4, h)
	a.help.Width = a.width
	if a.form != nil {
		a.form.resize(a.width)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	body := a.body()
	if t := a.toasts.View(a.theme); t != "" {
		return body + "\n" + t
	}
	return body
}

// body is everything above the toasts.
func (a *App) body() string {
	th := a.theme
	if a.screen == ScreenAuth {
		return th.Panel([]string{
			a.authView.view(th, a.spinner.View()),
			"",
			a.help.ShortHelpView(a.keys.authHelp()),
		})
	}

	switch a.mode {
	case modeForm:
		if a.form != nil {
			return a.form.view(th)
		}
	case modeDetail:
		return a.detailView()
	}

	c := a.store.Counts()
	lines := render.Header(th, c.All, c.Completed, c.Pending)
	if a.user != nil {
		lines[0] += "  " + th.Muted.Render(render.Sanitize(a.user.Name))
	}
	lines = append(lines, a.tabs(c), "")
	switch {
	case a.loading && !a.store.Loaded():
		lines = append(lines, a.spinner.View()+" "+th.Muted.Render("Loading…"))
	default:
		if a.loading {
			lines[0] += " " + a.spinner.View()
		}
		if len(a.list.Items()) == 0 {
			lines = append(lines, render.Lines(th, nil, a.width, nil)...)
		} else {
			lines = append(lines, a.list.View())
		}
	}
	if a.mode == modeConfirm {
		title := ""
		if t, ok := a.store.Get(a.confirmID); ok {
			title = render.Sanitize(t.Title)
		}
		lines = append(lines, "", th.Error.Render(fmt.Sprintf("Delete %q? (y/n)", title)))
	}
	lines = append(lines, "", a.help.ShortHelpView(a.keys.taskHelp()))
	return th.Panel(lines)
}

func (a *App) tabs(c store.Counts) string {
	counts := map[model.Filter]int{
		model.FilterAll:       c.All,
		model.FilterPending:   c.Pending,
		model.FilterCompleted: c.Completed,
	}
	parts := make([]string, 0, len(model.Filters))
	for i, f := range model.Filters {
		label := fmt.Sprintf("%d %s (%d)", i+1, f, counts[f])
		if f == a.filter {
			parts = append(parts, a.theme.TabActive.Render(label))
		} else {
			parts = append(parts, a.theme.TabInactive.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (a *App) detailView() string {
	th := a.theme
	t, ok := a.store.Get(a.detailID)
	if !ok {
		return th.Panel([]string{th.Muted.Render("This todo no longer exists."), th.Help.Render("esc back")})
	}
	r := render.NewRow(t, a.now())
	lines := []string{
		th.Title.Render(r.Title),
		render.PriorityTag(th, r.Priority) + " " + render.BadgeText(th, r.Badge),
	}
	if r.Created != "" {
		lines = append(lines, th.Muted.Render("Created "+r.Created))
	}
	style := "dark"
	if th.Name == "mono" {
		style = "notty"
	}
	md, err := render.Markdown(r.Description, a.width-6, style)
	switch {
	case err != nil:
		a.logger.Warn("render description", "err", err)
		lines = append(lines, "", r.Description)
	case md != "":
		lines = append(lines, "", md)
	default:
		lines = append(lines, "", th.Muted.Render("No description."))
	}
	lines = append(lines, "", th.Help.Render("esc back"))
	return th.Panel(lines)
}
