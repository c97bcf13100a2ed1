package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the task view and auth view bindings.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding

	// task view
	Add        key.Binding
	Edit       key.Binding
	Toggle     key.Binding
	Delete     key.Binding
	Reload     key.Binding
	Detail     key.Binding
	Copy       key.Binding
	Logout     key.Binding
	Dismiss    key.Binding
	NextFilter key.Binding
	FilterAll  key.Binding
	FilterTodo key.Binding
	FilterDone key.Binding

	// forms
	Submit    key.Binding
	Save      key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Cycle     key.Binding
	Confirm   key.Binding
	Decline   key.Binding

	// auth view
	ShowLogin    key.Binding
	ShowRegister key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Detail:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy title")),
		Logout:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		Dismiss:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		NextFilter: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		FilterAll:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterTodo: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "pending")),
		FilterDone: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),

		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Cycle:     key.NewBinding(key.WithKeys(" ", "left", "right"), key.WithHelp("space", "change")),
		Confirm:   key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Decline:   key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),

		ShowLogin:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "login")),
		ShowRegister: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register")),
	}
}

// taskHelp is the short help line of the task list.
func (k KeyMap) taskHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.Detail, k.Copy, k.Reload, k.NextFilter, k.Logout, k.Quit}
}

func (k KeyMap) authHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.ShowLogin, k.ShowRegister, k.ForceQuit}
}
