package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/ui"
)

// AuthForm is which of the two auth forms is visible.
type AuthForm int

const (
	FormLogin AuthForm = iota
	FormRegister
)

func (f AuthForm) String() string {
	if f == FormRegister {
		return "register"
	}
	return "login"
}

const (
	loginEmail = iota
	loginPassword
	loginRemember
	loginFields
)

const (
	regName = iota
	regEmail
	regPassword
	regConfirm
	regFields
)

// authView holds both forms; only one is shown at a time.
type authView struct {
	form  AuthForm
	focus int
	busy  bool

	login    [loginRemember]textinput.Model
	remember bool
	register [regFields]textinput.Model
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 40
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func newAuthView() authView {
	v := authView{}
	v.login[loginEmail] = newInput("you@example.com", false)
	v.login[loginPassword] = newInput("password", true)
	v.register[regName] = newInput("Your name", false)
	v.register[regEmail] = newInput("you@example.com", false)
	v.register[regPassword] = newInput("password", true)
	v.register[regConfirm] = newInput("repeat password", true)
	v.focusCurrent()
	return v
}

// SwitchView shows target. Switching to the visible form is a no-op, so
// typed values and focus survive.
func (v *authView) SwitchView(target AuthForm) {
	if v.form == target {
		return
	}
	v.form = target
	v.focus = 0
	v.focusCurrent()
}

func (v *authView) fieldCount() int {
	if v.form == FormRegister {
		return regFields
	}
	return loginFields
}

func (v *authView) move(delta int) {
	n := v.fieldCount()
	v.focus = (v.focus + delta + n) % n
	v.focusCurrent()
}

func (v *authView) focusCurrent() {
	for i := range v.login {
		v.login[i].Blur()
	}
	for i := range v.register {
		v.register[i].Blur()
	}
	if v.form == FormRegister {
		v.register[v.focus].Focus()
		return
	}
	if v.focus < loginRemember {
		v.login[v.focus].Focus()
	}
}

// clearSecrets empties every password field.
func (v *authView) clearSecrets() {
	v.login[loginPassword].SetValue("")
	v.register[regPassword].SetValue("")
	v.register[regConfirm].SetValue("")
}

func (v *authView) loginValues() (email, password string, remember bool) {
	return v.login[loginEmail].Value(), v.login[loginPassword].Value(), v.remember
}

func (v *authView) registerValues() (name, email, password, confirm string) {
	return v.register[regName].Value(), v.register[regEmail].Value(),
		v.register[regPassword].Value(), v.register[regConfirm].Value()
}

// update routes a key to the focused field. submit is true when the
// user asked to send the form.
func (v *authView) update(msg tea.KeyMsg, km KeyMap) (cmd tea.Cmd, submit bool) {
	switch {
	case key.Matches(msg, km.ShowLogin):
		v.SwitchView(FormLogin)
		return nil, false
	case key.Matches(msg, km.ShowRegister):
		v.SwitchView(FormRegister)
		return nil, false
	case key.Matches(msg, km.Submit):
		return nil, true
	case msg.Type == tea.KeyTab || msg.Type == tea.KeyDown:
		v.move(1)
		return nil, false
	case msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp:
		v.move(-1)
		return nil, false
	}

	if v.form == FormLogin && v.focus == loginRemember {
		if msg.Type == tea.KeySpace || msg.String() == " " {
			v.remember = !v.remember
		}
		return nil, false
	}
	if v.form == FormRegister {
		v.register[v.focus], cmd = v.register[v.focus].Update(msg)
		return cmd, false
	}
	v.login[v.focus], cmd = v.login[v.focus].Update(msg)
	return cmd, false
}

func (v *authView) view(th ui.Theme, spin string) string {
	tabs := []string{th.TabInactive.Render("Login"), th.TabInactive.Render("Register")}
	tabs[v.form] = th.TabActive.Render([]string{"Login", "Register"}[v.form])

	var b strings.Builder
	b.WriteString(th.Title.Render("tada") + "  " + strings.Join(tabs, " ") + "\n\n")

	field := func(label string, in textinput.Model) {
		fmt.Fprintf(&b, "%s\n%s\n", th.Muted.Render(label), in.View())
	}
	if v.form == FormLogin {
		field("Email", v.login[loginEmail])
		field("Password", v.login[loginPassword])
		box := th.BoxUnchecked
		if v.remember {
			box = th.BoxChecked
		}
		line := box + " Remember me"
		if v.focus == loginRemember {
			line = th.Selected.Render(line)
		}
		b.WriteString(line + "\n")
	} else {
		field("Name", v.register[regName])
		field("Email", v.register[regEmail])
		field("Password", v.register[regPassword])
		b.WriteString(strengthLine(th, v.register[regPassword].Value()) + "\n")
		field("Confirm password", v.register[regConfirm])
	}

	if v.busy {
		b.WriteString("\n" + spin + " " + th.Muted.Render("Please wait…"))
	}
	return b.String()
}

// strengthLine is the live indicator under the registration password.
func strengthLine(th ui.Theme, pw string) string {
	s := auth.PasswordStrength(pw)
	switch s {
	case auth.StrengthNone:
		return th.Muted.Render("Strength: -")
	case auth.StrengthWeak:
		return th.Error.Render("Strength: " + s.String())
	case auth.StrengthMedium:
		return th.Pending.Render("Strength: " + s.String())
	default:
		return th.Success.Render("Strength: " + s.String())
	}
}
