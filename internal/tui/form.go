package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/apperr"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/render"
	"github.com/Makepad-fr/tada/internal/ui"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldDeadline
	formFields
)

// taskForm is the add/edit form. editID is zero when adding.
type taskForm struct {
	editID   int64
	focus    int
	title    textinput.Model
	desc     textarea.Model
	priority model.Priority
	deadline textinput.Model
}

func newTaskForm(width int) *taskForm {
	f := &taskForm{priority: model.PriorityMedium}

	f.title = textinput.New()
	f.title.Prompt = "> "
	f.title.Placeholder = "What needs doing?"
	f.title.CharLimit = 200

	f.desc = textarea.New()
	f.desc.Placeholder = "Details (markdown)"
	f.desc.ShowLineNumbers = false
	f.desc.SetHeight(3)

	f.deadline = textinput.New()
	f.deadline.Prompt = "> "
	f.deadline.Placeholder = "YYYY-MM-DD HH:MM"
	f.deadline.CharLimit = 25

	f.resize(width)
	f.focusCurrent()
	return f
}

// editForm is prefilled from t.
func editForm(t model.Todo, width int) *taskForm {
	f := newTaskForm(width)
	f.editID = t.ID
	f.title.SetValue(t.Title)
	f.title.CursorEnd()
	f.desc.SetValue(t.Description)
	if t.Priority != "" {
		f.priority = t.Priority
	}
	f.deadline.SetValue(model.FormatDeadline(t.Deadline))
	return f
}

func (f *taskForm) resize(width int) {
	w := width - 8
	if w < 20 {
		w = 20
	}
	f.title.Width = w
	f.desc.SetWidth(w)
	f.deadline.Width = w
}

func (f *taskForm) focusCurrent() {
	f.title.Blur()
	f.desc.Blur()
	f.deadline.Blur()
	switch f.focus {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.desc.Focus()
	case fieldDeadline:
		f.deadline.Focus()
	}
}

func (f *taskForm) move(delta int) {
	f.focus = (f.focus + delta + formFields) % formFields
	f.focusCurrent()
}

// draft reads the fields. Deadlines are parsed in loc.
func (f *taskForm) draft(loc *time.Location) (model.Draft, error) {
	dl, err := model.ParseDeadline(f.deadline.Value(), loc)
	if err != nil {
		return model.Draft{}, apperr.Validation("%v", err)
	}
	d := model.Draft{
		Title:       f.title.Value(),
		Description: f.desc.Value(),
		Priority:    f.priority,
		Deadline:    dl,
	}.Normalize()
	if err := d.Validate(); err != nil {
		return model.Draft{}, err
	}
	return d, nil
}

// update routes a key inside the form. submit is true on enter outside
// the description, or ctrl+s anywhere.
func (f *taskForm) update(msg tea.KeyMsg, km KeyMap) (cmd tea.Cmd, submit bool) {
	switch {
	case key.Matches(msg, km.Save):
		return nil, true
	case msg.Type == tea.KeyTab:
		f.move(1)
		return nil, false
	case msg.Type == tea.KeyShiftTab:
		f.move(-1)
		return nil, false
	case msg.Type == tea.KeyEnter && f.focus != fieldDescription:
		return nil, true
	}

	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
	case fieldPriority:
		if key.Matches(msg, km.Cycle) {
			f.priority = f.priority.Next()
		}
	case fieldDeadline:
		f.deadline, cmd = f.deadline.Update(msg)
	}
	return cmd, false
}

func (f *taskForm) view(th ui.Theme) string {
	heading := "Add todo"
	if f.editID != 0 {
		heading = fmt.Sprintf("Edit todo #%d", f.editID)
	}
	prio := render.PriorityTag(th, f.priority)
	if f.focus == fieldPriority {
		prio = th.Selected.Render("< " + string(f.priority) + " >")
	}
	lines := []string{
		th.Title.Render(heading),
		th.Muted.Render("Title"), f.title.View(),
		th.Muted.Render("Description"), f.desc.View(),
		th.Muted.Render("Priority") + " " + prio,
		th.Muted.Render("Deadline"), f.deadline.View(),
		th.Help.Render("tab next field • enter save • ctrl+s save • esc cancel"),
	}
	return th.Panel([]string{strings.Join(lines, "\n")})
}
