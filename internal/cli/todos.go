package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/apperr"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/render"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (r *RootCommand) listCommand() *cobra.Command {
	var filter string
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos",
		Long: `List todos with counts, a progress bar and deadline badges.

Examples:
  todo ls
  todo ls --filter pending
  todo ls --group`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return apperr.Validation("%v", err)
			}
			a := r.app
			if err := a.load(cmd.Context()); err != nil {
				return err
			}

			c := a.store.Counts()
			lines := render.Header(a.theme, c.All, c.Completed, c.Pending)
			lines = append(lines, "")
			todos := a.store.Snapshot()
			if group && f == model.FilterAll {
				lines = append(lines, groupLines(a.theme, todos, a.width())...)
			} else {
				rows := render.Rows(todos, f, time.Now())
				lines = append(lines, render.Lines(a.theme, rows, a.width(), nil)...)
			}
			lines = append(lines, "", a.theme.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
			fmt.Fprintln(a.out, a.theme.Panel(lines))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, pending or completed")
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/completed")
	return cmd
}

func groupLines(th ui.Theme, todos []model.Todo, width int) []string {
	now := time.Now()
	section := func(title string, f model.Filter) []string {
		lines := []string{th.Accent.Render(title)}
		rows := render.Rows(todos, f, now)
		if len(rows) == 0 {
			return append(lines, th.Muted.Render("(none)"))
		}
		return append(lines, render.Lines(th, rows, width, nil)...)
	}
	lines := section("Pending", model.FilterPending)
	lines = append(lines, "")
	return append(lines, section("Completed", model.FilterCompleted)...)
}

// draftFlags are the todo fields settable from the command line.
type draftFlags struct {
	title       string
	description string
	priority    string
	due         string
	clearDue    bool
}

func (d *draftFlags) register(cmd *cobra.Command, withTitle bool) {
	fl := cmd.Flags()
	if withTitle {
		fl.StringVar(&d.title, "title", "", "new title")
	}
	fl.StringVarP(&d.description, "description", "d", "", "description (markdown)")
	fl.StringVarP(&d.priority, "priority", "p", "", "low, medium or high")
	fl.StringVar(&d.due, "due", "", `deadline, "YYYY-MM-DD HH:MM" or "YYYY-MM-DD"`)
}

// apply overlays the flags the user set onto base.
func (d *draftFlags) apply(cmd *cobra.Command, base model.Draft) (model.Draft, error) {
	changed := cmd.Flags().Changed
	if changed("title") {
		base.Title = d.title
	}
	if changed("description") {
		base.Description = d.description
	}
	if changed("priority") {
		p, err := model.ParsePriority(d.priority)
		if err != nil {
			return base, apperr.Validation("%v", err)
		}
		base.Priority = p
	}
	if changed("due") {
		dl, err := model.ParseDeadline(d.due, time.Local)
		if err != nil {
			return base, apperr.Validation("%v", err)
		}
		base.Deadline = dl
	}
	if d.clearDue {
		base.Deadline = nil
	}
	return base, nil
}

func (r *RootCommand) addCommand() *cobra.Command {
	var df draftFlags
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a todo",
		Long: `Add a todo. The title can be several words.

Examples:
  todo add Buy milk
  todo add "Write report" -p high --due "2025-06-01 17:00"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			d, err := df.apply(cmd, model.Draft{Title: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			d = d.Normalize()
			if err := d.Validate(); err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			t, err := a.store.Add(cmd.Context(), d)
			if err != nil {
				return err
			}
			a.theme.OK(a.out, fmt.Sprintf("added #%d %s", t.ID, render.Sanitize(t.Title)))
			return nil
		},
	}
	df.register(cmd, false)
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("not a todo id: %s", s)
	}
	return id, nil
}

func (r *RootCommand) doneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a todo between done and pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := r.app
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			if _, ok := a.store.Get(id); !ok {
				return apperr.NotFound(fmt.Sprintf("todo %d not found", id))
			}
			t, err := a.store.Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}
			state := "pending"
			if t.Completed {
				state = "done"
			}
			a.theme.OK(a.out, fmt.Sprintf("#%d %s marked %s", t.ID, render.Sanitize(t.Title), state))
			return nil
		},
	}
}

func (r *RootCommand) editCommand() *cobra.Command {
	var df draftFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a todo's fields",
		Long: `Change a todo. Only the flags you pass are changed.

Examples:
  todo edit 3 --title "Buy oat milk"
  todo edit 3 -p low --clear-due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := r.app
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			cur, ok := a.store.Get(id)
			if !ok {
				return apperr.NotFound(fmt.Sprintf("todo %d not found", id))
			}
			d, err := df.apply(cmd, cur.Draft())
			if err != nil {
				return err
			}
			t, err := a.store.Update(cmd.Context(), id, d)
			if err != nil {
				return err
			}
			a.theme.OK(a.out, fmt.Sprintf("updated #%d %s", t.ID, render.Sanitize(t.Title)))
			return nil
		},
	}
	df.register(cmd, true)
	cmd.Flags().BoolVar(&df.clearDue, "clear-due", false, "remove the deadline")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	return cmd
}

func (r *RootCommand) removeCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := r.app
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			err = a.store.Remove(cmd.Context(), id, func(t model.Todo) bool {
				return yes || a.confirm(fmt.Sprintf("Delete %q?", render.Sanitize(t.Title)))
			})
			if apperr.IsKind(err, apperr.KindCancelled) {
				a.theme.Hint(a.out, "Aborted.")
				return nil
			}
			if err != nil {
				return err
			}
			a.theme.OK(a.out, fmt.Sprintf("removed #%d", id))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
