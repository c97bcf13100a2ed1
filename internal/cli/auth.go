package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/apperr"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/render"
)

func (r *RootCommand) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in, register or inspect the current session",
	}
	cmd.AddCommand(
		r.loginCommand(),
		r.registerCommand(),
		r.logoutCommand(),
		r.statusCommand(),
		r.whoamiCommand(),
	)
	return cmd
}

func (r *RootCommand) loginCommand() *cobra.Command {
	var email string
	var remember bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long: `Log in with email and password. The password is read without echo.
Without --remember the session is not written to disk and only lasts
for this command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			var err error
			if email == "" {
				if email, err = a.prompt("Email: "); err != nil {
					return err
				}
			}
			password, err := a.secret("Password: ")
			if err != nil {
				return err
			}
			if _, err := a.auth.Login(cmd.Context(), email, password, remember); err != nil {
				return err
			}
			a.theme.OK(a.out, "logged in as "+render.Sanitize(email))
			if !remember {
				a.theme.Hint(a.out, "Session not remembered; pass --remember to stay logged in.")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().BoolVarP(&remember, "remember", "r", false, "remember the session on this machine")
	return cmd
}

func (r *RootCommand) registerCommand() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			var err error
			if name == "" {
				if name, err = a.prompt("Name: "); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = a.prompt("Email: "); err != nil {
					return err
				}
			}
			password, err := a.secret("Password: ")
			if err != nil {
				return err
			}
			if s := auth.PasswordStrength(password); s != auth.StrengthNone {
				a.theme.Hint(a.err, "Password strength: "+s.String())
			}
			confirm, err := a.secret("Confirm password: ")
			if err != nil {
				return err
			}
			if _, err := a.auth.Register(cmd.Context(), name, email, password, confirm); err != nil {
				return err
			}
			a.theme.OK(a.out, "account created for "+render.Sanitize(email))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func (r *RootCommand) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			sess, err := a.auth.Current()
			if err != nil {
				return apperr.Unexpected("could not read the stored session", err)
			}
			if sess == nil {
				a.theme.Hint(a.out, "Not logged in.")
				return nil
			}
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return apperr.Unexpected("could not clear the session", err)
			}
			a.theme.OK(a.out, "logged out")
			return nil
		},
	}
}

func (r *RootCommand) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			sess, err := a.auth.Current()
			if err != nil {
				return apperr.Unexpected("could not read the stored session", err)
			}
			if sess == nil {
				a.theme.Hint(a.out, "Not logged in.")
				return nil
			}
			lines := []string{
				fmt.Sprintf("server:  %s", a.cfg.Server),
				fmt.Sprintf("source:  %s", sess.Source),
			}
			if sess.ExpiresAt != nil {
				lines = append(lines, fmt.Sprintf("expires: %s (%s)",
					sess.ExpiresAt.Local().Format("2006-01-02 15:04"),
					time.Until(*sess.ExpiresAt).Round(time.Minute)))
			}
			a.theme.OK(a.out, "logged in")
			for _, l := range lines {
				a.theme.Hint(a.out, "  "+l)
			}
			return nil
		},
	}
}

func (r *RootCommand) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Ask the server who the session belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			if err := a.requireSession(); err != nil {
				return err
			}
			u, err := a.auth.Verify(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s <%s>\n", render.Sanitize(u.Name), render.Sanitize(u.Email))
			if claims, ok := auth.Claims(a.creds.Token()); ok {
				if sub, err := claims.GetSubject(); err == nil && sub != "" {
					a.theme.Hint(a.out, "subject: "+render.Sanitize(sub))
				}
			}
			return nil
		},
	}
}
