package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eshaffer321/booking-go/pkg/booking"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCommand(a *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the booking platform",
		Long: `Sign in with email and password. The password is read from the
terminal without echo, or from the first line of stdin when it is piped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return &ExitError{Code: ExitUsage, Message: "--email is required"}
			}

			password, err := a.readSecret("Password: ")
			if err != nil {
				return err
			}

			if _, err := a.client.Auth.Login(cmd.Context(), email, password); err != nil {
				return err
			}

			a.printf("Signed in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	return page(cmd, destLogin)
}

func newRegisterCommand(a *App) *cobra.Command {
	var params booking.RegisterParams

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if params.Email == "" || params.Username == "" {
				return &ExitError{Code: ExitUsage, Message: "--email and --username are required"}
			}

			password, err := a.readSecret("Password: ")
			if err != nil {
				return err
			}
			confirm, err := a.readSecret("Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return &ExitError{Code: ExitUsage, Message: "passwords do not match"}
			}

			params.Password = password
			params.ConfirmPassword = confirm
			if _, err := a.client.Auth.Register(cmd.Context(), &params); err != nil {
				return err
			}

			a.printf("Welcome, %s\n", params.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&params.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&params.Username, "username", "u", "", "Public user name")
	return page(cmd, destRegister)
}

func newLogoutCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Auth.Logout(cmd.Context()); err != nil {
				a.logger.Warn().Err(err).Msg("Remote logout failed, local session cleared")
			}
			a.printf("Signed out\n")
			return nil
		},
	}
}

func newMeCommand(a *App) *cobra.Command {
	var showSessions bool

	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.client.Auth.Me(cmd.Context())
			if err != nil {
				return err
			}

			var sessions []booking.LoginSession
			if showSessions {
				if sessions, err = a.client.Auth.Sessions(cmd.Context()); err != nil {
					return err
				}
			}

			out := struct {
				*booking.Profile
				Sessions []booking.LoginSession `json:"sessions,omitempty"`
			}{profile, sessions}

			return a.render(out, func(w io.Writer) {
				fmt.Fprintf(w, "ID:\t%s\n", profile.ID)
				fmt.Fprintf(w, "Username:\t%s\n", profile.Username)
				fmt.Fprintf(w, "Email:\t%s\n", profile.Email)
				fmt.Fprintf(w, "Active:\t%t\n", profile.IsActive)
				for _, s := range sessions {
					fmt.Fprintf(w, "Session:\t%s\t%s\t%s\n", s.ID, s.CreatedAt, s.UserAgent)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&showSessions, "sessions", false, "Also list active logins")
	return page(cmd, destProfile)
}

// readSecret prompts on a terminal without echo and falls back to reading
// one line from the input stream.
func (a *App) readSecret(prompt string) (string, error) {
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.errOut, prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.errOut)
		if err != nil {
			return "", errors.Wrap(err, "failed to read password")
		}
		return string(secret), nil
	}

	if a.lines == nil {
		a.lines = bufio.NewReader(a.in)
	}
	line, err := a.lines.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.Wrap(err, "failed to read password from stdin")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
