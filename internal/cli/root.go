// Package cli implements the bookingctl command tree. Every command is a page
// of the booking app: it declares a destination, passes the session guard
// and talks to the backend through pkg/booking.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Build-time version information
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	version = v
	commit = c
	buildDate = b
}

// destinationKey is the command annotation naming the page a command opens
const destinationKey = "destination"

// Destinations checked by the session guard
const (
	destLogin         = "/login"
	destRegister      = "/register"
	destEvents        = "/events"
	destNearby        = "/events/nearby"
	destFilms         = "/films"
	destProfile       = "/profile"
	destMyEvents      = "/events/my"
	destEditEvent     = "/events/edit"
	destBookings      = "/bookings"
	destAddresses     = "/addresses"
	destSubscriptions = "/subscriptions"
	destFeedback      = "/feedback"
	destDashboard     = "/dashboard"
)

// publicDestinations are reachable without a session
var publicDestinations = []string{destLogin, destRegister, destEvents, destNearby, destFilms, "/error"}

// NewRootCommand creates the root command wired to stdin, stdout and stderr
func NewRootCommand() *cobra.Command {
	return newRootCommand(newApp(os.Stdin, os.Stdout, os.Stderr))
}

func newRootCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookingctl",
		Short: "bookingctl - book seats at film screenings",
		Long: `bookingctl talks to the booking platform: browse and host screenings,
book seats, manage venues, follow hosts and leave reviews.

Run 'bookingctl login' to sign in.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.preRun,
	}

	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)
	cmd.SetVersionTemplate("bookingctl {{.Version}} (" + commit + ", " + buildDate + ")\n")

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default: ./config.yaml or ~/.bookingctl/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")

	cmd.AddCommand(
		newLoginCommand(a),
		newRegisterCommand(a),
		newLogoutCommand(a),
		newMeCommand(a),
		newEventsCommand(a),
		newBookingsCommand(a),
		newAddressesCommand(a),
		newSubscriptionsCommand(a),
		newFilmsCommand(a),
		newFeedbackCommand(a),
		newDashboardCommand(a),
	)

	return cmd
}

// Execute runs the command tree and returns the process exit code
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	a := newApp(in, out, errOut)
	defer a.Close()

	cmd := newRootCommand(a)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	ReportError(errOut, err)
	return ExitCode(err)
}

// page marks cmd as opening destination
func page(cmd *cobra.Command, destination string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[destinationKey] = destination
	return cmd
}
