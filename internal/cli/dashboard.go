package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/eshaffer321/booking-go/pkg/booking"
	"github.com/spf13/cobra"
)

// dashboard sections, in display order
var dashboardSections = []string{"profile", "hosting", "bookings", "following"}

// Dashboard is everything the home page loads at once. A section that
// failed to load is nil and listed in Unavailable.
type Dashboard struct {
	Profile     *booking.Profile        `json:"profile,omitempty"`
	Hosting     []*booking.Event        `json:"hosting"`
	Bookings    []*booking.Reservation  `json:"bookings"`
	Following   []*booking.Subscription `json:"following"`
	Unavailable map[string]string       `json:"unavailable,omitempty"`
}

func newDashboardCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show your profile, screenings, bookings and follows at once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := loadDashboard(cmd.Context(), a.client)
			if len(d.Unavailable) == len(dashboardSections) {
				return &ExitError{Code: ExitAPIError, Message: "dashboard unavailable"}
			}
			return a.render(d, func(w io.Writer) { writeDashboard(w, d) })
		},
	}
	return page(cmd, destDashboard)
}

// loadDashboard loads every section concurrently; one failing section does
// not hide the others.
func loadDashboard(ctx context.Context, client *booking.Client) *Dashboard {
	outcomes := booking.Settle(ctx,
		func(ctx context.Context) (interface{}, error) { return client.Auth.Me(ctx) },
		func(ctx context.Context) (interface{}, error) { return client.Events.Mine(ctx) },
		func(ctx context.Context) (interface{}, error) { return client.Reservations.Mine(ctx) },
		func(ctx context.Context) (interface{}, error) {
			return client.Subscriptions.Mine(ctx, booking.Page{})
		},
	)

	d := &Dashboard{}
	for i, o := range outcomes {
		if !o.OK() {
			if d.Unavailable == nil {
				d.Unavailable = map[string]string{}
			}
			d.Unavailable[dashboardSections[i]] = o.Err.Error()
			continue
		}
		switch v := o.Value.(type) {
		case *booking.Profile:
			d.Profile = v
		case []*booking.Event:
			d.Hosting = v
		case []*booking.Reservation:
			d.Bookings = v
		case []*booking.Subscription:
			d.Following = v
		}
	}
	return d
}

func writeDashboard(w io.Writer, d *Dashboard) {
	if d.Profile != nil {
		fmt.Fprintf(w, "Signed in as:\t%s <%s>\n", d.Profile.Username, d.Profile.Email)
	}
	if _, failed := d.Unavailable["hosting"]; !failed {
		fmt.Fprintf(w, "Hosting:\t%d screenings\n", len(d.Hosting))
		for _, e := range d.Hosting {
			fmt.Fprintf(w, "\t%s\t%s\t%s\n", e.StartDatetime, movieTitle(e), seats(e))
		}
	}
	if _, failed := d.Unavailable["bookings"]; !failed {
		fmt.Fprintf(w, "Bookings:\t%d\n", len(d.Bookings))
		for _, r := range d.Bookings {
			fmt.Fprintf(w, "\t%s\t%d seats\t%s\n", r.EventID, r.Seats, r.Status)
		}
	}
	if _, failed := d.Unavailable["following"]; !failed {
		fmt.Fprintf(w, "Following:\t%d hosts\n", len(d.Following))
	}
	for _, section := range dashboardSections {
		if msg, failed := d.Unavailable[section]; failed {
			fmt.Fprintf(w, "Unavailable:\t%s (%s)\n", section, msg)
		}
	}
}
