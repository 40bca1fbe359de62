package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eshaffer321/booking-go/pkg/booking"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newBookingsCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookings",
		Aliases: []string{"reservations"},
		Short:   "Manage your seat bookings",
	}

	cmd.AddCommand(
		newBookingsListCommand(a),
		newBookingsGetCommand(a),
		newBookingsUpdateCommand(a),
		newBookingsCancelCommand(a),
		newBookingsWatchCommand(a),
	)
	return cmd
}

func newBookingsListCommand(a *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := a.client.Reservations.Mine
			if all {
				list = a.client.Reservations.List
			}

			reservations, err := list(cmd.Context())
			if err != nil {
				return err
			}
			return a.renderReservations(reservations)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every booking visible to you, including those on your events")
	return page(cmd, destBookings)
}

func newBookingsGetCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <booking-id>",
		Short: "Show one booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reservation, err := a.client.Reservations.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderReservations([]*booking.Reservation{reservation})
		},
	}
	return page(cmd, destBookings)
}

func newBookingsUpdateCommand(a *App) *cobra.Command {
	var seatCount int

	cmd := &cobra.Command{
		Use:   "update <booking-id>",
		Short: "Change the number of booked seats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reservation, err := a.client.Reservations.Update(cmd.Context(), args[0], &booking.UpdateReservationParams{Seats: &seatCount})
			if err != nil {
				return err
			}
			return a.renderReservations([]*booking.Reservation{reservation})
		},
	}

	cmd.Flags().IntVarP(&seatCount, "seats", "n", 0, "Number of seats")
	_ = cmd.MarkFlagRequired("seats")
	return page(cmd, destBookings)
}

func newBookingsCancelCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <booking-id>",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Reservations.Cancel(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("Canceled booking %s\n", args[0])
			return nil
		},
	}
	return page(cmd, destBookings)
}

func newBookingsWatchCommand(a *App) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "watch <booking-id>",
		Short: "Wait until a pending booking is confirmed or canceled",
		Long: `Poll a booking until it leaves the pending state. When metrics.address
is configured, request metrics are served on /metrics while waiting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := a.serveMetrics()
			defer stop()

			reservation, err := a.client.Reservations.WaitForStatus(cmd.Context(), args[0], timeout)
			if err != nil {
				return err
			}
			return a.renderReservations([]*booking.Reservation{reservation})
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Give up after this long")
	return page(cmd, destBookings)
}

// serveMetrics exposes the client's registry on metrics.address until the
// returned function is called. It is a no-op when no address is configured.
func (a *App) serveMetrics() func() {
	if a.cfg == nil || a.cfg.Metrics.Address == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              a.cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error().Err(err).Str("address", server.Addr).Msg("Metrics server failed")
		}
	}()
	a.logger.Info().Str("address", server.Addr).Msg("Serving metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}

func (a *App) renderReservations(reservations []*booking.Reservation) error {
	return a.render(reservations, func(w io.Writer) {
		if len(reservations) == 0 {
			fmt.Fprintln(w, "No bookings found.")
			return
		}
		fmt.Fprintln(w, "ID\tEVENT\tSEATS\tSTATUS\tCREATED")
		for _, r := range reservations {
			created := "-"
			if r.CreatedAt != nil {
				created = r.CreatedAt.String()
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.ID, r.EventID, r.Seats, r.Status, created)
		}
	})
}
