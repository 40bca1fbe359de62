package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/eshaffer321/booking-go/pkg/booking"
	"github.com/spf13/cobra"
)

func newEventsCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Browse and host screenings",
	}

	cmd.AddCommand(
		newEventsListCommand(a),
		newEventsGetCommand(a),
		newEventsMineCommand(a),
		newEventsNearbyCommand(a),
		newEventsCreateCommand(a),
		newEventsUpdateCommand(a),
		newEventsDeleteCommand(a),
		newEventsReserveCommand(a),
	)
	return cmd
}

func newEventsListCommand(a *App) *cobra.Command {
	var pg booking.Page

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upcoming screenings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := a.client.Events.List(cmd.Context(), pg)
			if err != nil {
				return err
			}
			return a.renderEvents(events)
		},
	}

	cmd.Flags().IntVar(&pg.Offset, "offset", 0, "Skip this many events")
	cmd.Flags().IntVar(&pg.Limit, "limit", 0, "Return at most this many events")
	return page(cmd, destEvents)
}

func newEventsGetCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <event-id>",
		Short: "Show one screening",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := a.client.Events.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return a.render(event, func(w io.Writer) {
				fmt.Fprintf(w, "ID:\t%s\n", event.ID)
				fmt.Fprintf(w, "Film:\t%s\n", movieTitle(event))
				fmt.Fprintf(w, "Starts:\t%s\n", event.StartDatetime)
				fmt.Fprintf(w, "Venue:\t%s\n", formatAddress(event.Address))
				fmt.Fprintf(w, "Seats:\t%s\n", seats(event))
				if event.Author != nil {
					fmt.Fprintf(w, "Host:\t%s\n", authorName(event.Author))
				}
				if event.Movie != nil && event.Movie.Description != "" {
					fmt.Fprintf(w, "About:\t%s\n", event.Movie.Description)
				}
			})
		},
	}
	return page(cmd, destEvents)
}

func newEventsMineCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List screenings you host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := a.client.Events.Mine(cmd.Context())
			if err != nil {
				return err
			}
			return a.renderEvents(events)
		},
	}
	return page(cmd, destMyEvents)
}

func newEventsNearbyCommand(a *App) *cobra.Command {
	var params booking.NearbyParams

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "Find screenings around a point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := a.client.Events.Nearby(cmd.Context(), &params)
			if err != nil {
				return err
			}
			return a.renderEvents(events)
		},
	}

	cmd.Flags().Float64Var(&params.Latitude, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&params.Longitude, "lon", 0, "Longitude")
	cmd.Flags().Float64Var(&params.Radius, "radius", booking.DefaultNearbyRadius, "Search radius in meters")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return page(cmd, destNearby)
}

func newEventsCreateCommand(a *App) *cobra.Command {
	var (
		params booking.CreateEventParams
		start  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Host a screening",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := booking.ParseTimestamp(start)
			if err != nil {
				return &ExitError{Code: ExitUsage, Message: "invalid --start", Cause: err}
			}
			params.StartDatetime = ts

			event, err := a.client.Events.Create(cmd.Context(), &params)
			if err != nil {
				return err
			}

			a.printf("Created event %s\n", event.ID)
			if a.jsonOutput {
				return a.render(event, nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&params.MovieID, "movie", "", "Film id")
	cmd.Flags().StringVar(&params.AddressID, "address", "", "Venue address id")
	cmd.Flags().IntVar(&params.Capacity, "capacity", 0, "Number of seats")
	cmd.Flags().StringVar(&start, "start", "", "Start time, e.g. 2025-10-01T19:30:00+03:00")
	for _, name := range []string{"movie", "address", "capacity", "start"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return page(cmd, destEditEvent)
}

func newEventsUpdateCommand(a *App) *cobra.Command {
	var (
		addressID string
		capacity  int
		start     string
	)

	cmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Change the venue, seats or start time of a screening",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params booking.UpdateEventParams
			if cmd.Flags().Changed("address") {
				params.AddressID = &addressID
			}
			if cmd.Flags().Changed("capacity") {
				params.Capacity = &capacity
			}
			if cmd.Flags().Changed("start") {
				ts, err := booking.ParseTimestamp(start)
				if err != nil {
					return &ExitError{Code: ExitUsage, Message: "invalid --start", Cause: err}
				}
				params.StartDatetime = &ts
			}

			event, err := a.client.Events.Update(cmd.Context(), args[0], &params)
			if err != nil {
				return err
			}

			a.printf("Updated event %s\n", event.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&addressID, "address", "", "Venue address id")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "Number of seats")
	cmd.Flags().StringVar(&start, "start", "", "Start time")
	return page(cmd, destEditEvent)
}

func newEventsDeleteCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Cancel a screening you host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Events.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("Deleted event %s\n", args[0])
			return nil
		},
	}
	return page(cmd, destEditEvent)
}

func newEventsReserveCommand(a *App) *cobra.Command {
	var (
		seatCount int
		wait      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "reserve <event-id>",
		Short: "Book seats at a screening",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reservation, err := a.client.Events.Reserve(cmd.Context(), args[0], seatCount)
			if err != nil {
				return err
			}

			if wait > 0 && !reservation.Status.Settled() {
				if reservation, err = a.client.Reservations.WaitForStatus(cmd.Context(), reservation.ID, wait); err != nil {
					return err
				}
			}

			return a.renderReservations([]*booking.Reservation{reservation})
		},
	}

	cmd.Flags().IntVarP(&seatCount, "seats", "n", 1, "Number of seats")
	cmd.Flags().DurationVar(&wait, "wait", 0, "Wait this long for the booking to be confirmed")
	return page(cmd, destBookings)
}

func (a *App) renderEvents(events []*booking.Event) error {
	return a.render(events, func(w io.Writer) {
		if len(events) == 0 {
			fmt.Fprintln(w, "No events found.")
			return
		}
		fmt.Fprintln(w, "ID\tFILM\tSTARTS\tVENUE\tSEATS")
		for _, e := range events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, movieTitle(e), e.StartDatetime, formatAddress(e.Address), seats(e))
		}
	})
}

func movieTitle(e *booking.Event) string {
	if e.Movie != nil && e.Movie.Title != "" {
		return e.Movie.Title
	}
	return e.MovieID
}

func seats(e *booking.Event) string {
	if e.AvailableSeats == nil {
		return fmt.Sprintf("%d", e.Capacity)
	}
	return fmt.Sprintf("%d/%d", *e.AvailableSeats, e.Capacity)
}

func formatAddress(addr *booking.Address) string {
	if addr == nil {
		return "-"
	}
	s := fmt.Sprintf("%s, %s %s", addr.City, addr.Street, addr.House)
	if addr.Flat != nil && *addr.Flat != "" {
		s += ", " + *addr.Flat
	}
	return s
}

func authorName(author *booking.Author) string {
	if author.Name != "" {
		return author.Name
	}
	if author.Username != "" {
		return author.Username
	}
	return author.ID
}
