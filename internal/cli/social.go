package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/eshaffer321/booking-go/pkg/booking"
	"github.com/spf13/cobra"
)

func newSubscriptionsCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"follows"},
		Short:   "Follow the hosts whose screenings you like",
	}

	var pg booking.Page
	list := &cobra.Command{
		Use:   "list",
		Short: "List the hosts you follow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subs, err := a.client.Subscriptions.Mine(cmd.Context(), pg)
			if err != nil {
				return err
			}
			return a.renderSubscriptions(subs)
		},
	}
	list.Flags().IntVar(&pg.Offset, "offset", 0, "Skip this many hosts")
	list.Flags().IntVar(&pg.Limit, "limit", 0, "Return at most this many hosts")

	follow := &cobra.Command{
		Use:   "add <host-id>",
		Short: "Follow a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := a.client.Subscriptions.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderSubscriptions([]*booking.Subscription{sub})
		},
	}

	unfollow := &cobra.Command{
		Use:   "remove <host-id>",
		Short: "Stop following a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Subscriptions.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("Unfollowed %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(
		page(list, destSubscriptions),
		page(follow, destSubscriptions),
		page(unfollow, destSubscriptions),
	)
	return cmd
}

func (a *App) renderSubscriptions(subs []*booking.Subscription) error {
	return a.render(subs, func(w io.Writer) {
		if len(subs) == 0 {
			fmt.Fprintln(w, "You do not follow anyone yet.")
			return
		}
		fmt.Fprintln(w, "HOST\tNAME")
		for _, s := range subs {
			name := "-"
			if s.Author != nil {
				name = authorName(s.Author)
			}
			fmt.Fprintf(w, "%s\t%s\n", s.HostID, name)
		}
	})
}

func newFilmsCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "films",
		Short: "Search the film catalog",
	}

	var pageSize int
	search := &cobra.Command{
		Use:   "search <title>",
		Short: "Find films by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			films, err := a.client.Films.Search(cmd.Context(), strings.Join(args, " "), pageSize)
			if err != nil {
				return err
			}

			return a.render(films, func(w io.Writer) {
				if len(films) == 0 {
					fmt.Fprintln(w, "No films found.")
					return
				}
				fmt.Fprintln(w, "ID\tTITLE\tIMDB")
				for _, f := range films {
					rating := "-"
					if f.IMDBRating != nil {
						rating = fmt.Sprintf("%.1f", *f.IMDBRating)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", f.ID, f.Title, rating)
				}
			})
		},
	}
	search.Flags().IntVar(&pageSize, "page-size", booking.DefaultFilmPageSize, "Number of results")

	cmd.AddCommand(page(search, destFilms))
	return cmd
}

func newFeedbackCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Review hosts and screenings",
	}

	rateHost := &cobra.Command{
		Use:   "host <host-id> <positive|negative>",
		Short: "Review a host",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.client.Feedback.RateUser(cmd.Context(), args[0], booking.Review(args[1])); err != nil {
				return err
			}
			a.printf("Reviewed host %s\n", args[0])
			return nil
		},
	}

	rateEvent := &cobra.Command{
		Use:   "event <event-id> <positive|negative>",
		Short: "Review a screening",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.client.Feedback.RateEvent(cmd.Context(), args[0], booking.Review(args[1])); err != nil {
				return err
			}
			a.printf("Reviewed event %s\n", args[0])
			return nil
		},
	}

	var onEvent bool
	clearReview := &cobra.Command{
		Use:   "clear <id>",
		Short: "Remove your review of a host, or of a screening with --event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unrate := a.client.Feedback.UnrateUser
			if onEvent {
				unrate = a.client.Feedback.UnrateEvent
			}
			if err := unrate(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("Review removed\n")
			return nil
		},
	}
	clearReview.Flags().BoolVar(&onEvent, "event", false, "The id is a screening")

	var kind string
	summary := &cobra.Command{
		Use:   "summary <id>",
		Short: "Show review totals for a host, a host's screenings or one screening",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var summarize func(ctx context.Context, id string) (*booking.FeedbackSummary, error)
			switch kind {
			case "host":
				summarize = a.client.Feedback.UserSummary
			case "host-events":
				summarize = a.client.Feedback.UserEventsSummary
			case "event":
				summarize = a.client.Feedback.EventSummary
			default:
				return &ExitError{Code: ExitUsage, Message: fmt.Sprintf("invalid --of %q (must be host, host-events or event)", kind)}
			}

			s, err := summarize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(s, func(w io.Writer) { writeSummary(w, s) })
		},
	}
	summary.Flags().StringVar(&kind, "of", "host", "host, host-events or event")

	cmd.AddCommand(
		page(rateHost, destFeedback),
		page(rateEvent, destFeedback),
		page(clearReview, destFeedback),
		page(summary, destFeedback),
	)
	return cmd
}

func writeSummary(w io.Writer, s *booking.FeedbackSummary) {
	fmt.Fprintf(w, "Positive:\t%d\n", s.Positive)
	fmt.Fprintf(w, "Negative:\t%d\n", s.Negative)
	if s.My != nil {
		fmt.Fprintf(w, "Yours:\t%s\n", *s.My)
	}
}
