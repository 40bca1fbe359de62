package cli

import (
	"fmt"
	"io"

	"github.com/eshaffer321/booking-go/pkg/booking"
	"github.com/spf13/cobra"
)

func newAddressesCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "addresses",
		Aliases: []string{"venues"},
		Short:   "Manage the venues you host screenings at",
	}

	cmd.AddCommand(
		newAddressesListCommand(a),
		newAddressesGetCommand(a),
		newAddressesSuggestCommand(a),
		newAddressesCreateCommand(a),
		newAddressesUpdateCommand(a),
		newAddressesDeleteCommand(a),
	)
	return cmd
}

func newAddressesListCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your venues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addresses, err := a.client.Addresses.Mine(cmd.Context())
			if err != nil {
				return err
			}
			return a.renderAddresses(addresses)
		},
	}
	return page(cmd, destAddresses)
}

func newAddressesGetCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <address-id>",
		Short: "Show one venue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := a.client.Addresses.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderAddresses([]*booking.Address{address})
		},
	}
	return page(cmd, destAddresses)
}

func newAddressesSuggestCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <query>",
		Short: "Look up address candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suggestions, err := a.client.Addresses.Suggest(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return a.render(suggestions, func(w io.Writer) {
				if len(suggestions) == 0 {
					fmt.Fprintln(w, "No suggestions.")
					return
				}
				fmt.Fprintln(w, "#\tADDRESS")
				for i, s := range suggestions {
					fmt.Fprintf(w, "%d\t%s\n", i+1, s.Value)
				}
			})
		},
	}
	return page(cmd, destAddresses)
}

func newAddressesCreateCommand(a *App) *cobra.Command {
	var (
		params booking.CreateAddressParams
		from   string
		pick   int
		flat   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a venue, typed in or picked from suggestions",
		Long: `Add a venue. With --from the address is looked up in the suggestion
service and candidate --pick (1 by default) is saved; otherwise every part
is given with flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from != "" {
				suggestions, err := a.client.Addresses.Suggest(cmd.Context(), from)
				if err != nil {
					return err
				}
				if pick < 1 || pick > len(suggestions) {
					return &ExitError{Code: ExitUsage, Message: fmt.Sprintf("no suggestion #%d for %q", pick, from)}
				}
				params = *a.client.Addresses.FromSuggestion(suggestions[pick-1])
			} else if params.City == "" || params.Street == "" || params.House == "" {
				return &ExitError{Code: ExitUsage, Message: "--city, --street and --house are required without --from"}
			}

			if params.Country == "" {
				params.Country = booking.DefaultCountry
			}
			if flat != "" {
				params.Flat = &flat
			}

			address, err := a.client.Addresses.Create(cmd.Context(), &params)
			if err != nil {
				return err
			}
			return a.renderAddresses([]*booking.Address{address})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Free text to look up")
	cmd.Flags().IntVar(&pick, "pick", 1, "Which suggestion to save")
	cmd.Flags().StringVar(&params.Country, "country", "", "Country")
	cmd.Flags().StringVar(&params.City, "city", "", "City")
	cmd.Flags().StringVar(&params.Street, "street", "", "Street")
	cmd.Flags().StringVar(&params.House, "house", "", "House")
	cmd.Flags().StringVar(&flat, "flat", "", "Flat or office")
	cmd.Flags().Float64Var(&params.Latitude, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&params.Longitude, "lon", 0, "Longitude")
	return page(cmd, destAddresses)
}

func newAddressesUpdateCommand(a *App) *cobra.Command {
	var country, city, street, house, flat string

	cmd := &cobra.Command{
		Use:   "update <address-id>",
		Short: "Change parts of a venue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params booking.UpdateAddressParams
			for name, field := range map[string]struct {
				value *string
				dest  **string
			}{
				"country": {&country, &params.Country},
				"city":    {&city, &params.City},
				"street":  {&street, &params.Street},
				"house":   {&house, &params.House},
				"flat":    {&flat, &params.Flat},
			} {
				if cmd.Flags().Changed(name) {
					*field.dest = field.value
				}
			}

			address, err := a.client.Addresses.Update(cmd.Context(), args[0], &params)
			if err != nil {
				return err
			}
			return a.renderAddresses([]*booking.Address{address})
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "Country")
	cmd.Flags().StringVar(&city, "city", "", "City")
	cmd.Flags().StringVar(&street, "street", "", "Street")
	cmd.Flags().StringVar(&house, "house", "", "House")
	cmd.Flags().StringVar(&flat, "flat", "", "Flat or office")
	return page(cmd, destAddresses)
}

func newAddressesDeleteCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <address-id>",
		Short: "Remove a venue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Addresses.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("Deleted address %s\n", args[0])
			return nil
		},
	}
	return page(cmd, destAddresses)
}

func (a *App) renderAddresses(addresses []*booking.Address) error {
	return a.render(addresses, func(w io.Writer) {
		if len(addresses) == 0 {
			fmt.Fprintln(w, "No addresses found.")
			return
		}
		fmt.Fprintln(w, "ID\tADDRESS\tLOCATION")
		for _, addr := range addresses {
			fmt.Fprintf(w, "%s\t%s\t%.5f,%.5f\n", addr.ID, formatAddress(addr), addr.Latitude, addr.Longitude)
		}
	})
}
