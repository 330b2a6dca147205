package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/freshmix/internal/checkout"
	"github.com/chrisdamba/freshmix/internal/models"
)

var (
	customer  models.CustomerDetails
	cityFlag  string
	noTrack   bool
	keepOrder bool
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place the current mix as a delivery order and track it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w := cmd.OutOrStdout()

		svc, err := a.checkoutService()
		if err != nil {
			return err
		}

		details := customer
		details.City = models.City(cityFlag)
		order, err := svc.Submit(ctx, details)
		if verr, ok := checkout.AsValidationError(err); ok {
			fields := make([]string, 0, len(verr.Fields))
			for field := range verr.Fields {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				fmt.Fprintf(w, "  %s: %s\n", field, verr.Fields[field])
			}
			return fmt.Errorf("please fix the order details above")
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(w, "Order placed!")
		printOrder(w, order)
		store := models.StoreFor(order.Customer.City)
		fmt.Fprintf(w, "Prepared at FreshMix %s (%s)\n", store.Name, store.Area)

		if !noTrack {
			tracker, err := a.tracker()
			if err != nil {
				return err
			}
			err = tracker.Run(ctx, order, func(u models.DeliveryUpdate) {
				fmt.Fprintf(w, "  [%3.0f%%] %-10s ETA %d min\n", u.Progress*100, u.Stage, u.ETAMinutes)
			})
			if err != nil {
				return fmt.Errorf("tracking stopped: %w", err)
			}
		}

		if keepOrder {
			return nil
		}
		return svc.Complete(ctx)
	},
}

func init() {
	flags := checkoutCmd.Flags()
	flags.StringVar(&customer.Name, "name", "", "Full name")
	flags.StringVar(&customer.Phone, "phone", "", "Phone number")
	flags.StringVar(&cityFlag, "city", "", "Delivery city")
	flags.StringVar(&customer.Address, "address", "", "Delivery address")
	flags.StringVar(&customer.Notes, "notes", "", "Notes for the courier")
	flags.StringVar(&customer.PaymentMethod, "payment", models.PaymentCashOnDelivery, "Payment method: cod or card")
	flags.BoolVar(&noTrack, "no-track", false, "Skip live delivery tracking")
	flags.BoolVar(&keepOrder, "keep", false, "Keep the mix after ordering")
	rootCmd.AddCommand(checkoutCmd)
}
