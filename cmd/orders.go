package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/freshmix/internal/models"
	"github.com/chrisdamba/freshmix/internal/tracking"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Inspect and export placed orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List placed orders, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		orders, err := a.orders.GetAll(cmd.Context())
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No orders yet.")
			return nil
		}
		tw := newTable(cmd.OutOrStdout())
		fmt.Fprintln(tw, "ORDER\tPLACED\tCITY\tSIZE\tFRUITS\tTOTAL")
		for _, o := range orders {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
				o.OrderNumber, o.CreatedAt.Local().Format(time.DateTime), o.Customer.City, o.Size, len(o.Items), o.Total)
		}
		return tw.Flush()
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status <order-number>",
	Short: "Show an order and where its delivery is now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := a.orders.GetByNumber(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		printOrder(w, order)
		u := tracking.Status(order, time.Now())
		fmt.Fprintf(w, "Delivery: %s (%.0f%%), ETA %d min from %s\n", u.Stage, u.Progress*100, u.ETAMinutes, u.Store.Name)
		return nil
	},
}

var ordersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Replay every stored order as an order_placed event to the configured output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := a.destination()
		if err != nil {
			return err
		}
		if out == nil {
			return fmt.Errorf("output destination is none, nothing to export to")
		}
		orders, err := a.orders.GetAll(cmd.Context())
		if err != nil {
			return err
		}
		for _, o := range orders {
			msg, err := json.Marshal(models.NewOrderEvent(o))
			if err != nil {
				return err
			}
			if err := out.WriteMessage(a.cfg.OrdersTopic, msg); err != nil {
				return fmt.Errorf("export %s: %w", o.OrderNumber, err)
			}
		}
		a.log.Info("orders exported", "count", len(orders), "destination", a.cfg.OutputDestination)
		return nil
	},
}

var ordersClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the order history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return a.orders.DeleteAll(cmd.Context())
	},
}

func init() {
	ordersCmd.AddCommand(ordersListCmd, ordersStatusCmd, ordersExportCmd, ordersClearCmd)
	rootCmd.AddCommand(ordersCmd)
}
