package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/chrisdamba/freshmix/internal/models"
	"github.com/chrisdamba/freshmix/internal/repositories"
	"github.com/chrisdamba/freshmix/internal/repositories/memory"
	"github.com/chrisdamba/freshmix/internal/simulator"
)

// bulkCreator is implemented by backends that can load many orders at once.
type bulkCreator interface {
	BulkCreate(ctx context.Context, orders []*models.OrderSnapshot) error
}

var (
	simOrders    int
	simRate      float64
	simStartDate string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate fake customers placing and receiving orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start, err := time.Parse(time.RFC3339, simStartDate)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		out, err := a.destination()
		if err != nil {
			return err
		}

		buffer := memory.NewOrderRepository()
		sim := simulator.NewSimulator(buffer, out, a.cfg.Seed,
			simulator.WithStartTime(start.UTC()),
			simulator.WithOrdersPerHour(simRate),
			simulator.WithTopics(a.cfg.OrdersTopic, a.cfg.DeliveryTopic),
			simulator.WithLogger(a.log),
		)

		bar := progressbar.NewOptions(simOrders,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("placing orders"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		stats, err := sim.Run(ctx, simOrders, func() { _ = bar.Add(1) })
		_ = bar.Finish()
		if err != nil {
			return err
		}

		if err := saveOrders(ctx, buffer, a.orders); err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Placed %d orders worth %d MAD, %d delivery updates, simulated until %s\n",
			stats.Orders, stats.Revenue, stats.DeliveryUpdates, sim.CurrentTime.Format(time.RFC3339))
		tw := newTable(w)
		for _, city := range models.Cities() {
			if n := stats.OrdersByCity[city]; n > 0 {
				fmt.Fprintf(tw, "  %s\t%d\n", city, n)
			}
		}
		return tw.Flush()
	},
}

// saveOrders moves simulated orders into the configured repository, in one
// batch when the backend supports it.
func saveOrders(ctx context.Context, from *memory.OrderRepository, to repositories.OrderRepository) error {
	orders, err := from.GetAll(ctx)
	if err != nil {
		return err
	}
	if bulk, ok := to.(bulkCreator); ok {
		if err := bulk.BulkCreate(ctx, orders); err != nil {
			return fmt.Errorf("bulk insert orders: %w", err)
		}
		return nil
	}
	for _, order := range orders {
		if err := to.Create(ctx, order); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	flags := simulateCmd.Flags()
	flags.IntVar(&simOrders, "orders", 100, "Number of orders to place")
	flags.Float64Var(&simRate, "rate", 12, "Average orders per hour before time-of-day effects")
	flags.StringVar(&simStartDate, "start-date", time.Now().UTC().Format(time.RFC3339), "Simulated start time")
	rootCmd.AddCommand(simulateCmd)
}
