package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/freshmix/internal/models"
)

var (
	cfgFile string
	v       = viper.New()
	a       *app
)

var rootCmd = &cobra.Command{
	Use:   "freshmix",
	Short: "Build custom juices and place simulated orders",
	Long: `freshmix is a CLI for composing a custom juice from a fixed catalog of
fruits, sizes and base liquids, pricing it, previewing its blended color and
placing simulated delivery orders. The mix is persisted between runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(v, cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		a, err = newApp(cmd.Context(), cfg)
		return err
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.freshmix.yaml)")
	flags.String("log-mode", "dev", "Log mode: dev or prod")
	flags.String("state-backend", "file", "Where the mix is kept: file, redis, postgres or memory")
	flags.String("state-path", "", "Directory for the file backend")
	flags.String("namespace", models.DefaultNamespace, "Key the mix state is stored under")
	flags.String("redis-addr", "localhost:6379", "Redis address for the redis backend")
	flags.String("database-url", "", "PostgreSQL URL for the postgres backend")
	flags.String("output", "console", "Event destination: console, json, csv, parquet, kafka or none")
	flags.String("output-path", ".", "Base directory for file outputs")
	flags.String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	flags.Float64("tracking-speed", 1, "Delivery tracking speed multiplier")
	flags.Int64("seed", 42, "Random seed for simulation")

	bindings := map[string]string{
		"log_mode":           "log-mode",
		"state_backend":      "state-backend",
		"state_path":         "state-path",
		"namespace":          "namespace",
		"redis_addr":         "redis-addr",
		"database_url":       "database-url",
		"output_destination": "output",
		"output_path":        "output-path",
		"kafka_broker_list":  "kafka-broker-list",
		"tracking_speed":     "tracking-speed",
		"seed":               "seed",
	}
	for key, flag := range bindings {
		cobra.CheckErr(v.BindPFlag(key, flags.Lookup(flag)))
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := executeContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// executeContext runs the selected command and then closes the app, also when
// the command failed, so file outputs are finalized and uploads happen.
func executeContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if a != nil {
		err = errors.Join(err, a.Close())
		a = nil
	}
	return err
}
