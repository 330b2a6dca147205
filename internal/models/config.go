package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
	Endpoint   string `mapstructure:"endpoint"`
}

type Config struct {
	LogMode string `mapstructure:"log_mode"`

	StateBackend string `mapstructure:"state_backend"` // file, redis, postgres or memory
	StatePath    string `mapstructure:"state_path"`
	Namespace    string `mapstructure:"namespace"`
	RedisAddr    string `mapstructure:"redis_addr"`
	RedisDB      int    `mapstructure:"redis_db"`
	DatabaseURL  string `mapstructure:"database_url"`

	OutputDestination string             `mapstructure:"output_destination"` // console, json, csv, parquet, kafka or none
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	KafkaBrokerList   string             `mapstructure:"kafka_broker_list"`
	OrdersTopic       string             `mapstructure:"orders_topic"`
	DeliveryTopic     string             `mapstructure:"delivery_topic"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`

	SubmitDelay   time.Duration `mapstructure:"submit_delay"`
	TrackingSpeed float64       `mapstructure:"tracking_speed"` // 1 is real time, 10 is ten times faster
	Seed          int64         `mapstructure:"seed"`
}

// SetDefaults registers a default for every configuration key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_mode", "dev")
	v.SetDefault("state_backend", "file")
	v.SetDefault("state_path", defaultStatePath())
	v.SetDefault("namespace", DefaultNamespace)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("database_url", "")
	v.SetDefault("output_destination", "console")
	v.SetDefault("output_path", ".")
	v.SetDefault("output_folder", "freshmix-output")
	v.SetDefault("kafka_broker_list", "localhost:9092")
	v.SetDefault("orders_topic", TopicOrders)
	v.SetDefault("delivery_topic", TopicDelivery)
	v.SetDefault("cloud_storage.provider", "")
	v.SetDefault("cloud_storage.region", "us-east-1")
	v.SetDefault("cloud_storage.bucket_name", "")
	v.SetDefault("cloud_storage.endpoint", "")
	v.SetDefault("submit_delay", 2*time.Second)
	v.SetDefault("tracking_speed", 1.0)
	v.SetDefault("seed", 42)
}

// LoadConfig reads configuration from the given file (optional), the
// FRESHMIX_* environment and any flags already bound to v.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".freshmix")
	}

	v.SetEnvPrefix("freshmix")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (cfg *Config) Validate() error {
	switch cfg.StateBackend {
	case "file", "redis", "postgres", "memory":
	default:
		return fmt.Errorf("unsupported state backend: %s", cfg.StateBackend)
	}
	switch cfg.OutputDestination {
	case "console", "json", "csv", "parquet", "kafka", "none":
	default:
		return fmt.Errorf("unsupported output destination: %s", cfg.OutputDestination)
	}
	if cfg.StateBackend == "postgres" && cfg.DatabaseURL == "" {
		return fmt.Errorf("database_url is required for the postgres backend")
	}
	if cfg.TrackingSpeed <= 0 {
		return fmt.Errorf("tracking_speed must be positive, got %v", cfg.TrackingSpeed)
	}
	if cfg.SubmitDelay < 0 {
		return fmt.Errorf("submit_delay must not be negative")
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	return nil
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".freshmix"
	}
	return filepath.Join(home, ".freshmix")
}
