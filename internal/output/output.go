// Package output publishes order and delivery events to the configured
// destination: stdout, partitioned JSON/CSV/Parquet files (local or S3) or Kafka.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chrisdamba/freshmix/internal/cloudwriter"
	"github.com/chrisdamba/freshmix/internal/logger"
	"github.com/chrisdamba/freshmix/internal/models"
)

type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// New builds the destination named in cfg.OutputDestination. It returns nil
// for "none".
func New(cfg *models.Config, log *logger.Logger) (Destination, error) {
	switch cfg.OutputDestination {
	case "none":
		return nil, nil
	case "console":
		return NewConsoleOutput(os.Stdout), nil
	case "json":
		return NewJSONOutput(cfg.OutputPath, cfg.OutputFolder), nil
	case "csv":
		return NewCSVOutput(cfg.OutputPath, cfg.OutputFolder), nil
	case "parquet":
		var factory cloudwriter.CloudWriterFactory
		if cfg.CloudStorage.Provider != "" {
			if cfg.CloudStorage.Provider != "s3" {
				return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
			}
			f, err := cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region, cfg.CloudStorage.Endpoint)
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			factory = f
		}
		return NewParquetOutput(cfg.OutputPath, cfg.OutputFolder, factory, cfg.CloudStorage.BucketName, log), nil
	case "kafka":
		out, err := NewKafkaOutput(cfg.KafkaBrokerList, log)
		if err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported output destination: %s", cfg.OutputDestination)
	}
}

type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	if _, err := fmt.Fprintf(c.w, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }

// eventTime reads the epoch-seconds "timestamp" every event carries.
func eventTime(event map[string]interface{}) (time.Time, error) {
	timestamp, ok := event["timestamp"].(float64)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid timestamp")
	}
	return time.Unix(int64(timestamp), 0).UTC(), nil
}

func partitionPath(t time.Time) string {
	year, month, day := t.Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d", year, month, day)
}

func decodeEvent(msg []byte) (map[string]interface{}, time.Time, error) {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return nil, time.Time{}, err
	}
	at, err := eventTime(event)
	if err != nil {
		return nil, time.Time{}, err
	}
	return event, at, nil
}
