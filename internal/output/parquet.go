package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lucsky/cuid"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/chrisdamba/freshmix/internal/cloudwriter"
	"github.com/chrisdamba/freshmix/internal/logger"
	"github.com/chrisdamba/freshmix/internal/models"
)

type OrderRecord struct {
	OrderNumber string `parquet:"name=order_number, type=BYTE_ARRAY, convertedtype=UTF8"`
	Timestamp   int64  `parquet:"name=timestamp, type=INT64"`
	City        string `parquet:"name=city, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Payment     string `parquet:"name=payment_method, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Size        string `parquet:"name=size, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Liquid      string `parquet:"name=liquid, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Ice         bool   `parquet:"name=add_ice, type=BOOLEAN"`
	Ingredients string `parquet:"name=ingredients, type=BYTE_ARRAY, convertedtype=UTF8"`
	Total       int64  `parquet:"name=total, type=INT64"`
}

type DeliveryRecord struct {
	OrderNumber string  `parquet:"name=order_number, type=BYTE_ARRAY, convertedtype=UTF8"`
	Timestamp   int64   `parquet:"name=timestamp, type=INT64"`
	Stage       string  `parquet:"name=stage, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	StageIndex  int32   `parquet:"name=stage_index, type=INT32"`
	Progress    float64 `parquet:"name=progress, type=DOUBLE"`
	ETAMinutes  int32   `parquet:"name=eta_minutes, type=INT32"`
	StoreName   string  `parquet:"name=store_name, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// recordFor converts an event into its typed parquet row.
func recordFor(msg []byte) (interface{}, string, error) {
	var envelope struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(msg, &envelope); err != nil {
		return nil, "", err
	}
	switch envelope.EventType {
	case models.EventOrderPlaced:
		var e models.OrderEvent
		if err := json.Unmarshal(msg, &e); err != nil {
			return nil, "", err
		}
		return OrderRecord{
			OrderNumber: e.OrderNumber,
			Timestamp:   e.Timestamp,
			City:        e.City,
			Payment:     e.Payment,
			Size:        e.Size,
			Liquid:      e.Liquid,
			Ice:         e.Ice,
			Ingredients: strings.Join(e.Ingredients, ","),
			Total:       int64(e.Total),
		}, envelope.EventType, nil
	case models.EventDeliveryStatus:
		var e models.DeliveryUpdate
		if err := json.Unmarshal(msg, &e); err != nil {
			return nil, "", err
		}
		return DeliveryRecord{
			OrderNumber: e.OrderNumber,
			Timestamp:   e.Timestamp,
			Stage:       e.Stage,
			StageIndex:  int32(e.StageIndex),
			Progress:    e.Progress,
			ETAMinutes:  int32(e.ETAMinutes),
			StoreName:   e.Store.Name,
		}, envelope.EventType, nil
	default:
		return nil, "", fmt.Errorf("no parquet schema for event type %q", envelope.EventType)
	}
}

func schemaFor(eventType string) interface{} {
	if eventType == models.EventDeliveryStatus {
		return new(DeliveryRecord)
	}
	return new(OrderRecord)
}

// ParquetOutput writes one parquet file per topic and day, locally or
// through a cloud writer when a factory is configured. Each instance names its
// files uniquely so later runs add files next to earlier ones.
type ParquetOutput struct {
	basePath           string
	folder             string
	mu                 sync.Mutex
	writers            map[string]*writer.ParquetWriter
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
	log                *logger.Logger
}

func NewParquetOutput(basePath, folder string, factory cloudwriter.CloudWriterFactory, bucket string, log *logger.Logger) *ParquetOutput {
	return &ParquetOutput{
		basePath:           basePath,
		folder:             folder,
		writers:            make(map[string]*writer.ParquetWriter),
		files:              make(map[string]source.ParquetFile),
		cloudWriterFactory: factory,
		cloudBucketName:    bucket,
		log:                log.With("component", "parquet"),
	}
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	_, at, err := decodeEvent(msg)
	if err != nil {
		return err
	}
	record, eventType, err := recordFor(msg)
	if err != nil {
		return err
	}

	partition := partitionPath(at)
	writerKey := topic + "_" + partition

	p.mu.Lock()
	defer p.mu.Unlock()

	pw, ok := p.writers[writerKey]
	if !ok {
		pw, err = p.createNewWriter(writerKey, topic, partition, eventType)
		if err != nil {
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}

	if err := pw.Write(record); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func (p *ParquetOutput) createNewWriter(writerKey, topic, partition, eventType string) (*writer.ParquetWriter, error) {
	fileName := "data-" + cuid.New() + ".parquet"
	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		objectPath := path.Join(p.folder, topic, partition, fileName)
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cloudWriter)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder, topic, partition)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return nil, err
		}
		var err error
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, fileName))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, schemaFor(eventType), 4)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	p.writers[writerKey] = pw
	p.files[writerKey] = fw
	return pw, nil
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for key, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			lastErr = err
			p.log.Error("error closing writer", "key", key, "error", err)
		}
		if f, ok := p.files[key]; ok {
			if err := f.Close(); err != nil {
				lastErr = err
				p.log.Error("error closing file", "key", key, "error", err)
			}
		}
	}
	p.writers = make(map[string]*writer.ParquetWriter)
	p.files = make(map[string]source.ParquetFile)
	return lastErr
}

// CloudParquetFile adapts a write-only cloud object to source.ParquetFile.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

// Open and Create return the receiver: the object is created by the first write.
func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error)   { return c, nil }
func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) { return c, nil }

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
