package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"github.com/chrisdamba/freshmix/internal/logger"
)

type KafkaOutput struct {
	producer sarama.SyncProducer
	log      *logger.Logger
}

// NewKafkaOutput connects a synchronous producer to a comma separated broker list.
func NewKafkaOutput(brokerList string, log *logger.Logger) (*KafkaOutput, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokers := strings.Split(brokerList, ",")
	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	log.Info("kafka producer created", "brokers", brokers)
	return NewKafkaOutputWithProducer(producer, log), nil
}

func NewKafkaOutputWithProducer(producer sarama.SyncProducer, log *logger.Logger) *KafkaOutput {
	return &KafkaOutput{producer: producer, log: log.With("component", "kafka")}
}

// WriteMessage keys each message by order number so one order's events stay
// on one partition.
func (k *KafkaOutput) WriteMessage(topic string, msg []byte) error {
	if k.producer == nil {
		return fmt.Errorf("kafka producer is closed")
	}
	message := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(msg),
	}
	if key := orderKey(msg); key != "" {
		message.Key = sarama.StringEncoder(key)
	}
	partition, offset, err := k.producer.SendMessage(message)
	if err != nil {
		k.log.Error("failed to send message", "topic", topic, "error", err)
		return err
	}
	k.log.Debug("message sent", "topic", topic, "partition", partition, "offset", offset)
	return nil
}

func (k *KafkaOutput) Close() error {
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.producer = nil
	return err
}

func orderKey(msg []byte) string {
	event, _, err := decodeEvent(msg)
	if err != nil {
		return ""
	}
	key, _ := event["order_number"].(string)
	return key
}
