package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Sender publishes book updates to a Kafka topic, keyed by symbol so one
// instrument's updates stay in order on a single partition.
type Sender struct {
	writer *kafka.Writer
	topic  string
}

// NewSender creates a Kafka sender for the given broker and topic.
func NewSender(brokerAddr, topic string) *Sender {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerAddr),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Sender{
		writer: writer,
		topic:  topic,
	}
}

// Send publishes one record.
func (s *Sender) Send(ctx context.Context, key string, record []byte) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: record,
		Time:  time.Now(),
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send update to Kafka: %w", err)
	}
	return nil
}

// Close closes the Kafka writer.
func (s *Sender) Close() error {
	return s.writer.Close()
}
