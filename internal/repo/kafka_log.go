// Package repo – KafkaLog
//
// KafkaLog publishes each record as one message on a Kafka topic, which is
// itself an append-only log. Messages are keyed by submission id and routed
// with a hash balancer, so same-hour resubmissions from one email (which
// share a derived id) land on the same partition in order.
package repo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-survey-backend/internal/observability"
)

// KafkaConfig configures the Kafka-backed AppendLog.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration // per-write deadline; defaults to 10s
}

// messageWriter is the subset of *kafka.Writer used by KafkaLog.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaLog is an AppendLog that writes synchronously to a Kafka topic.
// Append returns only after the brokers acknowledged the message.
type KafkaLog struct {
	topic  string
	writer messageWriter
}

// NewKafkaLog builds a KafkaLog. It does not contact the brokers; the first
// Append does.
func NewKafkaLog(cfg KafkaConfig) (*KafkaLog, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka log: at least one broker is required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, errors.New("kafka log: topic is required")
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: timeout,
		RequiredAcks: kafka.RequireAll,
		Transport:    &kafka.Transport{Dial: dialer.DialFunc},
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("kafka append log initialized")

	return &KafkaLog{topic: cfg.Topic, writer: w}, nil
}

// Append publishes line (without its trailing newline) keyed by key.
func (l *KafkaLog) Append(ctx context.Context, key string, line []byte) (err error) {
	ctx, span := observability.StartSpan(ctx, "store.append",
		attribute.String("store.backend", BackendKafka),
		attribute.String("messaging.destination.name", l.topic),
		attribute.String("survey.submission_id", key),
	)
	start := time.Now()
	defer func() {
		observability.ObserveAppend(BackendKafka, err, time.Since(start))
		observability.EndSpan(span, err)
	}()

	value := bytes.TrimRight(line, "\n")
	if len(value) == 0 {
		return ErrEmptyRecord
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if err := l.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", l.topic, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (l *KafkaLog) Close() error {
	if l.writer == nil {
		return nil
	}
	return l.writer.Close()
}
