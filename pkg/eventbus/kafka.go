package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/basket-service/pkg/config"
	"github.com/angelmondragon/basket-service/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher publishes envelopes to a Kafka topic, keyed by user so a
// user's checkout events land on one partition.
type KafkaPublisher struct {
	writer  *kafka.Writer
	brokers []string
}

// NewKafkaPublisher builds a writer with full acks for at-least-once delivery.
func NewKafkaPublisher(ctx context.Context, cfg config.EventingConfig, logg *logger.Logger) (*KafkaPublisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.CheckoutTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}

	p := &KafkaPublisher{writer: writer, brokers: cfg.KafkaBrokers}
	if err := p.Ping(ctx); err != nil {
		return nil, fmt.Errorf("verifying kafka connectivity: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "kafka publisher initialized")
	}
	return p, nil
}

// Publish wraps the payload in an envelope and blocks until the write is acked.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, payload any) (string, error) {
	if p == nil || p.writer == nil {
		return "", errors.New("kafka publisher not initialized")
	}
	envelope, err := NewEnvelope(eventType, payload)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("marshaling envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "event_id", Value: []byte(envelope.EventID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return "", fmt.Errorf("publishing %s: %w", eventType, err)
	}
	return envelope.EventID, nil
}

// Ping dials the first broker to verify reachability.
func (p *KafkaPublisher) Ping(ctx context.Context) error {
	if p == nil || len(p.brokers) == 0 {
		return errors.New("kafka publisher not initialized")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return err
	}
	return conn.Close()
}

// Close flushes and releases the writer.
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
