package eventbus

import (
	"context"
	"fmt"

	"github.com/angelmondragon/basket-service/pkg/config"
	"github.com/angelmondragon/basket-service/pkg/logger"
)

// Publisher delivers enveloped events to the configured broker with
// at-least-once semantics. Publish returns the generated event id once the
// broker has acknowledged the message.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) (string, error)
	Ping(ctx context.Context) error
	Close() error
}

// New selects the publisher implementation for the configured driver.
func New(ctx context.Context, gcp config.GCPConfig, cfg config.EventingConfig, logg *logger.Logger) (Publisher, error) {
	switch cfg.Driver {
	case config.EventbusDriverPubsub:
		return NewPubSubPublisher(ctx, gcp, cfg, logg)
	case config.EventbusDriverKafka:
		return NewKafkaPublisher(ctx, cfg, logg)
	default:
		return nil, fmt.Errorf("unknown eventbus driver %q", cfg.Driver)
	}
}
