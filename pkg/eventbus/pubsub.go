package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/angelmondragon/basket-service/pkg/config"
	"github.com/angelmondragon/basket-service/pkg/logger"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errProjectIDRequired = errors.New("gcp project id is required")

// PubSubPublisher publishes envelopes to a Google Cloud Pub/Sub topic.
type PubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	projectID string
	topic     string
}

// NewPubSubPublisher creates a Pub/Sub v2 client and verifies the checkout
// topic exists before accepting traffic.
func NewPubSubPublisher(ctx context.Context, gcp config.GCPConfig, cfg config.EventingConfig, logg *logger.Logger) (*PubSubPublisher, error) {
	if strings.TrimSpace(gcp.ProjectID) == "" {
		return nil, errProjectIDRequired
	}

	opts := []option.ClientOption{}
	if gcp.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(gcp.CredentialsJSON)))
	}

	psClient, err := pubsub.NewClient(ctx, gcp.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	p := &PubSubPublisher{
		client:    psClient,
		projectID: gcp.ProjectID,
		topic:     cfg.CheckoutTopic,
	}

	if err := p.ensureTopicExists(ctx); err != nil {
		_ = psClient.Close()
		return nil, err
	}
	p.publisher = psClient.Publisher(p.topicResourceName())

	if logg != nil {
		logg.Info(ctx, "pubsub publisher initialized")
	}

	return p, nil
}

// Publish wraps the payload in an envelope and blocks until the broker acks.
func (p *PubSubPublisher) Publish(ctx context.Context, eventType, key string, payload any) (string, error) {
	if p == nil || p.publisher == nil {
		return "", errors.New("pubsub publisher not initialized")
	}
	envelope, err := NewEnvelope(eventType, payload)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("marshaling envelope: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type": eventType,
			"event_id":   envelope.EventID,
			"key":        key,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return "", fmt.Errorf("publishing %s: %w", eventType, err)
	}
	return envelope.EventID, nil
}

// Ping verifies connectivity by checking the configured topic exists.
func (p *PubSubPublisher) Ping(ctx context.Context) error {
	if p == nil {
		return errors.New("pubsub publisher not initialized")
	}
	return p.ensureTopicExists(ctx)
}

// Close flushes outstanding publishes and releases the client.
func (p *PubSubPublisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	if p.publisher != nil {
		p.publisher.Stop()
	}
	return p.client.Close()
}

func (p *PubSubPublisher) ensureTopicExists(ctx context.Context) error {
	fullName := p.topicResourceName()
	if fullName == "" {
		return fmt.Errorf("checkout topic not configured")
	}

	_, err := p.client.TopicAdminClient.GetTopic(
		ctx,
		&pubsubpb.GetTopicRequest{Topic: fullName},
	)
	if err != nil {
		// v2 uses gRPC errors; NotFound means the topic doesn't exist.
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("topic %q does not exist", p.topic)
		}
		return fmt.Errorf("checking topic %q: %w", p.topic, err)
	}

	return nil
}

func (p *PubSubPublisher) topicResourceName() string {
	n := strings.TrimSpace(p.topic)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, "projects/") && strings.Contains(n, "/topics/") {
		return n
	}
	proj := strings.TrimSpace(p.projectID)
	if proj == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/topics/%s", proj, n)
}
