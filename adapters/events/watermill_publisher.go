package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/layer-3/jumper/ports"
)

const (
	LoginTopic  = "auth.login"
	LogoutTopic = "auth.logout"
)

// AuthEvent is the payload of login and logout events
type AuthEvent struct {
	Address   string    `json:"address"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
	prefix    string
}

// NewWatermillPublisher creates a new Watermill publisher. Topics are prefixed with prefix.
func NewWatermillPublisher(publisher message.Publisher, prefix string) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		prefix:    prefix,
	}
}

// PublishLogin publishes a login event
func (p *WatermillPublisher) PublishLogin(ctx context.Context, address string, sessionID string) error {
	return p.publish(ctx, LoginTopic, address, sessionID)
}

// PublishLogout publishes a logout event
func (p *WatermillPublisher) PublishLogout(ctx context.Context, address string, sessionID string) error {
	return p.publish(ctx, LogoutTopic, address, sessionID)
}

// Topic returns the full topic name for an event
func (p *WatermillPublisher) Topic(event string) string {
	return p.prefix + event
}

func (p *WatermillPublisher) publish(ctx context.Context, topic, address, sessionID string) error {
	payload, err := json.Marshal(AuthEvent{
		Address:   address,
		SessionID: sessionID,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.Topic(topic), msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// NoopPublisher drops every event; used when event publishing is disabled
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that does nothing
func NewNoopPublisher() ports.EventPublisher {
	return NoopPublisher{}
}

// PublishLogin discards the event
func (NoopPublisher) PublishLogin(context.Context, string, string) error { return nil }

// PublishLogout discards the event
func (NoopPublisher) PublishLogout(context.Context, string, string) error { return nil }
