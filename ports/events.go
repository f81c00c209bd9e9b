package ports

import "context"

// EventPublisher publishes authentication events to other instances
type EventPublisher interface {
	PublishLogin(ctx context.Context, address string, sessionID string) error
	PublishLogout(ctx context.Context, address string, sessionID string) error
}
