package providers

import (
	"context"

	"github.com/vetlink/vetlink-backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.OrganizationEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.OrganizationEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelOrganizationUpdates is the channel for all organization updates
	EventChannelOrganizationUpdates = "organization:updates"

	// EventChannelOrganizationPrefix is the prefix for organization-specific channels
	EventChannelOrganizationPrefix = "organization:"
)

// GetOrganizationChannel returns the channel name for a specific organization
func GetOrganizationChannel(organizationID string) string {
	return EventChannelOrganizationPrefix + organizationID
}
