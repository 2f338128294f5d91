package services

import (
	"context"
	"fmt"

	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/providers"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/observability"
)

// CacheInvalidationService listens for organization events and drops the
// cached reads they make stale. It runs as a background goroutine per API
// instance so every instance invalidates its shared cache view.
type CacheInvalidationService struct {
	eventBus providers.EventBus
	cache    providers.CacheProvider
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(eventBus providers.EventBus, cache providers.CacheProvider) *CacheInvalidationService {
	return &CacheInvalidationService{
		eventBus: eventBus,
		cache:    cache,
	}
}

// Start subscribes to organization updates and invalidates until the context
// is cancelled
func (s *CacheInvalidationService) Start(ctx context.Context) error {
	events, err := s.eventBus.Subscribe(ctx, providers.EventChannelOrganizationUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to organization updates: %w", err)
	}

	go s.run(ctx, events)
	return nil
}

func (s *CacheInvalidationService) run(ctx context.Context, events <-chan *entities.OrganizationEvent) {
	logger := observability.GetLogger()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.invalidate(ctx, event)
			logger.Debug().
				Str("organization_id", event.OrganizationID).
				Str("event_type", string(event.EventType)).
				Msg("Invalidated cached organization reads")
		}
	}
}

func (s *CacheInvalidationService) invalidate(ctx context.Context, event *entities.OrganizationEvent) {
	logger := observability.GetLogger()

	keys := []string{
		fmt.Sprintf("organization:%s", event.OrganizationID),
		fmt.Sprintf("organization:%s:schedule", event.OrganizationID),
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to invalidate cache key")
		}
	}

	patterns := []string{
		"organizations:list:*",
		fmt.Sprintf("availability:%s:*", event.OrganizationID),
	}
	if event.EventType == entities.OrganizationEventTypeDeleted {
		patterns = append(patterns, "organization:slug:*")
	}
	for _, pattern := range patterns {
		if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
			logger.Warn().Err(err).Str("pattern", pattern).Msg("Failed to invalidate cache pattern")
		}
	}
}
