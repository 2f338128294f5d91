package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/providers"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
)

// CachedOrganizationAdapter wraps an OrganizationRepository with caching
type CachedOrganizationAdapter struct {
	adapter repositories.OrganizationRepository
	cache   providers.CacheProvider
}

// NewCachedOrganizationAdapter creates a new cached organization adapter
func NewCachedOrganizationAdapter(adapter repositories.OrganizationRepository, cache providers.CacheProvider) repositories.OrganizationRepository {
	return &CachedOrganizationAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	organizationByIDTTL = 300 // 5 minutes for single organization
	organizationListTTL = 180 // 3 minutes for lists
	scheduleTTL         = 120 // 2 minutes for schedule aggregates
)

func organizationCacheKey(id string) string {
	return fmt.Sprintf("organization:%s", id)
}

func organizationSlugCacheKey(slug string) string {
	return fmt.Sprintf("organization:slug:%s", slug)
}

func organizationListCacheKey(filter repositories.OrganizationFilter) string {
	return fmt.Sprintf("organizations:list:%s:%s:%d:%d", filter.City, filter.CareType, filter.Limit, filter.Offset)
}

func scheduleCacheKey(organizationID string) string {
	return fmt.Sprintf("organization:%s:schedule", organizationID)
}

// Create creates an organization and invalidates list caches
func (a *CachedOrganizationAdapter) Create(ctx context.Context, organization *entities.Organization) error {
	if err := a.adapter.Create(ctx, organization); err != nil {
		return err
	}
	a.invalidateLists(ctx)
	return nil
}

// GetByID retrieves an organization by ID with caching
func (a *CachedOrganizationAdapter) GetByID(ctx context.Context, id string) (*entities.Organization, error) {
	cacheKey := organizationCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var organization entities.Organization
		if err := json.Unmarshal(cached, &organization); err == nil {
			return &organization, nil
		}
		log.Warn().Err(err).Str("organization_id", id).Msg("failed to unmarshal cached organization")
	}

	organization, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(organization); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, organizationByIDTTL); err != nil {
				log.Warn().Err(err).Str("organization_id", id).Msg("failed to cache organization")
			}
		}
	}()

	return organization, nil
}

// GetBySlug retrieves an organization by slug with caching
func (a *CachedOrganizationAdapter) GetBySlug(ctx context.Context, slug string) (*entities.Organization, error) {
	cacheKey := organizationSlugCacheKey(slug)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var organization entities.Organization
		if err := json.Unmarshal(cached, &organization); err == nil {
			return &organization, nil
		}
	}

	organization, err := a.adapter.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(organization); err == nil {
			_ = a.cache.Set(bgCtx, cacheKey, data, organizationByIDTTL)
		}
	}()

	return organization, nil
}

// Update updates an organization and invalidates its cache entries
func (a *CachedOrganizationAdapter) Update(ctx context.Context, organization *entities.Organization) error {
	if err := a.adapter.Update(ctx, organization); err != nil {
		return err
	}
	a.invalidateOrganization(ctx, organization.ID, organization.Slug)
	return nil
}

// Delete deactivates an organization and invalidates its cache entries
func (a *CachedOrganizationAdapter) Delete(ctx context.Context, id string) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidateOrganization(ctx, id, "")
	return nil
}

// List retrieves organizations with caching
func (a *CachedOrganizationAdapter) List(ctx context.Context, filter repositories.OrganizationFilter) ([]*entities.Organization, error) {
	cacheKey := organizationListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var organizations []*entities.Organization
		if err := json.Unmarshal(cached, &organizations); err == nil {
			return organizations, nil
		}
	}

	organizations, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(organizations); err == nil {
			_ = a.cache.Set(bgCtx, cacheKey, data, organizationListTTL)
		}
	}()

	return organizations, nil
}

// Search is not cached here; the HTTP cache middleware covers the search
// endpoint with its own TTL.
func (a *CachedOrganizationAdapter) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Organization, error) {
	return a.adapter.Search(ctx, params)
}

// GetSchedule retrieves the schedule aggregate with caching
func (a *CachedOrganizationAdapter) GetSchedule(ctx context.Context, organizationID string) (*entities.OrganizationSchedule, error) {
	cacheKey := scheduleCacheKey(organizationID)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var schedule entities.OrganizationSchedule
		if err := json.Unmarshal(cached, &schedule); err == nil {
			return &schedule, nil
		}
	}

	schedule, err := a.adapter.GetSchedule(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(schedule); err == nil {
			_ = a.cache.Set(bgCtx, cacheKey, data, scheduleTTL)
		}
	}()

	return schedule, nil
}

func (a *CachedOrganizationAdapter) invalidateOrganization(ctx context.Context, id, slug string) {
	if err := a.cache.Delete(ctx, organizationCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("organization_id", id).Msg("failed to invalidate organization cache")
	}
	if slug != "" {
		_ = a.cache.Delete(ctx, organizationSlugCacheKey(slug))
	}
	_ = a.cache.Delete(ctx, scheduleCacheKey(id))
	a.invalidateLists(ctx)
}

func (a *CachedOrganizationAdapter) invalidateLists(ctx context.Context) {
	if err := a.cache.DeleteByPattern(ctx, "organizations:list:*"); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate organization list caches")
	}
}
