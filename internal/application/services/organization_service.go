package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/providers"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/observability"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

// OrganizationService coordinates organization persistence, search indexing
// and update events. Index and event failures are logged, never fatal; the
// database row is the source of truth.
type OrganizationService struct {
	orgRepo    repositories.OrganizationRepository
	searchRepo repositories.OrganizationSearchRepository
	eventBus   providers.EventBus
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(
	orgRepo repositories.OrganizationRepository,
	searchRepo repositories.OrganizationSearchRepository,
	eventBus providers.EventBus,
) *OrganizationService {
	return &OrganizationService{
		orgRepo:    orgRepo,
		searchRepo: searchRepo,
		eventBus:   eventBus,
	}
}

// Create validates and persists a new organization, indexes it and publishes
// a created event
func (s *OrganizationService) Create(ctx context.Context, org *entities.Organization) error {
	if err := validateOrganization(org); err != nil {
		return err
	}

	if org.ID == "" {
		org.ID = uuid.New().String()
	}
	if org.Slug == "" {
		org.Slug = slugify(org.Name)
	}
	now := time.Now()
	org.CreatedAt = now
	org.UpdatedAt = now
	org.IsActive = true

	if err := s.orgRepo.Create(ctx, org); err != nil {
		return err
	}

	s.indexOrganization(ctx, org)
	s.publishEvent(ctx, org.ID, entities.OrganizationEventTypeCreated, nil)
	return nil
}

// GetByID retrieves an organization by ID
func (s *OrganizationService) GetByID(ctx context.Context, id string) (*entities.Organization, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("organization id is required")
	}
	return s.orgRepo.GetByID(ctx, id)
}

// GetBySlug retrieves an organization by its URL slug
func (s *OrganizationService) GetBySlug(ctx context.Context, slug string) (*entities.Organization, error) {
	if slug == "" {
		return nil, apperrors.NewValidationError("organization slug is required")
	}
	return s.orgRepo.GetBySlug(ctx, slug)
}

// Update persists changes to an organization, reindexes it and publishes an
// updated event
func (s *OrganizationService) Update(ctx context.Context, org *entities.Organization) error {
	if org.ID == "" {
		return apperrors.NewValidationError("organization id is required")
	}
	if err := validateOrganization(org); err != nil {
		return err
	}

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return err
	}

	s.indexOrganization(ctx, org)
	s.publishEvent(ctx, org.ID, entities.OrganizationEventTypeUpdated, nil)
	return nil
}

// Delete deactivates an organization, removes it from the index and
// publishes a deleted event
func (s *OrganizationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewValidationError("organization id is required")
	}

	if err := s.orgRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("organization_id", id).
				Msg("Failed to remove organization from search index")
		}
	}
	s.publishEvent(ctx, id, entities.OrganizationEventTypeDeleted, nil)
	return nil
}

// List retrieves organizations with filters
func (s *OrganizationService) List(ctx context.Context, filter repositories.OrganizationFilter) ([]*entities.Organization, error) {
	return s.orgRepo.List(ctx, filter)
}

// Search queries the search engine, falling back to the database when the
// engine is unavailable
func (s *OrganizationService) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Organization, error) {
	if s.searchRepo != nil {
		results, err := s.searchRepo.Search(ctx, params)
		if err == nil {
			return results, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Msg("Search engine query failed, falling back to database")
	}
	return s.orgRepo.Search(ctx, params)
}

// Reindex loads every active organization and pushes it into the search
// index. Used by the indexer binary.
func (s *OrganizationService) Reindex(ctx context.Context, batchSize int) (int, error) {
	if s.searchRepo == nil {
		return 0, apperrors.NewInternalError("no search repository configured", nil)
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	active := true
	indexed := 0
	for offset := 0; ; offset += batchSize {
		orgs, err := s.orgRepo.List(ctx, repositories.OrganizationFilter{
			IsActive: &active,
			Limit:    batchSize,
			Offset:   offset,
		})
		if err != nil {
			return indexed, err
		}
		if len(orgs) == 0 {
			return indexed, nil
		}
		for _, org := range orgs {
			if err := s.searchRepo.Index(ctx, org); err != nil {
				return indexed, err
			}
			indexed++
		}
		if len(orgs) < batchSize {
			return indexed, nil
		}
	}
}

// NotifyScheduleChanged publishes a schedule_changed event so cached
// availability for the organization is dropped
func (s *OrganizationService) NotifyScheduleChanged(ctx context.Context, organizationID string) {
	s.publishEvent(ctx, organizationID, entities.OrganizationEventTypeScheduleChanged, nil)
}

func (s *OrganizationService) indexOrganization(ctx context.Context, org *entities.Organization) {
	if s.searchRepo == nil {
		return
	}
	if err := s.searchRepo.Index(ctx, org); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("organization_id", org.ID).
			Msg("Failed to index organization")
	}
}

func (s *OrganizationService) publishEvent(ctx context.Context, organizationID string, eventType entities.OrganizationEventType, changed map[string]interface{}) {
	if s.eventBus == nil {
		return
	}
	event := entities.NewOrganizationEvent(organizationID, eventType, changed)
	if err := s.eventBus.Publish(ctx, providers.EventChannelOrganizationUpdates, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("organization_id", organizationID).
			Msg("Failed to publish organization event")
	}
}

func validateOrganization(org *entities.Organization) error {
	if org == nil {
		return apperrors.NewValidationError("organization is required")
	}
	if strings.TrimSpace(org.Name) == "" {
		return apperrors.NewValidationError("organization name is required")
	}
	if strings.TrimSpace(org.Address.City) == "" {
		return apperrors.NewValidationError("organization city is required")
	}
	return nil
}

// slugify lowercases a name and replaces runs of non-alphanumerics with
// single hyphens
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
