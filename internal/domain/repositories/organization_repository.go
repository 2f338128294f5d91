package repositories

import (
	"context"

	"github.com/vetlink/vetlink-backend/internal/domain/entities"
)

// OrganizationRepository defines the interface for organization data operations
type OrganizationRepository interface {
	// Create creates a new organization
	Create(ctx context.Context, organization *entities.Organization) error

	// GetByID retrieves an organization by ID
	GetByID(ctx context.Context, id string) (*entities.Organization, error)

	// GetBySlug retrieves an organization by its URL slug
	GetBySlug(ctx context.Context, slug string) (*entities.Organization, error)

	// Update updates an organization
	Update(ctx context.Context, organization *entities.Organization) error

	// Delete deactivates an organization (soft delete)
	Delete(ctx context.Context, id string) error

	// List retrieves organizations with filters
	List(ctx context.Context, filter OrganizationFilter) ([]*entities.Organization, error)

	// Search searches organizations by city and care criteria
	Search(ctx context.Context, params SearchParams) ([]*entities.Organization, error)

	// GetSchedule loads the schedule aggregate the availability resolver
	// consumes: weekly hours, exceptional availability, unavailability and
	// consultation types.
	GetSchedule(ctx context.Context, organizationID string) (*entities.OrganizationSchedule, error)
}

// OrganizationSearchRepository defines the interface for search-engine backed
// organization search (e.g. Typesense)
type OrganizationSearchRepository interface {
	// Search searches organizations
	Search(ctx context.Context, params SearchParams) ([]*entities.Organization, error)

	// Index indexes an organization
	Index(ctx context.Context, organization *entities.Organization) error

	// Delete removes an organization from the index
	Delete(ctx context.Context, id string) error
}

// OrganizationFilter defines filters for listing organizations
type OrganizationFilter struct {
	City     string
	CareType string
	IsActive *bool
	Limit    int
	Offset   int
}

// SearchParams defines parameters for organization search
type SearchParams struct {
	Query            string
	City             string
	CareType         string
	ConsultationType string
	Limit            int
	Offset           int
}
