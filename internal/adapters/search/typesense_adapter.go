package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	tsclient "github.com/vetlink/vetlink-backend/internal/infrastructure/clients/typesense"
)

const collectionName = "organizations"

// TypesenseAdapter implements organization search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements OrganizationSearchRepository
var _ repositories.OrganizationSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	// Check if collection exists
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	// Create collection
	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "slug", Type: "string"},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "care_types", Type: "string[]", Facet: pointer.True()},
			{Name: "consultation_types", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "rating", Type: "float"},
			{Name: "review_count", Type: "int32"},
			{Name: "is_active", Type: "bool"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// DropSchema deletes the collection. The indexer uses it for full rebuilds.
func (a *TypesenseAdapter) DropSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete typesense collection: %w", err)
	}
	return nil
}

// Index indexes an organization
func (a *TypesenseAdapter) Index(ctx context.Context, organization *entities.Organization) error {
	document := map[string]interface{}{
		"id":                 organization.ID,
		"name":               organization.Name,
		"slug":               organization.Slug,
		"city":               organization.Address.City,
		"care_types":         organization.CareTypes,
		"consultation_types": organization.ConsultationTypes,
		"rating":             organization.Rating,
		"review_count":       organization.ReviewCount,
		"is_active":          organization.IsActive,
		"created_at":         organization.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index organization: %w", err)
	}

	return nil
}

// Delete removes an organization from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete organization from index: %w", err)
	}
	return nil
}

// Search searches organizations by query and facet filters
func (a *TypesenseAdapter) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Organization, error) {
	query := params.Query
	if query == "" {
		query = "*"
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 30
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("name,city,care_types"),
		FilterBy: pointer.String(buildFilter(params)),
		Page:     pointer.Int(params.Offset/limit + 1),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search organizations: %w", err)
	}

	organizations := []*entities.Organization{}
	for _, hit := range *result.Hits {
		doc := *hit.Document

		// Typesense returns map[string]interface{}, so cast defensively;
		// callers needing full rows re-fetch from Postgres by ID.
		organization := &entities.Organization{
			ID:       stringField(doc, "id"),
			Name:     stringField(doc, "name"),
			Slug:     stringField(doc, "slug"),
			IsActive: true,
			Address: entities.Address{
				City: stringField(doc, "city"),
			},
			CareTypes:         stringSliceField(doc, "care_types"),
			ConsultationTypes: stringSliceField(doc, "consultation_types"),
		}

		if val, ok := doc["rating"].(float64); ok {
			organization.Rating = val
		}
		if val, ok := doc["review_count"].(float64); ok {
			organization.ReviewCount = int(val)
		}

		organizations = append(organizations, organization)
	}

	return organizations, nil
}

func buildFilter(params repositories.SearchParams) string {
	filters := []string{"is_active:=true"}
	if params.City != "" {
		filters = append(filters, fmt.Sprintf("city:=%s", params.City))
	}
	if params.CareType != "" {
		filters = append(filters, fmt.Sprintf("care_types:=%s", params.CareType))
	}
	if params.ConsultationType != "" {
		filters = append(filters, fmt.Sprintf("consultation_types:=%s", params.ConsultationType))
	}
	return strings.Join(filters, " && ")
}

func stringField(doc map[string]interface{}, key string) string {
	if val, ok := doc[key].(string); ok {
		return val
	}
	return ""
}

func stringSliceField(doc map[string]interface{}, key string) []string {
	raw, ok := doc[key].([]interface{})
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			values = append(values, s)
		}
	}
	return values
}
