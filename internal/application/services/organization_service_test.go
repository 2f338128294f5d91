package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

type MockSearchRepo struct {
	mock.Mock
}

func (m *MockSearchRepo) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Organization, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Organization), args.Error(1)
}
func (m *MockSearchRepo) Index(ctx context.Context, organization *entities.Organization) error {
	args := m.Called(ctx, organization)
	return args.Error(0)
}
func (m *MockSearchRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.OrganizationEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}
func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.OrganizationEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.OrganizationEvent), args.Error(1)
}
func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}
func (m *MockEventBus) Close() error {
	args := m.Called()
	return args.Error(0)
}

func validOrg() *entities.Organization {
	return &entities.Organization{
		Name: "Happy Paws Clinic",
		Address: entities.Address{
			Street:  "1 Main St",
			City:    "Utrecht",
			ZipCode: "3511",
			Country: "NL",
		},
		CareTypes: []string{"veterinarian"},
	}
}

func TestOrganizationCreateAssignsIDAndSlug(t *testing.T) {
	orgRepo := new(MockOrgRepo)
	searchRepo := new(MockSearchRepo)
	bus := new(MockEventBus)
	svc := NewOrganizationService(orgRepo, searchRepo, bus)

	orgRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	searchRepo.On("Index", mock.Anything, mock.Anything).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	org := validOrg()
	err := svc.Create(context.Background(), org)

	require.NoError(t, err)
	assert.NotEmpty(t, org.ID)
	assert.Equal(t, "happy-paws-clinic", org.Slug)
	assert.True(t, org.IsActive)
	orgRepo.AssertExpectations(t)
	searchRepo.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestOrganizationCreateRejectsMissingName(t *testing.T) {
	svc := NewOrganizationService(new(MockOrgRepo), nil, nil)

	org := validOrg()
	org.Name = "  "
	err := svc.Create(context.Background(), org)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestOrganizationCreateSucceedsWhenIndexingFails(t *testing.T) {
	orgRepo := new(MockOrgRepo)
	searchRepo := new(MockSearchRepo)
	svc := NewOrganizationService(orgRepo, searchRepo, nil)

	orgRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	searchRepo.On("Index", mock.Anything, mock.Anything).Return(errors.New("typesense down"))

	err := svc.Create(context.Background(), validOrg())

	assert.NoError(t, err)
}

func TestOrganizationSearchFallsBackToDatabase(t *testing.T) {
	orgRepo := new(MockOrgRepo)
	searchRepo := new(MockSearchRepo)
	svc := NewOrganizationService(orgRepo, searchRepo, nil)

	params := repositories.SearchParams{Query: "paws", City: "Utrecht"}
	expected := []*entities.Organization{{ID: "org-1", Name: "Happy Paws Clinic"}}

	searchRepo.On("Search", mock.Anything, params).Return(nil, errors.New("typesense down"))
	orgRepo.On("Search", mock.Anything, params).Return(expected, nil)

	results, err := svc.Search(context.Background(), params)

	require.NoError(t, err)
	assert.Equal(t, expected, results)
	orgRepo.AssertExpectations(t)
}

func TestOrganizationSearchPrefersSearchEngine(t *testing.T) {
	orgRepo := new(MockOrgRepo)
	searchRepo := new(MockSearchRepo)
	svc := NewOrganizationService(orgRepo, searchRepo, nil)

	params := repositories.SearchParams{Query: "paws"}
	expected := []*entities.Organization{{ID: "org-1"}}
	searchRepo.On("Search", mock.Anything, params).Return(expected, nil)

	results, err := svc.Search(context.Background(), params)

	require.NoError(t, err)
	assert.Equal(t, expected, results)
	orgRepo.AssertNotCalled(t, "Search")
}

func TestOrganizationDeleteRemovesFromIndex(t *testing.T) {
	orgRepo := new(MockOrgRepo)
	searchRepo := new(MockSearchRepo)
	bus := new(MockEventBus)
	svc := NewOrganizationService(orgRepo, searchRepo, bus)

	orgRepo.On("Delete", mock.Anything, "org-1").Return(nil)
	searchRepo.On("Delete", mock.Anything, "org-1").Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(e *entities.OrganizationEvent) bool {
		return e.EventType == entities.OrganizationEventTypeDeleted && e.OrganizationID == "org-1"
	})).Return(nil)

	err := svc.Delete(context.Background(), "org-1")

	require.NoError(t, err)
	searchRepo.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestOrganizationReindexPagesThroughActiveOrgs(t *testing.T) {
	orgRepo := new(MockOrgRepo)
	searchRepo := new(MockSearchRepo)
	svc := NewOrganizationService(orgRepo, searchRepo, nil)

	active := true
	first := []*entities.Organization{{ID: "a"}, {ID: "b"}}
	second := []*entities.Organization{{ID: "c"}}

	orgRepo.On("List", mock.Anything, repositories.OrganizationFilter{IsActive: &active, Limit: 2, Offset: 0}).Return(first, nil)
	orgRepo.On("List", mock.Anything, repositories.OrganizationFilter{IsActive: &active, Limit: 2, Offset: 2}).Return(second, nil)
	searchRepo.On("Index", mock.Anything, mock.Anything).Return(nil).Times(3)

	indexed, err := svc.Reindex(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, 3, indexed)
	searchRepo.AssertExpectations(t)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "happy-paws-clinic", slugify("Happy Paws Clinic"))
	assert.Equal(t, "de-dierenkliniek-24-7", slugify("De Dierenkliniek 24/7!"))
	assert.Equal(t, "clinic", slugify("  Clinic  "))
}
