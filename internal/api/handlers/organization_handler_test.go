package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vetlink/vetlink-backend/internal/api/handlers"
	"github.com/vetlink/vetlink-backend/internal/application/services"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, organization *entities.Organization) error {
	args := m.Called(ctx, organization)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id string) (*entities.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) GetBySlug(ctx context.Context, slug string) (*entities.Organization, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Update(ctx context.Context, organization *entities.Organization) error {
	args := m.Called(ctx, organization)
	return args.Error(0)
}

func (m *MockOrganizationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrganizationRepository) List(ctx context.Context, filter repositories.OrganizationFilter) ([]*entities.Organization, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Organization, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) GetSchedule(ctx context.Context, organizationID string) (*entities.OrganizationSchedule, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OrganizationSchedule), args.Error(1)
}

func newOrganizationHandler(repo *MockOrganizationRepository, now time.Time) *handlers.OrganizationHandler {
	orgService := services.NewOrganizationService(repo, nil, nil)
	availabilityService := services.NewAvailabilityServiceWithClock(repo, nil, func() time.Time { return now })
	return handlers.NewOrganizationHandler(orgService, availabilityService, nil)
}

type availabilityResponse struct {
	OrganizationID string                      `json:"organization_id"`
	Availabilities []entities.AvailabilitySlot `json:"availabilities"`
}

func TestOrganizationHandler_GetAvailability_ReturnsContract(t *testing.T) {
	repo := new(MockOrganizationRepository)
	// Wednesday 10:00
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.Local)
	handler := newOrganizationHandler(repo, now)

	schedule := &entities.OrganizationSchedule{
		OrganizationID: "org-1",
		WeeklyHours: []entities.WeeklyHours{
			{DayOfWeek: 4, IsOpen: true, OpenTime: 9 * 60, CloseTime: 18 * 60},
		},
		ConsultationTypes: []entities.ConsultationTypeDetail{
			{Name: "First Consultation"},
		},
	}
	repo.On("GetSchedule", mock.Anything, "org-1").Return(schedule, nil)

	req := httptest.NewRequest("GET", "/api/organizations/org-1/availability", nil)
	req.SetPathValue("id", "org-1")
	w := httptest.NewRecorder()

	handler.GetAvailability(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp availabilityResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "org-1", resp.OrganizationID)
	assert.Len(t, resp.Availabilities, 6)
	assert.Equal(t, "Thu 12", resp.Availabilities[0].Label)
	assert.Equal(t, "09:00", resp.Availabilities[0].Time)
	assert.Equal(t, "First Consultation", resp.Availabilities[0].ConsultationType)
	assert.False(t, resp.Availabilities[0].IsToday)
}

func TestOrganizationHandler_GetAvailability_EmptyScheduleIsEmptyList(t *testing.T) {
	repo := new(MockOrganizationRepository)
	handler := newOrganizationHandler(repo, time.Date(2025, 6, 11, 10, 0, 0, 0, time.Local))

	repo.On("GetSchedule", mock.Anything, "org-1").
		Return(&entities.OrganizationSchedule{OrganizationID: "org-1"}, nil)

	req := httptest.NewRequest("GET", "/api/organizations/org-1/availability", nil)
	req.SetPathValue("id", "org-1")
	w := httptest.NewRecorder()

	handler.GetAvailability(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp availabilityResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Empty(t, resp.Availabilities)
}

func TestOrganizationHandler_GetOrganization_NotFoundMapsTo404(t *testing.T) {
	repo := new(MockOrganizationRepository)
	handler := newOrganizationHandler(repo, time.Now())

	repo.On("GetByID", mock.Anything, "missing").
		Return(nil, apperrors.NewNotFoundError("organization not found"))

	req := httptest.NewRequest("GET", "/api/organizations/missing", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handler.GetOrganization(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrganizationHandler_ListOrganizations_PassesFilter(t *testing.T) {
	repo := new(MockOrganizationRepository)
	handler := newOrganizationHandler(repo, time.Now())

	orgs := []*entities.Organization{
		{ID: "org-1", Name: "Happy Paws Clinic", Address: entities.Address{City: "Utrecht"}},
		{ID: "org-2", Name: "City Vets", Address: entities.Address{City: "Utrecht"}},
	}
	repo.On("List", mock.Anything, mock.MatchedBy(func(f repositories.OrganizationFilter) bool {
		return f.City == "Utrecht" && f.Limit == 5 && f.Offset == 10
	})).Return(orgs, nil)

	req := httptest.NewRequest("GET", "/api/organizations?city=Utrecht&limit=5&offset=10", nil)
	w := httptest.NewRecorder()

	handler.ListOrganizations(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Organizations []*entities.Organization `json:"organizations"`
		Count         int                      `json:"count"`
	}
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "Happy Paws Clinic", resp.Organizations[0].Name)
}

func TestOrganizationHandler_CreateOrganization_RejectsInvalidBody(t *testing.T) {
	repo := new(MockOrganizationRepository)
	handler := newOrganizationHandler(repo, time.Now())

	req := httptest.NewRequest("POST", "/api/admin/organizations", nil)
	w := httptest.NewRecorder()

	handler.CreateOrganization(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
