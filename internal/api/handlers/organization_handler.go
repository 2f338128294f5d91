package handlers

import (
	"net/http"
	"strconv"

	"github.com/vetlink/vetlink-backend/internal/api/middleware"
	"github.com/vetlink/vetlink-backend/internal/application/services"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
)

// OrganizationHandler handles organization-related HTTP requests
type OrganizationHandler struct {
	orgService          *services.OrganizationService
	availabilityService *services.AvailabilityService
	activityService     *services.ActivityService
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(
	orgService *services.OrganizationService,
	availabilityService *services.AvailabilityService,
	activityService *services.ActivityService,
) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:          orgService,
		availabilityService: availabilityService,
		activityService:     activityService,
	}
}

// ListOrganizations handles GET /api/organizations
func (h *OrganizationHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.OrganizationFilter{
		City:     query.Get("city"),
		CareType: query.Get("care_type"),
		Limit:    parseIntParam(query.Get("limit"), 30),
		Offset:   parseIntParam(query.Get("offset"), 0),
	}

	organizations, err := h.orgService.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"organizations": organizations,
		"count":         len(organizations),
	})
}

// SearchOrganizations handles GET /api/organizations/search
func (h *OrganizationHandler) SearchOrganizations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := repositories.SearchParams{
		Query:            query.Get("q"),
		City:             query.Get("city"),
		CareType:         query.Get("care_type"),
		ConsultationType: query.Get("consultation_type"),
		Limit:            parseIntParam(query.Get("limit"), 30),
		Offset:           parseIntParam(query.Get("offset"), 0),
	}

	organizations, err := h.orgService.Search(r.Context(), params)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"organizations": organizations,
		"count":         len(organizations),
	})
}

// GetOrganization handles GET /api/organizations/{id}
func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "organization ID is required")
		return
	}

	organization, err := h.orgService.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, organization)
}

// GetOrganizationBySlug handles GET /api/organizations/slug/{slug}
func (h *OrganizationHandler) GetOrganizationBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		respondWithError(w, http.StatusBadRequest, "organization slug is required")
		return
	}

	organization, err := h.orgService.GetBySlug(r.Context(), slug)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, organization)
}

// GetAvailability handles GET /api/organizations/{id}/availability
func (h *OrganizationHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "organization ID is required")
		return
	}

	slots, err := h.availabilityService.GetAvailability(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"organization_id": id,
		"availabilities":  slots,
	})
}

// CreateOrganization handles POST /api/admin/organizations
func (h *OrganizationHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var organization entities.Organization
	if err := decodeJSONBody(r, &organization); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.orgService.Create(r.Context(), &organization); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	h.recordActivity(r, "create", "organization", organization.ID, organization.Name)
	respondWithJSON(w, http.StatusCreated, organization)
}

// UpdateOrganization handles PUT /api/admin/organizations/{id}
func (h *OrganizationHandler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "organization ID is required")
		return
	}

	var organization entities.Organization
	if err := decodeJSONBody(r, &organization); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	organization.ID = id

	if err := h.orgService.Update(r.Context(), &organization); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	h.recordActivity(r, "update", "organization", id, organization.Name)
	respondWithJSON(w, http.StatusOK, organization)
}

// DeleteOrganization handles DELETE /api/admin/organizations/{id}
func (h *OrganizationHandler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "organization ID is required")
		return
	}

	if err := h.orgService.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	h.recordActivity(r, "delete", "organization", id, "")
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrganizationHandler) recordActivity(r *http.Request, action, entity, entityID, detail string) {
	if h.activityService == nil {
		return
	}
	userID := ""
	if caller := middleware.CallerFromContext(r.Context()); caller != nil {
		userID = caller.UserID
	}
	h.activityService.RecordActivity(r.Context(), userID, action, entity, entityID, detail)
}

func parseIntParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
