package handlers

import (
	"net/http"

	"github.com/vetlink/vetlink-backend/internal/application/services"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
)

// ReferenceHandler serves the lookup tables behind the search and
// registration forms
type ReferenceHandler struct {
	referenceService *services.ReferenceService
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(referenceService *services.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// ListCities handles GET /api/cities
func (h *ReferenceHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.referenceService.ListCities(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"cities": cities})
}

// CreateCity handles POST /api/admin/cities
func (h *ReferenceHandler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var city entities.City
	if err := decodeJSONBody(r, &city); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if err := h.referenceService.CreateCity(r.Context(), &city); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, city)
}

// UpdateCity handles PUT /api/admin/cities/{id}
func (h *ReferenceHandler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	var city entities.City
	if err := decodeJSONBody(r, &city); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	city.ID = r.PathValue("id")
	if err := h.referenceService.UpdateCity(r.Context(), &city); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, city)
}

// DeleteCity handles DELETE /api/admin/cities/{id}
func (h *ReferenceHandler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	if err := h.referenceService.DeleteCity(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCareTypes handles GET /api/care-types
func (h *ReferenceHandler) ListCareTypes(w http.ResponseWriter, r *http.Request) {
	careTypes, err := h.referenceService.ListCareTypes(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"care_types": careTypes})
}

// CreateCareType handles POST /api/admin/care-types
func (h *ReferenceHandler) CreateCareType(w http.ResponseWriter, r *http.Request) {
	var careType entities.CareType
	if err := decodeJSONBody(r, &careType); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if err := h.referenceService.CreateCareType(r.Context(), &careType); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, careType)
}

// UpdateCareType handles PUT /api/admin/care-types/{id}
func (h *ReferenceHandler) UpdateCareType(w http.ResponseWriter, r *http.Request) {
	var careType entities.CareType
	if err := decodeJSONBody(r, &careType); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	careType.ID = r.PathValue("id")
	if err := h.referenceService.UpdateCareType(r.Context(), &careType); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, careType)
}

// DeleteCareType handles DELETE /api/admin/care-types/{id}
func (h *ReferenceHandler) DeleteCareType(w http.ResponseWriter, r *http.Request) {
	if err := h.referenceService.DeleteCareType(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBreeds handles GET /api/breeds
func (h *ReferenceHandler) ListBreeds(w http.ResponseWriter, r *http.Request) {
	breeds, err := h.referenceService.ListBreeds(r.Context(), r.URL.Query().Get("species"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"breeds": breeds})
}

// CreateBreed handles POST /api/admin/breeds
func (h *ReferenceHandler) CreateBreed(w http.ResponseWriter, r *http.Request) {
	var breed entities.Breed
	if err := decodeJSONBody(r, &breed); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if err := h.referenceService.CreateBreed(r.Context(), &breed); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, breed)
}

// UpdateBreed handles PUT /api/admin/breeds/{id}
func (h *ReferenceHandler) UpdateBreed(w http.ResponseWriter, r *http.Request) {
	var breed entities.Breed
	if err := decodeJSONBody(r, &breed); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	breed.ID = r.PathValue("id")
	if err := h.referenceService.UpdateBreed(r.Context(), &breed); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, breed)
}

// DeleteBreed handles DELETE /api/admin/breeds/{id}
func (h *ReferenceHandler) DeleteBreed(w http.ResponseWriter, r *http.Request) {
	if err := h.referenceService.DeleteBreed(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSpecialisations handles GET /api/specialisations
func (h *ReferenceHandler) ListSpecialisations(w http.ResponseWriter, r *http.Request) {
	specialisations, err := h.referenceService.ListSpecialisations(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"specialisations": specialisations})
}

// CreateSpecialisation handles POST /api/admin/specialisations
func (h *ReferenceHandler) CreateSpecialisation(w http.ResponseWriter, r *http.Request) {
	var specialisation entities.Specialisation
	if err := decodeJSONBody(r, &specialisation); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if err := h.referenceService.CreateSpecialisation(r.Context(), &specialisation); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, specialisation)
}

// UpdateSpecialisation handles PUT /api/admin/specialisations/{id}
func (h *ReferenceHandler) UpdateSpecialisation(w http.ResponseWriter, r *http.Request) {
	var specialisation entities.Specialisation
	if err := decodeJSONBody(r, &specialisation); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	specialisation.ID = r.PathValue("id")
	if err := h.referenceService.UpdateSpecialisation(r.Context(), &specialisation); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, specialisation)
}

// DeleteSpecialisation handles DELETE /api/admin/specialisations/{id}
func (h *ReferenceHandler) DeleteSpecialisation(w http.ResponseWriter, r *http.Request) {
	if err := h.referenceService.DeleteSpecialisation(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
