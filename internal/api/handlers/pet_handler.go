package handlers

import (
	"net/http"

	"github.com/vetlink/vetlink-backend/internal/api/middleware"
	"github.com/vetlink/vetlink-backend/internal/application/services"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
)

// PetHandler handles pet-related HTTP requests. All routes require an
// authenticated caller.
type PetHandler struct {
	petService *services.PetService
}

// NewPetHandler creates a new pet handler
func NewPetHandler(petService *services.PetService) *PetHandler {
	return &PetHandler{petService: petService}
}

func callerFromRequest(r *http.Request) *services.Caller {
	info := middleware.CallerFromContext(r.Context())
	if info == nil {
		return nil
	}
	return &services.Caller{UserID: info.UserID, Role: info.Role}
}

// CreatePet handles POST /api/pets
func (h *PetHandler) CreatePet(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if caller == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var pet entities.Pet
	if err := decodeJSONBody(r, &pet); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.petService.Create(r.Context(), caller.UserID, &pet); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, pet)
}

// GetPet handles GET /api/pets/{id}
func (h *PetHandler) GetPet(w http.ResponseWriter, r *http.Request) {
	pet, err := h.petService.Get(r.Context(), r.PathValue("id"), callerFromRequest(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, pet)
}

// ListMyPets handles GET /api/pets
func (h *PetHandler) ListMyPets(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if caller == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	pets, err := h.petService.ListByOwner(r.Context(), caller.UserID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"pets": pets})
}

// UpdatePet handles PUT /api/pets/{id}
func (h *PetHandler) UpdatePet(w http.ResponseWriter, r *http.Request) {
	var pet entities.Pet
	if err := decodeJSONBody(r, &pet); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	pet.ID = r.PathValue("id")

	if err := h.petService.Update(r.Context(), &pet, callerFromRequest(r)); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, pet)
}

// DeletePet handles DELETE /api/pets/{id}
func (h *PetHandler) DeletePet(w http.ResponseWriter, r *http.Request) {
	if err := h.petService.Delete(r.Context(), r.PathValue("id"), callerFromRequest(r)); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
