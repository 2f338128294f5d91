package handlers

import (
	"net/http"

	"github.com/vetlink/vetlink-backend/internal/application/services"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
)

// AdminHandler handles admin-only HTTP requests: audit trails, session
// oversight and the mirrored advertising campaigns. The router wraps every
// route here in the admin role check.
type AdminHandler struct {
	activityService *services.ActivityService
	authService     *services.AuthService
	campaignRepo    repositories.CampaignRepository
	syncService     *services.CampaignSyncService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	activityService *services.ActivityService,
	authService *services.AuthService,
	campaignRepo repositories.CampaignRepository,
	syncService *services.CampaignSyncService,
) *AdminHandler {
	return &AdminHandler{
		activityService: activityService,
		authService:     authService,
		campaignRepo:    campaignRepo,
		syncService:     syncService,
	}
}

// ListActivity handles GET /api/admin/activity
func (h *AdminHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ActivityLogFilter{
		UserID: r.URL.Query().Get("user_id"),
		Action: r.URL.Query().Get("action"),
		Entity: r.URL.Query().Get("entity"),
		Limit:  parseIntParam(r.URL.Query().Get("limit"), 50),
		Offset: parseIntParam(r.URL.Query().Get("offset"), 0),
	}

	entries, err := h.activityService.ListActivity(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"activity": entries})
}

// ListErrors handles GET /api/admin/errors
func (h *AdminHandler) ListErrors(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ErrorLogFilter{
		Level:  r.URL.Query().Get("level"),
		Limit:  parseIntParam(r.URL.Query().Get("limit"), 50),
		Offset: parseIntParam(r.URL.Query().Get("offset"), 0),
	}

	entries, err := h.activityService.ListErrors(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"errors": entries})
}

// ListSessions handles GET /api/admin/sessions
func (h *AdminHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.authService.ListAllSessions(r.Context(),
		parseIntParam(r.URL.Query().Get("limit"), 50), parseIntParam(r.URL.Query().Get("offset"), 0))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// ListCampaigns handles GET /api/admin/campaigns
func (h *AdminHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaignRepo.ListCampaigns(r.Context(),
		parseIntParam(r.URL.Query().Get("limit"), 50), parseIntParam(r.URL.Query().Get("offset"), 0))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"campaigns": campaigns})
}

// SyncCampaigns handles POST /api/admin/campaigns/sync
func (h *AdminHandler) SyncCampaigns(w http.ResponseWriter, r *http.Request) {
	summary, err := h.syncService.Sync(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}
