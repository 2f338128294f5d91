package routes

import (
	"net/http"

	"github.com/vetlink/vetlink-backend/internal/api/handlers"
	"github.com/vetlink/vetlink-backend/internal/api/middleware"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	organizationHandler *handlers.OrganizationHandler

	referenceHandler *handlers.ReferenceHandler

	authHandler *handlers.AuthHandler

	petHandler *handlers.PetHandler

	taskHandler *handlers.TaskHandler

	adminHandler *handlers.AdminHandler

	authMiddleware     *middleware.AuthMiddleware
	cacheMiddleware    *middleware.CacheMiddleware
	errorLogMiddleware *middleware.ErrorLogMiddleware
	loginLimiter       *middleware.RateLimiter
	metrics            *observability.Metrics
}

// NewRouter creates a new router

func NewRouter(

	organizationHandler *handlers.OrganizationHandler,

	referenceHandler *handlers.ReferenceHandler,

	authHandler *handlers.AuthHandler,

	petHandler *handlers.PetHandler,

	taskHandler *handlers.TaskHandler,

	adminHandler *handlers.AdminHandler,

	authMiddleware *middleware.AuthMiddleware,
	cacheMiddleware *middleware.CacheMiddleware,
	errorLogMiddleware *middleware.ErrorLogMiddleware,
	loginLimiter *middleware.RateLimiter,

	metrics *observability.Metrics,

) *Router {

	return &Router{

		mux: http.NewServeMux(),

		organizationHandler: organizationHandler,

		referenceHandler: referenceHandler,

		authHandler: authHandler,

		petHandler: petHandler,

		taskHandler: taskHandler,

		adminHandler: adminHandler,

		authMiddleware:     authMiddleware,
		cacheMiddleware:    cacheMiddleware,
		errorLogMiddleware: errorLogMiddleware,
		loginLimiter:       loginLimiter,
		metrics:            metrics,
	}

}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {

		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}

	})

	// Organization endpoints

	r.mux.HandleFunc("GET /api/organizations", r.organizationHandler.ListOrganizations)

	r.mux.HandleFunc("GET /api/organizations/search", r.organizationHandler.SearchOrganizations)

	r.mux.HandleFunc("GET /api/organizations/slug/{slug}", r.organizationHandler.GetOrganizationBySlug)

	r.mux.HandleFunc("GET /api/organizations/{id}", r.organizationHandler.GetOrganization)

	r.mux.HandleFunc("GET /api/organizations/{id}/availability", r.organizationHandler.GetAvailability)

	// Reference data endpoints

	r.mux.HandleFunc("GET /api/cities", r.referenceHandler.ListCities)

	r.mux.HandleFunc("GET /api/care-types", r.referenceHandler.ListCareTypes)

	r.mux.HandleFunc("GET /api/breeds", r.referenceHandler.ListBreeds)

	r.mux.HandleFunc("GET /api/specialisations", r.referenceHandler.ListSpecialisations)

	// Auth endpoints. Login and registration are rate limited per client IP.

	r.mux.HandleFunc("POST /api/auth/register", r.limited(r.authHandler.Register))

	r.mux.HandleFunc("POST /api/auth/login", r.limited(r.authHandler.Login))

	r.mux.HandleFunc("POST /api/auth/refresh", r.limited(r.authHandler.Refresh))

	r.mux.HandleFunc("POST /api/auth/logout", r.authHandler.Logout)

	r.mux.HandleFunc("GET /api/auth/me", r.authMiddleware.RequireUser(r.authHandler.Me))

	r.mux.HandleFunc("GET /api/auth/sessions", r.authMiddleware.RequireUser(r.authHandler.ListMySessions))

	r.mux.HandleFunc("POST /api/auth/sessions/revoke-all", r.authMiddleware.RequireUser(r.authHandler.RevokeMySessions))

	// Pet endpoints

	r.mux.HandleFunc("GET /api/pets", r.authMiddleware.RequireUser(r.petHandler.ListMyPets))

	r.mux.HandleFunc("POST /api/pets", r.authMiddleware.RequireUser(r.petHandler.CreatePet))

	r.mux.HandleFunc("GET /api/pets/{id}", r.authMiddleware.RequireUser(r.petHandler.GetPet))

	r.mux.HandleFunc("PUT /api/pets/{id}", r.authMiddleware.RequireUser(r.petHandler.UpdatePet))

	r.mux.HandleFunc("DELETE /api/pets/{id}", r.authMiddleware.RequireUser(r.petHandler.DeletePet))

	// Moderation task endpoints

	r.mux.HandleFunc("GET /api/tasks", r.authMiddleware.RequireUser(r.taskHandler.ListTasks))

	r.mux.HandleFunc("POST /api/tasks", r.authMiddleware.RequireUser(r.taskHandler.SubmitTask))

	r.mux.HandleFunc("GET /api/tasks/{id}", r.authMiddleware.RequireUser(r.taskHandler.GetTask))

	r.mux.HandleFunc("POST /api/tasks/{id}/moderate", r.authMiddleware.RequireAdmin(r.taskHandler.ModerateTask))

	// Admin endpoints

	r.mux.HandleFunc("POST /api/admin/organizations", r.authMiddleware.RequireAdmin(r.organizationHandler.CreateOrganization))

	r.mux.HandleFunc("PUT /api/admin/organizations/{id}", r.authMiddleware.RequireAdmin(r.organizationHandler.UpdateOrganization))

	r.mux.HandleFunc("DELETE /api/admin/organizations/{id}", r.authMiddleware.RequireAdmin(r.organizationHandler.DeleteOrganization))

	r.mux.HandleFunc("POST /api/admin/cities", r.authMiddleware.RequireAdmin(r.referenceHandler.CreateCity))
	r.mux.HandleFunc("PUT /api/admin/cities/{id}", r.authMiddleware.RequireAdmin(r.referenceHandler.UpdateCity))
	r.mux.HandleFunc("DELETE /api/admin/cities/{id}", r.authMiddleware.RequireAdmin(r.referenceHandler.DeleteCity))

	r.mux.HandleFunc("POST /api/admin/care-types", r.authMiddleware.RequireAdmin(r.referenceHandler.CreateCareType))
	r.mux.HandleFunc("PUT /api/admin/care-types/{id}", r.authMiddleware.RequireAdmin(r.referenceHandler.UpdateCareType))
	r.mux.HandleFunc("DELETE /api/admin/care-types/{id}", r.authMiddleware.RequireAdmin(r.referenceHandler.DeleteCareType))

	r.mux.HandleFunc("POST /api/admin/breeds", r.authMiddleware.RequireAdmin(r.referenceHandler.CreateBreed))
	r.mux.HandleFunc("PUT /api/admin/breeds/{id}", r.authMiddleware.RequireAdmin(r.referenceHandler.UpdateBreed))
	r.mux.HandleFunc("DELETE /api/admin/breeds/{id}", r.authMiddleware.RequireAdmin(r.referenceHandler.DeleteBreed))

	r.mux.HandleFunc("POST /api/admin/specialisations", r.authMiddleware.RequireAdmin(r.referenceHandler.CreateSpecialisation))
	r.mux.HandleFunc("PUT /api/admin/specialisations/{id}", r.authMiddleware.RequireAdmin(r.referenceHandler.UpdateSpecialisation))
	r.mux.HandleFunc("DELETE /api/admin/specialisations/{id}", r.authMiddleware.RequireAdmin(r.referenceHandler.DeleteSpecialisation))

	r.mux.HandleFunc("GET /api/admin/activity", r.authMiddleware.RequireAdmin(r.adminHandler.ListActivity))

	r.mux.HandleFunc("GET /api/admin/errors", r.authMiddleware.RequireAdmin(r.adminHandler.ListErrors))

	r.mux.HandleFunc("GET /api/admin/sessions", r.authMiddleware.RequireAdmin(r.adminHandler.ListSessions))

	r.mux.HandleFunc("GET /api/admin/campaigns", r.authMiddleware.RequireAdmin(r.adminHandler.ListCampaigns))

	r.mux.HandleFunc("POST /api/admin/campaigns/sync", r.authMiddleware.RequireAdmin(r.adminHandler.SyncCampaigns))

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Record 5xx responses in the admin error log
	if r.errorLogMiddleware != nil {
		handler = r.errorLogMiddleware.Middleware(handler)
	}

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	handler = r.authMiddleware.Authenticate(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}

// limited wraps a handler with the login rate limiter when one is configured
func (r *Router) limited(next http.HandlerFunc) http.HandlerFunc {
	if r.loginLimiter == nil {
		return next
	}
	return r.loginLimiter.Limit(next)
}
