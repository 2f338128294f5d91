package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vetlink/vetlink-backend/internal/adapters/cache"
	"github.com/vetlink/vetlink-backend/internal/adapters/database"
	"github.com/vetlink/vetlink-backend/internal/adapters/events"
	"github.com/vetlink/vetlink-backend/internal/adapters/search"
	"github.com/vetlink/vetlink-backend/internal/api/handlers"
	"github.com/vetlink/vetlink-backend/internal/api/middleware"
	"github.com/vetlink/vetlink-backend/internal/api/routes"
	"github.com/vetlink/vetlink-backend/internal/application/services"
	"github.com/vetlink/vetlink-backend/internal/auth"
	"github.com/vetlink/vetlink-backend/internal/domain/providers"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/marketing"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/postgres"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/redis"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/typesense"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/observability"
	"github.com/vetlink/vetlink-backend/pkg/config"
)

func main() {

	// Load .env if present, real environments set variables directly
	_ = godotenv.Load()

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
	} else {
		log.Println("Typesense client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for cache invalidation
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize adapters

	baseOrganizationAdapter := database.NewOrganizationAdapter(pgClient)

	// Wrap with caching if Redis is available (for read performance optimization)
	var organizationAdapter repositories.OrganizationRepository
	if cacheProvider != nil {
		organizationAdapter = database.NewCachedOrganizationAdapter(baseOrganizationAdapter, cacheProvider)
		log.Println("Organization adapter wrapped with caching layer")
	} else {
		organizationAdapter = baseOrganizationAdapter
		log.Println("Organization adapter running without cache (Redis unavailable)")
	}

	userAdapter := database.NewUserAdapter(pgClient)
	sessionAdapter := database.NewSessionAdapter(pgClient)
	petAdapter := database.NewPetAdapter(pgClient)
	taskAdapter := database.NewTaskAdapter(pgClient)
	campaignAdapter := database.NewCampaignAdapter(pgClient)
	activityLogAdapter := database.NewActivityLogAdapter(pgClient)
	errorLogAdapter := database.NewErrorLogAdapter(pgClient)

	cityAdapter := database.NewCityAdapter(pgClient)
	careTypeAdapter := database.NewCareTypeAdapter(pgClient)
	breedAdapter := database.NewBreedAdapter(pgClient)
	specialisationAdapter := database.NewSpecialisationAdapter(pgClient)

	var searchRepo repositories.OrganizationSearchRepository

	if typesenseClient != nil {

		adapter := search.NewTypesenseAdapter(typesenseClient)

		// Ensure schema exists

		if err := adapter.InitSchema(context.Background()); err != nil {

			log.Printf("Warning: Failed to init Typesense schema: %v", err)

		}

		searchRepo = adapter

	}

	// Initialize services

	organizationService := services.NewOrganizationService(organizationAdapter, searchRepo, eventBus)
	availabilityService := services.NewAvailabilityService(organizationAdapter, cacheProvider)
	activityService := services.NewActivityService(activityLogAdapter, errorLogAdapter)
	petService := services.NewPetService(petAdapter)
	taskService := services.NewTaskService(taskAdapter)
	referenceService := services.NewReferenceService(cityAdapter, careTypeAdapter, breedAdapter, specialisationAdapter)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	authService := services.NewAuthService(userAdapter, sessionAdapter, tokenManager, cfg.Auth.RefreshTokenTTL)

	marketingClient := marketing.NewHTTPClient(&cfg.Marketing)
	campaignSyncService := services.NewCampaignSyncService(marketingClient, campaignAdapter, metrics, cfg.Marketing.PageSize)

	// Initialize cache invalidation service
	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(eventBus, cacheProvider)
		if err := cacheInvalidationService.Start(ctx); err != nil {
			log.Printf("Warning: Failed to start cache invalidation service: %v", err)
		} else {
			log.Println("Cache invalidation service started successfully")
		}
	}

	// Initialize handlers

	organizationHandler := handlers.NewOrganizationHandler(organizationService, availabilityService, activityService)

	referenceHandler := handlers.NewReferenceHandler(referenceService)

	authHandler := handlers.NewAuthHandler(authService)

	petHandler := handlers.NewPetHandler(petService)

	taskHandler := handlers.NewTaskHandler(taskService)

	adminHandler := handlers.NewAdminHandler(activityService, authService, campaignAdapter, campaignSyncService)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
		log.Println("Cache middleware initialized successfully")
	}

	authMiddleware := middleware.NewAuthMiddleware(tokenManager)
	errorLogMiddleware := middleware.NewErrorLogMiddleware(activityService)
	loginLimiter := middleware.NewRateLimiter(cfg.Auth.LoginRatePerMin, cfg.Auth.LoginBurst)
	defer loginLimiter.Stop()

	// Set up router

	router := routes.NewRouter(
		organizationHandler,
		referenceHandler,
		authHandler,
		petHandler,
		taskHandler,
		adminHandler,
		authMiddleware,
		cacheMiddleware,
		errorLogMiddleware,
		loginLimiter,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
