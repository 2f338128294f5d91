package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vetlink/vetlink-backend/internal/adapters/database"
	"github.com/vetlink/vetlink-backend/internal/application/services"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/marketing"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/postgres"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/observability"
	"github.com/vetlink/vetlink-backend/pkg/config"
)

// One-shot mirror of the advertising account into Postgres. Run from cron or
// triggered manually; the API exposes the same sync as an admin endpoint.
func main() {
	var pageSize int
	flag.IntVar(&pageSize, "page-size", 0, "override the marketing API page size")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-adsync", cfg.Server.Env)

	if cfg.Marketing.AccessToken == "" || cfg.Marketing.AccountID == "" {
		log.Fatal("MARKETING_ACCESS_TOKEN and MARKETING_ACCOUNT_ID must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	if pageSize <= 0 {
		pageSize = cfg.Marketing.PageSize
	}

	client := marketing.NewHTTPClient(&cfg.Marketing)
	campaignRepo := database.NewCampaignAdapter(pgClient)
	syncService := services.NewCampaignSyncService(client, campaignRepo, nil, pageSize)

	summary, err := syncService.Sync(ctx)
	if err != nil {
		log.Fatalf("Campaign sync failed: %v", err)
	}

	log.Printf("Campaign sync finished in %s: %d/%d campaigns, %d/%d ad sets, %d/%d ads (created/updated)",
		summary.FinishedAt.Sub(summary.StartedAt),
		summary.CampaignsCreated, summary.CampaignsUpdated,
		summary.AdSetsCreated, summary.AdSetsUpdated,
		summary.AdsCreated, summary.AdsUpdated,
	)
}
