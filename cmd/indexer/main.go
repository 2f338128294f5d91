package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vetlink/vetlink-backend/internal/adapters/database"
	"github.com/vetlink/vetlink-backend/internal/adapters/search"
	"github.com/vetlink/vetlink-backend/internal/application/services"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/postgres"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/typesense"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/observability"
	"github.com/vetlink/vetlink-backend/pkg/config"
)

func main() {
	var reset bool
	var batchSize int
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.IntVar(&batchSize, "batch", 100, "number of organizations to load per page")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	_ = godotenv.Load()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset, batchSize); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool, batchSize int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-indexer", cfg.Server.Env)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	searchAdapter := search.NewTypesenseAdapter(tsClient)

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Println("Reset requested, deleting organizations collection")
		if err := searchAdapter.DropSchema(ctx); err != nil {
			log.Printf("Warning: failed to delete collection: %v", err)
		}
	}

	if err := searchAdapter.InitSchema(ctx); err != nil {
		return err
	}

	orgRepo := database.NewOrganizationAdapter(pgClient)
	orgService := services.NewOrganizationService(orgRepo, searchAdapter, nil)

	indexed, err := orgService.Reindex(ctx, batchSize)
	if err != nil {
		return err
	}

	log.Printf("Indexed %d organizations.", indexed)
	return nil
}
