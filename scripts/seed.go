package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/vetlink/vetlink-backend/internal/adapters/database"
	"github.com/vetlink/vetlink-backend/internal/adapters/search"
	"github.com/vetlink/vetlink-backend/internal/auth"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/postgres"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/typesense"
	"github.com/vetlink/vetlink-backend/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var searchRepo *search.TypesenseAdapter
	if err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		searchRepo.InitSchema(context.Background())
	}

	orgRepo := database.NewOrganizationAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)
	cityRepo := database.NewCityAdapter(pgClient)
	careTypeRepo := database.NewCareTypeAdapter(pgClient)
	breedRepo := database.NewBreedAdapter(pgClient)
	specialisationRepo := database.NewSpecialisationAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				consultation_type_details,
				unavailability,
				exceptional_availability,
				weekly_hours,
				tasks,
				pets,
				sessions,
				activity_log,
				error_log,
				organizations,
				cities,
				care_types,
				breeds,
				specialisations,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now()

	// 1. Seed reference data
	cities := []entities.City{
		{ID: uuid.New().String(), Name: "Utrecht", ZipCode: "3511", Slug: "utrecht", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "Amsterdam", ZipCode: "1012", Slug: "amsterdam", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "Rotterdam", ZipCode: "3011", Slug: "rotterdam", CreatedAt: now, UpdatedAt: now},
	}
	for _, c := range cities {
		if err := cityRepo.Create(ctx, &c); err != nil {
			log.Printf("Failed to create city %s: %v", c.Name, err)
		}
	}

	careTypes := []entities.CareType{
		{ID: uuid.New().String(), Name: "Veterinarian", Slug: "veterinarian", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "Grooming", Slug: "grooming", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "Physiotherapy", Slug: "physiotherapy", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "Behavioural Therapy", Slug: "behavioural-therapy", CreatedAt: now, UpdatedAt: now},
	}
	for _, ct := range careTypes {
		if err := careTypeRepo.Create(ctx, &ct); err != nil {
			log.Printf("Failed to create care type %s: %v", ct.Name, err)
		}
	}

	breeds := []entities.Breed{
		{ID: uuid.New().String(), Name: "Labrador Retriever", Species: "dog", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "Border Collie", Species: "dog", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "European Shorthair", Species: "cat", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "Maine Coon", Species: "cat", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "Holland Lop", Species: "rabbit", CreatedAt: now, UpdatedAt: now},
	}
	for _, b := range breeds {
		if err := breedRepo.Create(ctx, &b); err != nil {
			log.Printf("Failed to create breed %s: %v", b.Name, err)
		}
	}

	specialisations := []entities.Specialisation{
		{ID: uuid.New().String(), Name: "Dentistry", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "Orthopedics", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "Dermatology", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "Exotic Animals", CreatedAt: now, UpdatedAt: now},
	}
	for _, s := range specialisations {
		if err := specialisationRepo.Create(ctx, &s); err != nil {
			log.Printf("Failed to create specialisation %s: %v", s.Name, err)
		}
	}

	// 2. Seed admin account
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme-now"
	}
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	admin := &entities.User{
		ID:           uuid.New().String(),
		Email:        "admin@vetlink.local",
		PasswordHash: hash,
		FirstName:    "Admin",
		Role:         entities.UserRoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Printf("Failed to create admin user: %v", err)
	}

	// 3. Seed organizations with schedules
	organizations := []entities.Organization{
		{
			ID:          uuid.New().String(),
			Name:        "Happy Paws Clinic",
			Slug:        "happy-paws-clinic",
			Description: "Full-service veterinary clinic in the city centre.",
			Address:     entities.Address{Street: "Oudegracht 12", City: "Utrecht", ZipCode: "3511 AP", Country: "Netherlands"},
			PhoneNumber: "+31 30 123 4567",
			Email:       "hello@happypaws.example.com",
			CareTypes:   []string{"Veterinarian"},
			Rating:      4.8,
			ReviewCount: 132,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Canal District Grooming",
			Slug:        "canal-district-grooming",
			Description: "Grooming salon for dogs and cats.",
			Address:     entities.Address{Street: "Prinsengracht 88", City: "Amsterdam", ZipCode: "1015 DX", Country: "Netherlands"},
			PhoneNumber: "+31 20 765 4321",
			Email:       "book@canalgrooming.example.com",
			CareTypes:   []string{"Grooming"},
			Rating:      4.5,
			ReviewCount: 64,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Harbour Animal Physio",
			Slug:        "harbour-animal-physio",
			Description: "Rehabilitation and physiotherapy practice.",
			Address:     entities.Address{Street: "Wilhelminakade 3", City: "Rotterdam", ZipCode: "3072 AP", Country: "Netherlands"},
			PhoneNumber: "+31 10 222 3344",
			Email:       "intake@harbourphysio.example.com",
			CareTypes:   []string{"Physiotherapy"},
			Rating:      4.9,
			ReviewCount: 41,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	for i := range organizations {
		org := &organizations[i]
		if err := orgRepo.Create(ctx, org); err != nil {
			log.Printf("Failed to create organization %s: %v", org.Name, err)
			continue
		}

		seedSchedule(ctx, pgClient, org.ID)

		if searchRepo != nil {
			if err := searchRepo.Index(ctx, org); err != nil {
				log.Printf("Failed to index %s: %v", org.Name, err)
			}
		}

		log.Printf("Seeded %s", org.Name)
	}

	log.Println("Seeding complete.")
}

// seedSchedule gives an organization weekday opening hours, one exceptional
// Saturday, one holiday blackout and two consultation types.
func seedSchedule(ctx context.Context, pgClient *postgres.Client, orgID string) {
	// Monday through Friday, 09:00-18:00
	for day := 1; day <= 5; day++ {
		_, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO weekly_hours (id, organization_id, day_of_week, is_open, open_minutes, close_minutes)
			VALUES ($1, $2, $3, true, $4, $5)
		`, uuid.New().String(), orgID, day, 9*60, 18*60)
		if err != nil {
			log.Printf("Failed to create weekly hours for %s: %v", orgID, err)
		}
	}

	// One extra open Saturday two weeks out, 10:00-14:00
	saturday := nextWeekday(time.Now(), time.Saturday).AddDate(0, 0, 14)
	_, err := pgClient.DB().ExecContext(ctx, `
		INSERT INTO exceptional_availability (id, organization_id, date, start_minutes, end_minutes, is_available)
		VALUES ($1, $2, $3, $4, $5, true)
	`, uuid.New().String(), orgID, saturday.Format("2006-01-02"), 10*60, 14*60)
	if err != nil {
		log.Printf("Failed to create exceptional availability for %s: %v", orgID, err)
	}

	// A full-day holiday next month
	holiday := time.Now().AddDate(0, 1, 0)
	_, err = pgClient.DB().ExecContext(ctx, `
		INSERT INTO unavailability (id, organization_id, kind, start_date, end_date, start_minutes, end_minutes)
		VALUES ($1, $2, 'holiday', $3, $3, NULL, NULL)
	`, uuid.New().String(), orgID, holiday.Format("2006-01-02"))
	if err != nil {
		log.Printf("Failed to create unavailability for %s: %v", orgID, err)
	}

	consultationTypes := []struct {
		name     string
		prices   string
		duration int
		color    string
	}{
		{"First Consultation", "{45.00}", 30, "#4CAF50"},
		{"Follow-up", "{32.50}", 20, "#2196F3"},
	}
	for _, ct := range consultationTypes {
		_, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO consultation_type_details (id, organization_id, name, prices, duration_minutes, color)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New().String(), orgID, ct.name, ct.prices, ct.duration, ct.color)
		if err != nil {
			log.Printf("Failed to create consultation type for %s: %v", orgID, err)
		}
	}
}

func nextWeekday(from time.Time, day time.Weekday) time.Time {
	diff := (int(day) - int(from.Weekday()) + 7) % 7
	if diff == 0 {
		diff = 7
	}
	return from.AddDate(0, 0, diff)
}
