package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/zatekoja/hospitaladmin/internal/adapters/directory"
	"github.com/zatekoja/hospitaladmin/internal/adapters/storage"
	"github.com/zatekoja/hospitaladmin/internal/application/services"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/hospitaladmin/pkg/config"
)

// Seeds a Postgres-backed deployment with a few demo bookings so the
// bookings list is not empty on first start.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	if err := pgClient.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE client_storage, feedback`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	bookings := services.NewBookingService(storage.NewPostgresAdapter(pgClient, nil), nil, nil)
	if err := bookings.Load(ctx); err != nil {
		log.Fatalf("Failed to load bookings: %v", err)
	}

	doctors := directory.SeedDoctors()
	today := time.Now()
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)

	demo := []struct {
		doctor int
		days   int
		time   string
	}{
		{doctor: 0, days: 1, time: "09:00 AM"},
		{doctor: 2, days: 1, time: "02:00 PM"},
		{doctor: 1, days: 3, time: "11:30 AM"},
	}

	created := 0
	for _, d := range demo {
		booking, isNew, err := bookings.Book(ctx, doctors[d.doctor], midnight.AddDate(0, 0, d.days), d.time)
		if err != nil {
			log.Printf("Failed to book %s: %v", doctors[d.doctor].Name, err)
			continue
		}
		if isNew {
			created++
			log.Printf("Booked %s", booking.ID)
		}
	}

	log.Printf("Seeding complete: %d new bookings, %d total", created, len(bookings.Sorted()))
}
