package main

import (
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"install-scheduling-service/internal/adapters/repositories"
	"install-scheduling-service/internal/config"
	"install-scheduling-service/internal/platform/db"
	"install-scheduling-service/internal/platform/obs"
)

// dbtool initializes the database schema and loads seed data. It is meant
// for local development and fresh environments; both steps are idempotent.
func main() {
	log := obs.Logger("dbtool")

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("load config")
	}

	database, err := db.Open(cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer database.Close()

	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(database); err != nil {
		log.Fatal().Err(err).Msg("schema initialization failed")
	}

	seedPath := os.Getenv("SEED_PATH")
	if seedPath == "" {
		seedPath = "data/seeds/scheduling.json"
	}
	log.Info().Str("path", seedPath).Msg("seeding database")
	if err := repositories.SeedFromJSON(database, seedPath); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Msg("seeding complete")
}
