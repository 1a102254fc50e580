package main

import (
	"flag"
	"fmt"
	"os"

	"upitrack/internal/config"
	"upitrack/internal/logger"
	"upitrack/internal/store"
)

func main() {
	seedAdmin := flag.Bool("seed-admin", false, "Create the admin user if missing")
	adminPassword := flag.String("admin-password", "", "Password for the seeded admin user")
	flag.Parse()

	log := logger.New(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Open runs AutoMigrate for every model.
	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	log.Info().Msg("Schema is up to date")

	if *seedAdmin {
		if *adminPassword == "" {
			log.Fatal().Msg("-seed-admin requires -admin-password")
		}
		if err := store.SeedAdmin(db, *adminPassword); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed admin user")
		}
		log.Info().Msg("Admin user ready")
	}
}
