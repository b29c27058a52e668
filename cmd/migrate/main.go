package main

import (
	"context"
	"os"
	"time"

	"registrymail/adapters/postgres"
	"registrymail/internal"
	"registrymail/internal/errors"
	"registrymail/internal/migration"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("no .env file found, using system environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}

	if err := run(databaseURL); err != nil {
		internal.DefaultLogger.Error("migration failed: %v", err)
		os.Exit(1)
	}
}

func run(databaseURL string) error {
	if databaseURL == "" {
		return errors.InvalidInput("usage: migrate <database_url> (or set DATABASE_URL)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		return err
	}

	internal.DefaultLogger.Info("schema migrated to version %s", runner.Version())
	return nil
}
