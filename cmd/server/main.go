package main

import (
	"context"
	"os"

	"github.com/david/lead-intake/internal/ai"
	"github.com/david/lead-intake/internal/api"
	"github.com/david/lead-intake/internal/config"
	"github.com/david/lead-intake/internal/db"
	"github.com/david/lead-intake/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	ctx := context.Background()

	var store db.LeadStore
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()

		if err := db.ApplyMigrations(ctx, pool, log); err != nil {
			log.Fatalw("migration failed", "error", err)
		}
		store = db.NewStore(pool)
		log.Infow("using postgres lead store")
	} else {
		store = db.NewFileStore(cfg.LeadsFile)
		log.Infow("no DATABASE_URL set, using file lead store", "path", cfg.LeadsFile)
	}

	aiClient := ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model)
	if !aiClient.Configured() {
		log.Infow("ai scoring not configured, deterministic scoring only")
	}

	srv := api.NewServer(cfg, store, aiClient, log)
	log.Infow("server starting", "port", cfg.Port)
	if err := srv.Start(cfg.Port); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}
