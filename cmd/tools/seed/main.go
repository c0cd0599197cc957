package main

import (
	"context"
	"log"
	"os"

	"github.com/david/lead-intake/internal/config"
	"github.com/david/lead-intake/internal/db"
	"github.com/david/lead-intake/internal/ingest"
	"github.com/david/lead-intake/internal/logger"
	"github.com/joho/godotenv"
)

const sampleCSV = `Name,Company,Email,Industry,Title,Phone,Website,Location
Jane Doe,Acme Corp,jane@acme.com,Software,CEO,555-0100,https://acme.example,San Francisco
John Smith,Globex,john.smith@globex.example,Manufacturing,Director of Sales,555-0101,,Chicago
Ana Silva,Initech,ana@initech.example,Finance,Analyst,,,Lisbon
Sam Lee,,sam.lee@example.com,,,,,
Maria Garcia,Umbrella Health,maria@umbrella.example,Healthcare,VP Operations,555-0103,https://umbrella.example,Madrid
`

// seed runs one sample batch through the full parse→score→persist pipeline.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zlog.Sync()

	ctx := context.Background()

	var store db.LeadStore
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pool.Close()
		if err := db.ApplyMigrations(ctx, pool, zlog); err != nil {
			log.Fatal(err)
		}
		store = db.NewStore(pool)
	} else {
		store = db.NewFileStore(cfg.LeadsFile)
	}

	records, err := ingest.ParseCSV(sampleCSV, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatal(err)
	}

	processor := ingest.NewProcessor(nil, nil, store, zlog)
	result, err := processor.Process(ctx, records, false)
	if err != nil {
		log.Fatal(err)
	}

	zlog.Infow("seeded leads",
		"total", result.Total,
		"hot", result.Hot,
		"warm", result.Warm,
		"cold", result.Cold,
		"averageScore", result.AverageScore,
	)
}
