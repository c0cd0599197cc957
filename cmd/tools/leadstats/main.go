package main

import (
	"context"
	"log"
	"os"

	"github.com/david/lead-intake/internal/config"
	"github.com/david/lead-intake/internal/db"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
)

// leadstats dumps the stored lead collection and its aggregate statistics
// as a console table.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	var store db.LeadStore
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pool.Close()
		store = db.NewStore(pool)
	} else {
		store = db.NewFileStore(cfg.LeadsFile)
	}

	leads, err := store.ListLeads(ctx, db.ListParams{Status: os.Getenv("STATUS")})
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Name", "Company", "Email", "Industry", "Score", "Status"})

	for _, l := range leads {
		t.AppendRow(table.Row{l.Name, l.Company, l.Email, l.Industry, l.Score, l.Status})
	}
	t.Render()

	stats, err := store.GetStats(ctx)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("total=%d hot=%d warm=%d cold=%d avg=%d",
		stats.Total, stats.Hot, stats.Warm, stats.Cold, stats.AverageScore)
}
