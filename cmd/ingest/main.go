package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"dashbuilder/internal/config"
	"dashbuilder/internal/domain"
	"dashbuilder/internal/repository"
)

// Seeds a demo dashboard and five minutes of random samples, then prints the
// computed statistics and the exported document.
func main() {

	cfg := config.Load()

	store := repository.NewSQLiteStore(cfg.DBPath)
	if err := store.Init(); err != nil {
		log.Fatalf("Failed to initialize SQLite store for ingestion: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	dashboard := seedDashboard(ctx, store)
	seedMetrics(ctx, store)

	stats, err := store.ComputeStats(ctx, "cpu_load", map[string]string{"host": "demo"}, nil)
	if err != nil {
		log.Fatalf("Error computing stats: %v", err)
	}
	log.Printf("cpu_load{host=demo}: min=%.2f max=%.2f avg=%.2f p95=%.2f count=%d",
		stats.Min, stats.Max, stats.Avg, stats.P95, stats.Count)

	doc, err := store.ExportDocument(ctx, dashboard.ID)
	if err != nil {
		log.Fatalf("Error exporting dashboard: %v", err)
	}
	log.Printf("Exported dashboard %s:\n%s", dashboard.ID, doc)
}

func seedDashboard(ctx context.Context, store *repository.SQLiteStore) domain.Dashboard {
	dashboard, err := store.CreateDashboard(ctx, domain.DashboardSpec{
		Title:       "Service Overview",
		Description: "CPU load for the demo host",
		Tags:        []string{"demo", "system"},
	})
	if err != nil {
		log.Fatalf("Error creating dashboard: %v", err)
	}

	_, err = store.AddPanel(ctx, dashboard.ID, domain.PanelSpec{
		Title: "CPU Load",
		Type:  string(domain.PanelTimeSeries),
		Query: `cpu_load{host="demo"}`,
	})
	if err != nil {
		log.Fatalf("Error adding panel: %v", err)
	}

	_, err = store.AddPanel(ctx, dashboard.ID, domain.PanelSpec{
		Title:    "Current Load",
		Type:     string(domain.PanelGauge),
		Query:    `cpu_load{host="demo"}`,
		Position: &domain.Position{X: 12, Y: 0, W: 6, H: 8},
	})
	if err != nil {
		log.Fatalf("Error adding panel: %v", err)
	}

	_, err = store.AddVariable(ctx, dashboard.ID, domain.VariableSpec{
		Name:  "host",
		Query: "label_values(cpu_load, host)",
	})
	if err != nil {
		log.Fatalf("Error adding variable: %v", err)
	}

	return dashboard
}

func seedMetrics(ctx context.Context, store *repository.SQLiteStore) {
	labels := map[string]string{"host": "demo"}

	endTime := time.Now()
	startTime := endTime.Add(-5 * time.Minute)

	log.Printf("Ingesting data from %s to %s (past 5 minutes)...",
		startTime.Format(time.RFC3339), endTime.Format(time.RFC3339))

	count := int(endTime.Sub(startTime) / (10 * time.Second))
	for i := 0; i <= count; i++ {
		_, err := store.Push(ctx, "cpu_load", rand.Float64()*100.0, labels)
		if err != nil {
			log.Printf("Error inserting sample %d: %v", i, err)
			continue
		}
	}

	log.Println("Data ingestion complete.")
}
