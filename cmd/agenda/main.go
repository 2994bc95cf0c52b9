package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"agenda/internal/backend"
	"agenda/internal/config"
	"agenda/internal/core"
	"agenda/internal/export"
	"agenda/internal/repository"
	"agenda/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	exportPath := flag.String("export", "", "write a plain-text export of all events to this file")
	sheetsExport := flag.Bool("sheets", false, "append budget summaries to the configured Google Sheet")
	flag.Parse()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Select and open the data backend
	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Backend configuration failed", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateStore(ctx, backendConfig)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", backendConfig.Type)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	// Restore the repository from the persisted snapshot
	snap, err := result.Store.Load(ctx)
	if err != nil {
		logger.Error("Failed to load events", "error", err)
		os.Exit(1)
	}
	repo := repository.New()
	if err := repo.RestoreSnapshot(snap); err != nil {
		logger.Error("Failed to restore events", "error", err)
		os.Exit(1)
	}

	events := repo.List()
	printUpcoming(events, cfg)
	printBudgets(events)

	if *exportPath != "" {
		if err := writeTextExport(*exportPath, events); err != nil {
			logger.Error("Text export failed", "error", err, "path", *exportPath)
			os.Exit(1)
		}
		fmt.Printf("Exported %d events to %s\n", len(events), *exportPath)
	}

	if *sheetsExport {
		if !cfg.SheetsExportEnabled() {
			logger.Error("Sheets export requested but not configured - set GOOGLE_SPREADSHEET_ID and credentials")
			os.Exit(1)
		}
		exporter, err := export.NewSheetsExporter(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize sheets exporter", "error", err)
			os.Exit(1)
		}
		if err := exporter.ExportBudgets(ctx, events); err != nil {
			logger.Error("Sheets export failed", "error", err)
			os.Exit(1)
		}
	}
}

func printUpcoming(events []*core.Event, cfg *config.Config) {
	reminders := services.NewReminderService(nil)

	upcoming := reminders.UpcomingEvents(events, cfg.EventWindowDays)
	fmt.Printf("Upcoming events (next %d days):\n", cfg.EventWindowDays)
	if len(upcoming) == 0 {
		fmt.Println("  none")
	}
	for _, r := range upcoming {
		marker := ""
		if r.Recurring {
			marker = " (recurring)"
		}
		fmt.Printf("  %s - %s%s\n", r.Date, r.Name, marker)
	}

	deadlines := reminders.UpcomingTaskDeadlines(events, cfg.DeadlineWindowDays)
	fmt.Printf("Task deadlines (next %d days):\n", cfg.DeadlineWindowDays)
	if len(deadlines) == 0 {
		fmt.Println("  none")
	}
	for _, r := range deadlines {
		fmt.Printf("  %s - %s: %s\n", r.Deadline, r.Event, r.Description)
	}
}

func printBudgets(events []*core.Event) {
	printed := false
	for _, e := range events {
		s := services.SummarizeBudget(e)
		if s.EventBudget.IsZero() && s.TotalTaskBudget.IsZero() {
			continue
		}
		if !printed {
			fmt.Println("Budgets:")
			printed = true
		}
		line := fmt.Sprintf("  %s: budget %s, allocated %s, remaining %s",
			s.Event, s.EventBudget, s.TotalTaskBudget, s.Remaining)
		if s.HasUsage {
			line += fmt.Sprintf(" (%d%%)", s.UsagePercent)
		}
		fmt.Println(line)
	}
}

func writeTextExport(path string, events []*core.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteText(f, events); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
