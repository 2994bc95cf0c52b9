package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"agenda/internal/cache"
	"agenda/internal/config"
	"agenda/internal/core"
	"agenda/internal/services"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const rowCacheTTL = 5 * time.Minute

// SheetsExporter appends budget summaries to a Google spreadsheet, one row
// per event. The next-free-row lookup is cached so consecutive exports in
// a session don't re-read the sheet dimensions every time.
type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	rowCache      *cache.LRUCache[int]
}

// NewSheetsExporter creates an exporter from the application config using
// service account credentials.
func NewSheetsExporter(ctx context.Context, cfg *config.Config) (*SheetsExporter, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, errors.New("missing Google spreadsheet ID")
	}
	sheetName := cfg.GoogleSheetName
	if sheetName == "" {
		sheetName = "Budgets"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetName:     sheetName,
		rowCache:      cache.NewLRUCache[int](4, rowCacheTTL),
	}, nil
}

// newSheetsService initializes a Sheets service using service account
// credentials, inline JSON first, then a file path.
func newSheetsService(ctx context.Context, cfg *config.Config) (*gsheet.Service, error) {
	var credentialsJSON []byte

	switch {
	case strings.TrimSpace(cfg.GoogleCredentialsJSON) != "":
		credentialsJSON = []byte(cfg.GoogleCredentialsJSON)
	case strings.TrimSpace(cfg.GoogleCredentialsFile) != "":
		data, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// ExportBudgets appends one row per event: name, date, event budget, total
// task budget, remaining, and usage percent.
func (x *SheetsExporter) ExportBudgets(ctx context.Context, events []*core.Event) error {
	if x.svc == nil {
		return errors.New("sheets service not initialized")
	}

	nextRow, err := x.nextFreeRow(ctx)
	if err != nil {
		return err
	}

	values := make([][]any, 0, len(events))
	for _, e := range events {
		s := services.SummarizeBudget(e)
		usage := ""
		if s.HasUsage {
			usage = fmt.Sprintf("%d%%", s.UsagePercent)
		}
		values = append(values, []any{
			s.Event,
			e.Date.String(),
			decimal(s.EventBudget),
			decimal(s.TotalTaskBudget),
			decimal(s.Remaining),
			usage,
		})
	}
	if len(values) == 0 {
		return nil
	}

	rng := fmt.Sprintf("%s!A%d:F%d", x.sheetName, nextRow, nextRow+len(values)-1)
	vr := &gsheet.ValueRange{Values: values}
	_, err = x.svc.Spreadsheets.Values.Update(x.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		x.rowCache.Delete(x.sheetName)
		return fmt.Errorf("failed to update %s: %w", rng, err)
	}

	x.rowCache.Set(x.sheetName, nextRow+len(values))

	slog.InfoContext(ctx, "Budgets exported to Google Sheets",
		"sheet", x.sheetName,
		"rows", len(values),
		"range", rng)
	return nil
}

// RowCache exposes the row cache for cleanup registration.
func (x *SheetsExporter) RowCache() cache.Cleaner {
	return x.rowCache
}

// nextFreeRow finds the first empty row, reusing the cached value when
// present.
func (x *SheetsExporter) nextFreeRow(ctx context.Context) (int, error) {
	if row, ok := x.rowCache.Get(x.sheetName); ok {
		return row, nil
	}

	rng := fmt.Sprintf("%s!A:A", x.sheetName)
	resp, err := x.svc.Spreadsheets.Values.Get(x.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get sheet dimensions for %s: %w", x.sheetName, err)
	}

	nextRow := len(resp.Values) + 1
	x.rowCache.Set(x.sheetName, nextRow)
	return nextRow, nil
}

func decimal(m core.Money) float64 {
	return float64(m.Cents) / 100.0
}
