package app

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-cvbuilder/command"
	"github.com/goliatone/go-cvbuilder/config"
	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/query"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Storage.DataDir = t.TempDir()
	cfg.Export.DefaultStrategy = export.StrategyVector
	return cfg
}

func TestApp_DispatchesCommandsAndQueries(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close(ctx)
	if err := a.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	a.Session.LoadSample(ctx)

	result, err := dispatcher.DispatchWithResult[command.ExportCV, export.Result](ctx, command.ExportCV{Format: export.FormatJSON})
	if err != nil {
		t.Fatalf("dispatch export: %v", err)
	}
	if !strings.HasPrefix(result.Filename, "CV_Marie_Dubois_") || !strings.HasSuffix(result.Filename, ".json") {
		t.Fatalf("unexpected filename %q", result.Filename)
	}
	if len(result.Data) == 0 {
		t.Fatalf("expected export data")
	}

	stats, err := dispatcher.Query[query.Stats, cv.Stats](ctx, query.Stats{})
	if err != nil {
		t.Fatalf("query stats: %v", err)
	}
	if stats.FilledSections == 0 {
		t.Fatalf("expected filled sections, got %+v", stats)
	}

	history, err := dispatcher.Query[query.ExportHistory, []export.ExportRecord](ctx, query.ExportHistory{
		Filter: export.ProgressFilter{State: export.StateCompleted},
	})
	if err != nil {
		t.Fatalf("query history: %v", err)
	}
	if len(history) != 1 || history[0].Format != export.FormatJSON {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestApp_RestoresRecordAfterRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	first, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := first.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	first.Session.LoadSample(ctx)
	first.Session.SelectTemplate(ctx, cv.TemplateExecutive)
	if err := first.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("reopen app: %v", err)
	}
	defer second.Close(ctx)
	if err := second.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	record := second.Session.Record()
	if record.Personal.FullName != "Marie Dubois" {
		t.Fatalf("expected restored record, got %+v", record.Personal)
	}
	if record.Template != cv.TemplateExecutive {
		t.Fatalf("expected executive template, got %q", record.Template)
	}
	if last, ok := second.Inbox.Last(ctx); !ok || last.Message != "CV précédent chargé" {
		t.Fatalf("unexpected notification %+v", last)
	}
}
