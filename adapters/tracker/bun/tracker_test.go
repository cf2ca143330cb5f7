package trackerbun

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
)

var _ export.ProgressTracker = (*Tracker)(nil)

func TestTracker_StartStatusList(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(newTestDB(t))

	recordID, err := tracker.Start(ctx, export.ExportRecord{
		Format:   export.FormatPDF,
		Strategy: export.StrategyRaster,
		Template: cv.TemplateCreative,
		Filename: "CV_Marie_Dubois_2024-01-01.pdf",
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if recordID == "" {
		t.Fatalf("expected record id")
	}

	got, err := tracker.Status(ctx, recordID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if got.State != export.StateRunning || got.Template != cv.TemplateCreative {
		t.Fatalf("unexpected record %+v", got)
	}

	list, err := tracker.List(ctx, export.ProgressFilter{State: export.StateRunning})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list))
	}
}

func TestTracker_CompleteAndFail(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(newTestDB(t))

	okID, err := tracker.Start(ctx, export.ExportRecord{ID: "exp-ok", Format: export.FormatPDF, Strategy: export.StrategyRaster})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tracker.Complete(ctx, okID, export.Outcome{Strategy: export.StrategyVector, FellBack: true, Pages: 2, Bytes: 2048}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got, err := tracker.Status(ctx, okID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if got.State != export.StateCompleted || !got.FellBack || got.Strategy != export.StrategyVector || got.Pages != 2 || got.Bytes != 2048 {
		t.Fatalf("unexpected completed record %+v", got)
	}
	if got.CompletedAt.IsZero() {
		t.Fatalf("expected completed_at")
	}

	failID, err := tracker.Start(ctx, export.ExportRecord{ID: "exp-fail", Format: export.FormatPDF})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tracker.Fail(ctx, failID, errors.New("both strategies failed")); err != nil {
		t.Fatalf("fail: %v", err)
	}
	failed, err := tracker.List(ctx, export.ProgressFilter{State: export.StateFailed})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(failed) != 1 || failed[0].Error != "both strategies failed" {
		t.Fatalf("unexpected failed records %+v", failed)
	}

	if err := tracker.Complete(ctx, "missing", export.Outcome{}); !cv.IsKind(err, cv.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTracker_ListLimitAndPrune(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(newTestDB(t))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := tracker.Start(ctx, export.ExportRecord{Format: export.FormatJSON, CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("start: %v", err)
		}
	}

	list, err := tracker.List(ctx, export.ProgressFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || !list[0].CreatedAt.After(list[1].CreatedAt) {
		t.Fatalf("expected two newest records, got %+v", list)
	}

	removed, err := tracker.Prune(ctx, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 pruned, got %d", removed)
	}
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := NewTracker(db).Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
