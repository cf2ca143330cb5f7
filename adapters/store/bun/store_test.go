package storebun

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/persistence"
)

var _ persistence.DocumentStore = (*Store)(nil)

func TestStore_SaveGetList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	record := cv.SampleRecord()
	record.Template = cv.TemplateExecutive
	saved, err := store.Save(ctx, "Candidature", record, 0)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == 0 {
		t.Fatalf("expected generated id")
	}

	got, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Candidature" || got.Template != cv.TemplateExecutive {
		t.Fatalf("unexpected snapshot %+v", got)
	}
	if got.Record.Personal.FullName != record.Personal.FullName {
		t.Fatalf("expected record to round trip, got %q", got.Record.Personal.FullName)
	}

	if _, err := store.Save(ctx, "Second", cv.NewRecord(), 0); err != nil {
		t.Fatalf("save second: %v", err)
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Second" {
		t.Fatalf("expected newest first, got %+v", list)
	}
}

func TestStore_UpdateAndLatest(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.Save(ctx, "One", cv.NewRecord(), 0)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Save(ctx, "Two", cv.NewRecord(), 0); err != nil {
		t.Fatalf("save: %v", err)
	}

	updated := cv.NewRecord()
	updated.Personal.FullName = "Jean Martin"
	if _, err := store.Save(ctx, "One bis", updated, first.ID); err != nil {
		t.Fatalf("update: %v", err)
	}

	latest, ok, err := store.Latest(ctx)
	if err != nil || !ok {
		t.Fatalf("latest: %v %v", ok, err)
	}
	if latest.ID != first.ID || latest.Record.Personal.FullName != "Jean Martin" {
		t.Fatalf("expected updated snapshot to be latest, got %+v", latest)
	}

	if _, err := store.Save(ctx, "ghost", cv.NewRecord(), 999); !cv.IsKind(err, cv.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStore_DeleteSettingsClear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, ok, err := store.Latest(ctx); err != nil || ok {
		t.Fatalf("expected empty store, got %v %v", ok, err)
	}

	saved, err := store.Save(ctx, "Draft", cv.NewRecord(), 0)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, saved.ID); !cv.IsKind(err, cv.KindNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	if err := store.SetSetting(ctx, "theme", "dark"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	if err := store.SetSetting(ctx, "theme", "light"); err != nil {
		t.Fatalf("overwrite setting: %v", err)
	}
	value, ok, err := store.GetSetting(ctx, "theme")
	if err != nil || !ok || value != "light" {
		t.Fatalf("unexpected setting %q %v %v", value, ok, err)
	}

	if _, err := store.Save(ctx, "Again", cv.NewRecord(), 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	list, err := store.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list after clear, got %v %v", list, err)
	}
	if _, ok, _ := store.GetSetting(ctx, "theme"); ok {
		t.Fatalf("expected settings cleared")
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open("file::memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	store := NewStore(db)
	tick := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	store.Now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}
