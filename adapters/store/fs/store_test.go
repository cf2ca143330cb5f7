package storefs

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
)

func TestStore_PutOpenDelete(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	ref, err := store.Put(context.Background(), "exports/CV_Marie_Dubois_2024-01-01.pdf", bytes.NewBufferString("%PDF"), export.ArtifactMeta{
		ContentType: "application/pdf",
		Filename:    "CV_Marie_Dubois_2024-01-01.pdf",
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if ref.Meta.Size != 4 {
		t.Fatalf("expected size 4, got %d", ref.Meta.Size)
	}
	if ref.Meta.CreatedAt.IsZero() {
		t.Fatalf("expected created_at set")
	}

	reader, meta, err := store.Open(context.Background(), "exports/CV_Marie_Dubois_2024-01-01.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := io.ReadAll(reader)
	_ = reader.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF" {
		t.Fatalf("expected payload, got %q", string(data))
	}
	if meta.Filename != "CV_Marie_Dubois_2024-01-01.pdf" || meta.ContentType != "application/pdf" {
		t.Fatalf("unexpected meta %+v", meta)
	}

	if err := store.Delete(context.Background(), "exports/CV_Marie_Dubois_2024-01-01.pdf"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := store.Open(context.Background(), "exports/CV_Marie_Dubois_2024-01-01.pdf"); !cv.IsKind(err, cv.KindNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestStore_RejectsEscapingKeys(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, key := range []string{"", "/", "."} {
		if _, err := store.Put(context.Background(), key, bytes.NewBufferString("x"), export.ArtifactMeta{}); !cv.IsKind(err, cv.KindValidation) {
			t.Fatalf("%q: expected validation error, got %v", key, err)
		}
	}
	if _, err := NewStore("").Put(context.Background(), "a", bytes.NewBufferString("x"), export.ArtifactMeta{}); !cv.IsKind(err, cv.KindValidation) {
		t.Fatalf("expected root required, got %v", err)
	}
}

func TestKV_SetGetDelete(t *testing.T) {
	kv := NewKV(t.TempDir())
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "cvData"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
	if err := kv.Set(ctx, "cvData", []byte(`{"personal":{}}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "cvData", []byte(`{"personal":{"fullName":"Ana"}}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, ok, err := kv.Get(ctx, "cvData")
	if err != nil || !ok || string(value) != `{"personal":{"fullName":"Ana"}}` {
		t.Fatalf("get: %q ok=%v err=%v", value, ok, err)
	}
	if err := kv.Delete(ctx, "cvData"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := kv.Delete(ctx, "cvData"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "cvData"); ok {
		t.Fatalf("expected key gone")
	}
}
