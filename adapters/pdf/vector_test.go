package exportpdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/document"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/layout"
)

func longRecord(template cv.TemplateID) cv.Record {
	record := cv.SampleRecord()
	record.Template = template
	for i := 0; i < 12; i++ {
		record.Experiences = append(record.Experiences, cv.Experience{
			ID:          int64(100 + i),
			Title:       fmt.Sprintf("Consultant %d", i),
			Company:     "Atelier Numérique",
			Period:      "2010 - 2012",
			Description: strings.Repeat("Conception et livraison de plateformes web à fort trafic.\n", 4),
		})
	}
	for i := 0; i < 30; i++ {
		record.Skills = append(record.Skills, fmt.Sprintf("Skill %d", i))
	}
	return record
}

func arrangeFor(record cv.Record) layout.Arrangement {
	doc := document.Build(record, document.Options{Seed: 7})
	return layout.For(record.Template).Arrange(doc)
}

func TestVectorLayoutsPaginateInsideMargins(t *testing.T) {
	for id, draw := range BuiltinLayouts() {
		c := newCanvas(export.Metadata{Title: "CV"})
		if err := draw(context.Background(), c, arrangeFor(longRecord(id))); err != nil {
			t.Fatalf("%s: draw: %v", id, err)
		}
		if err := c.Err(); err != nil {
			t.Fatalf("%s: pdf error: %v", id, err)
		}
		if c.Pages() < 2 {
			t.Fatalf("%s: expected the long record to span pages, got %d", id, c.Pages())
		}
		if c.overflow != 0 {
			t.Fatalf("%s: %d placements past the bottom margin", id, c.overflow)
		}
	}
}

func TestVectorStrategyGeneratesEveryTemplate(t *testing.T) {
	strategy := NewVectorStrategy(nil, nil)
	for _, id := range cv.BuiltinTemplates {
		record := cv.SampleRecord()
		record.Template = id
		var buf bytes.Buffer
		stats, err := strategy.Generate(context.Background(), export.Job{
			Record:   record,
			Quality:  export.QualityHigh,
			Metadata: export.BuildMetadata(record, export.DefaultApplication),
			Now:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		}, &buf)
		if err != nil {
			t.Fatalf("%s: generate: %v", id, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
			t.Fatalf("%s: expected pdf output", id)
		}
		if stats.Pages < 1 || stats.Bytes != int64(buf.Len()) {
			t.Fatalf("%s: unexpected stats %+v (len %d)", id, stats, buf.Len())
		}
	}
}

func TestVectorStrategyEmptyRecord(t *testing.T) {
	var buf bytes.Buffer
	stats, err := NewVectorStrategy(nil, nil).Generate(context.Background(), export.Job{Record: cv.NewRecord()}, &buf)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if stats.Pages != 1 {
		t.Fatalf("expected a single page, got %d", stats.Pages)
	}
}

func TestVectorStrategyUnknownTemplateUsesModern(t *testing.T) {
	record := cv.SampleRecord()
	record.Template = "neon"
	var buf bytes.Buffer
	if _, err := NewVectorStrategy(nil, nil).Generate(context.Background(), export.Job{Record: record}, &buf); err != nil {
		t.Fatalf("generate: %v", err)
	}
}

func TestVectorStrategyStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	_, err := NewVectorStrategy(nil, nil).Generate(ctx, export.Job{Record: cv.SampleRecord()}, &buf)
	if !cv.IsKind(err, cv.KindCanceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written")
	}
}

type stubArranger struct {
	calls int
	arr   layout.Arrangement
}

func (s *stubArranger) Arrange(record cv.Record) (layout.Arrangement, error) {
	s.calls++
	return s.arr, nil
}

func TestVectorStrategyUsesArranger(t *testing.T) {
	arranger := &stubArranger{arr: arrangeFor(cv.SampleRecord())}
	var buf bytes.Buffer
	if _, err := NewVectorStrategy(arranger, nil).Generate(context.Background(), export.Job{Record: cv.SampleRecord()}, &buf); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if arranger.calls != 1 {
		t.Fatalf("expected arranger to be used once, got %d", arranger.calls)
	}
}
