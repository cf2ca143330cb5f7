package query

import (
	"context"
	"testing"

	cvtemplate "github.com/goliatone/go-cvbuilder/adapters/template"
	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/persistence"
)

type stubSession struct {
	filter export.ProgressFilter
}

func (s *stubSession) Render(context.Context) (cvtemplate.Markup, error) {
	return cvtemplate.Markup{Template: cv.TemplateCreative, HTML: "<div></div>"}, nil
}

func (s *stubSession) Stats() cv.Stats { return cv.ComputeStats(cv.SampleRecord()) }

func (s *stubSession) Snapshots(context.Context) ([]persistence.SnapshotInfo, error) { return nil, nil }

func (s *stubSession) Templates() []cvtemplate.Info {
	return []cvtemplate.Info{{ID: cv.TemplateModern}, {ID: cv.TemplateExecutive}}
}

func (s *stubSession) History(_ context.Context, filter export.ProgressFilter) ([]export.ExportRecord, error) {
	s.filter = filter
	return []export.ExportRecord{{ID: "exp-1"}}, nil
}

func TestQueryHandlers(t *testing.T) {
	ctx := context.Background()
	session := &stubSession{}

	markup, err := NewPreviewHandler(session).Query(ctx, Preview{})
	if err != nil || markup.Template != cv.TemplateCreative {
		t.Fatalf("preview: %+v %v", markup, err)
	}

	stats, err := NewStatsHandler(session).Query(ctx, Stats{})
	if err != nil || stats.FilledSections != cv.TrackedSections {
		t.Fatalf("stats: %+v %v", stats, err)
	}

	snaps, err := NewListSnapshotsHandler(session).Query(ctx, ListSnapshots{})
	if err != nil || snaps == nil {
		t.Fatalf("expected empty non-nil list, got %v %v", snaps, err)
	}

	templates, err := NewListTemplatesHandler(session).Query(ctx, ListTemplates{})
	if err != nil || len(templates) != 2 {
		t.Fatalf("templates: %v %v", templates, err)
	}

	history, err := NewExportHistoryHandler(session).Query(ctx, ExportHistory{Filter: export.ProgressFilter{Limit: 5}})
	if err != nil || len(history) != 1 || session.filter.Limit != 5 {
		t.Fatalf("history: %v %v", history, err)
	}
}

func TestExportHistory_Validate(t *testing.T) {
	if err := (ExportHistory{Filter: export.ProgressFilter{State: "paused"}}).Validate(); err == nil {
		t.Fatalf("expected state error")
	}
	if err := (ExportHistory{Filter: export.ProgressFilter{Limit: -1}}).Validate(); err == nil {
		t.Fatalf("expected limit error")
	}
}

func TestHandlers_RequireSession(t *testing.T) {
	if _, err := (&StatsHandler{}).Query(context.Background(), Stats{}); err == nil {
		t.Fatalf("expected error without session")
	}
}
