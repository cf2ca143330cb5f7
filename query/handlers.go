package query

import (
	"context"

	"github.com/goliatone/go-errors"

	cvtemplate "github.com/goliatone/go-cvbuilder/adapters/template"
	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/persistence"
)

// Session is the read side of the application context.
type Session interface {
	Render(ctx context.Context) (cvtemplate.Markup, error)
	Stats() cv.Stats
	Snapshots(ctx context.Context) ([]persistence.SnapshotInfo, error)
	Templates() []cvtemplate.Info
	History(ctx context.Context, filter export.ProgressFilter) ([]export.ExportRecord, error)
}

func sessionRequired() error {
	return errors.New("session is required", errors.CategoryInternal).
		WithTextCode("SESSION_REQUIRED")
}

// PreviewHandler renders the current record.
type PreviewHandler struct {
	Session Session
}

func NewPreviewHandler(s Session) *PreviewHandler {
	return &PreviewHandler{Session: s}
}

func (h *PreviewHandler) Query(ctx context.Context, msg Preview) (cvtemplate.Markup, error) {
	_ = msg
	if h == nil || h.Session == nil {
		return cvtemplate.Markup{}, sessionRequired()
	}
	return h.Session.Render(ctx)
}

// StatsHandler returns completeness stats.
type StatsHandler struct {
	Session Session
}

func NewStatsHandler(s Session) *StatsHandler {
	return &StatsHandler{Session: s}
}

func (h *StatsHandler) Query(ctx context.Context, msg Stats) (cv.Stats, error) {
	_ = ctx
	_ = msg
	if h == nil || h.Session == nil {
		return cv.Stats{}, sessionRequired()
	}
	return h.Session.Stats(), nil
}

// ListSnapshotsHandler lists stored snapshots.
type ListSnapshotsHandler struct {
	Session Session
}

func NewListSnapshotsHandler(s Session) *ListSnapshotsHandler {
	return &ListSnapshotsHandler{Session: s}
}

func (h *ListSnapshotsHandler) Query(ctx context.Context, msg ListSnapshots) ([]persistence.SnapshotInfo, error) {
	_ = msg
	if h == nil || h.Session == nil {
		return nil, sessionRequired()
	}
	list, err := h.Session.Snapshots(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []persistence.SnapshotInfo{}
	}
	return list, nil
}

// ListTemplatesHandler lists templates.
type ListTemplatesHandler struct {
	Session Session
}

func NewListTemplatesHandler(s Session) *ListTemplatesHandler {
	return &ListTemplatesHandler{Session: s}
}

func (h *ListTemplatesHandler) Query(ctx context.Context, msg ListTemplates) ([]cvtemplate.Info, error) {
	_ = ctx
	_ = msg
	if h == nil || h.Session == nil {
		return nil, sessionRequired()
	}
	return h.Session.Templates(), nil
}

// ExportHistoryHandler returns export history.
type ExportHistoryHandler struct {
	Session Session
}

func NewExportHistoryHandler(s Session) *ExportHistoryHandler {
	return &ExportHistoryHandler{Session: s}
}

func (h *ExportHistoryHandler) Query(ctx context.Context, msg ExportHistory) ([]export.ExportRecord, error) {
	if h == nil || h.Session == nil {
		return nil, sessionRequired()
	}
	return h.Session.History(ctx, msg.Filter)
}
