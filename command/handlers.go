package command

import (
	"context"
	"time"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/persistence"
)

// Exporter runs exports of the current record.
type Exporter interface {
	Export(ctx context.Context, req export.Request) (export.Result, error)
}

// Importer imports a JSON document into the current record.
type Importer interface {
	Import(ctx context.Context, data []byte) (cv.Record, error)
}

// TemplateSelector switches templates.
type TemplateSelector interface {
	SelectTemplate(ctx context.Context, id cv.TemplateID) cv.TemplateID
}

// Snapshotter manages stored snapshots.
type Snapshotter interface {
	SaveSnapshot(ctx context.Context, name string) (persistence.Snapshot, error)
	LoadSnapshot(ctx context.Context, id int64) (cv.Record, error)
	DeleteSnapshot(ctx context.Context, id int64) error
}

// HistoryPruner deletes export history older than a cutoff.
type HistoryPruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// DefaultHistoryMaxAge is used when PruneHistory carries no MaxAge.
const DefaultHistoryMaxAge = 30 * 24 * time.Hour

func serviceRequired() error {
	return errors.New("session is required", errors.CategoryInternal).
		WithTextCode("SESSION_REQUIRED")
}

func store[T any](ctx context.Context, dst *T, value T) {
	if dst != nil {
		*dst = value
	}
	if res := gcmd.ResultFromContext[T](ctx); res != nil {
		res.Store(value)
	}
}

// ExportCVHandler handles export requests.
type ExportCVHandler struct {
	Session Exporter
}

func NewExportCVHandler(s Exporter) *ExportCVHandler {
	return &ExportCVHandler{Session: s}
}

func (h *ExportCVHandler) Execute(ctx context.Context, msg ExportCV) error {
	if h == nil || h.Session == nil {
		return serviceRequired()
	}
	result, err := h.Session.Export(ctx, export.Request{Format: msg.Format, Strategy: msg.Strategy, Quality: msg.Quality})
	if err != nil {
		return err
	}
	store(ctx, msg.Result, result)
	return nil
}

// ImportCVHandler handles imports.
type ImportCVHandler struct {
	Session Importer
}

func NewImportCVHandler(s Importer) *ImportCVHandler {
	return &ImportCVHandler{Session: s}
}

func (h *ImportCVHandler) Execute(ctx context.Context, msg ImportCV) error {
	if h == nil || h.Session == nil {
		return serviceRequired()
	}
	record, err := h.Session.Import(ctx, msg.Data)
	if err != nil {
		return err
	}
	store(ctx, msg.Result, record)
	return nil
}

// SelectTemplateHandler switches templates.
type SelectTemplateHandler struct {
	Session TemplateSelector
}

func NewSelectTemplateHandler(s TemplateSelector) *SelectTemplateHandler {
	return &SelectTemplateHandler{Session: s}
}

func (h *SelectTemplateHandler) Execute(ctx context.Context, msg SelectTemplate) error {
	if h == nil || h.Session == nil {
		return serviceRequired()
	}
	store(ctx, msg.Result, h.Session.SelectTemplate(ctx, msg.Template))
	return nil
}

// SaveSnapshotHandler stores snapshots.
type SaveSnapshotHandler struct {
	Session Snapshotter
}

func NewSaveSnapshotHandler(s Snapshotter) *SaveSnapshotHandler {
	return &SaveSnapshotHandler{Session: s}
}

func (h *SaveSnapshotHandler) Execute(ctx context.Context, msg SaveSnapshot) error {
	if h == nil || h.Session == nil {
		return serviceRequired()
	}
	snap, err := h.Session.SaveSnapshot(ctx, msg.Name)
	if err != nil {
		return err
	}
	store(ctx, msg.Result, snap)
	return nil
}

// LoadSnapshotHandler restores snapshots.
type LoadSnapshotHandler struct {
	Session Snapshotter
}

func NewLoadSnapshotHandler(s Snapshotter) *LoadSnapshotHandler {
	return &LoadSnapshotHandler{Session: s}
}

func (h *LoadSnapshotHandler) Execute(ctx context.Context, msg LoadSnapshot) error {
	if h == nil || h.Session == nil {
		return serviceRequired()
	}
	record, err := h.Session.LoadSnapshot(ctx, msg.ID)
	if err != nil {
		return err
	}
	store(ctx, msg.Result, record)
	return nil
}

// DeleteSnapshotHandler removes snapshots.
type DeleteSnapshotHandler struct {
	Session Snapshotter
}

func NewDeleteSnapshotHandler(s Snapshotter) *DeleteSnapshotHandler {
	return &DeleteSnapshotHandler{Session: s}
}

func (h *DeleteSnapshotHandler) Execute(ctx context.Context, msg DeleteSnapshot) error {
	if h == nil || h.Session == nil {
		return serviceRequired()
	}
	return h.Session.DeleteSnapshot(ctx, msg.ID)
}

// PruneHistoryHandler removes old export history entries.
type PruneHistoryHandler struct {
	History HistoryPruner
	MaxAge  time.Duration
	Config  gcmd.HandlerConfig
	Clock   func() time.Time
}

func NewPruneHistoryHandler(history HistoryPruner, maxAge time.Duration) *PruneHistoryHandler {
	return &PruneHistoryHandler{
		History: history,
		MaxAge:  maxAge,
		Config:  gcmd.HandlerConfig{Expression: "0 3 * * *"},
		Clock:   time.Now,
	}
}

func (h *PruneHistoryHandler) Execute(ctx context.Context, msg PruneHistory) error {
	if h == nil || h.History == nil {
		return errors.New("export history is required", errors.CategoryInternal).
			WithTextCode("HISTORY_REQUIRED")
	}
	now := msg.Now
	if now.IsZero() && h.Clock != nil {
		now = h.Clock()
	}
	if now.IsZero() {
		now = time.Now()
	}
	maxAge := msg.MaxAge
	if maxAge == 0 {
		maxAge = h.MaxAge
	}
	if maxAge <= 0 {
		maxAge = DefaultHistoryMaxAge
	}

	removed, err := h.History.Prune(ctx, now.Add(-maxAge))
	if err != nil {
		return err
	}
	store(ctx, msg.Result, removed)
	return nil
}

func (h *PruneHistoryHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), PruneHistory{})
	}
}

func (h *PruneHistoryHandler) CronOptions() gcmd.HandlerConfig {
	return h.Config
}
