package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	cvtemplate "github.com/goliatone/go-cvbuilder/adapters/template"
	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/notify"
	"github.com/goliatone/go-cvbuilder/persistence"
	"github.com/goliatone/go-cvbuilder/preview"
)

const (
	// DefaultAutosaveDebounce is the quiet period before a mutation is saved.
	DefaultAutosaveDebounce = time.Second
	// DefaultSnapshotInterval is the minimum gap between automatic snapshots.
	DefaultSnapshotInterval = 30 * time.Second
	// DefaultMaxPhotoBytes caps uploaded photos.
	DefaultMaxPhotoBytes = 2 * 1024 * 1024
)

// Templates renders records and lists the available templates.
type Templates interface {
	Render(ctx context.Context, record cv.Record) (cvtemplate.Markup, error)
	Select(ctx context.Context, id cv.TemplateID) cv.TemplateID
	Templates() []cvtemplate.Info
}

// Exporter produces export artifacts.
type Exporter interface {
	Export(ctx context.Context, record cv.Record, el *preview.Element, req export.Request) (export.Result, error)
	History(ctx context.Context, filter export.ProgressFilter) ([]export.ExportRecord, error)
}

// Store is the persistence gateway as seen by the session.
type Store interface {
	Load(ctx context.Context) (cv.Record, bool, error)
	Save(ctx context.Context, record cv.Record) error
	ImportJSON(data []byte) (cv.Record, error)
	SaveSnapshot(ctx context.Context, name string, record cv.Record, id int64) (persistence.Snapshot, error)
	Snapshots(ctx context.Context) ([]persistence.SnapshotInfo, error)
	Snapshot(ctx context.Context, id int64) (persistence.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id int64) error
	AutoSnapshot(ctx context.Context, record cv.Record, interval time.Duration) (bool, error)
}

// Config wires a Session.
type Config struct {
	Templates        Templates
	Exporter         Exporter
	Store            Store
	Preview          *preview.Element
	Notifier         notify.Notifier
	Logger           cv.Logger
	AutosaveDebounce time.Duration
	SnapshotInterval time.Duration
	MaxPhotoBytes    int64
}

// Session is the application context of one local user: the record being edited,
// the live preview and the side effects of each change. All mutations go through it.
type Session struct {
	ID string

	cfg    Config
	logger cv.Logger

	mu         sync.Mutex
	record     cv.Record
	experience *cv.IDAllocator
	education  *cv.IDAllocator
	language   *cv.IDAllocator

	autosave *debouncer
}

// New creates a session holding an empty record. Call Open to restore saved state.
func New(cfg Config) (*Session, error) {
	if cfg.Templates == nil {
		return nil, cv.NewError(cv.KindValidation, "session requires templates", nil)
	}
	if cfg.Preview == nil {
		cfg.Preview = preview.NewElement()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Log{Logger: cfg.Logger}
	}
	if cfg.AutosaveDebounce <= 0 {
		cfg.AutosaveDebounce = DefaultAutosaveDebounce
	}
	if cfg.SnapshotInterval <= 0 {
		cfg.SnapshotInterval = DefaultSnapshotInterval
	}
	if cfg.MaxPhotoBytes <= 0 {
		cfg.MaxPhotoBytes = DefaultMaxPhotoBytes
	}

	s := &Session{
		ID:     uuid.NewString(),
		cfg:    cfg,
		logger: cv.LoggerOr(cfg.Logger),
	}
	s.autosave = newDebouncer(cfg.AutosaveDebounce, s.runAutosave)
	s.reset(cv.NewRecord())
	return s, nil
}

// Open restores the saved record, if any, and renders the preview.
func (s *Session) Open(ctx context.Context) error {
	if s.cfg.Store != nil {
		record, found, err := s.cfg.Store.Load(ctx)
		if err != nil {
			s.logger.Warnf("session %s: saved record not loaded: %v", s.ID, err)
			s.notify(ctx, notify.LevelWarning, "Aucune donnée sauvegardée trouvée")
		} else if found {
			s.mu.Lock()
			s.reset(record)
			s.mu.Unlock()
			s.notify(ctx, notify.LevelInfo, "CV précédent chargé")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.renderLocked(ctx)
	return err
}

// Close stops the autosave timer, writing any pending change first.
func (s *Session) Close(ctx context.Context) error {
	_ = ctx
	s.autosave.flush()
	s.autosave.stop()
	return nil
}

// Record returns a copy of the current record.
func (s *Session) Record() cv.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cv.Clone(s.record)
}

// Preview returns the live preview element.
func (s *Session) Preview() *preview.Element {
	return s.cfg.Preview
}

// Templates lists the available templates.
func (s *Session) Templates() []cvtemplate.Info {
	return s.cfg.Templates.Templates()
}

// Stats summarizes the current record.
func (s *Session) Stats() cv.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cv.ComputeStats(s.record)
}

// Render renders the current record into the preview element and returns the markup.
func (s *Session) Render(ctx context.Context) (cvtemplate.Markup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked(ctx)
}

// Flush writes a pending autosave now. It reports whether one was pending.
func (s *Session) Flush() bool {
	return s.autosave.flush()
}

// reset replaces the record and reseeds the id allocators. Callers hold mu.
func (s *Session) reset(record cv.Record) {
	s.record = cv.Normalize(record)
	s.experience = cv.NewIDAllocator(experienceIDs(s.record)...)
	s.education = cv.NewIDAllocator(educationIDs(s.record)...)
	s.language = cv.NewIDAllocator(languageIDs(s.record)...)
}

func (s *Session) renderLocked(ctx context.Context) (cvtemplate.Markup, error) {
	markup, err := s.cfg.Templates.Render(ctx, s.record)
	if err != nil {
		s.logger.Errorf("session %s: preview render failed: %v", s.ID, err)
		return cvtemplate.Markup{}, err
	}
	for _, failure := range markup.Failures {
		s.logger.Warnf("session %s: section %s not rendered: %v", s.ID, failure.Section, failure.Err)
	}
	s.cfg.Preview.Show(markup)
	return markup, nil
}

// changed renders the new state and schedules an autosave. Callers hold mu.
func (s *Session) changed(ctx context.Context) {
	_, _ = s.renderLocked(ctx)
	s.autosave.trigger()
}

func (s *Session) runAutosave() {
	if s.cfg.Store == nil {
		return
	}
	ctx := context.Background()
	record := s.Record()

	if err := s.cfg.Store.Save(ctx, record); err != nil {
		s.logger.Warnf("session %s: autosave failed: %v", s.ID, err)
		s.notify(ctx, notify.LevelWarning, "Erreur sauvegarde automatique")
		return
	}
	wrote, err := s.cfg.Store.AutoSnapshot(ctx, record, s.cfg.SnapshotInterval)
	if err != nil {
		s.logger.Warnf("session %s: automatic snapshot failed: %v", s.ID, err)
		return
	}
	if wrote {
		s.logger.Debugf("session %s: automatic snapshot written", s.ID)
	}
}

func (s *Session) notify(ctx context.Context, level notify.Level, message string) {
	if err := s.cfg.Notifier.Send(ctx, notify.Notification{Level: level, Message: message}); err != nil {
		s.logger.Warnf("session %s: notification dropped: %v", s.ID, err)
	}
}

func experienceIDs(r cv.Record) []int64 {
	ids := make([]int64, 0, len(r.Experiences))
	for _, e := range r.Experiences {
		ids = append(ids, e.ID)
	}
	return ids
}

func educationIDs(r cv.Record) []int64 {
	ids := make([]int64, 0, len(r.Educations))
	for _, e := range r.Educations {
		ids = append(ids, e.ID)
	}
	return ids
}

func languageIDs(r cv.Record) []int64 {
	ids := make([]int64, 0, len(r.Languages))
	for _, l := range r.Languages {
		ids = append(ids, l.ID)
	}
	return ids
}
