package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	cvtemplate "github.com/goliatone/go-cvbuilder/adapters/template"
	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/notify"
	"github.com/goliatone/go-cvbuilder/persistence"
	"github.com/goliatone/go-cvbuilder/preview"
)

type stubTemplates struct {
	mu      sync.Mutex
	renders int
}

func (t *stubTemplates) Render(_ context.Context, record cv.Record) (cvtemplate.Markup, error) {
	t.mu.Lock()
	t.renders++
	t.mu.Unlock()
	return cvtemplate.Markup{Template: record.Template, HTML: "<h1>" + record.Personal.FullName + "</h1>"}, nil
}

func (t *stubTemplates) Select(_ context.Context, id cv.TemplateID) cv.TemplateID {
	return cv.NormalizeTemplate(id)
}

func (t *stubTemplates) Templates() []cvtemplate.Info {
	return []cvtemplate.Info{{ID: cv.TemplateModern, Name: "Moderne"}}
}

type stubStore struct {
	mu        sync.Mutex
	saved     []cv.Record
	autoSaves int
	loaded    *cv.Record
	snapshots []persistence.Snapshot
	importErr error
}

func (s *stubStore) Load(context.Context) (cv.Record, bool, error) {
	if s.loaded == nil {
		return cv.Record{}, false, nil
	}
	return *s.loaded, true, nil
}

func (s *stubStore) Save(_ context.Context, record cv.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, record)
	return nil
}

func (s *stubStore) ImportJSON(data []byte) (cv.Record, error) {
	if s.importErr != nil {
		return cv.Record{}, s.importErr
	}
	r := cv.NewRecord()
	r.Personal.FullName = string(data)
	return r, nil
}

func (s *stubStore) SaveSnapshot(_ context.Context, name string, record cv.Record, _ int64) (persistence.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := persistence.Snapshot{ID: int64(len(s.snapshots) + 1), Name: name, Record: record}
	s.snapshots = append(s.snapshots, snap)
	return snap, nil
}

func (s *stubStore) Snapshots(context.Context) ([]persistence.SnapshotInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]persistence.SnapshotInfo, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, persistence.SnapshotInfo{ID: snap.ID, Name: snap.Name})
	}
	return out, nil
}

func (s *stubStore) Snapshot(_ context.Context, id int64) (persistence.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range s.snapshots {
		if snap.ID == id {
			return snap, nil
		}
	}
	return persistence.Snapshot{}, cv.NewError(cv.KindNotFound, "missing", nil)
}

func (s *stubStore) DeleteSnapshot(context.Context, int64) error { return nil }

func (s *stubStore) AutoSnapshot(context.Context, cv.Record, time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoSaves++
	return true, nil
}

func (s *stubStore) saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

type stubExporter struct {
	result export.Result
	err    error
	got    cv.Record
	el     *preview.Element
}

func (e *stubExporter) Export(_ context.Context, record cv.Record, el *preview.Element, req export.Request) (export.Result, error) {
	e.got = record
	e.el = el
	if e.err != nil {
		return export.Result{}, e.err
	}
	out := e.result
	out.Format = req.Format
	return out, nil
}

func (e *stubExporter) History(context.Context, export.ProgressFilter) ([]export.ExportRecord, error) {
	return nil, nil
}

func newTestSession(t *testing.T, store *stubStore, exporter *stubExporter) (*Session, *notify.Inbox) {
	t.Helper()
	inbox, err := notify.NewInbox(10, nil)
	if err != nil {
		t.Fatalf("new inbox: %v", err)
	}
	cfg := Config{
		Templates:        &stubTemplates{},
		Notifier:         inbox,
		AutosaveDebounce: 20 * time.Millisecond,
	}
	if store != nil {
		cfg.Store = store
	}
	if exporter != nil {
		cfg.Exporter = exporter
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})
	return s, inbox
}

func lastMessage(t *testing.T, inbox *notify.Inbox) notify.Notification {
	t.Helper()
	n, ok := inbox.Last(context.Background())
	if !ok {
		t.Fatalf("expected a notification")
	}
	return n
}

func TestSession_ListOperations(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, nil, nil)

	first := s.AddExperience(ctx, cv.Experience{Title: "Dev"})
	second := s.AddExperience(ctx, cv.Experience{Title: "Lead"})
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}

	if _, err := s.UpdateExperience(ctx, first.ID, cv.Experience{Title: "Senior Dev"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.RemoveExperience(ctx, second.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.RemoveExperience(ctx, second.ID); !cv.IsKind(err, cv.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	third := s.AddExperience(ctx, cv.Experience{Title: "CTO"})
	if third.ID != 3 {
		t.Fatalf("expected ids to keep increasing, got %d", third.ID)
	}

	lang := s.AddLanguage(ctx, cv.Language{Name: "Anglais", Level: 9})
	if lang.Level != cv.DefaultLevel {
		t.Fatalf("expected normalized level, got %d", lang.Level)
	}
	edu := s.AddEducation(ctx, cv.Education{Degree: "Master"})
	if _, err := s.UpdateEducation(ctx, edu.ID+10, cv.Education{}); !cv.IsKind(err, cv.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	skills := s.SetSkills(ctx, []string{"Go", " ", "SQL "})
	if len(skills) != 2 || skills[1] != "SQL" {
		t.Fatalf("unexpected skills %v", skills)
	}

	record := s.Record()
	if len(record.Experiences) != 2 || record.Experiences[0].Title != "Senior Dev" {
		t.Fatalf("unexpected experiences %+v", record.Experiences)
	}
}

func TestSession_MutationsRenderPreview(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, nil, nil)
	name := "Marie Dubois"
	s.UpdatePersonal(ctx, PersonalPatch{FullName: &name})

	snap := s.Preview().Snapshot()
	if !strings.Contains(snap.Markup, "Marie Dubois") {
		t.Fatalf("expected preview to show the new name, got %q", snap.Markup)
	}
}

func TestSession_AutosaveDebounces(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{}
	s, _ := newTestSession(t, store, nil)

	for i := 0; i < 5; i++ {
		s.SetSkills(ctx, []string{"Go"})
	}
	deadline := time.Now().Add(2 * time.Second)
	for store.saves() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	if got := store.saves(); got != 1 {
		t.Fatalf("expected one debounced save, got %d", got)
	}
}

func TestSession_FlushWritesPending(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{}
	s, _ := New(Config{Templates: &stubTemplates{}, Store: store, AutosaveDebounce: time.Hour})
	defer s.Close(ctx)

	s.SetInterests(ctx, []string{"Yoga"})
	if !s.Flush() {
		t.Fatalf("expected a pending autosave")
	}
	if store.saves() != 1 || store.autoSaves != 1 {
		t.Fatalf("expected save and automatic snapshot, got %d/%d", store.saves(), store.autoSaves)
	}
	if s.Flush() {
		t.Fatalf("expected nothing pending after flush")
	}
}

func TestSession_ImportFailureKeepsRecord(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{importErr: cv.NewError(cv.KindInvalidFormat, "invalid format", nil)}
	s, inbox := newTestSession(t, store, nil)
	s.LoadSample(ctx)
	before := s.Record()

	if _, err := s.Import(ctx, []byte(`{}`)); !cv.IsKind(err, cv.KindInvalidFormat) {
		t.Fatalf("expected invalid format, got %v", err)
	}
	if s.Record().Personal.FullName != before.Personal.FullName {
		t.Fatalf("expected record untouched")
	}
	n := lastMessage(t, inbox)
	if n.Level != notify.LevelError || n.Message != "Erreur d'import: invalid format" {
		t.Fatalf("unexpected notification %+v", n)
	}

	store.importErr = nil
	imported, err := s.Import(ctx, []byte("Jean Martin"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported.Personal.FullName != "Jean Martin" {
		t.Fatalf("unexpected imported record %+v", imported.Personal)
	}
}

func TestSession_ExportNotifications(t *testing.T) {
	ctx := context.Background()
	exporter := &stubExporter{result: export.Result{FellBack: true}}
	s, inbox := newTestSession(t, nil, exporter)
	s.LoadSample(ctx)

	if _, err := s.Export(ctx, export.Request{Format: export.FormatPDF}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if exporter.el != s.Preview() || exporter.got.Personal.FullName != "Marie Dubois" {
		t.Fatalf("expected exporter to receive the preview and record")
	}
	if n := lastMessage(t, inbox); n.Message != "PDF généré (version simplifiée)" {
		t.Fatalf("unexpected notification %+v", n)
	}

	exporter.err = cv.NewError(cv.KindBusy, "export already in progress", nil)
	if _, err := s.Export(ctx, export.Request{Format: export.FormatPDF}); !cv.IsKind(err, cv.KindBusy) {
		t.Fatalf("expected busy, got %v", err)
	}
	if n := lastMessage(t, inbox); n.Level != notify.LevelWarning {
		t.Fatalf("expected warning, got %+v", n)
	}
}

func TestSession_PhotoValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, nil, nil)

	if err := s.SetPhoto(ctx, []byte("text"), "text/plain"); !cv.IsKind(err, cv.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	big := make([]byte, DefaultMaxPhotoBytes+1)
	if err := s.SetPhoto(ctx, big, "image/png"); !cv.IsKind(err, cv.KindValidation) {
		t.Fatalf("expected size error, got %v", err)
	}
	if err := s.SetPhoto(ctx, []byte{0x89, 'P', 'N', 'G'}, "image/png"); err != nil {
		t.Fatalf("set photo: %v", err)
	}
	if !strings.HasPrefix(s.Record().Personal.Photo, "data:image/png;base64,") {
		t.Fatalf("expected data uri, got %q", s.Record().Personal.Photo)
	}
	s.RemovePhoto(ctx)
	if s.Record().Personal.Photo != "" {
		t.Fatalf("expected photo removed")
	}
}

func TestSession_OpenSnapshotsAndReset(t *testing.T) {
	ctx := context.Background()
	saved := cv.SampleRecord()
	saved.Template = cv.TemplateExecutive
	store := &stubStore{loaded: &saved}
	s, inbox := newTestSession(t, store, nil)

	if err := s.Open(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Record().Personal.FullName != "Marie Dubois" {
		t.Fatalf("expected saved record loaded")
	}
	if n := lastMessage(t, inbox); n.Message != "CV précédent chargé" {
		t.Fatalf("unexpected notification %+v", n)
	}

	snap, err := s.SaveSnapshot(ctx, "")
	if err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if snap.Name != "Marie Dubois" {
		t.Fatalf("expected snapshot named after the person, got %q", snap.Name)
	}

	reset := s.Reset(ctx)
	if reset.Personal.FullName != "" || reset.Template != cv.TemplateExecutive {
		t.Fatalf("expected empty record keeping template, got %+v", reset)
	}
	if s.Stats().FilledSections != 0 {
		t.Fatalf("expected empty stats")
	}

	loaded, err := s.LoadSnapshot(ctx, snap.ID)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if loaded.Personal.FullName != "Marie Dubois" {
		t.Fatalf("expected snapshot restored")
	}

	if applied := s.SelectTemplate(ctx, "unknown"); applied != cv.TemplateModern {
		t.Fatalf("expected fallback to modern, got %q", applied)
	}
}
