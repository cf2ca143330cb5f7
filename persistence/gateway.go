package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-cvbuilder/cv"
)

// Keys of the key/value store.
const (
	KeyData     = "cvData"
	KeyTemplate = "cvTemplate"
	KeyTheme    = "theme"
)

// AutoSnapshotName names snapshots written by AutoSnapshot.
const AutoSnapshotName = "Auto-sauvegarde"

// settingLastAutoSave holds the unix millis of the last automatic snapshot.
const settingLastAutoSave = "lastAutoSave"

// EnvelopeVersion is written into every JSON export.
const EnvelopeVersion = "1.0"

// DefaultApplication names the producer in exported envelopes.
const DefaultApplication = "CV Builder"

// exportDateLayout matches the ISO strings written by the browser version.
const exportDateLayout = "2006-01-02T15:04:05.000Z07:00"

var nonWord = regexp.MustCompile(`\W`)

// KeyValue is the plain local store: string keys to opaque blobs.
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Snapshot is a named record stored in the document store.
type Snapshot struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Template  cv.TemplateID `json:"template"`
	Record    cv.Record     `json:"data"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SnapshotInfo is a listing entry without the record.
type SnapshotInfo struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Template  cv.TemplateID `json:"template"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// DocumentStore keeps named snapshots and settings.
type DocumentStore interface {
	// Save inserts a snapshot, or updates id when it is positive.
	Save(ctx context.Context, name string, record cv.Record, id int64) (Snapshot, error)
	Latest(ctx context.Context) (Snapshot, bool, error)
	Get(ctx context.Context, id int64) (Snapshot, error)
	List(ctx context.Context) ([]SnapshotInfo, error)
	Delete(ctx context.Context, id int64) error
	SetSetting(ctx context.Context, key, value string) error
	GetSetting(ctx context.Context, key string) (string, bool, error)
	Clear(ctx context.Context) error
}

// Envelope is the portable JSON export format.
type Envelope struct {
	Version     string          `json:"version"`
	ExportDate  string          `json:"exportDate"`
	Application string          `json:"application"`
	Data        json.RawMessage `json:"data"`
}

// Config wires a Gateway.
type Config struct {
	Store       KeyValue
	Documents   DocumentStore
	Application string
	Now         func() time.Time
	Logger      cv.Logger
}

// Gateway is the only path between the record and storage. Everything it hands out
// or writes is normalized.
type Gateway struct {
	store     KeyValue
	documents DocumentStore
	app       string
	now       func() time.Time
	logger    cv.Logger
}

// NewGateway builds a gateway. A nil Store keeps nothing between runs.
func NewGateway(cfg Config) *Gateway {
	g := &Gateway{
		store:     cfg.Store,
		documents: cfg.Documents,
		app:       cfg.Application,
		now:       cfg.Now,
		logger:    cv.LoggerOr(cfg.Logger),
	}
	if g.app == "" {
		g.app = DefaultApplication
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// Load returns the saved record. It falls back to the most recent snapshot when the
// key/value blob is absent. found is false when nothing was stored.
func (g *Gateway) Load(ctx context.Context) (cv.Record, bool, error) {
	record, found, err := g.loadBlob(ctx)
	if err != nil {
		return cv.NewRecord(), false, err
	}
	if !found && g.documents != nil {
		snap, ok, err := g.documents.Latest(ctx)
		if err != nil {
			return cv.NewRecord(), false, cv.NewError(cv.KindIO, "load latest snapshot", err)
		}
		if ok {
			record, found = cv.Normalize(snap.Record), true
		}
	}
	if !found {
		return cv.NewRecord(), false, nil
	}

	if tmpl, ok, err := g.template(ctx); err == nil && ok {
		record.Template = tmpl
	}
	return record, true, nil
}

func (g *Gateway) loadBlob(ctx context.Context) (cv.Record, bool, error) {
	if g.store == nil {
		return cv.Record{}, false, nil
	}
	raw, ok, err := g.store.Get(ctx, KeyData)
	if err != nil {
		return cv.Record{}, false, cv.NewError(cv.KindIO, "load record", err)
	}
	if !ok || len(raw) == 0 {
		return cv.Record{}, false, nil
	}
	record, err := Migrate(raw)
	if err != nil {
		return cv.Record{}, false, err
	}
	return record, true, nil
}

func (g *Gateway) template(ctx context.Context) (cv.TemplateID, bool, error) {
	if g.store == nil {
		return "", false, nil
	}
	raw, ok, err := g.store.Get(ctx, KeyTemplate)
	if err != nil || !ok {
		return "", false, err
	}
	id := cv.TemplateID(strings.TrimSpace(string(raw)))
	if !cv.IsKnownTemplate(id) {
		return "", false, nil
	}
	return id, true, nil
}

// Save writes the normalized record and its template choice.
func (g *Gateway) Save(ctx context.Context, record cv.Record) error {
	if g.store == nil {
		return cv.NewError(cv.KindNotImpl, "no key/value store configured", nil)
	}
	record = cv.Normalize(record)
	payload, err := json.Marshal(record)
	if err != nil {
		return cv.NewError(cv.KindInternal, "encode record", err)
	}
	if err := g.store.Set(ctx, KeyData, payload); err != nil {
		return cv.NewError(cv.KindIO, "save record", err)
	}
	return g.SaveTemplate(ctx, record.Template)
}

// SaveTemplate persists the template choice.
func (g *Gateway) SaveTemplate(ctx context.Context, id cv.TemplateID) error {
	if g.store == nil {
		return nil
	}
	if err := g.store.Set(ctx, KeyTemplate, []byte(cv.NormalizeTemplate(id))); err != nil {
		return cv.NewError(cv.KindIO, "save template", err)
	}
	return nil
}

// Theme returns the stored theme preference.
func (g *Gateway) Theme(ctx context.Context) (string, error) {
	if g.store == nil {
		return "", nil
	}
	raw, _, err := g.store.Get(ctx, KeyTheme)
	if err != nil {
		return "", cv.NewError(cv.KindIO, "load theme", err)
	}
	return string(raw), nil
}

// SetTheme stores the theme preference. It is not acted upon.
func (g *Gateway) SetTheme(ctx context.Context, theme string) error {
	if g.store == nil {
		return nil
	}
	if err := g.store.Set(ctx, KeyTheme, []byte(theme)); err != nil {
		return cv.NewError(cv.KindIO, "save theme", err)
	}
	return nil
}

// Clear removes the saved record.
func (g *Gateway) Clear(ctx context.Context) error {
	if g.store == nil {
		return nil
	}
	if err := g.store.Delete(ctx, KeyData); err != nil {
		return cv.NewError(cv.KindIO, "clear record", err)
	}
	return nil
}

// Encode wraps the normalized record in the export envelope.
func (g *Gateway) Encode(record cv.Record, exportedAt time.Time) ([]byte, error) {
	if exportedAt.IsZero() {
		exportedAt = g.now()
	}
	data, err := json.Marshal(cv.Normalize(record))
	if err != nil {
		return nil, cv.NewError(cv.KindInternal, "encode record", err)
	}
	payload, err := json.MarshalIndent(Envelope{
		Version:     EnvelopeVersion,
		ExportDate:  exportedAt.UTC().Format(exportDateLayout),
		Application: g.app,
		Data:        data,
	}, "", "  ")
	if err != nil {
		return nil, cv.NewError(cv.KindInternal, "encode envelope", err)
	}
	return payload, nil
}

// ExportJSON returns the envelope and its download filename.
func (g *Gateway) ExportJSON(record cv.Record) ([]byte, string, error) {
	now := g.now()
	payload, err := g.Encode(record, now)
	if err != nil {
		return nil, "", err
	}
	return payload, JSONFilename(record.Personal.FullName, now), nil
}

// ImportJSON parses an envelope, or a bare legacy record, into a normalized record.
// Anything without a personal object fails with invalid_format.
func (g *Gateway) ImportJSON(data []byte) (cv.Record, error) {
	if err := Validate(data); err != nil {
		return cv.Record{}, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return cv.Record{}, cv.NewError(cv.KindInvalidFormat, "invalid format", err)
	}
	body := data
	if inner, ok := fields["data"]; ok {
		body = inner
	}
	record, err := Migrate(body)
	if err != nil {
		return cv.Record{}, err
	}
	g.logger.Debugf("imported record for %q", record.Personal.FullName)
	return record, nil
}

// SaveSnapshot stores record under name, updating id when positive.
func (g *Gateway) SaveSnapshot(ctx context.Context, name string, record cv.Record, id int64) (Snapshot, error) {
	if g.documents == nil {
		return Snapshot{}, cv.NewError(cv.KindNotImpl, "no document store configured", nil)
	}
	if strings.TrimSpace(name) == "" {
		return Snapshot{}, cv.NewError(cv.KindValidation, "snapshot name is required", nil)
	}
	snap, err := g.documents.Save(ctx, name, cv.Normalize(record), id)
	if err != nil {
		return Snapshot{}, wrapStore("save snapshot", err)
	}
	return snap, nil
}

// Snapshots lists stored snapshots, most recently updated first.
func (g *Gateway) Snapshots(ctx context.Context) ([]SnapshotInfo, error) {
	if g.documents == nil {
		return nil, nil
	}
	list, err := g.documents.List(ctx)
	if err != nil {
		return nil, wrapStore("list snapshots", err)
	}
	return list, nil
}

// Snapshot returns one snapshot with a normalized record.
func (g *Gateway) Snapshot(ctx context.Context, id int64) (Snapshot, error) {
	if g.documents == nil {
		return Snapshot{}, cv.NewError(cv.KindNotFound, fmt.Sprintf("snapshot %d not found", id), nil)
	}
	snap, err := g.documents.Get(ctx, id)
	if err != nil {
		return Snapshot{}, wrapStore("load snapshot", err)
	}
	snap.Record = cv.Normalize(snap.Record)
	return snap, nil
}

// DeleteSnapshot removes a snapshot.
func (g *Gateway) DeleteSnapshot(ctx context.Context, id int64) error {
	if g.documents == nil {
		return nil
	}
	return wrapStore("delete snapshot", g.documents.Delete(ctx, id))
}

// AutoSnapshot writes an AutoSnapshotName snapshot unless one was written less than
// interval ago. It reports whether a snapshot was written.
func (g *Gateway) AutoSnapshot(ctx context.Context, record cv.Record, interval time.Duration) (bool, error) {
	if g.documents == nil {
		return false, nil
	}
	now := g.now()
	raw, ok, err := g.documents.GetSetting(ctx, settingLastAutoSave)
	if err != nil {
		return false, wrapStore("read autosave time", err)
	}
	if ok {
		if last, err := strconv.ParseInt(raw, 10, 64); err == nil && now.Sub(time.UnixMilli(last)) < interval {
			return false, nil
		}
	}
	if _, err := g.SaveSnapshot(ctx, AutoSnapshotName, record, 0); err != nil {
		return false, err
	}
	if err := g.documents.SetSetting(ctx, settingLastAutoSave, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		return true, wrapStore("write autosave time", err)
	}
	return true, nil
}

// JSONFilename builds CV_<name>_<unix millis>.json with non word characters replaced.
func JSONFilename(fullName string, now time.Time) string {
	name := strings.TrimSpace(fullName)
	if name == "" {
		name = "CV"
	}
	return fmt.Sprintf("CV_%s_%d.json", nonWord.ReplaceAllString(name, "_"), now.UnixMilli())
}

func wrapStore(msg string, err error) error {
	if err == nil {
		return nil
	}
	var cvErr *cv.Error
	if errors.As(err, &cvErr) {
		return err
	}
	return cv.NewError(cv.KindIO, msg, err)
}
