package session

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/notify"
	"github.com/goliatone/go-cvbuilder/persistence"
)

// UnnamedSnapshot names manual snapshots of a record without a name.
const UnnamedSnapshot = "CV Sans nom"

// SelectTemplate switches the record's template. Unknown ids fall back to the
// default; the id actually applied is returned.
func (s *Session) SelectTemplate(ctx context.Context, id cv.TemplateID) cv.TemplateID {
	s.mu.Lock()
	defer s.mu.Unlock()
	applied := s.cfg.Templates.Select(ctx, id)
	s.record.Template = applied
	s.changed(ctx)
	return applied
}

// Export runs an export of the current record. The preview is refreshed first so a
// raster capture sees the current state.
func (s *Session) Export(ctx context.Context, req export.Request) (export.Result, error) {
	if s.cfg.Exporter == nil {
		return export.Result{}, cv.NewError(cv.KindNotImpl, "export not configured", nil)
	}

	s.mu.Lock()
	record := cv.Clone(s.record)
	_, renderErr := s.renderLocked(ctx)
	s.mu.Unlock()
	if renderErr != nil {
		s.logger.Warnf("session %s: exporting with a stale preview: %v", s.ID, renderErr)
	}

	result, err := s.cfg.Exporter.Export(ctx, record, s.cfg.Preview, req)
	if err != nil {
		switch {
		case cv.IsKind(err, cv.KindBusy):
			s.notify(ctx, notify.LevelWarning, "Génération PDF déjà en cours")
		case isPDF(req.Format):
			s.notify(ctx, notify.LevelError, "Erreur lors de la génération du PDF")
		default:
			s.notify(ctx, notify.LevelError, "Erreur lors de l'export")
		}
		return export.Result{}, err
	}

	switch {
	case !isPDF(result.Format):
		s.notify(ctx, notify.LevelSuccess, "CV exporté avec succès")
	case result.FellBack:
		s.notify(ctx, notify.LevelInfo, "PDF généré (version simplifiée)")
	default:
		s.notify(ctx, notify.LevelSuccess, "PDF généré avec succès !")
	}
	return result, nil
}

// History lists past exports.
func (s *Session) History(ctx context.Context, filter export.ProgressFilter) ([]export.ExportRecord, error) {
	if s.cfg.Exporter == nil {
		return nil, nil
	}
	return s.cfg.Exporter.History(ctx, filter)
}

// Import replaces the record with an imported document. On error the current
// record is left untouched.
func (s *Session) Import(ctx context.Context, data []byte) (cv.Record, error) {
	if s.cfg.Store == nil {
		return cv.Record{}, cv.NewError(cv.KindNotImpl, "import not configured", nil)
	}
	record, err := s.cfg.Store.ImportJSON(data)
	if err != nil {
		s.notify(ctx, notify.LevelError, "Erreur d'import: "+errorMessage(err))
		return cv.Record{}, err
	}
	out := s.Replace(ctx, record)
	s.notify(ctx, notify.LevelSuccess, "CV importé avec succès")
	return out, nil
}

// SaveSnapshot stores the current record in the document store. An empty name uses
// the person's name.
func (s *Session) SaveSnapshot(ctx context.Context, name string) (persistence.Snapshot, error) {
	if s.cfg.Store == nil {
		return persistence.Snapshot{}, cv.NewError(cv.KindNotImpl, "snapshots not configured", nil)
	}
	record := s.Record()
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSpace(record.Personal.FullName)
	}
	if name == "" {
		name = UnnamedSnapshot
	}
	snap, err := s.cfg.Store.SaveSnapshot(ctx, name, record, 0)
	if err != nil {
		s.logger.Errorf("session %s: snapshot not saved: %v", s.ID, err)
		s.notify(ctx, notify.LevelError, "Erreur lors de la sauvegarde")
		return persistence.Snapshot{}, err
	}
	s.notify(ctx, notify.LevelSuccess, "CV sauvegardé avec succès")
	return snap, nil
}

// Snapshots lists stored snapshots.
func (s *Session) Snapshots(ctx context.Context) ([]persistence.SnapshotInfo, error) {
	if s.cfg.Store == nil {
		return nil, nil
	}
	return s.cfg.Store.Snapshots(ctx)
}

// Snapshot returns one stored snapshot without loading it.
func (s *Session) Snapshot(ctx context.Context, id int64) (persistence.Snapshot, error) {
	if s.cfg.Store == nil {
		return persistence.Snapshot{}, cv.NewError(cv.KindNotImpl, "snapshots not configured", nil)
	}
	return s.cfg.Store.Snapshot(ctx, id)
}

// LoadSnapshot makes a stored snapshot the current record.
func (s *Session) LoadSnapshot(ctx context.Context, id int64) (cv.Record, error) {
	snap, err := s.Snapshot(ctx, id)
	if err != nil {
		return cv.Record{}, err
	}
	out := s.Replace(ctx, snap.Record)
	s.notify(ctx, notify.LevelInfo, "CV chargé: "+snap.Name)
	return out, nil
}

// DeleteSnapshot removes a stored snapshot.
func (s *Session) DeleteSnapshot(ctx context.Context, id int64) error {
	if s.cfg.Store == nil {
		return nil
	}
	return s.cfg.Store.DeleteSnapshot(ctx, id)
}

// LoadSample replaces the record with the example CV.
func (s *Session) LoadSample(ctx context.Context) cv.Record {
	out := s.Replace(ctx, cv.SampleRecord())
	s.notify(ctx, notify.LevelSuccess, "Données d'exemple chargées")
	return out
}

// Reset clears the form. The template choice is kept.
func (s *Session) Reset(ctx context.Context) cv.Record {
	s.mu.Lock()
	fresh := cv.NewRecord()
	fresh.Template = s.record.Template
	s.reset(fresh)
	s.changed(ctx)
	out := cv.Clone(s.record)
	s.mu.Unlock()
	s.notify(ctx, notify.LevelInfo, "Formulaire réinitialisé")
	return out
}

func isPDF(format export.Format) bool {
	return format == "" || format == export.FormatPDF
}

func errorMessage(err error) string {
	var cvErr *cv.Error
	if errors.As(err, &cvErr) && cvErr.Msg != "" {
		return cvErr.Msg
	}
	return err.Error()
}
