package command

import (
	"strings"
	"time"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/persistence"
)

// ExportCV exports the current record.
type ExportCV struct {
	Format   export.Format
	Strategy export.StrategyName
	Quality  export.Quality
	Result   *export.Result
}

func (ExportCV) Type() string { return "cv:export" }

func (msg ExportCV) Validate() error {
	switch msg.Format {
	case "", export.FormatPDF, export.FormatHTML, export.FormatJSON, export.FormatXLSX, export.FormatSQLite:
	default:
		return errors.New("unsupported export format", errors.CategoryValidation).
			WithTextCode("FORMAT_UNSUPPORTED")
	}
	switch msg.Strategy {
	case "", export.StrategyRaster, export.StrategyVector:
	default:
		return errors.New("unknown pdf strategy", errors.CategoryValidation).
			WithTextCode("STRATEGY_UNKNOWN")
	}
	switch msg.Quality {
	case "", export.QualityHigh, export.QualityMedium, export.QualityLow:
	default:
		return errors.New("unknown quality", errors.CategoryValidation).
			WithTextCode("QUALITY_UNKNOWN")
	}
	return nil
}

// ImportCV replaces the record with an imported JSON document.
type ImportCV struct {
	Data   []byte
	Result *cv.Record
}

func (ImportCV) Type() string { return "cv:import" }

func (msg ImportCV) Validate() error {
	if len(msg.Data) == 0 {
		return errors.New("import payload is required", errors.CategoryValidation).
			WithTextCode("PAYLOAD_REQUIRED")
	}
	return nil
}

// SelectTemplate switches the visual template.
type SelectTemplate struct {
	Template cv.TemplateID
	Result   *cv.TemplateID
}

func (SelectTemplate) Type() string { return "cv:select_template" }

func (msg SelectTemplate) Validate() error {
	if strings.TrimSpace(string(msg.Template)) == "" {
		return errors.New("template id is required", errors.CategoryValidation).
			WithTextCode("TEMPLATE_REQUIRED")
	}
	return nil
}

// SaveSnapshot stores the current record under a name.
type SaveSnapshot struct {
	Name   string
	Result *persistence.Snapshot
}

func (SaveSnapshot) Type() string { return "cv:save_snapshot" }

func (SaveSnapshot) Validate() error { return nil }

// LoadSnapshot makes a stored snapshot the current record.
type LoadSnapshot struct {
	ID     int64
	Result *cv.Record
}

func (LoadSnapshot) Type() string { return "cv:load_snapshot" }

func (msg LoadSnapshot) Validate() error {
	if msg.ID <= 0 {
		return errors.New("snapshot id is required", errors.CategoryValidation).
			WithTextCode("SNAPSHOT_ID_REQUIRED")
	}
	return nil
}

// DeleteSnapshot removes a stored snapshot.
type DeleteSnapshot struct {
	ID int64
}

func (DeleteSnapshot) Type() string { return "cv:delete_snapshot" }

func (msg DeleteSnapshot) Validate() error {
	if msg.ID <= 0 {
		return errors.New("snapshot id is required", errors.CategoryValidation).
			WithTextCode("SNAPSHOT_ID_REQUIRED")
	}
	return nil
}

// PruneHistory removes export history entries older than MaxAge.
type PruneHistory struct {
	MaxAge time.Duration
	Now    time.Time
	Result *int64
}

func (PruneHistory) Type() string { return "cv:prune_history" }

func (msg PruneHistory) Validate() error {
	if msg.MaxAge < 0 {
		return errors.New("max age must not be negative", errors.CategoryValidation).
			WithTextCode("MAX_AGE_INVALID")
	}
	return nil
}
