package query

import (
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-cvbuilder/export"
)

// Preview requests the rendered preview of the current record.
type Preview struct{}

func (Preview) Type() string { return "cv:preview" }

func (Preview) Validate() error { return nil }

// Stats requests the completeness summary of the current record.
type Stats struct{}

func (Stats) Type() string { return "cv:stats" }

func (Stats) Validate() error { return nil }

// ListSnapshots requests the stored snapshots.
type ListSnapshots struct{}

func (ListSnapshots) Type() string { return "cv:snapshots" }

func (ListSnapshots) Validate() error { return nil }

// ListTemplates requests the available templates.
type ListTemplates struct{}

func (ListTemplates) Type() string { return "cv:templates" }

func (ListTemplates) Validate() error { return nil }

// ExportHistory requests past exports.
type ExportHistory struct {
	Filter export.ProgressFilter
}

func (ExportHistory) Type() string { return "cv:export_history" }

func (msg ExportHistory) Validate() error {
	if msg.Filter.Limit < 0 {
		return errors.New("limit must not be negative", errors.CategoryValidation).
			WithTextCode("LIMIT_INVALID")
	}
	switch msg.Filter.State {
	case "", export.StateRunning, export.StateCompleted, export.StateFailed:
		return nil
	default:
		return errors.New("unknown export state", errors.CategoryValidation).
			WithTextCode("STATE_UNKNOWN")
	}
}
