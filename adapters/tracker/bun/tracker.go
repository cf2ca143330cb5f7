package trackerbun

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
)

// Tracker stores the export history in a Bun-backed database.
type Tracker struct {
	DB          *bun.DB
	Now         func() time.Time
	IDGenerator func() string
}

// NewTracker creates a Bun-backed tracker.
func NewTracker(db *bun.DB) *Tracker {
	return &Tracker{DB: db, Now: time.Now, IDGenerator: defaultIDGenerator()}
}

// Migrate creates the history table when missing.
func (t *Tracker) Migrate(ctx context.Context) error {
	if t == nil || t.DB == nil {
		return cv.NewError(cv.KindNotImpl, "tracker database not configured", nil)
	}
	if _, err := t.DB.NewCreateTable().Model((*recordModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return cv.NewError(cv.KindIO, "create export history table", err)
	}
	return nil
}

// Start creates a new export record.
func (t *Tracker) Start(ctx context.Context, record export.ExportRecord) (string, error) {
	if t == nil || t.DB == nil {
		return "", cv.NewError(cv.KindNotImpl, "tracker database not configured", nil)
	}
	if record.ID == "" {
		record.ID = t.nextID()
	}
	if record.State == "" {
		record.State = export.StateRunning
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = t.now()
	}

	model := modelFromRecord(record)
	if _, err := t.DB.NewInsert().Model(&model).Exec(ctx); err != nil {
		return "", cv.NewError(cv.KindIO, "insert export record", err)
	}
	return record.ID, nil
}

// Complete marks the export as completed with its outcome.
func (t *Tracker) Complete(ctx context.Context, id string, outcome export.Outcome) error {
	if t == nil || t.DB == nil {
		return cv.NewError(cv.KindNotImpl, "tracker database not configured", nil)
	}
	if id == "" {
		return cv.NewError(cv.KindValidation, "export ID is required", nil)
	}

	query := t.DB.NewUpdate().Model((*recordModel)(nil)).
		Set("state = ?", export.StateCompleted).
		Set("fell_back = ?", outcome.FellBack).
		Set("pages = ?", outcome.Pages).
		Set("bytes = ?", outcome.Bytes).
		Set("completed_at = COALESCE(completed_at, ?)", t.now()).
		Where("id = ?", id)
	if outcome.Strategy != "" {
		query = query.Set("strategy = ?", outcome.Strategy)
	}
	return t.exec(ctx, query, id)
}

// Fail marks the export as failed and keeps the error text.
func (t *Tracker) Fail(ctx context.Context, id string, failure error) error {
	if t == nil || t.DB == nil {
		return cv.NewError(cv.KindNotImpl, "tracker database not configured", nil)
	}
	if id == "" {
		return cv.NewError(cv.KindValidation, "export ID is required", nil)
	}
	message := ""
	if failure != nil {
		message = failure.Error()
	}

	query := t.DB.NewUpdate().Model((*recordModel)(nil)).
		Set("state = ?", export.StateFailed).
		Set("error = ?", message).
		Set("completed_at = COALESCE(completed_at, ?)", t.now()).
		Where("id = ?", id)
	return t.exec(ctx, query, id)
}

func (t *Tracker) exec(ctx context.Context, query *bun.UpdateQuery, id string) error {
	res, err := query.Exec(ctx)
	if err != nil {
		return cv.NewError(cv.KindIO, "update export record", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return cv.NewError(cv.KindNotFound, fmt.Sprintf("export %q not found", id), nil)
	}
	return nil
}

// Status returns a record by ID.
func (t *Tracker) Status(ctx context.Context, id string) (export.ExportRecord, error) {
	if t == nil || t.DB == nil {
		return export.ExportRecord{}, cv.NewError(cv.KindNotImpl, "tracker database not configured", nil)
	}
	if id == "" {
		return export.ExportRecord{}, cv.NewError(cv.KindValidation, "export ID is required", nil)
	}

	model := new(recordModel)
	err := t.DB.NewSelect().Model(model).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return export.ExportRecord{}, cv.NewError(cv.KindNotFound, fmt.Sprintf("export %q not found", id), nil)
		}
		return export.ExportRecord{}, cv.NewError(cv.KindIO, "select export record", err)
	}
	return model.toRecord(), nil
}

// List returns records matching a filter, newest first.
func (t *Tracker) List(ctx context.Context, filter export.ProgressFilter) ([]export.ExportRecord, error) {
	if t == nil || t.DB == nil {
		return nil, cv.NewError(cv.KindNotImpl, "tracker database not configured", nil)
	}

	models := make([]recordModel, 0)
	query := t.DB.NewSelect().Model(&models)
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, cv.NewError(cv.KindIO, "list export records", err)
	}

	records := make([]export.ExportRecord, 0, len(models))
	for _, model := range models {
		records = append(records, model.toRecord())
	}
	return records, nil
}

// Prune deletes records created before cutoff and reports how many went.
func (t *Tracker) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	if t == nil || t.DB == nil {
		return 0, cv.NewError(cv.KindNotImpl, "tracker database not configured", nil)
	}
	res, err := t.DB.NewDelete().Model((*recordModel)(nil)).Where("created_at < ?", cutoff).Exec(ctx)
	if err != nil {
		return 0, cv.NewError(cv.KindIO, "prune export records", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

type recordModel struct {
	bun.BaseModel `bun:"table:cv_exports,alias:cv_exports"`

	ID          string    `bun:",pk"`
	Format      string    `bun:",notnull"`
	Strategy    string    `bun:"strategy"`
	Template    string    `bun:"template"`
	Filename    string    `bun:"filename"`
	State       string    `bun:",notnull"`
	FellBack    bool      `bun:"fell_back"`
	Pages       int       `bun:"pages"`
	Bytes       int64     `bun:"bytes"`
	Error       string    `bun:"error"`
	CreatedAt   time.Time `bun:"created_at"`
	CompletedAt time.Time `bun:"completed_at,nullzero"`
}

func modelFromRecord(record export.ExportRecord) recordModel {
	return recordModel{
		ID:          record.ID,
		Format:      string(record.Format),
		Strategy:    string(record.Strategy),
		Template:    string(record.Template),
		Filename:    record.Filename,
		State:       string(record.State),
		FellBack:    record.FellBack,
		Pages:       record.Pages,
		Bytes:       record.Bytes,
		Error:       record.Error,
		CreatedAt:   record.CreatedAt,
		CompletedAt: record.CompletedAt,
	}
}

func (m recordModel) toRecord() export.ExportRecord {
	return export.ExportRecord{
		ID:          m.ID,
		Format:      export.Format(m.Format),
		Strategy:    export.StrategyName(m.Strategy),
		Template:    cv.TemplateID(m.Template),
		Filename:    m.Filename,
		State:       export.ExportState(m.State),
		FellBack:    m.FellBack,
		Pages:       m.Pages,
		Bytes:       m.Bytes,
		Error:       m.Error,
		CreatedAt:   m.CreatedAt,
		CompletedAt: m.CompletedAt,
	}
}

func (t *Tracker) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *Tracker) nextID() string {
	if t.IDGenerator != nil {
		return t.IDGenerator()
	}
	return defaultIDGenerator()()
}

func defaultIDGenerator() func() string {
	var counter uint64
	return func() string {
		id := atomic.AddUint64(&counter, 1)
		return fmt.Sprintf("exp-%d", id)
	}
}
