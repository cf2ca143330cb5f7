package storebun

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/persistence"
)

// Open opens (or creates) a SQLite database through the sqliteshim driver. Use
// "file::memory:" for a throwaway database.
func Open(dsn string) (*bun.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, cv.NewError(cv.KindValidation, "database path is required", nil)
	}
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, cv.NewError(cv.KindIO, "open sqlite", err)
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Store keeps CV snapshots and settings in cv_documents and cv_settings.
type Store struct {
	DB  *bun.DB
	Now func() time.Time
}

// NewStore creates a Bun-backed document store.
func NewStore(db *bun.DB) *Store {
	return &Store{DB: db, Now: time.Now}
}

// Migrate creates the tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, model := range []any{(*documentModel)(nil), (*settingModel)(nil)} {
		if _, err := s.DB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return cv.NewError(cv.KindIO, "create document tables", err)
		}
	}
	_, err := s.DB.NewCreateIndex().Model((*documentModel)(nil)).
		Index("cv_documents_updated_at_idx").
		IfNotExists().
		Column("updated_at").
		Exec(ctx)
	if err != nil {
		return cv.NewError(cv.KindIO, "create document index", err)
	}
	return nil
}

// Save inserts a snapshot, or updates the snapshot id when id is positive.
func (s *Store) Save(ctx context.Context, name string, record cv.Record, id int64) (persistence.Snapshot, error) {
	if err := s.ready(); err != nil {
		return persistence.Snapshot{}, err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return persistence.Snapshot{}, cv.NewError(cv.KindInternal, "encode snapshot", err)
	}
	now := s.now()

	if id > 0 {
		res, err := s.DB.NewUpdate().Model((*documentModel)(nil)).
			Set("name = ?", name).
			Set("template = ?", string(record.Template)).
			Set("data = ?", string(data)).
			Set("updated_at = ?", now).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return persistence.Snapshot{}, cv.NewError(cv.KindIO, "update snapshot", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return persistence.Snapshot{}, cv.NewError(cv.KindNotFound, fmt.Sprintf("snapshot %d not found", id), nil)
		}
		return s.Get(ctx, id)
	}

	model := documentModel{
		Name:      name,
		Template:  string(record.Template),
		Data:      string(data),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.DB.NewInsert().Model(&model).Returning("id").Exec(ctx); err != nil {
		return persistence.Snapshot{}, cv.NewError(cv.KindIO, "insert snapshot", err)
	}
	return model.toSnapshot()
}

// Latest returns the most recently updated snapshot.
func (s *Store) Latest(ctx context.Context) (persistence.Snapshot, bool, error) {
	if err := s.ready(); err != nil {
		return persistence.Snapshot{}, false, err
	}
	model := new(documentModel)
	err := s.DB.NewSelect().Model(model).Order("updated_at DESC", "id DESC").Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Snapshot{}, false, nil
		}
		return persistence.Snapshot{}, false, cv.NewError(cv.KindIO, "select latest snapshot", err)
	}
	snap, err := model.toSnapshot()
	return snap, err == nil, err
}

// Get returns one snapshot.
func (s *Store) Get(ctx context.Context, id int64) (persistence.Snapshot, error) {
	if err := s.ready(); err != nil {
		return persistence.Snapshot{}, err
	}
	model := new(documentModel)
	err := s.DB.NewSelect().Model(model).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Snapshot{}, cv.NewError(cv.KindNotFound, fmt.Sprintf("snapshot %d not found", id), nil)
		}
		return persistence.Snapshot{}, cv.NewError(cv.KindIO, "select snapshot", err)
	}
	return model.toSnapshot()
}

// List returns every snapshot without its data, most recently updated first.
func (s *Store) List(ctx context.Context) ([]persistence.SnapshotInfo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	models := make([]documentModel, 0)
	err := s.DB.NewSelect().Model(&models).
		Column("id", "name", "template", "created_at", "updated_at").
		Order("updated_at DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, cv.NewError(cv.KindIO, "list snapshots", err)
	}
	out := make([]persistence.SnapshotInfo, 0, len(models))
	for _, m := range models {
		out = append(out, persistence.SnapshotInfo{
			ID:        m.ID,
			Name:      m.Name,
			Template:  cv.TemplateID(m.Template),
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		})
	}
	return out, nil
}

// Delete removes a snapshot.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.DB.NewDelete().Model((*documentModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return cv.NewError(cv.KindIO, "delete snapshot", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return cv.NewError(cv.KindNotFound, fmt.Sprintf("snapshot %d not found", id), nil)
	}
	return nil
}

// SetSetting upserts a setting.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return cv.NewError(cv.KindValidation, "setting key is required", nil)
	}
	model := settingModel{Key: key, Value: value}
	_, err := s.DB.NewInsert().Model(&model).
		On(`CONFLICT ("key") DO UPDATE`).
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return cv.NewError(cv.KindIO, "save setting", err)
	}
	return nil
}

// GetSetting returns a setting value.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	if err := s.ready(); err != nil {
		return "", false, err
	}
	model := new(settingModel)
	err := s.DB.NewSelect().Model(model).Where("? = ?", bun.Ident("key"), key).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, cv.NewError(cv.KindIO, "select setting", err)
	}
	return model.Value, true, nil
}

// Clear removes every snapshot and setting.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, model := range []any{(*documentModel)(nil), (*settingModel)(nil)} {
		if _, err := s.DB.NewDelete().Model(model).Where("1 = 1").Exec(ctx); err != nil {
			return cv.NewError(cv.KindIO, "clear document store", err)
		}
	}
	return nil
}

func (s *Store) ready() error {
	if s == nil || s.DB == nil {
		return cv.NewError(cv.KindNotImpl, "document database not configured", nil)
	}
	return nil
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type documentModel struct {
	bun.BaseModel `bun:"table:cv_documents,alias:cv_documents"`

	ID        int64     `bun:",pk,autoincrement"`
	Name      string    `bun:",notnull"`
	Template  string    `bun:"template"`
	Data      string    `bun:",notnull"`
	CreatedAt time.Time `bun:"created_at"`
	UpdatedAt time.Time `bun:"updated_at"`
}

func (m documentModel) toSnapshot() (persistence.Snapshot, error) {
	record, err := persistence.Migrate([]byte(m.Data))
	if err != nil {
		return persistence.Snapshot{}, err
	}
	return persistence.Snapshot{
		ID:        m.ID,
		Name:      m.Name,
		Template:  cv.TemplateID(m.Template),
		Record:    record,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

type settingModel struct {
	bun.BaseModel `bun:"table:cv_settings,alias:cv_settings"`

	Key   string `bun:",pk"`
	Value string `bun:"value"`
}
