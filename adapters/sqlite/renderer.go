package exportsqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
)

// Renderer writes the record into a SQLite database file, one table per section.
type Renderer struct {
	// TablePrefix is prepended to every table name.
	TablePrefix string
}

type table struct {
	name    string
	columns []column
	rows    [][]any
}

type column struct {
	name    string
	sqlType string
}

// Render builds the database in a temp file and streams it to w.
func (r Renderer) Render(ctx context.Context, job export.Job, w io.Writer) (export.RenderStats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return export.RenderStats{}, err
	}

	tempFile, err := os.CreateTemp("", "cvbuilder-*.sqlite")
	if err != nil {
		return export.RenderStats{}, cv.NewError(cv.KindIO, "sqlite temp file create failed", err)
	}
	path := tempFile.Name()
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(path)
		return export.RenderStats{}, cv.NewError(cv.KindIO, "sqlite temp file close failed", err)
	}
	defer func() {
		_ = os.Remove(path)
	}()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return export.RenderStats{}, cv.NewError(cv.KindInternal, "sqlite open failed", err)
	}

	tables := recordTables(job)
	prefix := sanitizeIdentifier(r.TablePrefix, "")
	if err := writeTables(ctx, db, prefix, tables); err != nil {
		_ = db.Close()
		return export.RenderStats{}, err
	}
	if err := db.Close(); err != nil {
		return export.RenderStats{}, cv.NewError(cv.KindInternal, "sqlite close failed", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return export.RenderStats{}, cv.NewError(cv.KindIO, "sqlite temp file open failed", err)
	}
	defer func() {
		_ = file.Close()
	}()

	cw := &countingWriter{w: w}
	if _, err := io.Copy(cw, file); err != nil {
		return export.RenderStats{Bytes: cw.count}, cv.NewError(cv.KindIO, "sqlite copy failed", err)
	}
	return export.RenderStats{Pages: len(tables), Bytes: cw.count}, nil
}

func writeTables(ctx context.Context, db *sql.DB, prefix string, tables []table) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return cv.NewError(cv.KindInternal, "sqlite begin transaction failed", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range tables {
		name := t.name
		if prefix != "" {
			name = prefix + "_" + name
		}
		if err := writeTable(ctx, tx, name, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return cv.NewError(cv.KindInternal, "sqlite commit failed", err)
	}
	return nil
}

func writeTable(ctx context.Context, tx *sql.Tx, name string, t table) error {
	defs := make([]string, len(t.columns))
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		defs[i] = fmt.Sprintf("%s %s", quoteIdentifier(col.name), col.sqlType)
		names[i] = quoteIdentifier(col.name)
	}
	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdentifier(name), strings.Join(defs, ", "))
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdentifier(name), strings.Join(names, ", "), strings.Join(placeholders(len(t.columns)), ", "))

	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return cv.NewError(cv.KindInternal, fmt.Sprintf("sqlite create table %s failed", name), err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return cv.NewError(cv.KindInternal, "sqlite prepare insert failed", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, row := range t.rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(row) != len(t.columns) {
			return cv.NewError(cv.KindInternal, fmt.Sprintf("row width does not match table %s", name), nil)
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return cv.NewError(cv.KindInternal, "sqlite insert failed", err)
		}
	}
	return nil
}

func recordTables(job export.Job) []table {
	r := job.Record
	p := r.Personal
	text := func(names ...string) []column {
		cols := make([]column, len(names))
		for i, name := range names {
			cols[i] = column{name: name, sqlType: "TEXT"}
		}
		return cols
	}

	meta := table{
		name:    "meta",
		columns: text("key", "value"),
		rows: [][]any{
			{"template", string(r.Template)},
			{"exported_at", job.Now.UTC().Format(time.RFC3339)},
			{"creator", job.Metadata.Creator},
		},
	}

	personal := table{
		name:    "personal",
		columns: text("full_name", "profession", "email", "phone", "location", "summary", "linkedin", "github", "portfolio", "photo"),
		rows: [][]any{{
			p.FullName, p.Profession, p.Email, p.Phone, p.Location, p.Summary,
			p.LinkedIn, p.GitHub, p.Portfolio, p.Photo,
		}},
	}

	idColumn := column{name: "id", sqlType: "INTEGER"}
	experiences := table{name: "experiences", columns: append([]column{idColumn}, text("title", "company", "period", "description")...)}
	for _, exp := range r.Experiences {
		experiences.rows = append(experiences.rows, []any{exp.ID, exp.Title, exp.Company, exp.Period, exp.Description})
	}

	educations := table{name: "educations", columns: append([]column{idColumn}, text("degree", "school", "year", "description")...)}
	for _, edu := range r.Educations {
		educations.rows = append(educations.rows, []any{edu.ID, edu.Degree, edu.School, edu.Year, edu.Description})
	}

	languages := table{
		name: "languages",
		columns: []column{
			idColumn,
			{name: "name", sqlType: "TEXT"},
			{name: "level", sqlType: "INTEGER"},
			{name: "label", sqlType: "TEXT"},
		},
	}
	for _, lang := range r.Languages {
		level := cv.NormalizeLevel(lang.Level)
		languages.rows = append(languages.rows, []any{lang.ID, lang.Name, level, cv.LevelLabel(level)})
	}

	return []table{
		meta,
		personal,
		experiences,
		educations,
		listTable("skills", r.Skills),
		languages,
		listTable("interests", r.Interests),
	}
}

func listTable(name string, values []string) table {
	t := table{
		name: name,
		columns: []column{
			{name: "position", sqlType: "INTEGER"},
			{name: "name", sqlType: "TEXT"},
		},
	}
	for i, value := range values {
		t.rows = append(t.rows, []any{i + 1, value})
	}
	return t
}

func placeholders(count int) []string {
	out := make([]string, count)
	for i := range out {
		out[i] = "?"
	}
	return out
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sanitizeIdentifier(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	sanitized := strings.Trim(b.String(), "_")
	if sanitized == "" {
		return fallback
	}
	if sanitized[0] >= '0' && sanitized[0] <= '9' {
		sanitized = "t_" + sanitized
	}
	return sanitized
}

type countingWriter struct {
	w     io.Writer
	count int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.count += int64(n)
	return n, err
}
