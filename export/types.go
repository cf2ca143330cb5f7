package export

import (
	"context"
	"io"
	"time"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/preview"
)

// Format is an export output format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	// FormatSQLite is a database file with one table per section.
	FormatSQLite Format = "sqlite"
)

// StrategyName identifies a PDF generation strategy.
type StrategyName string

const (
	// StrategyVector draws the document with PDF primitives.
	StrategyVector StrategyName = "vector"
	// StrategyRaster captures the preview element as a bitmap.
	StrategyRaster StrategyName = "raster"
)

// Quality controls the rasterization scale.
type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

// Scale returns the device scale factor for q.
func (q Quality) Scale() float64 {
	switch q {
	case QualityHigh:
		return 3
	case QualityLow:
		return 1
	default:
		return 2
	}
}

// ExportState is the lifecycle state of an export record.
type ExportState string

const (
	StateRunning   ExportState = "running"
	StateCompleted ExportState = "completed"
	StateFailed    ExportState = "failed"
)

// Request describes one export.
type Request struct {
	Format   Format
	Strategy StrategyName
	Quality  Quality
}

// Metadata is embedded in the generated document.
type Metadata struct {
	Title    string
	Subject  string
	Author   string
	Keywords string
	Creator  string
}

// Job is the input handed to a PDF strategy. Record is a private copy.
type Job struct {
	Record   cv.Record
	Preview  *preview.Element
	Quality  Quality
	Metadata Metadata
	Now      time.Time
}

// RenderStats reports what a renderer wrote.
type RenderStats struct {
	Pages int
	Bytes int64
}

// PDFStrategy produces a PDF for a job.
type PDFStrategy interface {
	Name() StrategyName
	Generate(ctx context.Context, job Job, w io.Writer) (RenderStats, error)
}

// Renderer produces a non PDF format from a record.
type Renderer interface {
	Render(ctx context.Context, job Job, w io.Writer) (RenderStats, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, job Job, w io.Writer) (RenderStats, error)

func (fn RendererFunc) Render(ctx context.Context, job Job, w io.Writer) (RenderStats, error) {
	return fn(ctx, job, w)
}

// Result is a finished export.
type Result struct {
	ID          string        `json:"id"`
	Format      Format        `json:"format"`
	Strategy    StrategyName  `json:"strategy,omitempty"`
	FellBack    bool          `json:"fell_back,omitempty"`
	Filename    string        `json:"filename"`
	ContentType string        `json:"content_type"`
	Pages       int           `json:"pages,omitempty"`
	Bytes       int64         `json:"bytes"`
	Data        []byte        `json:"-"`
	CreatedAt   time.Time     `json:"created_at"`
	Duration    time.Duration `json:"duration"`
}

// ExportRecord is the history entry of one export attempt.
type ExportRecord struct {
	ID          string
	Format      Format
	Strategy    StrategyName
	Template    cv.TemplateID
	Filename    string
	State       ExportState
	FellBack    bool
	Pages       int
	Bytes       int64
	Error       string
	CreatedAt   time.Time
	CompletedAt time.Time
}

// Outcome is reported when an export completes.
type Outcome struct {
	Strategy StrategyName
	FellBack bool
	Pages    int
	Bytes    int64
}

// ProgressFilter narrows tracker listings.
type ProgressFilter struct {
	State ExportState
	Limit int
}

// ProgressTracker keeps the export history.
type ProgressTracker interface {
	Start(ctx context.Context, record ExportRecord) (string, error)
	Complete(ctx context.Context, id string, outcome Outcome) error
	Fail(ctx context.Context, id string, err error) error
	Status(ctx context.Context, id string) (ExportRecord, error)
	List(ctx context.Context, filter ProgressFilter) ([]ExportRecord, error)
}

// ArtifactMeta describes a stored artifact.
type ArtifactMeta struct {
	ContentType string    `json:"content_type"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// ArtifactRef points at a stored artifact.
type ArtifactRef struct {
	Key  string
	Meta ArtifactMeta
}

// ArtifactStore persists export artifacts, the local equivalent of a download.
type ArtifactStore interface {
	Put(ctx context.Context, key string, r io.Reader, meta ArtifactMeta) (ArtifactRef, error)
	Open(ctx context.Context, key string) (io.ReadCloser, ArtifactMeta, error)
	Delete(ctx context.Context, key string) error
}

// Logger is the logging surface used by the pipeline.
type Logger = cv.Logger
