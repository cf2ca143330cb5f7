package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/preview"
)

// DefaultRasterTimeout bounds a rasterization attempt before falling back.
const DefaultRasterTimeout = 20 * time.Second

// ServiceConfig supplies dependencies for Service.
type ServiceConfig struct {
	Strategies      *StrategyRegistry
	Renderers       *RendererRegistry
	DefaultStrategy StrategyName
	DefaultQuality  Quality
	RasterTimeout   time.Duration
	FilenamePattern string
	Application     string
	Tracker         ProgressTracker
	Store           ArtifactStore
	Logger          Logger
	Now             func() time.Time
	IDGenerator     func() string
}

// Service runs exports. At most one export runs at a time.
type Service struct {
	cfg    ServiceConfig
	logger Logger
	guard  *flight
}

// NewService creates a Service with the provided configuration.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Strategies == nil {
		cfg.Strategies = NewStrategyRegistry()
	}
	if cfg.Renderers == nil {
		cfg.Renderers = NewRendererRegistry()
	}
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = StrategyRaster
	}
	if cfg.DefaultQuality == "" {
		cfg.DefaultQuality = QualityHigh
	}
	if cfg.RasterTimeout <= 0 {
		cfg.RasterTimeout = DefaultRasterTimeout
	}
	if cfg.Application == "" {
		cfg.Application = DefaultApplication
	}
	if cfg.Tracker == nil {
		cfg.Tracker = NewMemoryTracker()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = uuid.NewString
	}
	return &Service{cfg: cfg, logger: cv.LoggerOr(cfg.Logger), guard: &flight{}}
}

// InProgress reports whether an export is running.
func (s *Service) InProgress() bool {
	return s.guard.busy()
}

// ExportPDF exports record as PDF.
func (s *Service) ExportPDF(ctx context.Context, record cv.Record, el *preview.Element, strategy StrategyName, quality Quality) (Result, error) {
	return s.Export(ctx, record, el, Request{Format: FormatPDF, Strategy: strategy, Quality: quality})
}

// Export produces an artifact for record. The record is copied before use and is
// never modified. A call made while another export runs fails with KindBusy.
func (s *Service) Export(ctx context.Context, record cv.Record, el *preview.Element, req Request) (Result, error) {
	if s == nil {
		return Result{}, cv.NewError(cv.KindInternal, "export service is nil", nil)
	}
	if !s.guard.acquire() {
		return Result{}, cv.NewError(cv.KindBusy, "export already in progress", nil)
	}
	defer s.guard.release()

	if req.Format == "" {
		req.Format = FormatPDF
	}
	if req.Quality == "" {
		req.Quality = s.cfg.DefaultQuality
	}

	start := s.cfg.Now()
	job := Job{
		Record:   cv.Normalize(record),
		Preview:  el,
		Quality:  req.Quality,
		Metadata: BuildMetadata(record, s.cfg.Application),
		Now:      start,
	}

	filename, err := Filename(s.cfg.FilenamePattern, job.Record.Personal.FullName, string(job.Record.Template), req.Format, start)
	if err != nil {
		return Result{}, cv.NewError(cv.KindValidation, "invalid filename pattern", err)
	}

	id, err := s.cfg.Tracker.Start(ctx, ExportRecord{
		ID:        s.cfg.IDGenerator(),
		Format:    req.Format,
		Strategy:  req.Strategy,
		Template:  job.Record.Template,
		Filename:  filename,
		State:     StateRunning,
		CreatedAt: start,
	})
	if err != nil {
		s.logger.Warnf("export history unavailable: %v", err)
	}

	data, outcome, err := s.produce(ctx, job, req)
	if err != nil {
		s.fail(ctx, id, err)
		return Result{}, err
	}

	if s.cfg.Store != nil {
		meta := ArtifactMeta{
			ContentType: contentTypeForFormat(req.Format),
			Filename:    filename,
			Size:        int64(len(data)),
			CreatedAt:   start,
		}
		if _, err := s.cfg.Store.Put(ctx, filename, bytes.NewReader(data), meta); err != nil {
			err = cv.NewError(cv.KindIO, "save export", err)
			s.fail(ctx, id, err)
			return Result{}, err
		}
	}

	if id != "" {
		if err := s.cfg.Tracker.Complete(ctx, id, outcome); err != nil {
			s.logger.Warnf("export %s not marked complete: %v", id, err)
		}
	}

	s.logger.Infof("export %s written: %s (%s, %d bytes)", id, filename, outcome.Strategy, len(data))
	return Result{
		ID:          id,
		Format:      req.Format,
		Strategy:    outcome.Strategy,
		FellBack:    outcome.FellBack,
		Filename:    filename,
		ContentType: contentTypeForFormat(req.Format),
		Pages:       outcome.Pages,
		Bytes:       int64(len(data)),
		Data:        data,
		CreatedAt:   start,
		Duration:    s.cfg.Now().Sub(start),
	}, nil
}

// History lists past exports, newest first.
func (s *Service) History(ctx context.Context, filter ProgressFilter) ([]ExportRecord, error) {
	return s.cfg.Tracker.List(ctx, filter)
}

func (s *Service) produce(ctx context.Context, job Job, req Request) ([]byte, Outcome, error) {
	if req.Format == FormatPDF {
		return s.generatePDF(ctx, job, req.Strategy)
	}

	renderer, ok := s.cfg.Renderers.Resolve(req.Format)
	if !ok {
		return nil, Outcome{}, cv.NewError(cv.KindNotImpl, fmt.Sprintf("format %q not supported", req.Format), nil)
	}
	var buf bytes.Buffer
	stats, err := renderer.Render(ctx, job, &buf)
	if err != nil {
		return nil, Outcome{}, err
	}
	return buf.Bytes(), Outcome{Pages: stats.Pages, Bytes: int64(buf.Len())}, nil
}

// generatePDF runs the requested strategy. A failed raster attempt, including one cut
// short by RasterTimeout, is retried with the vector strategy.
func (s *Service) generatePDF(ctx context.Context, job Job, requested StrategyName) ([]byte, Outcome, error) {
	if requested == "" {
		requested = s.cfg.DefaultStrategy
	}
	order := []StrategyName{requested}
	if requested == StrategyRaster {
		order = append(order, StrategyVector)
	}

	var errs []error
	for i, name := range order {
		strategy, ok := s.cfg.Strategies.Resolve(name)
		if !ok {
			errs = append(errs, cv.NewError(cv.KindNotImpl, fmt.Sprintf("pdf strategy %q not available", name), nil))
			continue
		}

		stepCtx, cancel := ctx, context.CancelFunc(func() {})
		if name == StrategyRaster {
			stepCtx, cancel = context.WithTimeout(ctx, s.cfg.RasterTimeout)
		}
		var buf bytes.Buffer
		stats, err := strategy.Generate(stepCtx, job, &buf)
		cancel()
		if err == nil {
			return buf.Bytes(), Outcome{Strategy: name, FellBack: i > 0, Pages: stats.Pages, Bytes: int64(buf.Len())}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, Outcome{}, ctxErr
		}

		errs = append(errs, fmt.Errorf("%s: %w", name, err))
		if i+1 < len(order) {
			s.logger.Warnf("pdf %s strategy failed, falling back to %s: %v", name, order[i+1], err)
		}
	}
	return nil, Outcome{}, cv.NewError(cv.KindInternal, "pdf export failed", errors.Join(errs...))
}

func (s *Service) fail(ctx context.Context, id string, err error) {
	s.logger.Errorf("export %s failed: %v", id, err)
	if id == "" {
		return
	}
	if trackErr := s.cfg.Tracker.Fail(ctx, id, err); trackErr != nil {
		s.logger.Warnf("export %s not marked failed: %v", id, trackErr)
	}
}
