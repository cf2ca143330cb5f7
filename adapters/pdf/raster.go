package exportpdf

import (
	"bytes"
	"context"
	"image"
	_ "image/png"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/preview"
)

// RasterStrategy captures the live preview element as a bitmap and embeds it at full
// page width. It depends on a browser; when it fails the service falls back to the
// vector strategy.
type RasterStrategy struct {
	Capturer Capturer
	// Styles override the element inline style for the capture.
	Styles   preview.Styles
	PageSize string
	Logger   export.Logger
}

// NewRasterStrategy returns a strategy capturing through capturer.
func NewRasterStrategy(capturer Capturer, logger export.Logger) *RasterStrategy {
	return &RasterStrategy{Capturer: capturer, Styles: preview.CaptureStyles(), PageSize: "A4", Logger: logger}
}

func (s *RasterStrategy) Name() export.StrategyName { return export.StrategyRaster }

// Generate captures job.Preview and writes the PDF to w. The element style is
// restored before Generate returns.
func (s *RasterStrategy) Generate(ctx context.Context, job export.Job, w io.Writer) (export.RenderStats, error) {
	if s.Capturer == nil {
		return export.RenderStats{}, cv.NewError(cv.KindNotImpl, "raster capture unavailable", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	styles := s.Styles
	if styles == nil {
		styles = preview.CaptureStyles()
	}

	var shot []byte
	err := preview.WithStyles(job.Preview, styles, func(snap preview.Snapshot) error {
		if snap.Empty() {
			return cv.NewError(cv.KindNotFound, "preview element not found", nil)
		}
		page, removed, err := StripBranding(snap.Document(job.Metadata.Title))
		if err != nil {
			return err
		}
		cv.LoggerOr(s.Logger).Debugf("raster pdf: removed %d branding nodes", removed)

		shot, err = s.Capturer.Capture(ctx, CaptureRequest{
			HTML:     []byte(page),
			Selector: "#" + preview.ElementID,
			Scale:    job.Quality.Scale(),
			PageSize: s.PageSize,
		})
		return err
	})
	if err != nil {
		return export.RenderStats{}, err
	}
	return EmbedImage(shot, job, w)
}

// EmbedImage writes a PDF showing png at full A4 width. A bitmap taller than one page
// continues on the next pages, each showing the following slice.
func EmbedImage(png []byte, job export.Job, w io.Writer) (export.RenderStats, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return export.RenderStats{}, cv.NewError(cv.KindInternal, "captured image unreadable", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return export.RenderStats{}, cv.NewError(cv.KindInternal, "captured image is empty", nil)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	applyMetadata(pdf, job.Metadata)
	if !job.Now.IsZero() {
		pdf.SetCreationDate(job.Now)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("cv", opts, bytes.NewReader(png))

	imageHeight := float64(cfg.Height) * PageWidth / float64(cfg.Width)
	pages := int(math.Ceil(imageHeight/PageHeight - 0.001))
	if pages < 1 {
		pages = 1
	}
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.ImageOptions("cv", 0, -float64(i)*PageHeight, PageWidth, imageHeight, false, opts, 0, "")
	}
	if err := pdf.Error(); err != nil {
		return export.RenderStats{}, cv.NewError(cv.KindInternal, "raster pdf render failed", err)
	}

	cw := &countingWriter{w: w}
	if err := pdf.Output(cw); err != nil {
		return export.RenderStats{Bytes: cw.count}, cv.NewError(cv.KindIO, "raster pdf write failed", err)
	}
	return export.RenderStats{Pages: pages, Bytes: cw.count}, nil
}
