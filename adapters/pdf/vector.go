package exportpdf

import (
	"context"
	"io"
	"strings"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/document"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/layout"
)

// Arranger places a record for its template. The template registry satisfies it,
// which keeps the vector output in step with the on-screen preview.
type Arranger interface {
	Arrange(record cv.Record) (layout.Arrangement, error)
}

// DrawFunc lays an arrangement out on a canvas.
type DrawFunc func(ctx context.Context, c *Canvas, arr layout.Arrangement) error

// VectorStrategy draws the CV with PDF primitives. It needs no browser and is the
// fallback of the raster strategy.
type VectorStrategy struct {
	Arranger Arranger
	// Seed is used when no Arranger is set.
	Seed    int64
	Layouts map[cv.TemplateID]DrawFunc
	Logger  export.Logger
}

// NewVectorStrategy returns a strategy with the built in layout routines.
func NewVectorStrategy(arranger Arranger, logger export.Logger) *VectorStrategy {
	return &VectorStrategy{Arranger: arranger, Layouts: BuiltinLayouts(), Logger: logger}
}

// BuiltinLayouts returns one routine per built in template.
func BuiltinLayouts() map[cv.TemplateID]DrawFunc {
	return map[cv.TemplateID]DrawFunc{
		cv.TemplateModern:       drawModern,
		cv.TemplateProfessional: drawProfessional,
		cv.TemplateCreative:     drawCreative,
		cv.TemplateExecutive:    drawExecutive,
	}
}

func (s *VectorStrategy) Name() export.StrategyName { return export.StrategyVector }

// Generate draws job.Record and writes the PDF to w.
func (s *VectorStrategy) Generate(ctx context.Context, job export.Job, w io.Writer) (export.RenderStats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	arr, err := s.arrange(job.Record)
	if err != nil {
		return export.RenderStats{}, err
	}
	for _, failure := range arr.Failures {
		cv.LoggerOr(s.Logger).Warnf("vector pdf: section %s skipped: %v", failure.Section, failure.Err)
	}

	layouts := s.Layouts
	if layouts == nil {
		layouts = BuiltinLayouts()
	}
	draw, ok := layouts[arr.Template]
	if !ok {
		draw = drawModern
	}

	c := newCanvas(job.Metadata)
	if !job.Now.IsZero() {
		c.pdf.SetCreationDate(job.Now)
	}
	if err := draw(ctx, c, arr); err != nil {
		return export.RenderStats{}, err
	}
	if err := c.Err(); err != nil {
		return export.RenderStats{}, cv.NewError(cv.KindInternal, "vector pdf render failed", err)
	}

	cw := &countingWriter{w: w}
	if err := c.pdf.Output(cw); err != nil {
		return export.RenderStats{Bytes: cw.count}, cv.NewError(cv.KindIO, "vector pdf write failed", err)
	}
	return export.RenderStats{Pages: c.Pages(), Bytes: cw.count}, nil
}

func (s *VectorStrategy) arrange(record cv.Record) (layout.Arrangement, error) {
	if s.Arranger != nil {
		return s.Arranger.Arrange(record)
	}
	doc := document.Build(record, document.Options{Seed: s.Seed, Logger: s.Logger})
	return layout.For(cv.NormalizeTemplate(record.Template)).Arrange(doc), nil
}

func alive(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return cv.NewError(cv.KindFromError(err), "vector pdf render interrupted", err)
	}
	return nil
}

// palette is the color and type scheme of one layout region.
type palette struct {
	headingFont string
	heading     RGB
	underline   RGB
	title       RGB
	text        RGB
	muted       RGB
	tagFG       RGB
	tagBG       RGB
	barFill     RGB
	barTrack    RGB
	dotOn       RGB
	dotOff      RGB
}

func drawBlocks(ctx context.Context, col *Column, blocks []layout.Block, p palette) error {
	for _, block := range blocks {
		if err := alive(ctx); err != nil {
			return err
		}
		drawBlock(col, block, p)
	}
	return nil
}

func drawBlock(col *Column, block layout.Block, p palette) {
	section := block.Section
	col.Heading(section.Title, p.headingFont, 13, p.heading, p.underline)

	if strings.TrimSpace(section.Text) != "" {
		col.Ensure(keepParagraph)
		col.Paragraph(section.Text, "Helvetica", "", 10, p.text, 0)
	}

	for _, entry := range section.Entries {
		col.Ensure(keepEntry)
		col.Paragraph(entry.Title, "Helvetica", "B", 11, p.title, 0)
		col.Paragraph(joinNonEmpty(" | ", entry.Subtitle, entry.Period), "Helvetica", "I", 9.5, p.muted, 0)
		if len(entry.Lines) > 0 {
			col.Gap(1)
			col.Bullets(entry.Lines, 9.5, p.text)
		}
		col.Gap(3)
	}

	if len(section.Items) > 0 {
		drawItems(col, block.Style, section.Items, p)
	}
	col.Gap(4)
}

func drawItems(col *Column, style layout.Style, items []document.Item, p palette) {
	switch style {
	case layout.StyleBars:
		for _, item := range items {
			col.Bar(item.Label, item.LevelLabel, item.Percent, 9.5, p.text, p.barTrack, p.barFill)
		}
	case layout.StyleDots:
		for _, item := range items {
			col.Dots(item.Label, item.Dots, 9.5, p.text, p.dotOn, p.dotOff)
		}
	case layout.StyleLabels:
		for _, item := range items {
			col.Paragraph(joinNonEmpty(" - ", item.Label, item.LevelLabel), "Helvetica", "", 10, p.text, 0)
		}
	case layout.StyleLinks:
		for _, item := range items {
			col.Paragraph(joinNonEmpty(": ", item.Label, item.Href), "Helvetica", "", 9, p.text, 0)
		}
	default:
		labels := make([]string, 0, len(items))
		for _, item := range items {
			labels = append(labels, item.Label)
		}
		col.Tags(labels, 9, p.tagFG, p.tagBG)
	}
}

func drawFooter(col *Column, footer layout.Footer, p palette) {
	if len(footer.Links) == 0 && footer.Signature == "" {
		return
	}
	col.Gap(2)
	col.Rule(p.underline, 0.3)
	for _, link := range footer.Links {
		col.Paragraph(joinNonEmpty(": ", link.Label, link.Href), "Helvetica", "", 8.5, p.muted, 0)
	}
	if footer.Signature != "" {
		col.Gap(3)
		col.Line(footer.Signature, p.headingFont, "I", 16, p.heading)
	}
}

func contactLine(header document.Header) string {
	values := make([]string, 0, len(header.Contacts))
	for _, contact := range header.Contacts {
		values = append(values, contact.Value)
	}
	return strings.Join(values, "  |  ")
}

func joinNonEmpty(sep string, values ...string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
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
