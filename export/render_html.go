package export

import (
	"context"
	"io"

	cvtemplate "github.com/goliatone/go-cvbuilder/adapters/template"
	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/preview"
)

// Previewer renders a record to markup.
type Previewer interface {
	Render(ctx context.Context, record cv.Record) (cvtemplate.Markup, error)
}

// HTMLRenderer writes a standalone HTML page of the record's preview.
type HTMLRenderer struct {
	Templates Previewer
}

// Render renders the job record with its template and wraps it in a full page.
func (r HTMLRenderer) Render(ctx context.Context, job Job, w io.Writer) (RenderStats, error) {
	if r.Templates == nil {
		return RenderStats{}, cv.NewError(cv.KindNotImpl, "html export requires templates", nil)
	}
	markup, err := r.Templates.Render(ctx, job.Record)
	if err != nil {
		return RenderStats{}, err
	}

	snap := preview.Snapshot{
		Template:   markup.Template,
		Markup:     markup.HTML,
		Stylesheet: markup.Stylesheet,
		Styles:     preview.CaptureStyles(),
	}
	cw := &countingWriter{w: w}
	if _, err := io.WriteString(cw, snap.Document(job.Metadata.Title)); err != nil {
		return RenderStats{}, err
	}
	return RenderStats{Pages: 1, Bytes: cw.count}, nil
}
