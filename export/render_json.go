package export

import (
	"context"
	"io"
	"time"

	"github.com/goliatone/go-cvbuilder/cv"
)

// Encoder serializes a record into the portable JSON envelope.
type Encoder interface {
	Encode(record cv.Record, exportedAt time.Time) ([]byte, error)
}

// JSONRenderer writes the record through an Encoder.
type JSONRenderer struct {
	Encoder Encoder
}

// Render encodes the job record.
func (r JSONRenderer) Render(ctx context.Context, job Job, w io.Writer) (RenderStats, error) {
	if err := ctx.Err(); err != nil {
		return RenderStats{}, err
	}
	if r.Encoder == nil {
		return RenderStats{}, cv.NewError(cv.KindNotImpl, "json export requires an encoder", nil)
	}
	payload, err := r.Encoder.Encode(job.Record, job.Now)
	if err != nil {
		return RenderStats{}, err
	}
	n, err := w.Write(payload)
	if err != nil {
		return RenderStats{}, err
	}
	return RenderStats{Bytes: int64(n)}, nil
}
