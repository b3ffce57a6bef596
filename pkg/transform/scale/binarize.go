package scale

import (
	"context"

	"github.com/wdm0006/anonymizer/pkg/frame"
	"github.com/wdm0006/anonymizer/pkg/stats"
	tr "github.com/wdm0006/anonymizer/pkg/transform"
	"github.com/wdm0006/anonymizer/pkg/translog"
)

// Binarize min-max scales each column, then maps values above 0.5 to 1 and
// the rest to 0. Results are int columns; nulls stay null.
type Binarize struct {
	Columns []string
}

func (t *Binarize) Name() string { return tr.StageBinarize }

func (t *Binarize) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	err := tr.MapNumeric(tr.StageBinarize, f, t.Columns, func(c frame.Column, vals []float64, valid []bool) (frame.Column, error) {
		return frame.IntColumnFrom(c.Name(), stats.Binarize(vals, valid), valid), nil
	})
	return f, err
}

func (t *Binarize) Record() translog.Record {
	return translog.Record{Stage: tr.StageBinarize, Args: translog.Cols(t.Columns)}
}
