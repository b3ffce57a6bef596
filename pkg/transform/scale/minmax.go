package scale

import (
	"context"

	"github.com/wdm0006/anonymizer/pkg/frame"
	"github.com/wdm0006/anonymizer/pkg/stats"
	tr "github.com/wdm0006/anonymizer/pkg/transform"
	"github.com/wdm0006/anonymizer/pkg/translog"
)

// MinMax rescales each column to [0,1] using that column's own min and max.
// Scaled columns become float columns.
type MinMax struct {
	Columns []string
}

func (t *MinMax) Name() string { return tr.StageMinMaxScale }

func (t *MinMax) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	err := tr.MapNumeric(tr.StageMinMaxScale, f, t.Columns, func(c frame.Column, vals []float64, valid []bool) (frame.Column, error) {
		return frame.FloatColumnFrom(c.Name(), stats.MinMaxScale(vals, valid), valid), nil
	})
	return f, err
}

func (t *MinMax) Record() translog.Record {
	return translog.Record{Stage: tr.StageMinMaxScale, Args: translog.Cols(t.Columns)}
}
