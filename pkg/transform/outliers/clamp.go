package outliers

import (
	"context"

	"github.com/wdm0006/anonymizer/pkg/frame"
	"github.com/wdm0006/anonymizer/pkg/stats"
	tr "github.com/wdm0006/anonymizer/pkg/transform"
	"github.com/wdm0006/anonymizer/pkg/translog"
)

// Clamp limits numeric columns to [Min, Max]. The lower bound is applied
// first and the upper bound second, each on its own.
type Clamp struct {
	Columns []string
	Min     float64
	Max     float64

	// bounds as given, for the log
	rawMin, rawMax string
}

// NewClamp parses "<col>... <min> <max>" stage arguments.
func NewClamp(args []string) (*Clamp, error) {
	cols, params, err := tr.SplitParams(tr.StageClamp, args, tr.MinClampArgs-1)
	if err != nil {
		return nil, err
	}
	lo, err := tr.ParseFloat(tr.StageClamp, "minimum", params[0])
	if err != nil {
		return nil, err
	}
	hi, err := tr.ParseFloat(tr.StageClamp, "maximum", params[1])
	if err != nil {
		return nil, err
	}
	return &Clamp{Columns: cols, Min: lo, Max: hi, rawMin: params[0], rawMax: params[1]}, nil
}

func (t *Clamp) Name() string { return tr.StageClamp }

func (t *Clamp) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	err := tr.MapNumeric(tr.StageClamp, f, t.Columns, func(c frame.Column, vals []float64, valid []bool) (frame.Column, error) {
		out := stats.Clamp(vals, t.Min, t.Max)
		if c.Kind() == frame.KindInt && stats.IsIntegral(t.Min) && stats.IsIntegral(t.Max) && frame.FitsInt(out, valid) {
			return frame.IntColumnFrom(c.Name(), out, valid), nil
		}
		return frame.FloatColumnFrom(c.Name(), out, valid), nil
	})
	return f, err
}

func (t *Clamp) Record() translog.Record {
	lo, hi := t.rawMin, t.rawMax
	if lo == "" {
		lo = stats.FloatKey(t.Min)
	}
	if hi == "" {
		hi = stats.FloatKey(t.Max)
	}
	return translog.Record{Stage: tr.StageClamp, Args: append(translog.Cols(t.Columns), translog.Lit(lo), translog.Lit(hi))}
}
