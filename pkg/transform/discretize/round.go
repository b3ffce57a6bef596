package discretize

import (
	"context"
	"fmt"

	"github.com/wdm0006/anonymizer/pkg/frame"
	"github.com/wdm0006/anonymizer/pkg/stats"
	tr "github.com/wdm0006/anonymizer/pkg/transform"
	"github.com/wdm0006/anonymizer/pkg/translog"
)

// Round snaps numeric columns to the nearest multiple of Multiple, with ties
// going to the even multiple.
type Round struct {
	Columns  []string
	Multiple float64

	rawMultiple string
}

// NewRound parses "<col>... <multiple>" stage arguments. A zero multiple is
// rejected.
func NewRound(args []string) (*Round, error) {
	cols, params, err := tr.SplitParams(tr.StageRound, args, tr.MinRoundArgs-1)
	if err != nil {
		return nil, err
	}
	m, err := tr.ParseFloat(tr.StageRound, "multiple", params[0])
	if err != nil {
		return nil, err
	}
	if m == 0 {
		return nil, fmt.Errorf("%s: %w: multiple must be non-zero", tr.StageRound, tr.ErrInvalidParameter)
	}
	return &Round{Columns: cols, Multiple: m, rawMultiple: params[0]}, nil
}

func (t *Round) Name() string { return tr.StageRound }

func (t *Round) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	err := tr.MapNumeric(tr.StageRound, f, t.Columns, func(c frame.Column, vals []float64, valid []bool) (frame.Column, error) {
		out := stats.RoundToMultiple(vals, t.Multiple)
		if c.Kind() == frame.KindInt && stats.IsIntegral(t.Multiple) && frame.FitsInt(out, valid) {
			return frame.IntColumnFrom(c.Name(), out, valid), nil
		}
		return frame.FloatColumnFrom(c.Name(), out, valid), nil
	})
	return f, err
}

func (t *Round) Record() translog.Record {
	m := t.rawMultiple
	if m == "" {
		m = stats.FloatKey(t.Multiple)
	}
	return translog.Record{Stage: tr.StageRound, Args: append(translog.Cols(t.Columns), translog.Lit(m))}
}
