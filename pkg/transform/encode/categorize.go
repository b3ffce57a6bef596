package encode

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wdm0006/anonymizer/pkg/frame"
	"github.com/wdm0006/anonymizer/pkg/stats"
	tr "github.com/wdm0006/anonymizer/pkg/transform"
	"github.com/wdm0006/anonymizer/pkg/translog"
)

// CategoryPrefix marks an encoded value as categorical in the output.
const CategoryPrefix = "C"

// Categorize replaces each value by "C<ordinal>", where ordinals are assigned
// per column in ascending category order (numeric order for numeric columns).
// The fitted encoders are discarded, so the mapping cannot be reversed from the
// output alone.
type Categorize struct {
	Columns []string
}

func (t *Categorize) Name() string { return tr.StageCategorize }

func (t *Categorize) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	cols, err := frame.Resolve(f, t.Columns)
	if err != nil {
		return f, fmt.Errorf("%s: %w", tr.StageCategorize, err)
	}
	// fit every column before rewriting any of them
	encoded := make([]frame.Column, len(cols))
	for i, name := range cols {
		c, _ := f.ColumnByName(name)
		encoded[i] = encodeColumn(c)
	}
	for _, c := range encoded {
		if err := f.Replace(c); err != nil {
			return f, fmt.Errorf("%s: %w", tr.StageCategorize, err)
		}
	}
	return f, nil
}

func (t *Categorize) Record() translog.Record {
	return translog.Record{Stage: tr.StageCategorize, Args: translog.Cols(t.Columns)}
}

func encodeColumn(c frame.Column) frame.Column {
	out := frame.NewStringColumn(c.Name(), c.Len())
	if vals, valid, err := frame.Float64s(c); err == nil {
		dense := make([]float64, 0, len(vals))
		for i, v := range vals {
			if valid[i] {
				dense = append(dense, v)
			}
		}
		enc := stats.FitOrdinalFloat(c.Name(), dense)
		for i, v := range vals {
			if valid[i] {
				out.Set(i, label(enc.CodeFloat(v)))
			} else {
				out.SetNull(i)
			}
		}
		return out
	}

	texts := make([]string, c.Len())
	dense := make([]string, 0, c.Len())
	for i := range texts {
		if s, ok := frame.FormatCell(c, i); ok {
			texts[i] = s
			dense = append(dense, s)
		}
	}
	enc := stats.FitOrdinal(c.Name(), dense)
	for i, s := range texts {
		if c.IsNull(i) {
			out.SetNull(i)
			continue
		}
		out.Set(i, label(enc.Code(s)))
	}
	return out
}

func label(code int) string {
	return CategoryPrefix + strconv.Itoa(code)
}
