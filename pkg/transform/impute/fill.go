package impute

import (
	"context"
	"fmt"

	"github.com/wdm0006/anonymizer/pkg/frame"
	tr "github.com/wdm0006/anonymizer/pkg/transform"
	"github.com/wdm0006/anonymizer/pkg/translog"
)

// Fill overwrites every row of the named columns, nulls included, with a
// single literal. The literal is written as text exactly as given.
type Fill struct {
	Columns []string
	Value   string
}

// NewFill splits "<col>... <value>" stage arguments.
func NewFill(args []string) (*Fill, error) {
	cols, params, err := tr.SplitParams(tr.StageFill, args, tr.MinFillArgs-1)
	if err != nil {
		return nil, err
	}
	return &Fill{Columns: cols, Value: params[0]}, nil
}

func (t *Fill) Name() string { return tr.StageFill }

func (t *Fill) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	cols, err := frame.Resolve(f, t.Columns)
	if err != nil {
		return f, fmt.Errorf("%s: %w", tr.StageFill, err)
	}
	for _, name := range cols {
		c := frame.NewStringColumn(name, f.Rows())
		for i := 0; i < c.Len(); i++ {
			c.Set(i, t.Value)
		}
		if err := f.Replace(c); err != nil {
			return f, fmt.Errorf("%s: %w", tr.StageFill, err)
		}
	}
	return f, nil
}

func (t *Fill) Record() translog.Record {
	return translog.Record{Stage: tr.StageFill, Args: append(translog.Cols(t.Columns), translog.Lit(t.Value))}
}
