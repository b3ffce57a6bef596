package columns

import (
	"context"
	"fmt"

	"github.com/wdm0006/anonymizer/pkg/frame"
	tr "github.com/wdm0006/anonymizer/pkg/transform"
)

// Remove drops columns from the frame. It leaves no log record.
type Remove struct {
	Columns []string
}

func (t *Remove) Name() string { return tr.StageRemove }

func (t *Remove) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	cols, err := frame.Resolve(f, t.Columns)
	if err != nil {
		return f, fmt.Errorf("%s: %w", tr.StageRemove, err)
	}
	if err := f.Drop(cols...); err != nil {
		return f, fmt.Errorf("%s: %w", tr.StageRemove, err)
	}
	return f, nil
}
