// Package transform defines the contract shared by every column stage and the
// helpers the stage packages build on.
package transform

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/wdm0006/anonymizer/pkg/frame"
	"github.com/wdm0006/anonymizer/pkg/translog"
)

// Stage names, as given on the command line and written to the log.
const (
	StageRemove      = "feature-remove"
	StageMinMaxScale = "feature-min-max-scale"
	StageBinarize    = "feature-binarize"
	StageCategorize  = "feature-categorize"
	StageFill        = "feature-fill"
	StageClamp       = "feature-clamp"
	StageRound       = "feature-round"
	StageAnonymize   = "feature-anonymize"
)

// Minimum argument counts of the parameterised stages. With fewer arguments
// the stage is skipped rather than rejected.
const (
	MinFillArgs  = 2
	MinClampArgs = 3
	MinRoundArgs = 2
)

var (
	ErrTooFewArgs       = errors.New("too few arguments")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Transform is a mutation applied to a Frame.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error)
}

// Recorder is implemented by transforms that leave an entry in the log.
type Recorder interface {
	Record() translog.Record
}

// SplitParams separates the leading column names from the n trailing
// parameters. At least one column is required.
func SplitParams(stage string, args []string, n int) (cols, params []string, err error) {
	if len(args) < n+1 {
		return nil, nil, fmt.Errorf("%s: %w: need %d, got %d", stage, ErrTooFewArgs, n+1, len(args))
	}
	k := len(args) - n
	return args[:k:k], args[k:], nil
}

// ParseFloat parses a numeric stage parameter.
func ParseFloat(stage, param, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %s %q is not a number", stage, ErrInvalidParameter, param, s)
	}
	return v, nil
}

// NumericFunc rewrites one numeric column. It receives the column's values and
// validity mask and returns the replacement column.
type NumericFunc func(c frame.Column, vals []float64, valid []bool) (frame.Column, error)

// MapNumeric resolves names against f and replaces each column with the result
// of fn. Non-numeric columns fail with frame.ErrNotNumeric.
func MapNumeric(stage string, f *frame.Frame, names []string, fn NumericFunc) error {
	cols, err := frame.Resolve(f, names)
	if err != nil {
		return fmt.Errorf("%s: %w", stage, err)
	}
	for _, name := range cols {
		c, _ := f.ColumnByName(name)
		vals, valid, err := frame.Float64s(c)
		if err != nil {
			return fmt.Errorf("%s: %w", stage, err)
		}
		out, err := fn(c, vals, valid)
		if err != nil {
			return fmt.Errorf("%s: %w", stage, err)
		}
		if err := f.Replace(out); err != nil {
			return fmt.Errorf("%s: %w", stage, err)
		}
	}
	return nil
}
