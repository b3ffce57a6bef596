package discretize

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wdm0006/anonymizer/pkg/frame"
	tr "github.com/wdm0006/anonymizer/pkg/transform"
)

func makeFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "age", Type: frame.KindInt},
		{Name: "ratio", Type: frame.KindFloat},
	}})
	require.NoError(t, err)
	ages := []int64{25, 40, 22, 23}
	ratios := []float64{0.13, 0.77, 1.01, 0.375}
	for i := range ages {
		f.AppendNullRow()
		require.NoError(t, f.SetCell(i, "age", ages[i]))
		require.NoError(t, f.SetCell(i, "ratio", ratios[i]))
	}
	return f
}

func TestRoundIntegers(t *testing.T) {
	tf, err := NewRound([]string{"age", "5"})
	require.NoError(t, err)
	out, err := tf.Apply(context.Background(), makeFrame(t))
	require.NoError(t, err)

	col, _ := out.ColumnByName("age")
	ic, ok := col.(*frame.IntColumn)
	require.True(t, ok, "integral multiple keeps an int column")
	for i, w := range []int64{25, 40, 20, 25} {
		v, _ := ic.Get(i)
		assert.Equal(t, w, v)
	}
	assert.Equal(t, "feature-round age 5", tf.Record().String())
}

func TestRoundFractionalMultiple(t *testing.T) {
	tf, err := NewRound([]string{"ratio", "0.25"})
	require.NoError(t, err)
	out, err := tf.Apply(context.Background(), makeFrame(t))
	require.NoError(t, err)

	col, _ := out.ColumnByName("ratio")
	fc := col.(*frame.FloatColumn)
	for i := 0; i < fc.Len(); i++ {
		v, _ := fc.Get(i)
		q := v / 0.25
		assert.InDelta(t, math.Round(q), q, 1e-9, "value %v is not a multiple of 0.25", v)
	}
	// 0.375 / 0.25 = 1.5 ties to 2
	v, _ := fc.Get(3)
	assert.Equal(t, 0.5, v)
}

func TestNewRoundErrors(t *testing.T) {
	_, err := NewRound([]string{"5"})
	require.ErrorIs(t, err, tr.ErrTooFewArgs)

	_, err = NewRound([]string{"age", "five"})
	require.ErrorIs(t, err, tr.ErrInvalidParameter)

	_, err = NewRound([]string{"age", "0"})
	require.ErrorIs(t, err, tr.ErrInvalidParameter)
}

func TestRoundBeyondInt64FallsBackToFloat(t *testing.T) {
	f, err := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{{Name: "n", Type: frame.KindInt}}})
	require.NoError(t, err)
	f.AppendNullRow()
	require.NoError(t, f.SetCell(0, "n", int64(6e18)))

	tf, err := NewRound([]string{"n", "1e19"})
	require.NoError(t, err)
	out, err := tf.Apply(context.Background(), f)
	require.NoError(t, err)

	col, _ := out.ColumnByName("n")
	fc, ok := col.(*frame.FloatColumn)
	require.True(t, ok, "n is %T", col)
	v, _ := fc.Get(0)
	assert.Equal(t, 1e19, v)
}
