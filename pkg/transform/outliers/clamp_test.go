package outliers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wdm0006/anonymizer/pkg/frame"
	tr "github.com/wdm0006/anonymizer/pkg/transform"
)

func makeFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "score", Type: frame.KindFloat},
		{Name: "age", Type: frame.KindInt},
	}})
	require.NoError(t, err)
	scores := []float64{-0.5, 0, 0.4, 1, 1.7}
	ages := []int64{-3, 0, 12, 99, 150}
	for i := range scores {
		f.AppendNullRow()
		require.NoError(t, f.SetCell(i, "score", scores[i]))
		require.NoError(t, f.SetCell(i, "age", ages[i]))
	}
	f.AppendNullRow()
	return f
}

func TestClamp(t *testing.T) {
	tf, err := NewClamp([]string{"score", "0", "1"})
	require.NoError(t, err)
	out, err := tf.Apply(context.Background(), makeFrame(t))
	require.NoError(t, err)

	col, _ := out.ColumnByName("score")
	fc := col.(*frame.FloatColumn)
	for i, w := range []float64{0, 0, 0.4, 1, 1} {
		v, ok := fc.Get(i)
		require.True(t, ok)
		assert.Equal(t, w, v)
		assert.True(t, v >= 0 && v <= 1)
	}
	assert.True(t, fc.IsNull(5))
	assert.Equal(t, "feature-clamp score 0 1", tf.Record().String())
}

func TestClampKeepsIntegers(t *testing.T) {
	tf, err := NewClamp([]string{"age", "0", "120"})
	require.NoError(t, err)
	out, err := tf.Apply(context.Background(), makeFrame(t))
	require.NoError(t, err)

	col, _ := out.ColumnByName("age")
	ic, ok := col.(*frame.IntColumn)
	require.True(t, ok)
	for i, w := range []int64{0, 0, 12, 99, 120} {
		v, _ := ic.Get(i)
		assert.Equal(t, w, v)
	}
}

func TestClampFractionalBoundsOnIntegers(t *testing.T) {
	tf, err := NewClamp([]string{"age", "0.5", "99.5"})
	require.NoError(t, err)
	out, err := tf.Apply(context.Background(), makeFrame(t))
	require.NoError(t, err)

	col, _ := out.ColumnByName("age")
	fc, ok := col.(*frame.FloatColumn)
	require.True(t, ok)
	v, _ := fc.Get(0)
	assert.Equal(t, 0.5, v)
	v, _ = fc.Get(4)
	assert.Equal(t, 99.5, v)
	assert.Equal(t, "feature-clamp age 0.5 99.5", tf.Record().String())
}

func TestNewClampErrors(t *testing.T) {
	_, err := NewClamp([]string{"score", "1"})
	require.ErrorIs(t, err, tr.ErrTooFewArgs)

	_, err = NewClamp([]string{"score", "low", "1"})
	require.ErrorIs(t, err, tr.ErrInvalidParameter)

	_, err = NewClamp([]string{"score", "0", "high"})
	require.ErrorIs(t, err, tr.ErrInvalidParameter)
}

func TestClampBeyondInt64FallsBackToFloat(t *testing.T) {
	tf, err := NewClamp([]string{"age", "1e19", "2e19"})
	require.NoError(t, err)
	out, err := tf.Apply(context.Background(), makeFrame(t))
	require.NoError(t, err)

	col, _ := out.ColumnByName("age")
	fc, ok := col.(*frame.FloatColumn)
	require.True(t, ok, "age is %T", col)
	for i := 0; i < 5; i++ {
		v, ok := fc.Get(i)
		require.True(t, ok)
		assert.True(t, v >= 1e19 && v <= 2e19, "row %d = %v", i, v)
	}
	assert.True(t, fc.IsNull(5))
}
