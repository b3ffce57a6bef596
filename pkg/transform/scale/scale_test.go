package scale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wdm0006/anonymizer/pkg/frame"
)

func makeFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "age", Type: frame.KindInt},
		{Name: "score", Type: frame.KindFloat},
		{Name: "dept", Type: frame.KindString},
	}})
	require.NoError(t, err)
	ages := []int64{20, 30, 40, 60}
	scores := []float64{-1, 0.25, 3, 7}
	for i := range ages {
		f.AppendNullRow()
		require.NoError(t, f.SetCell(i, "age", ages[i]))
		require.NoError(t, f.SetCell(i, "score", scores[i]))
		require.NoError(t, f.SetCell(i, "dept", "eng"))
	}
	f.AppendNullRow()
	return f
}

func TestMinMax(t *testing.T) {
	f := makeFrame(t)
	tf := &MinMax{Columns: []string{"age"}}
	out, err := tf.Apply(context.Background(), f)
	require.NoError(t, err)

	col, _ := out.ColumnByName("age")
	fc, ok := col.(*frame.FloatColumn)
	require.True(t, ok, "scaled column should be float")
	want := []float64{0, 0.25, 0.5, 1}
	for i, w := range want {
		v, ok := fc.Get(i)
		require.True(t, ok)
		assert.InDelta(t, w, v, 1e-12)
	}
	assert.True(t, fc.IsNull(4))
	assert.Equal(t, "feature-min-max-scale age", tf.Record().String())
}

func TestMinMaxRejectsText(t *testing.T) {
	f := makeFrame(t)
	_, err := (&MinMax{Columns: []string{"dept"}}).Apply(context.Background(), f)
	require.ErrorIs(t, err, frame.ErrNotNumeric)
}

func TestMinMaxMissingColumn(t *testing.T) {
	f := makeFrame(t)
	_, err := (&MinMax{Columns: []string{"age", "height"}}).Apply(context.Background(), f)
	require.ErrorIs(t, err, frame.ErrColumnNotFound)
}

func TestBinarize(t *testing.T) {
	f := makeFrame(t)
	tf := &Binarize{Columns: []string{"age", "score"}}
	out, err := tf.Apply(context.Background(), f)
	require.NoError(t, err)

	for _, name := range []string{"age", "score"} {
		col, _ := out.ColumnByName(name)
		ic, ok := col.(*frame.IntColumn)
		require.True(t, ok, "binarized column should be int")
		seen := map[int64]bool{}
		for i := 0; i < ic.Len(); i++ {
			if v, ok := ic.Get(i); ok {
				seen[v] = true
			}
		}
		assert.Equal(t, map[int64]bool{0: true, 1: true}, seen, name)
		assert.True(t, ic.IsNull(4))
	}

	col, _ := out.ColumnByName("age")
	ic := col.(*frame.IntColumn)
	// age scales to 0, .25, .5, 1: only the last is above the threshold
	for i, w := range []int64{0, 0, 0, 1} {
		v, _ := ic.Get(i)
		assert.Equal(t, w, v)
	}
	assert.Equal(t, "feature-binarize age score", tf.Record().String())
}
