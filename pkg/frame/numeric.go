package frame

import (
	"fmt"
	"math"
	"strconv"
)

// Float64s copies a numeric column into a dense slice. valid[i] is false for
// null cells, whose value is left at zero.
func Float64s(c Column) (vals []float64, valid []bool, err error) {
	n := c.Len()
	vals = make([]float64, n)
	valid = make([]bool, n)
	switch col := c.(type) {
	case *FloatColumn:
		for i := 0; i < n; i++ {
			vals[i], valid[i] = col.Get(i)
		}
	case *IntColumn:
		for i := 0; i < n; i++ {
			v, ok := col.Get(i)
			vals[i], valid[i] = float64(v), ok
		}
	default:
		return nil, nil, fmt.Errorf("%w: %s is %s", ErrNotNumeric, c.Name(), c.Kind())
	}
	return vals, valid, nil
}

// FloatColumnFrom builds a float column from values and a validity mask.
func FloatColumnFrom(name string, vals []float64, valid []bool) *FloatColumn {
	c := NewFloatColumn(name, len(vals))
	for i, v := range vals {
		if valid[i] {
			c.Set(i, v)
		} else {
			c.SetNull(i)
		}
	}
	return c
}

// FitsInt reports whether every valid value is integral and inside the int64
// range, so IntColumnFrom can hold it exactly.
func FitsInt(vals []float64, valid []bool) bool {
	for i, v := range vals {
		if !valid[i] {
			continue
		}
		if v != math.Trunc(v) || v < -(1<<63) || v >= 1<<63 {
			return false
		}
	}
	return true
}

// IntColumnFrom builds an int column from float values, truncating toward zero.
// Callers check FitsInt first.
func IntColumnFrom(name string, vals []float64, valid []bool) *IntColumn {
	c := NewIntColumn(name, len(vals))
	for i, v := range vals {
		if valid[i] {
			c.Set(i, int64(v))
		} else {
			c.SetNull(i)
		}
	}
	return c
}

// FormatCell renders one cell the way it is written to text outputs.
// Floats use the shortest plain decimal form, never an exponent.
func FormatCell(c Column, i int) (string, bool) {
	switch col := c.(type) {
	case *FloatColumn:
		if v, ok := col.Get(i); ok {
			return strconv.FormatFloat(v, 'f', -1, 64), true
		}
	case *IntColumn:
		if v, ok := col.Get(i); ok {
			return strconv.FormatInt(v, 10), true
		}
	case *BoolColumn:
		if v, ok := col.Get(i); ok {
			return strconv.FormatBool(v), true
		}
	case *StringColumn:
		return col.Get(i)
	}
	return "", false
}
