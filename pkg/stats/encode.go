package stats

import (
	"sort"
	"strconv"

	"github.com/sjwhitworth/golearn/base"
)

// OrdinalEncoder assigns consecutive integer codes to the categories of one
// column. Codes follow ascending category order. The encoder is backed by a
// golearn CategoricalAttribute, which numbers values in registration order.
type OrdinalEncoder struct {
	attr *base.CategoricalAttribute
}

// FitOrdinal learns the distinct values of a text column, sorted lexically.
func FitOrdinal(name string, values []string) *OrdinalEncoder {
	uniq := make(map[string]struct{}, len(values))
	cats := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := uniq[v]; ok {
			continue
		}
		uniq[v] = struct{}{}
		cats = append(cats, v)
	}
	sort.Strings(cats)
	return newOrdinalEncoder(name, cats)
}

// FitOrdinalFloat learns the distinct values of a numeric column, sorted
// numerically rather than by their text form.
func FitOrdinalFloat(name string, values []float64) *OrdinalEncoder {
	uniq := make(map[float64]struct{}, len(values))
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if _, ok := uniq[v]; ok {
			continue
		}
		uniq[v] = struct{}{}
		nums = append(nums, v)
	}
	sort.Float64s(nums)
	cats := make([]string, len(nums))
	for i, v := range nums {
		cats[i] = FloatKey(v)
	}
	return newOrdinalEncoder(name, cats)
}

func newOrdinalEncoder(name string, cats []string) *OrdinalEncoder {
	attr := new(base.CategoricalAttribute)
	attr.SetName(name)
	for _, c := range cats {
		attr.GetSysValFromString(c)
	}
	return &OrdinalEncoder{attr: attr}
}

// Code returns the ordinal of a fitted category. Values not seen during fit
// are registered after the fitted ones.
func (e *OrdinalEncoder) Code(v string) int {
	return int(base.UnpackBytesToU64(e.attr.GetSysValFromString(v)))
}

// CodeFloat is Code for numeric columns fitted with FitOrdinalFloat.
func (e *OrdinalEncoder) CodeFloat(v float64) int {
	return e.Code(FloatKey(v))
}

// Categories returns the fitted categories in code order.
func (e *OrdinalEncoder) Categories() []string {
	return e.attr.GetValues()
}

// FloatKey is the category text of a numeric value.
func FloatKey(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
