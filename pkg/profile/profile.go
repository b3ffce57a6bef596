// Package profile summarizes the columns of a frame for a quick look at what
// a run produced.
package profile

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wdm0006/anonymizer/pkg/frame"
)

type NumStats struct {
	Count  int     `json:"count"`
	Nulls  int     `json:"nulls"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

type BoolStats struct {
	Count int `json:"count"`
	Nulls int `json:"nulls"`
	True  int `json:"true"`
	False int `json:"false"`
}

// Freq is one value and how often it occurs.
type Freq struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type StringStats struct {
	Count    int    `json:"count"`
	Nulls    int    `json:"nulls"`
	Distinct int    `json:"distinct"`
	Top      []Freq `json:"top,omitempty"`
}

type ColumnProfile struct {
	Name string       `json:"name"`
	Kind string       `json:"kind"`
	Num  *NumStats    `json:"num,omitempty"`
	Bool *BoolStats   `json:"bool,omitempty"`
	Str  *StringStats `json:"str,omitempty"`
}

type Profile struct {
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

// Summarize profiles every column of f. String columns keep their topK most
// frequent values; topK <= 0 keeps none.
func Summarize(f *frame.Frame, topK int) *Profile {
	p := &Profile{Rows: f.Rows()}
	for _, name := range f.Names() {
		col, _ := f.ColumnByName(name)
		cp := ColumnProfile{Name: name, Kind: col.Kind().String()}
		switch c := col.(type) {
		case *frame.FloatColumn, *frame.IntColumn:
			vals, valid, _ := frame.Float64s(c)
			cp.Num = numStats(vals, valid)
		case *frame.BoolColumn:
			bs := &BoolStats{}
			for i := 0; i < c.Len(); i++ {
				v, ok := c.Get(i)
				switch {
				case !ok:
					bs.Nulls++
				case v:
					bs.Count++
					bs.True++
				default:
					bs.Count++
					bs.False++
				}
			}
			cp.Bool = bs
		case *frame.StringColumn:
			cp.Str = stringStats(c, topK)
		}
		p.Columns = append(p.Columns, cp)
	}
	return p
}

func numStats(vals []float64, valid []bool) *NumStats {
	ns := &NumStats{}
	dense := make([]float64, 0, len(vals))
	for i, v := range vals {
		if valid[i] {
			dense = append(dense, v)
		} else {
			ns.Nulls++
		}
	}
	ns.Count = len(dense)
	if ns.Count == 0 {
		return ns
	}
	ns.Min = floats.Min(dense)
	ns.Max = floats.Max(dense)
	ns.Mean, ns.StdDev = stat.MeanStdDev(dense, nil)
	if ns.Count == 1 {
		ns.StdDev = 0
	}
	return ns
}

func stringStats(c *frame.StringColumn, topK int) *StringStats {
	ss := &StringStats{}
	freqs := map[string]int{}
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Get(i)
		if !ok {
			ss.Nulls++
			continue
		}
		ss.Count++
		freqs[v]++
	}
	ss.Distinct = len(freqs)
	if topK <= 0 {
		return ss
	}
	arr := make([]Freq, 0, len(freqs))
	for k, v := range freqs {
		arr = append(arr, Freq{Value: k, Count: v})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].Count != arr[j].Count {
			return arr[i].Count > arr[j].Count
		}
		return arr[i].Value < arr[j].Value
	})
	if topK < len(arr) {
		arr = arr[:topK]
	}
	ss.Top = arr
	return ss
}

// Text renders the profile as an indented human readable report.
func (p *Profile) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Profile Summary (%d rows)\n", p.Rows)
	for _, cp := range p.Columns {
		fmt.Fprintf(&b, "- %s (%s): ", cp.Name, cp.Kind)
		switch {
		case cp.Num != nil:
			n := cp.Num
			fmt.Fprintf(&b, "count=%d nulls=%d min=%.6g max=%.6g mean=%.6g stddev=%.6g\n", n.Count, n.Nulls, n.Min, n.Max, n.Mean, n.StdDev)
		case cp.Bool != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d true=%d false=%d\n", cp.Bool.Count, cp.Bool.Nulls, cp.Bool.True, cp.Bool.False)
		case cp.Str != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d distinct=%d\n", cp.Str.Count, cp.Str.Nulls, cp.Str.Distinct)
			for _, fq := range cp.Str.Top {
				fmt.Fprintf(&b, "  * %q: %d\n", fq.Value, fq.Count)
			}
		default:
			b.WriteString("\n")
		}
	}
	return b.String()
}
