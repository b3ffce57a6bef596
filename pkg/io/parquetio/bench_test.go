package parquetio

import (
	"path/filepath"
	"testing"

	"github.com/wdm0006/anonymizer/pkg/frame"
)

func makeFrame(rows int) *frame.Frame {
	s := frame.Schema{Columns: []frame.ColumnSchema{{Name: "a", Type: frame.KindFloat}, {Name: "b", Type: frame.KindInt}}}
	f, _ := frame.NewFrame(s)
	for i := 0; i < rows; i++ {
		f.AppendNullRow()
		_ = f.SetCell(i, "a", float64(i%100))
		_ = f.SetCell(i, "b", int64(i%10))
	}
	return f
}

func BenchmarkParquetWrite(b *testing.B) {
	f := makeFrame(50000)
	path := filepath.Join(b.TempDir(), "bench.parquet")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = WriteAll(path, f, nil)
	}
}
