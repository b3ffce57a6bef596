package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"

	parquet "github.com/segmentio/parquet-go"

	"github.com/wdm0006/anonymizer/pkg/frame"
)

type Reader struct {
	file   *os.File
	pf     *parquet.File
	schema frame.Schema
}

// OpenReader opens path and maps its top-level fields, in file order, to
// frame columns.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("parquet open %s: %w", path, err)
	}
	schema := frame.Schema{}
	for _, field := range pf.Schema().Fields() {
		schema.Columns = append(schema.Columns, frame.ColumnSchema{Name: field.Name(), Type: kindOf(field)})
	}
	return &Reader{file: f, pf: pf, schema: schema}, nil
}

func kindOf(field parquet.Field) frame.Kind {
	if !field.Leaf() {
		return frame.KindString
	}
	switch field.Type().Kind() {
	case parquet.Boolean:
		return frame.KindBool
	case parquet.Int32, parquet.Int64:
		return frame.KindInt
	case parquet.Float, parquet.Double:
		return frame.KindFloat
	default:
		return frame.KindString
	}
}

func (r *Reader) Close() error { return r.file.Close() }

func (r *Reader) Schema() frame.Schema { return r.schema }

// LogLines returns the log records stored in the footer, rendered with the
// comment prefix, in record order.
func (r *Reader) LogLines() []string {
	var out []string
	for i := 0; ; i++ {
		v, ok := r.pf.Lookup(LogKey(i))
		if !ok {
			return out
		}
		out = append(out, "# "+v)
	}
}

func (r *Reader) ReadAll() (*frame.Frame, error) {
	f, err := frame.NewFrame(r.schema)
	if err != nil {
		return nil, err
	}
	reader := parquet.NewGenericReader[map[string]any](r.file, r.pf.Schema())
	defer func() { _ = reader.Close() }()
	buf := make([]map[string]any, 1024)
	for {
		for i := range buf {
			buf[i] = map[string]any{}
		}
		n, err := reader.Read(buf)
		for i := 0; i < n; i++ {
			f.AppendNullRow()
			if serr := setRow(f, f.Rows()-1, buf[i]); serr != nil {
				return nil, serr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return f, nil
}

// Load reads a whole Parquet file into a frame and returns the log lines
// stored with it.
func Load(path string) (*frame.Frame, []string, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = r.Close() }()
	f, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return f, r.LogLines(), nil
}

func setRow(f *frame.Frame, row int, m map[string]any) error {
	for _, cs := range f.Schema().Columns {
		v, ok := m[cs.Name]
		if !ok || v == nil {
			continue
		}
		var err error
		switch cs.Type {
		case frame.KindInt:
			switch t := v.(type) {
			case int32:
				err = f.SetCell(row, cs.Name, int64(t))
			default:
				err = f.SetCell(row, cs.Name, t)
			}
		case frame.KindFloat:
			switch t := v.(type) {
			case float32:
				err = f.SetCell(row, cs.Name, float64(t))
			default:
				err = f.SetCell(row, cs.Name, t)
			}
		case frame.KindString:
			switch t := v.(type) {
			case []byte:
				err = f.SetCell(row, cs.Name, string(t))
			case string:
				err = f.SetCell(row, cs.Name, t)
			default:
				err = f.SetCell(row, cs.Name, fmt.Sprintf("%v", t))
			}
		default:
			err = f.SetCell(row, cs.Name, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
