package csvio

import (
	"encoding/csv"
	"io"

	"github.com/wdm0006/anonymizer/pkg/frame"
	iox "github.com/wdm0006/anonymizer/pkg/io/ioutils"
	"github.com/wdm0006/anonymizer/pkg/translog"
)

type WriterOptions struct {
	Delimiter rune          // default ','
	Log       *translog.Log // written as "# " lines above the header
}

// WriteAll writes the log and then the Frame with headers to path. "-"
// writes to stdout and a ".gz" suffix compresses.
func WriteAll(path string, f *frame.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f, opt); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Write renders the log lines, the header and every row to w. Null cells
// are written empty and there is no index column.
func Write(w io.Writer, f *frame.Frame, opt WriterOptions) error {
	if opt.Log != nil {
		if _, err := opt.Log.WriteTo(w); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}

	hdr := f.Names()
	if err := cw.Write(hdr); err != nil {
		return err
	}

	cols := make([]frame.Column, len(hdr))
	for i, name := range hdr {
		cols[i], _ = f.ColumnByName(name)
	}
	row := make([]string, len(hdr))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			row[c], _ = frame.FormatCell(col, r)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
