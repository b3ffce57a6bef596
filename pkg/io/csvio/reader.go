// Package csvio loads delimited text into a frame and writes a frame back out
// below its transform log.
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/wdm0006/anonymizer/pkg/frame"
	iox "github.com/wdm0006/anonymizer/pkg/io/ioutils"
)

// CommentChar marks lines the loader skips.
const CommentChar = '#'

// sniffBytes is how much input the delimiter sniffer looks at.
const sniffBytes = 4096

var numre = regexp.MustCompile(`^[-+]?(([0-9]+\.?[0-9]*|\.[0-9]+)([eE][-+]?[0-9]+)?|(?i:inf|infinity))$`)

// naTokens are the cell values read as missing, alongside the empty cell.
var naTokens = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

func isNull(v string) bool { return v == "" || naTokens[v] }

type ReaderOptions struct {
	Delimiter rune // default ','
	Sniff     bool // detect the delimiter from the first lines
	Strict    bool // if true, error on short/long records
}

type Reader struct {
	r      *csv.Reader
	opt    ReaderOptions
	header []string
	buf    [][]string
	// repair/warning counters
	shortRecords int
	longRecords  int
}

// Open opens a CSV file, or stdin for "-", and returns a Reader. The caller
// closes the returned io.Closer.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	return NewReaderFrom(rc, opt), rc, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	if opt.Sniff {
		br := bufio.NewReaderSize(r, sniffBytes)
		sample, _ := br.Peek(sniffBytes)
		opt.Delimiter = SniffDelimiter(sample)
		r = br
	}
	rr := csv.NewReader(r)
	if opt.Delimiter != 0 {
		rr.Comma = opt.Delimiter
	}
	rr.Comment = CommentChar
	rr.FieldsPerRecord = -1
	return &Reader{r: rr, opt: opt}
}

// Load reads a whole CSV file into a frame.
func Load(path string, opt ReaderOptions) (*frame.Frame, *Reader, error) {
	r, c, err := Open(path, opt)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = c.Close() }()
	schema, err := r.InferSchema()
	if err != nil {
		return nil, nil, err
	}
	f, err := r.ReadAll(schema)
	if err != nil {
		return nil, nil, err
	}
	return f, r, nil
}

// InferSchema reads the header and every row, then picks the narrowest kind
// that holds each column: int, then float, otherwise string. Empty cells and
// the usual NA spellings are missing values and do not count. Header names
// are kept as written. Rows are kept for ReadAll.
func (r *Reader) InferSchema() (frame.Schema, error) {
	rec, err := r.r.Read()
	if err == io.EOF {
		return frame.Schema{}, fmt.Errorf("csv: no header line")
	}
	if err != nil {
		return frame.Schema{}, err
	}
	names := make([]string, len(rec))
	for i := range rec {
		names[i] = strings.ToValidUTF8(rec[i], "?")
	}
	// strip BOM on first header cell if present
	if len(names) > 0 {
		names[0] = strings.TrimPrefix(names[0], "\ufeff")
	}
	r.header = names

	var rows [][]string
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return frame.Schema{}, err
		}
		rows = append(rows, rec)
	}
	r.buf = rows

	kinds := inferKinds(rows, len(names))
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = frame.ColumnSchema{Name: names[i], Type: kinds[i]}
	}
	return schema, nil
}

// ReadAll loads the rows buffered by InferSchema into a Frame.
func (r *Reader) ReadAll(schema frame.Schema) (*frame.Frame, error) {
	f, err := frame.NewFrame(schema)
	if err != nil {
		return nil, err
	}
	for n, rec := range r.buf {
		f.AppendNullRow()
		row := f.Rows() - 1
		if len(rec) > len(schema.Columns) {
			r.longRecords++
			if r.opt.Strict {
				return nil, fmt.Errorf("csv long record at row %d: need %d fields, got %d", n+1, len(schema.Columns), len(rec))
			}
		}
		if len(rec) < len(schema.Columns) {
			r.shortRecords++
			if r.opt.Strict {
				return nil, fmt.Errorf("csv short record at row %d: need %d fields, got %d", n+1, len(schema.Columns), len(rec))
			}
		}
		for i, cs := range schema.Columns {
			if i >= len(rec) {
				break
			}
			if err := setCell(f, row, cs, rec[i]); err != nil {
				return nil, err
			}
		}
	}
	r.buf = nil
	return f, nil
}

func setCell(f *frame.Frame, row int, cs frame.ColumnSchema, raw string) error {
	val := strings.ToValidUTF8(strings.TrimSpace(raw), "?")
	if isNull(val) {
		return nil
	}
	switch cs.Type {
	case frame.KindFloat:
		x, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("csv: column %s: %w", cs.Name, err)
		}
		return f.SetCell(row, cs.Name, x)
	case frame.KindInt:
		x, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("csv: column %s: %w", cs.Name, err)
		}
		return f.SetCell(row, cs.Name, x)
	default:
		return f.SetCell(row, cs.Name, val)
	}
}

// Header returns the column names as read, before any transform.
func (r *Reader) Header() []string { return r.header }

// Delimiter is the field separator in use, after sniffing.
func (r *Reader) Delimiter() rune { return r.r.Comma }

func inferKinds(rows [][]string, ncol int) []frame.Kind {
	kinds := make([]frame.Kind, ncol)
	for c := 0; c < ncol; c++ {
		num, integer, str := 0, 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if isNull(v) {
				continue
			}
			if numre.MatchString(v) {
				num++
				if _, err := strconv.ParseInt(v, 10, 64); err == nil {
					integer++
				}
			} else {
				str++
			}
		}
		switch {
		case str > 0:
			kinds[c] = frame.KindString
		case num > 0 && integer == num:
			kinds[c] = frame.KindInt
		case num > 0:
			kinds[c] = frame.KindFloat
		default:
			// all empty
			kinds[c] = frame.KindFloat
		}
	}
	return kinds
}

// SniffDelimiter picks the candidate delimiter that appears most often in the
// non-comment lines of sample. Ties go to the earlier candidate.
func SniffDelimiter(sample []byte) rune {
	candidates := []byte{',', '\t', ';', '|'}
	counts := make([]int, len(candidates))
	for _, line := range bytes.Split(sample, []byte{'\n'}) {
		if len(line) > 0 && line[0] == CommentChar {
			continue
		}
		for i, c := range candidates {
			counts[i] += bytes.Count(line, []byte{c})
		}
	}
	best := 0
	for i := range candidates {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return rune(candidates[best])
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}
