// Package translog records which transforms ran and with which arguments.
//
// Records are kept structured (stage name plus arguments tagged as column
// references or literal parameters) and only rendered to text on output, so
// renaming columns rewrites exactly the column references and nothing else.
package translog

import (
	"bufio"
	"io"
	"strings"
)

// CommentPrefix starts every rendered log line.
const CommentPrefix = "# "

// Arg is one argument of a recorded stage invocation.
type Arg struct {
	Text   string
	Column bool
}

// Col is an argument naming a column.
func Col(name string) Arg { return Arg{Text: name, Column: true} }

// Lit is a literal parameter such as a fill value or a bound.
func Lit(v string) Arg { return Arg{Text: v} }

// Cols wraps each name with Col.
func Cols(names []string) []Arg {
	out := make([]Arg, len(names))
	for i, n := range names {
		out[i] = Col(n)
	}
	return out
}

// Record is one invoked stage.
type Record struct {
	Stage string
	Args  []Arg
}

// String renders "<stage> <arg> <arg>...".
func (r Record) String() string {
	var b strings.Builder
	b.WriteString(r.Stage)
	for _, a := range r.Args {
		b.WriteByte(' ')
		b.WriteString(a.Text)
	}
	return b.String()
}

// Columns returns the column references of the record in argument order.
func (r Record) Columns() []string {
	var out []string
	for _, a := range r.Args {
		if a.Column {
			out = append(out, a.Text)
		}
	}
	return out
}

// Log is the ordered list of records for one run.
type Log struct {
	records []Record
}

func New() *Log { return &Log{} }

func (l *Log) Append(r Record) {
	args := make([]Arg, len(r.Args))
	copy(args, r.Args)
	l.records = append(l.records, Record{Stage: r.Stage, Args: args})
}

func (l *Log) Len() int { return len(l.records) }

// Records returns a copy of the records in invocation order.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.records))
	for i, r := range l.records {
		args := make([]Arg, len(r.Args))
		copy(args, r.Args)
		out[i] = Record{Stage: r.Stage, Args: args}
	}
	return out
}

// Rename rewrites column references in place. Literal parameters are never
// touched, even when their text equals a renamed column.
func (l *Log) Rename(mapping map[string]string) {
	for i := range l.records {
		for j, a := range l.records[i].Args {
			if !a.Column {
				continue
			}
			if to, ok := mapping[a.Text]; ok {
				l.records[i].Args[j].Text = to
			}
		}
	}
}

// Lines renders each record as a comment line without the trailing newline.
func (l *Log) Lines() []string {
	out := make([]string, len(l.records))
	for i, r := range l.records {
		out[i] = CommentPrefix + r.String()
	}
	return out
}

// WriteTo writes one "# <record>\n" line per record.
func (l *Log) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, line := range l.Lines() {
		k, err := bw.WriteString(line + "\n")
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
