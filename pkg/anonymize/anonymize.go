// Package anonymize replaces column names with opaque sequential identifiers
// and rewrites the transform log so that it refers to the new names only.
package anonymize

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/wdm0006/anonymizer/pkg/frame"
	tr "github.com/wdm0006/anonymizer/pkg/transform"
	"github.com/wdm0006/anonymizer/pkg/translog"
)

var ErrNameCollision = errors.New("anonymized name collides with an existing column")

// Pair is one entry of a Mapping.
type Pair struct {
	From string
	To   string
}

// Mapping lists original names and their identifiers in assignment order.
// It lives only for the duration of a run and is never written out.
type Mapping []Pair

// Lookup returns the mapping as a map keyed by original name.
func (m Mapping) Lookup() map[string]string {
	out := make(map[string]string, len(m))
	for _, p := range m {
		out[p.From] = p.To
	}
	return out
}

// Build numbers names 0, 1, 2... in the order given.
func Build(names []string) Mapping {
	m := make(Mapping, len(names))
	for i, n := range names {
		m[i] = Pair{From: n, To: strconv.Itoa(i)}
	}
	return m
}

// Anonymizer renames the requested columns. Columns may include
// frame.Wildcard to select every column present when it runs.
type Anonymizer struct {
	Columns []string
}

func (a *Anonymizer) Name() string { return tr.StageAnonymize }

// Apply renames the columns of f and rewrites every record of log in place.
// On error neither f nor log is modified.
func (a *Anonymizer) Apply(ctx context.Context, f *frame.Frame, log *translog.Log) (Mapping, error) {
	names, err := frame.ResolveWildcard(f, a.Columns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tr.StageAnonymize, err)
	}
	m := Build(names)
	lookup := m.Lookup()
	if err := f.Rename(lookup); err != nil {
		if errors.Is(err, frame.ErrDuplicateColumn) {
			return nil, fmt.Errorf("%s: %w: %w", tr.StageAnonymize, ErrNameCollision, err)
		}
		return nil, fmt.Errorf("%s: %w", tr.StageAnonymize, err)
	}
	if log != nil {
		log.Rename(lookup)
	}
	return m, nil
}
