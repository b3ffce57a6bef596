package frame

import "fmt"

// Wildcard stands for every column currently in the frame.
const Wildcard = "*"

// Resolve checks that every requested column exists and returns them in
// request order. Repeated names are collapsed to their first occurrence.
func Resolve(f *Frame, names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if !f.Has(n) {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, n)
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

// ResolveWildcard is Resolve, except that a request containing Wildcard
// expands to the frame's current columns in frame order.
func ResolveWildcard(f *Frame, names []string) ([]string, error) {
	for _, n := range names {
		if n == Wildcard {
			return f.Names(), nil
		}
	}
	return Resolve(f, names)
}
