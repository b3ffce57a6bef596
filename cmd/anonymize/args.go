package main

import (
	"strconv"
	"strings"
)

// stage flags in their fixed run order, with the config key each one maps to.
var stageFlags = []struct {
	flag  string
	key   string
	usage string
}{
	{"feature-remove", "remove", "drop columns: C..."},
	{"feature-min-max-scale", "min_max_scale", "scale columns to [0,1]: C..."},
	{"feature-binarize", "binarize", "scale then threshold at 0.5: C..."},
	{"feature-categorize", "categorize", "replace values with category codes C<n>: C..."},
	{"feature-fill", "fill", "overwrite every row with a literal: C... VALUE"},
	{"feature-clamp", "clamp", "clamp numeric columns: C... MIN MAX"},
	{"feature-round", "round", "round to the nearest multiple: C... MULTIPLE"},
	{"feature-anonymize", "anonymize", "rename columns to 0,1,2...: C... or *"},
}

func isStageFlag(name string) bool {
	for _, s := range stageFlags {
		if "--"+s.flag == name {
			return true
		}
	}
	return false
}

// looksLikeFlag reports whether tok starts a new option. Negative numbers
// and a lone "-" are values.
func looksLikeFlag(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return false
	}
	return true
}

// expandArgs rewrites variable-length stage flags into the repeated
// --flag=value form that pflag understands, so that
// "--feature-round age 5" becomes "--feature-round=age --feature-round=5".
// Every token up to the next option belongs to the stage. When a stage flag
// is given again, its last group of values replaces the earlier ones.
// Everything after "--" is left alone.
func expandArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		if strings.Contains(a, "=") || !isStageFlag(a) {
			out = append(out, a)
			continue
		}
		if i+1 < len(args) && args[i+1] != "--" && !looksLikeFlag(args[i+1]) {
			out = dropFlag(out, a)
		}
		j := i + 1
		for j < len(args) && args[j] != "--" && !looksLikeFlag(args[j]) {
			out = append(out, a+"="+args[j])
			j++
		}
		if j == i+1 {
			// no values: leave it for pflag to report
			out = append(out, a)
		}
		i = j - 1
	}
	return out
}

// dropFlag removes the values already expanded for flag.
func dropFlag(out []string, flag string) []string {
	kept := out[:0]
	for _, tok := range out {
		if !strings.HasPrefix(tok, flag+"=") {
			kept = append(kept, tok)
		}
	}
	return kept
}
