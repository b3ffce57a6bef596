package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandArgs(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{
			"values up to next flag",
			[]string{"in.csv", "out.csv", "--feature-round", "age", "5", "--feature-anonymize", "*"},
			[]string{"in.csv", "out.csv", "--feature-round=age", "--feature-round=5", "--feature-anonymize=*"},
		},
		{
			"negative numbers are values",
			[]string{"--feature-clamp", "score", "-1", "1.5", "-v"},
			[]string{"--feature-clamp=score", "--feature-clamp=-1", "--feature-clamp=1.5", "-v"},
		},
		{
			"other flags untouched",
			[]string{"--delimiter", ";", "--summary", "a", "b"},
			[]string{"--delimiter", ";", "--summary", "a", "b"},
		},
		{
			"equals form kept",
			[]string{"--feature-fill=x", "--feature-fill=0"},
			[]string{"--feature-fill=x", "--feature-fill=0"},
		},
		{
			"bare stage flag left for the parser",
			[]string{"--feature-remove", "--summary"},
			[]string{"--feature-remove", "--summary"},
		},
		{
			"double dash ends expansion",
			[]string{"--feature-remove", "a", "--", "--feature-round", "b"},
			[]string{"--feature-remove=a", "--", "--feature-round", "b"},
		},
		{
			"repeated stage flag keeps the last group",
			[]string{"--feature-round", "a", "5", "--summary", "--feature-round", "b", "10"},
			[]string{"--summary", "--feature-round=b", "--feature-round=10"},
		},
		{
			"repeat leaves other stages alone",
			[]string{"--feature-remove", "x", "--feature-round", "a", "5", "--feature-round", "b", "10"},
			[]string{"--feature-remove=x", "--feature-round=b", "--feature-round=10"},
		},
		{
			"stdin path is a value",
			[]string{"--feature-remove", "a", "-"},
			[]string{"--feature-remove=a", "--feature-remove=-"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, expandArgs(tc.in))
		})
	}
}
