package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		opt  Options
		want float64
		ok   bool
	}{
		{"5993", Options{}, 5993, true},
		{" 42 ", Options{}, 42, true},
		{"5,993", Options{}, 5993, true},
		{"1,234,567", Options{}, 1234567, true},
		{"0,125", Options{}, 0.125, true},
		{"3,5", Options{}, 3.5, true},
		{"1.234,5", Options{}, 1234.5, true},
		{"1,234.5", Options{}, 1234.5, true},
		{"0.125", Options{}, 0.125, true},
		{"1.234.567", Options{}, 1234567, true},
		{"11%", Options{}, 11, true},
		{"1.234", Options{DecimalSeparator: ',', ThousandsSeparator: '.'}, 1234, true},
		{"abc", Options{}, 0, false},
		{"", Options{}, 0, false},
	}
	for _, tc := range cases {
		got, ok := parseNumeric(tc.in, tc.opt)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, tc.in)
		}
	}
}

func TestIsMissing(t *testing.T) {
	for _, s := range []string{"", "  ", "NA", "NaN"} {
		assert.True(t, isMissing(s), s)
	}
	assert.False(t, isMissing("0"))
}
