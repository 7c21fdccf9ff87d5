package recipe

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{"1.5", 1.5},
		{"  42", 42},
		{"100g", 100},
		{".5", 0.5},
		{"-3", -3},
		{"2e2", 200},
		{"1e", 1},
		{"abc", 0},
		{"", 0},
		{"g100", 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseQuantity(tc.in), tc.in)
	}

	assert.True(t, math.IsInf(ParseQuantity("Infinity"), 1))
	assert.True(t, math.IsInf(ParseQuantity("-Infinity"), -1))
	assert.True(t, math.IsInf(ParseQuantity("1e400"), 1))
}

func TestQuantityUnmarshalJSON(t *testing.T) {
	var payload struct {
		A Quantity `json:"a"`
		B Quantity `json:"b"`
		C Quantity `json:"c"`
		D Quantity `json:"d"`
		E Quantity `json:"e"`
		F Quantity `json:"f"`
	}

	err := json.Unmarshal([]byte(`{"a": 2.5, "b": "100", "c": "abc", "d": null, "e": true, "f": {"x": 1}}`), &payload)

	require.NoError(t, err)
	assert.Equal(t, 2.5, payload.A.Float64())
	assert.Equal(t, 100.0, payload.B.Float64())
	assert.Zero(t, payload.C.Float64())
	assert.Zero(t, payload.D.Float64())
	assert.Zero(t, payload.E.Float64())
	assert.Zero(t, payload.F.Float64())
}

func TestCoerceNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"2", 2},
		{" 8 ", 8},
		{"", 0},
		{"   ", 0},
		{"1.", 1},
		{".5", 0.5},
		{"+3", 3},
		{"1e3", 1000},
		{"0x10", 16},
		{"0o17", 15},
		{"0B101", 5},
		{"010", 10},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CoerceNumber(tc.in), tc.in)
	}

	for _, in := range []string{"2x", "abc", "100g", "1e", "-0x10", "0x", "1 2", "inf", "NaN"} {
		assert.True(t, math.IsNaN(CoerceNumber(in)), in)
	}

	assert.True(t, math.IsInf(CoerceNumber("-Infinity"), -1))
	assert.True(t, math.IsInf(CoerceNumber("1e400"), 1))
}

func TestCoerceNumberJSON(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{``, 0},
		{`null`, 0},
		{`false`, 0},
		{`true`, 1},
		{`2.5`, 2.5},
		{`"4"`, 4},
		{`[]`, 0},
		{`["6"]`, 6},
		{`[null]`, 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CoerceNumberJSON([]byte(tc.in)), tc.in)
	}

	for _, in := range []string{`"2x"`, `{}`, `[1,2]`, `[true]`, `[{}]`} {
		assert.True(t, math.IsNaN(CoerceNumberJSON([]byte(in))), in)
	}
}
