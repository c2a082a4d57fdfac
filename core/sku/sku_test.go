package sku

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Numeric(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
		key   string
	}{
		{name: "plain digits", raw: "123", valid: true, key: "123"},
		{name: "leading zeros stripped", raw: "00123", valid: true, key: "123"},
		{name: "mixed characters stripped", raw: "SKU-00123-A", valid: true, key: "123"},
		{name: "whitespace and punctuation", raw: " 4 5.6 ", valid: true, key: "456"},
		{name: "no digits", raw: "ABC-DEF", valid: false},
		{name: "only zeros", raw: "0000", valid: false},
		{name: "empty", raw: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Normalize(tt.raw, ModeNumeric)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.key, res.Key)
			assert.Empty(t, res.Aliases, "numeric mode never produces aliases")
		})
	}
}

func TestNormalize_Alphanumeric(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		valid   bool
		key     string
		aliases []string
	}{
		{name: "kept characters", raw: "AB_12-c", valid: true, key: "AB_12-c"},
		{name: "stripped characters", raw: "AB 12/c!", valid: true, key: "AB12c"},
		{name: "numeric remainder gets padded alias", raw: "123", valid: true, key: "123", aliases: []string{"00123"}},
		{name: "numeric at pad width has no alias", raw: "12345", valid: true, key: "12345"},
		{name: "numeric beyond pad width has no alias", raw: "1234567", valid: true, key: "1234567"},
		{name: "punctuation only", raw: "!!??", valid: false},
		{name: "empty", raw: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Normalize(tt.raw, ModeAlphanumeric)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.key, res.Key)
			assert.Equal(t, tt.aliases, res.Aliases)
		})
	}
}

// Normalizing an already-normalized key must yield the same key.
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"SKU-00123", "ab-C_9", "42", "00042", "x1y2z3"}

	for _, mode := range []Mode{ModeNumeric, ModeAlphanumeric} {
		for _, raw := range inputs {
			first := Normalize(raw, mode)
			if !first.Valid {
				continue
			}
			second := Normalize(first.Key, mode)
			require.True(t, second.Valid)
			assert.Equal(t, first.Key, second.Key, "mode=%s raw=%q", mode, raw)
		}
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("numeric")
	require.NoError(t, err)
	assert.Equal(t, ModeNumeric, m)

	m, err = ParseMode("alphanumeric")
	require.NoError(t, err)
	assert.Equal(t, ModeAlphanumeric, m)

	_, err = ParseMode("fuzzy")
	assert.Error(t, err)
}
