package sku

import (
	"fmt"
	"strings"
)

// Mode selects the normalization strategy.
type Mode string

const (
	// ModeNumeric strips all non-digit characters and leading zeros.
	ModeNumeric Mode = "numeric"
	// ModeAlphanumeric keeps letters, digits, underscore and hyphen.
	ModeAlphanumeric Mode = "alphanumeric"
)

// padWidth is the fixed width used for the zero-padded alias of purely
// numeric keys in alphanumeric mode.
const padWidth = 5

// ParseMode validates a mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNumeric, ModeAlphanumeric:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown sku normalization mode %q", s)
	}
}

// Result is the outcome of normalizing one raw identifier.
type Result struct {
	// Valid is false when the input cleans down to an empty string.
	Valid bool

	// Key is the canonical matching key. Empty when Valid is false.
	Key string

	// Aliases contains additional lookup keys that should resolve to the
	// same product line (e.g. the zero-padded form of a numeric key).
	Aliases []string
}

// Normalize canonicalizes a raw SKU under the given mode. It is a total
// function: any input, including the empty string, yields a Result.
func Normalize(raw string, mode Mode) Result {
	switch mode {
	case ModeNumeric:
		return normalizeNumeric(raw)
	default:
		return normalizeAlphanumeric(raw)
	}
}

func normalizeNumeric(raw string) Result {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	key := strings.TrimLeft(b.String(), "0")
	if key == "" {
		// Either no digits at all, or only zeros. "0" is not a usable
		// product identifier in the numeric feeds.
		return Result{Valid: false}
	}

	return Result{Valid: true, Key: key}
}

func normalizeAlphanumeric(raw string) Result {
	var b strings.Builder
	allDigits := true
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '-':
			b.WriteRune(r)
			allDigits = false
		}
	}

	key := b.String()
	if key == "" {
		return Result{Valid: false}
	}

	res := Result{Valid: true, Key: key}
	if allDigits {
		if padded := pad(key); padded != key {
			res.Aliases = []string{padded}
		}
	}
	return res
}

// pad left-pads a numeric key with zeros to padWidth. Keys already at or
// beyond the width are returned unchanged.
func pad(key string) string {
	if len(key) >= padWidth {
		return key
	}
	return strings.Repeat("0", padWidth-len(key)) + key
}
