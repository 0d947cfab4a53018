// Package parse provides flag validation and normalization for hostprobe commands.
package parse

import (
	"fmt"
	"strings"

	"filippo.io/age"
)

const (
	// MinParallel and MaxParallel bound the preflight worker pool.
	MinParallel = 1
	MaxParallel = 16
)

// Output formats accepted by --format.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// ValidateAgeKey validates the --encrypt-age flag value.
// Returns whether the value is set and any validation error.
// Set is true only for a parseable X25519 recipient ("age1...").
func ValidateAgeKey(s string) (set bool, err error) {
	if s == "" {
		return false, nil
	}

	if !strings.HasPrefix(s, "age1") {
		return false, fmt.Errorf("invalid --encrypt-age: must start with age1")
	}
	if _, err := age.ParseX25519Recipient(s); err != nil {
		return false, fmt.Errorf("invalid --encrypt-age: %w", err)
	}

	return true, nil
}

// ValidateFormat normalizes the --format flag value.
func ValidateFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("invalid --format %q: must be json or text", s)
	}
}

// ClampParallel keeps the --parallel value within [MinParallel, MaxParallel].
func ClampParallel(n int) int {
	if n < MinParallel {
		return MinParallel
	}
	if n > MaxParallel {
		return MaxParallel
	}
	return n
}
