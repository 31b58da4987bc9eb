// Package phone normalizes raw phone number input before validation.
package phone

import (
	"fmt"
	"strings"
)

// Digit count bounds after stripping formatting. Fifteen digits is the
// E.164 maximum; anything under seven cannot be a dialable number.
const (
	MinDigits = 7
	MaxDigits = 15
)

// Normalize strips every non-digit rune from raw (spaces, dashes,
// parentheses, a leading +) and checks the remaining digit count. It
// returns the cleaned number or an error describing why the input is
// unusable.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if n := len(cleaned); n < MinDigits || n > MaxDigits {
		return "", fmt.Errorf("phone number must have %d to %d digits, got %d in %q", MinDigits, MaxDigits, n, raw)
	}
	return cleaned, nil
}
