// Package validate provides well-formedness checks for candidate-supplied
// contact details. Every function is total: malformed input yields false.
package validate

import (
	"regexp"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}$`)

// Email reports whether s looks like a deliverable address (local@domain.tld).
// Surrounding whitespace is ignored.
func Email(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return false
	}
	return emailPattern.MatchString(s)
}

// PhoneRule is a locale rule for phone numbers, expressed as a digit count range.
type PhoneRule struct {
	MinDigits int `yaml:"min_digits" mapstructure:"min_digits"`
	MaxDigits int `yaml:"max_digits" mapstructure:"max_digits"`
}

// DefaultPhoneRule accepts local numbers of seven digits up to full E.164 numbers.
var DefaultPhoneRule = PhoneRule{MinDigits: 7, MaxDigits: 15}

// Phone validates s against DefaultPhoneRule.
func Phone(s string) bool {
	return DefaultPhoneRule.Valid(s)
}

// Valid reports whether s is a phone number under the rule.
// Digits, spaces, '-', '.', '(' and ')' are allowed, plus one leading '+'.
func (r PhoneRule) Valid(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	digits := 0
	depth := 0
	for i, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '+':
			if i != 0 {
				return false
			}
		case c == '(':
			depth++
			if depth > 1 {
				return false
			}
		case c == ')':
			depth--
			if depth < 0 {
				return false
			}
		case c == '-' || c == '.' || unicode.IsSpace(c):
		default:
			return false
		}
	}
	if depth != 0 {
		return false
	}

	min, max := r.MinDigits, r.MaxDigits
	if min <= 0 {
		min = DefaultPhoneRule.MinDigits
	}
	if max <= 0 {
		max = DefaultPhoneRule.MaxDigits
	}
	return digits >= min && digits <= max
}
