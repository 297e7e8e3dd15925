package wire

import (
	"strconv"
	"strings"
)

// RefPrefix starts every reference token.
const RefPrefix = "@"

// Ref returns the reference token for id n, e.g. "@3".
func Ref(n int) string {
	return RefPrefix + strconv.Itoa(n)
}

// ParseRef returns the number behind a reference token. It reports false for
// anything that is not "@" followed by a positive decimal without sign or
// leading zeros.
func ParseRef(s string) (int, bool) {
	digits, ok := strings.CutPrefix(s, RefPrefix)
	if !ok || digits == "" || digits[0] < '1' || digits[0] > '9' {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsRef reports whether s is a well-formed reference token.
func IsRef(s string) bool {
	_, ok := ParseRef(s)
	return ok
}
