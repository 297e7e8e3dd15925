package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// documentNameRegex matches store document names: a letter or digit followed
// by letters, digits, dots, dashes and underscores.
var documentNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDocumentName validates the name a document is stored under.
// Names become file names, Redis keys and Mongo ids, so the rules are
// conservative:
//   - No empty names
//   - Maximum length of 128 characters
//   - No control characters or path separators
//   - No path traversal sequences (..)
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "document name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "document name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "document name contains invalid control characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "document name cannot contain %q", "..")
	}

	if !documentNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid document name: %q", name)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
