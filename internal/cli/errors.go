package cli

import (
	"os"

	errs "github.com/matzehuels/expedition/pkg/errors"
)

func invalidInput(format string, args ...any) error {
	return errs.New(errs.ErrCodeInvalidInput, format, args...)
}

func isNotFound(err error) bool {
	return errs.Is(err, errs.ErrCodeDocumentNotFound)
}

// readFile reads path, reporting a missing file as DOCUMENT_NOT_FOUND.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeDocumentNotFound, err, "no document at %s", path)
	}
	return data, err
}
