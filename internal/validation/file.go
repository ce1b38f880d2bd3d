package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrFileNameRequired = errors.New("file name is required")
	ErrFileNameInvalid  = errors.New("file name contains invalid characters")
)

// FileName validates and normalizes the display name of an uploaded file.
// Browsers send the bare name, so path separators and control characters
// are rejected rather than stripped.
func FileName(name string, maxLength int) (string, error) {
	name = strings.TrimSpace(norm.NFC.String(name))

	if name == "" {
		return "", ErrFileNameRequired
	}

	if maxLength > 0 && len([]rune(name)) > maxLength {
		return "", fmt.Errorf("file name too long: maximum is %d characters", maxLength)
	}

	if name == "." || name == ".." {
		return "", ErrFileNameInvalid
	}

	for _, r := range name {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return "", ErrFileNameInvalid
		}
	}

	return name, nil
}
