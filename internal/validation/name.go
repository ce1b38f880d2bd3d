package validation

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const maxNameLength = 100

// NormalizeName cleans a display name claim from the identity provider.
// Provider names are not trusted to be well formed, so the result is
// NFC-normalized, trimmed and cut to a sane length. An empty result is valid
// and means the provider supplied no name.
func NormalizeName(name string) string {
	name = strings.TrimSpace(norm.NFC.String(name))
	runes := []rune(name)
	if len(runes) > maxNameLength {
		name = strings.TrimSpace(string(runes[:maxNameLength]))
	}
	return name
}
