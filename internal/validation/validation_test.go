package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "plain", input: "report.pdf", want: "report.pdf"},
		{name: "trimmed", input: "  notes.txt \n", want: "notes.txt"},
		{name: "nfc", input: "cafe\u0301.txt", want: "caf\u00e9.txt"},
		{name: "unicode", input: "отчёт 2026.docx", want: "отчёт 2026.docx"},
		{name: "empty", input: "   ", wantErr: ErrFileNameRequired},
		{name: "slash", input: "../etc/passwd", wantErr: ErrFileNameInvalid},
		{name: "backslash", input: `C:\temp\a.txt`, wantErr: ErrFileNameInvalid},
		{name: "control", input: "a\x00b.txt", wantErr: ErrFileNameInvalid},
		{name: "dotdot", input: "..", wantErr: ErrFileNameInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FileName(tt.input, 255)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileNameTooLong(t *testing.T) {
	_, err := FileName(strings.Repeat("a", 256), 255)
	assert.EqualError(t, err, "file name too long: maximum is 255 characters")

	got, err := FileName(strings.Repeat("é", 255), 255)
	require.NoError(t, err)
	assert.Len(t, []rune(got), 255)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Alice", NormalizeName("  Alice "))
	assert.Equal(t, "", NormalizeName("   "))
	assert.Equal(t, "Jos\u00e9", NormalizeName("Jose\u0301"))
	assert.Len(t, []rune(NormalizeName(strings.Repeat("x", 150))), 100)
}
