package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "My Video", "My Video"},
		{"illegal characters", `a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"control characters", "tab\there\x00nul\x1fus\x7fdel", "tabherenulusdel"},
		{"whitespace runs", "  lots   of \n\n space  ", "lots of space"},
		{"illegal between spaces", "AC / DC", "AC DC"},
		{"unicode kept", "Видео — 日本語", "Видео — 日本語"},
		{"empty", "", DefaultFilename},
		{"only illegal", `<>:"/\|?*`, DefaultFilename},
		{"only whitespace", " \t\n ", DefaultFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	long := strings.Repeat("ab ", 100)
	got := SanitizeFilename(long)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxFilenameLen)
	assert.False(t, strings.HasSuffix(got, " "))

	multibyte := strings.Repeat("ж", 200)
	got = SanitizeFilename(multibyte)
	assert.Equal(t, MaxFilenameLen, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestSanitizeFilenameProperties(t *testing.T) {
	inputs := []string{
		"",
		"normal title",
		"\x01\x02\x03",
		"what?? *really* <yes>",
		"C:\\Windows\\system32",
		"line1\r\nline2\r\n",
		strings.Repeat("x", 500),
		strings.Repeat(" \t", 300) + "end",
		"\u00a0\u2003spaced\u3000out\u00a0",
	}

	for _, in := range inputs {
		got := SanitizeFilename(in)
		assert.NotEmpty(t, got, "input %q", in)
		assert.False(t, strings.ContainsAny(got, illegalFilenameChars), "input %q -> %q", in, got)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxFilenameLen, "input %q", in)

		prevSpace := false
		for _, r := range got {
			assert.False(t, r < 0x20 || r == 0x7f, "control char in %q", got)
			isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\u00a0' || r == '\u3000'
			assert.False(t, isSpace && prevSpace, "whitespace run in %q", got)
			prevSpace = isSpace
		}
	}
}
