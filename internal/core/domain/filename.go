package domain

import (
	"strings"
	"unicode"
)

// MaxFilenameLen bounds sanitized titles, in runes.
const MaxFilenameLen = 120

const illegalFilenameChars = `<>:"/\|?*`

// SanitizeFilename turns an arbitrary title into something safe for a
// Content-Disposition filename on every common filesystem. Never returns "".
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingSpace := false
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			continue
		case strings.ContainsRune(illegalFilenameChars, r):
			continue
		case unicode.IsSpace(r):
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}

	out := strings.TrimSpace(Truncate(b.String(), MaxFilenameLen))
	if out == "" {
		return DefaultFilename
	}
	return out
}
