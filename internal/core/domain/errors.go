package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error tags returned in the "error" field of JSON error bodies.
const (
	TagMissingURL    = "Missing url"
	TagBinaryMissing = "yt-dlp binary missing"
	TagNotJSON       = "yt-dlp did not return JSON"
	TagToolFailed    = "yt-dlp failed"
)

// MaxDetailsLen bounds the diagnostic text returned to clients.
const MaxDetailsLen = 4000

var ErrMissingURL = errors.New("missing url")

// BinaryMissingError is returned by every operation when the extraction binary was not found at startup.
type BinaryMissingError struct {
	Tried []string
}

func (e *BinaryMissingError) Error() string {
	return fmt.Sprintf("yt-dlp binary not found (tried %d paths)", len(e.Tried))
}

// Details lists every path that was checked, one per line.
func (e *BinaryMissingError) Details() string {
	return "Tried:\n" + strings.Join(e.Tried, "\n")
}

// ToolError reports a failed or misbehaving yt-dlp invocation.
type ToolError struct {
	Tag      string
	Details  string
	ExitCode int // -1 when the process did not exit normally
	Err      error
}

func (e *ToolError) Error() string {
	msg := e.Tag
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Details != "" {
		msg += ": " + Truncate(strings.TrimSpace(e.Details), 200)
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// ErrorResponse is the JSON body of every non-streaming failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
