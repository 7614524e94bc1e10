package ffmpeg

import (
	"os/exec"

	"github.com/xean001/fadely/internal/platform"
)

// LookPathFunc matches exec.LookPath.
type LookPathFunc func(file string) (string, error)

// ExecutableName returns the ffmpeg file name for goos.
func ExecutableName(goos string) string {
	if goos == platform.OSWindows {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

// Locate finds ffmpeg on PATH. yt-dlp needs it only when a format selector
// resolves to separate audio and video streams; a missing ffmpeg is reported
// by yt-dlp itself when that happens.
func Locate(goos string, lookPath LookPathFunc) (string, bool) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(ExecutableName(goos))
	if err != nil {
		return "", false
	}
	return path, true
}
