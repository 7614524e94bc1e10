// Package testutil builds fake yt-dlp executables for adapter and handler tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xean001/fadely/internal/platform"
)

// FakeBinary writes script as an executable /bin/sh program and returns a
// Location pointing at it.
func FakeBinary(t testing.TB, script string) platform.Location {
	t.Helper()
	if runtime.GOOS == platform.OSWindows {
		t.Skip("fake yt-dlp binaries are shell scripts")
	}

	path := filepath.Join(t.TempDir(), platform.BinaryName)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return platform.Locate([]string{path})
}

// MissingBinary returns a Location whose candidates do not exist.
func MissingBinary(t testing.TB) platform.Location {
	t.Helper()
	dir := t.TempDir()
	return platform.Locate([]string{
		filepath.Join(dir, "bin", platform.BinaryName),
		filepath.Join(dir, "usr", "bin", platform.BinaryName),
	})
}
