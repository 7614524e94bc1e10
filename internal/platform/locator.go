package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

const (
	BinaryName        = "yt-dlp"
	WindowsBinaryName = "yt-dlp.exe"
)

// Location is the result of resolving the extraction binary. It is computed
// once at startup and shared read-only by every request.
type Location struct {
	Path  string   // empty when nothing was found
	Tried []string // every candidate, in the order checked
}

// Found reports whether a binary was located.
func (l Location) Found() bool {
	return l.Path != ""
}

// Env carries the host facts that candidate paths depend on.
type Env struct {
	GOOS         string
	WorkDir      string
	HomeDir      string
	LocalAppData string
}

// CurrentEnv describes the running process.
func CurrentEnv() Env {
	env := Env{GOOS: runtime.GOOS}
	env.WorkDir, _ = os.Getwd()
	env.HomeDir, _ = os.UserHomeDir()
	env.LocalAppData = os.Getenv("LOCALAPPDATA")
	return env
}

// ExecutableName returns the binary file name for goos.
func ExecutableName(goos string) string {
	if goos == OSWindows {
		return WindowsBinaryName
	}
	return BinaryName
}

// Candidates lists the well-known install locations for goos, most specific first.
// An explicit override, when set, is checked before everything else.
func Candidates(env Env, override string) []string {
	name := ExecutableName(env.GOOS)

	var dirs []string
	if env.WorkDir != "" {
		dirs = append(dirs, filepath.Join(env.WorkDir, "bin"))
	}

	switch env.GOOS {
	case OSWindows:
		if env.LocalAppData != "" {
			dirs = append(dirs, filepath.Join(env.LocalAppData, "Programs", "yt-dlp"))
		}
		if env.HomeDir != "" {
			dirs = append(dirs, filepath.Join(env.HomeDir, "scoop", "shims"))
		}
		dirs = append(dirs, `C:\ProgramData\chocolatey\bin`)
	case OSDarwin:
		dirs = append(dirs, "/opt/homebrew/bin", "/usr/local/bin")
		if env.HomeDir != "" {
			dirs = append(dirs, filepath.Join(env.HomeDir, ".local", "bin"))
		}
	default:
		if env.HomeDir != "" {
			dirs = append(dirs, filepath.Join(env.HomeDir, ".local", "bin"))
		}
		dirs = append(dirs, "/usr/local/bin", "/usr/bin")
	}

	paths := make([]string, 0, len(dirs)+1)
	if override != "" {
		paths = append(paths, override)
	}
	for _, d := range dirs {
		paths = append(paths, filepath.Join(d, name))
	}
	return paths
}

// Locate returns the first candidate that is an existing regular file.
func Locate(candidates []string) Location {
	loc := Location{Tried: append([]string(nil), candidates...)}
	for _, p := range candidates {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		loc.Path = p
		break
	}
	return loc
}

// LocateBinary resolves the extraction binary for the running host.
func LocateBinary(override string) Location {
	return Locate(Candidates(CurrentEnv(), override))
}
