// Package platform contains OS-specific glue: resolving where the yt-dlp
// executable is installed for the host operating system.
package platform
