package ytdlp

// endOfOptions stops yt-dlp from parsing a user-supplied URL such as "--exec=..." as a flag.
const endOfOptions = "--"

// MetadataArgs asks for one consolidated JSON document describing every available format.
func MetadataArgs(url string) []string {
	return []string{
		"--dump-single-json",
		"--no-warnings",
		"--no-check-certificate",
		"--prefer-free-formats",
		"--youtube-skip-dash-manifest",
		endOfOptions,
		url,
	}
}

// TitleArgs prints only the title as plain text.
func TitleArgs(url string) []string {
	return []string{"--print", "%(title)s", "--no-warnings", endOfOptions, url}
}

// StreamArgs writes the selected format to stdout. ffmpegLocation is optional.
func StreamArgs(url, selector, ffmpegLocation string) []string {
	args := []string{
		"-f", selector,
		"-o", "-",
		"--no-warnings",
		"--no-check-certificate",
	}
	if ffmpegLocation != "" {
		args = append(args, "--ffmpeg-location", ffmpegLocation)
	}
	return append(args, endOfOptions, url)
}
