package domain

import (
	"sort"
	"strings"
)

// ProgressiveFormats keeps MP4 formats that carry both audio and video,
// ordered by height then total bitrate, both descending. The input is not modified.
func ProgressiveFormats(formats []Format) []Format {
	out := make([]Format, 0, len(formats))
	for _, f := range formats {
		if !f.HasAudio() || !f.HasVideo() {
			continue
		}
		if strings.ToLower(f.Ext) != ContainerMP4 {
			continue
		}
		out = append(out, f)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Height != out[j].Height {
			return out[i].Height > out[j].Height
		}
		return out[i].TBR > out[j].TBR
	})
	return out
}
