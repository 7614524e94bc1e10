package domain

import (
	"encoding/json"
	"io"
)

// DefaultFormatSelector picks the best single-file MP4 that carries both audio and video.
const DefaultFormatSelector = "best[ext=mp4][acodec!=none][vcodec!=none]"

// CodecNone is the codec value yt-dlp uses for an absent track.
const CodecNone = "none"

const (
	ContainerMP4    = "mp4"
	ContentTypeMP4  = "video/mp4"
	DefaultFilename = "video"
)

type VideoInfo struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Uploader   string      `json:"uploader,omitempty"`
	Duration   float64     `json:"duration,omitempty"`
	Thumbnail  string      `json:"thumbnail,omitempty"`
	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
	Formats    []Format    `json:"formats"`
}

type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Format mirrors one entry of the "formats" array in yt-dlp's JSON dump.
type Format struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext,omitempty"`
	FormatNote     string  `json:"format_note,omitempty"`
	Resolution     string  `json:"resolution,omitempty"`
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
	FPS            float64 `json:"fps,omitempty"`
	VCodec         string  `json:"vcodec,omitempty"`
	ACodec         string  `json:"acodec,omitempty"`
	Filesize       int64   `json:"filesize,omitempty"`
	FilesizeApprox int64   `json:"filesize_approx,omitempty"`
	TBR            float64 `json:"tbr,omitempty"` // total bitrate, KBit/s
}

// HasVideo reports whether the format carries a video track.
func (f Format) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != CodecNone
}

// HasAudio reports whether the format carries an audio track.
func (f Format) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != CodecNone
}

// Size returns the exact size when known and the approximation otherwise.
func (f Format) Size() int64 {
	if f.Filesize > 0 {
		return f.Filesize
	}
	return f.FilesizeApprox
}

// PreviewThumbnail returns the explicit thumbnail, falling back to the widest entry of Thumbnails.
func (v *VideoInfo) PreviewThumbnail() string {
	if v.Thumbnail != "" {
		return v.Thumbnail
	}
	best := -1
	for i, t := range v.Thumbnails {
		if best < 0 || t.Width > v.Thumbnails[best].Width {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return v.Thumbnails[best].URL
}

// ParseVideoInfo decodes a metadata document produced in dump-single-json mode.
func ParseVideoInfo(raw []byte) (*VideoInfo, error) {
	var info VideoInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

type DownloadRequest struct {
	URL    string `form:"url" json:"url"`
	Format string `form:"format" json:"format"` // yt-dlp format selector, empty means DefaultFormatSelector
}

// Selector returns the requested format selector or the default one.
func (r DownloadRequest) Selector() string {
	if r.Format == "" {
		return DefaultFormatSelector
	}
	return r.Format
}

// Download is a ready-to-serve media stream. Closing Body terminates the producing process.
type Download struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
}

// FormatsView is the server-side counterpart of the page's quality picker.
type FormatsView struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Formats   []Format `json:"formats"`
}
