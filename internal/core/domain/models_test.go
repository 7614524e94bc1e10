package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoInfo(t *testing.T) {
	raw := []byte(`{
		"id": "abc123",
		"title": "Some clip",
		"uploader": "someone",
		"duration": 61.5,
		"thumbnails": [{"url": "small.jpg", "width": 120}, {"url": "big.jpg", "width": 1280}, {"url": "nowidth.jpg"}],
		"formats": [
			{"format_id": "18", "ext": "mp4", "height": 360, "fps": 30, "vcodec": "avc1", "acodec": "mp4a", "filesize": null, "filesize_approx": 1234, "tbr": 512.3}
		]
	}`)

	info, err := ParseVideoInfo(raw)
	require.NoError(t, err)
	assert.Equal(t, "abc123", info.ID)
	assert.Equal(t, "Some clip", info.Title)
	assert.Equal(t, 61.5, info.Duration)
	require.Len(t, info.Formats, 1)
	assert.Equal(t, int64(1234), info.Formats[0].Size())
	assert.Equal(t, "big.jpg", info.PreviewThumbnail())
}

func TestParseVideoInfoInvalid(t *testing.T) {
	_, err := ParseVideoInfo([]byte("not json"))
	assert.Error(t, err)
}

func TestPreviewThumbnail(t *testing.T) {
	v := &VideoInfo{Thumbnail: "explicit.jpg", Thumbnails: []Thumbnail{{URL: "other.jpg", Width: 9000}}}
	assert.Equal(t, "explicit.jpg", v.PreviewThumbnail())

	assert.Equal(t, "", (&VideoInfo{}).PreviewThumbnail())
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, int64(10), Format{Filesize: 10, FilesizeApprox: 20}.Size())
	assert.Equal(t, int64(20), Format{FilesizeApprox: 20}.Size())
}

func TestDownloadRequestSelector(t *testing.T) {
	assert.Equal(t, DefaultFormatSelector, DownloadRequest{URL: "u"}.Selector())
	assert.Equal(t, "22", DownloadRequest{URL: "u", Format: "22"}.Selector())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "ab", Truncate("ab", 3))
	assert.Equal(t, "жж", Truncate("жжж", 2))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "  \n", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty("", " "))
}

func TestBinaryMissingErrorDetails(t *testing.T) {
	err := &BinaryMissingError{Tried: []string{"/a/yt-dlp", "/b/yt-dlp"}}
	assert.Equal(t, "Tried:\n/a/yt-dlp\n/b/yt-dlp", err.Details())
	assert.Contains(t, err.Error(), "2 paths")
}
