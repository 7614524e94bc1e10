package ytdlp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitedBuffer(t *testing.T) {
	b := newLimitedBuffer(8)

	n, err := b.Write([]byte("abcd"))
	assert.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = b.Write([]byte("efghij"))
	assert.ErrorIs(t, err, ErrOutputTooLarge)
	assert.Equal(t, 4, n)
	assert.Equal(t, "abcdefgh", b.String())
	assert.True(t, b.Overflowed())

	n, err = b.Write([]byte("k"))
	assert.ErrorIs(t, err, ErrOutputTooLarge)
	assert.Equal(t, 0, n)
}

func TestTailBuffer(t *testing.T) {
	b := newTailBuffer(8)

	for _, s := range []string{"abc", "defg", "hij"} {
		n, err := b.Write([]byte(s))
		assert.NoError(t, err)
		assert.Equal(t, len(s), n)
	}
	assert.Equal(t, "cdefghij", b.String())

	n, err := b.Write([]byte(strings.Repeat("z", 20) + "12345678"))
	assert.NoError(t, err)
	assert.Equal(t, 28, n)
	assert.Equal(t, "12345678", b.String())
}

func TestArgs(t *testing.T) {
	assert.Equal(t, []string{
		"--dump-single-json", "--no-warnings", "--no-check-certificate",
		"--prefer-free-formats", "--youtube-skip-dash-manifest", "--", "https://x",
	}, MetadataArgs("https://x"))

	assert.Equal(t, []string{"--print", "%(title)s", "--no-warnings", "--", "--exec=evil"}, TitleArgs("--exec=evil"))

	assert.Equal(t, []string{"-f", "best", "-o", "-", "--no-warnings", "--no-check-certificate", "--", "u"},
		StreamArgs("u", "best", ""))
	assert.Contains(t, StreamArgs("u", "best", "/usr/bin/ffmpeg"), "--ffmpeg-location")
}
