package ytdlp

import (
	"errors"
	"sync"
)

// ErrOutputTooLarge is returned once a capture buffer reaches its limit.
var ErrOutputTooLarge = errors.New("yt-dlp output exceeds capture limit")

// limitedBuffer keeps the head of a stream and fails the writer once full,
// which makes os/exec stop copying and the child hit a closed pipe.
type limitedBuffer struct {
	mu       sync.Mutex
	buf      []byte
	limit    int
	overflow bool
}

func newLimitedBuffer(limit int) *limitedBuffer {
	return &limitedBuffer{limit: limit}
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := b.limit - len(b.buf)
	if len(p) > room {
		if room > 0 {
			b.buf = append(b.buf, p[:room]...)
		}
		b.overflow = true
		return max(room, 0), ErrOutputTooLarge
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *limitedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf...)
}

func (b *limitedBuffer) String() string { return string(b.Bytes()) }

func (b *limitedBuffer) Overflowed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overflow
}

// tailBuffer keeps the last limit bytes written and never fails, so a chatty
// stderr cannot stall or kill a running download.
type tailBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(p) >= b.limit {
		b.buf = append(b.buf[:0], p[len(p)-b.limit:]...)
		return len(p), nil
	}
	if drop := len(b.buf) + len(p) - b.limit; drop > 0 {
		b.buf = append(b.buf[:0], b.buf[drop:]...)
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
