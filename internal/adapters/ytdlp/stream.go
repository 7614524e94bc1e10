package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/xean001/fadely/internal/core/domain"
)

// MediaStream is the stdout of a running yt-dlp process in stream mode.
//
// Read returns io.EOF only when the process closed its output and exited
// zero. A non-zero exit surfaces as a *domain.ToolError from Read, and a
// cancelled context as an error wrapping ctx.Err(). Close kills the process
// if it is still running and reaps it.
type MediaStream struct {
	ctx    context.Context
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *tailBuffer

	readMu  sync.Mutex
	readErr error // sticky terminal error, io.EOF on success

	waitOnce sync.Once
	waitErr  error
}

func (s *MediaStream) Read(p []byte) (int, error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()

	if s.readErr != nil {
		return 0, s.readErr
	}

	n, err := s.stdout.Read(p)
	if err == nil {
		return n, nil
	}
	if werr := s.wait(); werr != nil {
		err = werr
	}
	s.readErr = err
	return n, err
}

// Close terminates the process if it is still running and waits for it.
func (s *MediaStream) Close() error {
	if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill yt-dlp pid %d: %w", s.cmd.Process.Pid, err)
	}
	s.wait()
	return nil
}

// Pid of the underlying process.
func (s *MediaStream) Pid() int {
	return s.cmd.Process.Pid
}

func (s *MediaStream) wait() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.exitError(s.cmd.Wait())
	})
	return s.waitErr
}

func (s *MediaStream) exitError(err error) error {
	// ErrWaitDelay is only reported after a zero exit: a stray descendant held the pipes.
	if err == nil || errors.Is(err, exec.ErrWaitDelay) {
		return nil
	}
	if ctxErr := s.ctx.Err(); ctxErr != nil {
		return fmt.Errorf("yt-dlp stream stopped: %w", ctxErr)
	}

	te := &domain.ToolError{Tag: domain.TagToolFailed, ExitCode: -1, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		te.ExitCode = exitErr.ExitCode()
	}
	te.Details = domain.Truncate(
		domain.FirstNonEmpty(s.stderr.String(), fmt.Sprintf("yt-dlp exited %d", te.ExitCode)),
		domain.MaxDetailsLen,
	)
	return te
}
