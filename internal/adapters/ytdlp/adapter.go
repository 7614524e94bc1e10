package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xean001/fadely/internal/core/domain"
	"github.com/xean001/fadely/internal/core/ports"
	"github.com/xean001/fadely/internal/platform"
)

const (
	DefaultMaxCaptureBytes = 20 * 1024 * 1024
	DefaultMetadataTimeout = 2 * time.Minute
	DefaultKillGrace       = 2 * time.Second

	titleCaptureBytes = 64 * 1024
	streamStderrBytes = 64 * 1024
)

type Options struct {
	MaxCaptureBytes int           // stdout/stderr bound for metadata mode
	MetadataTimeout time.Duration // 0 disables
	KillGrace       time.Duration // how long pipes may stay open after the child dies
	FFmpegLocation  string        // passed through to yt-dlp when set
}

func (o Options) withDefaults() Options {
	if o.MaxCaptureBytes <= 0 {
		o.MaxCaptureBytes = DefaultMaxCaptureBytes
	}
	if o.KillGrace <= 0 {
		o.KillGrace = DefaultKillGrace
	}
	return o
}

type ytDlpAdapter struct {
	loc  platform.Location
	opts Options
	log  logrus.FieldLogger
}

// NewYtDlpAdapter runs the binary found at loc. A not-found location is
// accepted; every call then fails with *domain.BinaryMissingError.
func NewYtDlpAdapter(loc platform.Location, opts Options, log logrus.FieldLogger) ports.Extractor {
	return &ytDlpAdapter{
		loc:  loc,
		opts: opts.withDefaults(),
		log:  log,
	}
}

func (a *ytDlpAdapter) Ready() error {
	if !a.loc.Found() {
		return &domain.BinaryMissingError{Tried: a.loc.Tried}
	}
	return nil
}

func (a *ytDlpAdapter) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, a.loc.Path, args...)
	cmd.WaitDelay = a.opts.KillGrace
	return cmd
}

func (a *ytDlpAdapter) DumpMetadata(ctx context.Context, url string) (*ports.CapturedOutput, error) {
	if err := a.Ready(); err != nil {
		return nil, err
	}
	if a.opts.MetadataTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.MetadataTimeout)
		defer cancel()
	}

	stdout := newLimitedBuffer(a.opts.MaxCaptureBytes)
	stderr := newLimitedBuffer(a.opts.MaxCaptureBytes)
	cmd := a.command(ctx, MetadataArgs(url)...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	started := time.Now()
	err := cmd.Run()
	out := &ports.CapturedOutput{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	a.log.WithFields(logrus.Fields{
		"mode":     "metadata",
		"duration": time.Since(started).Round(time.Millisecond),
		"stdout":   len(out.Stdout),
	}).Debug("yt-dlp finished")

	if err != nil {
		if stdout.Overflowed() || stderr.Overflowed() {
			err = fmt.Errorf("%w (%d bytes): %v", ErrOutputTooLarge, a.opts.MaxCaptureBytes, err)
		}
		return out, toolError(ctx, err, stderr.String(), stdout.String())
	}
	return out, nil
}

func (a *ytDlpAdapter) PrintTitle(ctx context.Context, url string) (string, error) {
	if err := a.Ready(); err != nil {
		return "", err
	}

	stdout := newLimitedBuffer(titleCaptureBytes)
	stderr := newTailBuffer(titleCaptureBytes)
	cmd := a.command(ctx, TitleArgs(url)...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return "", toolError(ctx, err, stderr.String(), stdout.String())
	}

	// A playlist URL prints one title per entry; the first one names the file.
	title, _, _ := strings.Cut(strings.TrimSpace(stdout.String()), "\n")
	return strings.TrimSpace(title), nil
}

func (a *ytDlpAdapter) StreamFormat(ctx context.Context, url, selector string) (io.ReadCloser, error) {
	if err := a.Ready(); err != nil {
		return nil, err
	}

	stderr := newTailBuffer(streamStderrBytes)
	cmd := a.command(ctx, StreamArgs(url, selector, a.opts.FFmpegLocation)...)
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, &domain.ToolError{Tag: domain.TagToolFailed, Details: err.Error(), ExitCode: -1, Err: err}
	}

	a.log.WithFields(logrus.Fields{"pid": cmd.Process.Pid, "format": selector}).Debug("yt-dlp stream started")
	return &MediaStream{ctx: ctx, cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

// toolError builds the client-facing error, preferring stderr, then stdout,
// then the failure message as diagnostic text.
func toolError(ctx context.Context, err error, stderr, stdout string) error {
	te := &domain.ToolError{Tag: domain.TagToolFailed, ExitCode: -1}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		te.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w: %v", ctxErr, err)
	}
	te.Err = err
	te.Details = domain.Truncate(domain.FirstNonEmpty(stderr, stdout, err.Error()), domain.MaxDetailsLen)
	return te
}
