package ports

import (
	"context"
	"encoding/json"
	"io"

	"github.com/xean001/fadely/internal/core/domain"
)

type DownloaderService interface {
	GetVideoInfo(ctx context.Context, url string) (json.RawMessage, error)
	GetFormats(ctx context.Context, url string) (*domain.FormatsView, error)
	OpenDownload(ctx context.Context, req domain.DownloadRequest) (*domain.Download, error) // Body must be closed by the caller
}

// Extractor is the driven side: one method per yt-dlp invocation mode.
type Extractor interface {
	// Ready returns *domain.BinaryMissingError when no binary was located at startup.
	Ready() error
	DumpMetadata(ctx context.Context, url string) (*CapturedOutput, error)
	PrintTitle(ctx context.Context, url string) (string, error)
	StreamFormat(ctx context.Context, url, selector string) (io.ReadCloser, error)
}

// CapturedOutput holds the bounded stdout/stderr of a completed invocation.
type CapturedOutput struct {
	Stdout []byte
	Stderr []byte
}
