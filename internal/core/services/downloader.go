package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xean001/fadely/internal/core/domain"
	"github.com/xean001/fadely/internal/core/ports"
)

const DefaultTitleTimeout = 30 * time.Second

type downloaderService struct {
	extractor    ports.Extractor
	log          logrus.FieldLogger
	titleTimeout time.Duration
}

func NewDownloaderService(extractor ports.Extractor, log logrus.FieldLogger, titleTimeout time.Duration) ports.DownloaderService {
	if titleTimeout <= 0 {
		titleTimeout = DefaultTitleTimeout
	}
	return &downloaderService{
		extractor:    extractor,
		log:          log,
		titleTimeout: titleTimeout,
	}
}

func (s *downloaderService) GetVideoInfo(ctx context.Context, url string) (json.RawMessage, error) {
	if url == "" {
		return nil, domain.ErrMissingURL
	}
	if err := s.extractor.Ready(); err != nil {
		return nil, err
	}

	out, err := s.extractor.DumpMetadata(ctx, url)
	if err != nil {
		return nil, err
	}

	if !looksLikeJSON(out.Stdout) {
		return nil, &domain.ToolError{
			Tag:     domain.TagNotJSON,
			Details: domain.Truncate(domain.FirstNonEmpty(string(out.Stderr), string(out.Stdout)), domain.MaxDetailsLen),
		}
	}

	raw := json.RawMessage(bytes.TrimSpace(out.Stdout))
	if !json.Valid(raw) {
		return nil, &domain.ToolError{
			Tag:     domain.TagToolFailed,
			Details: fmt.Sprintf("invalid JSON in metadata output (%d bytes)", len(raw)),
		}
	}
	return raw, nil
}

func (s *downloaderService) GetFormats(ctx context.Context, url string) (*domain.FormatsView, error) {
	raw, err := s.GetVideoInfo(ctx, url)
	if err != nil {
		return nil, err
	}

	info, err := domain.ParseVideoInfo(raw)
	if err != nil {
		// Valid JSON but not an object, e.g. a bare array.
		return nil, &domain.ToolError{Tag: domain.TagToolFailed, Details: err.Error(), Err: err}
	}

	return &domain.FormatsView{
		ID:        info.ID,
		Title:     info.Title,
		Thumbnail: info.PreviewThumbnail(),
		Formats:   domain.ProgressiveFormats(info.Formats),
	}, nil
}

func (s *downloaderService) OpenDownload(ctx context.Context, req domain.DownloadRequest) (*domain.Download, error) {
	if req.URL == "" {
		return nil, domain.ErrMissingURL
	}
	if err := s.extractor.Ready(); err != nil {
		return nil, err
	}

	title := s.resolveTitle(ctx, req.URL)

	body, err := s.extractor.StreamFormat(ctx, req.URL, req.Selector())
	if err != nil {
		return nil, err
	}

	return &domain.Download{
		Body:        body,
		Filename:    title + "." + domain.ContainerMP4,
		ContentType: domain.ContentTypeMP4,
	}, nil
}

// resolveTitle never fails: any error collapses to the default filename.
func (s *downloaderService) resolveTitle(ctx context.Context, url string) string {
	ctx, cancel := context.WithTimeout(ctx, s.titleTimeout)
	defer cancel()

	title, err := s.extractor.PrintTitle(ctx, url)
	if err != nil {
		s.log.WithError(err).Debug("title lookup failed, using default filename")
		return domain.DefaultFilename
	}
	return domain.SanitizeFilename(title)
}

func looksLikeJSON(b []byte) bool {
	t := bytes.TrimSpace(b)
	return len(t) > 0 && (t[0] == '{' || t[0] == '[')
}
