package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/xean001/fadely/internal/core/domain"
	"github.com/xean001/fadely/internal/core/ports"
	"github.com/xean001/fadely/internal/platform"
)

const streamChunkSize = 32 * 1024

const binaryMissingHint = "\n\nInstall yt-dlp in one of these locations or point YTDLP_PATH at it."

type HTTPHandler struct {
	service ports.DownloaderService
	binary  platform.Location
	log     logrus.FieldLogger
}

func NewHTTPHandler(s ports.DownloaderService, binary platform.Location, log logrus.FieldLogger) *HTTPHandler {
	return &HTTPHandler{service: s, binary: binary, log: log}
}

// HandleVideoInfo returns yt-dlp's metadata document unchanged.
func (h *HTTPHandler) HandleVideoInfo(c *gin.Context) {
	raw, err := h.service.GetVideoInfo(c.Request.Context(), c.Query("url"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// HandleFormats returns the progressive MP4 formats, best first.
func (h *HTTPHandler) HandleFormats(c *gin.Context) {
	view, err := h.service.GetFormats(c.Request.Context(), c.Query("url"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleDownload relays yt-dlp's stdout to the client as it is produced.
// Headers are held back until the first byte arrives so that an immediate
// failure can still be reported as JSON; after that, a failure aborts the
// connection instead of ending the chunked body cleanly.
func (h *HTTPHandler) HandleDownload(c *gin.Context) {
	ctx := c.Request.Context()
	log := requestLogger(c, h.log)

	req := domain.DownloadRequest{URL: c.Query("url"), Format: c.Query("format")}
	dl, err := h.service.OpenDownload(ctx, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer dl.Body.Close()

	buf := make([]byte, streamChunkSize)
	n, readErr := readSome(dl.Body, buf)
	if n == 0 && readErr != nil && !errors.Is(readErr, io.EOF) {
		h.writeError(c, readErr)
		return
	}

	c.Header("Content-Type", dl.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, dl.Filename))
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()

	written, readErr, writeErr := relay(c.Writer, dl.Body, buf, n, readErr)
	fields := logrus.Fields{
		"format":      req.Selector(),
		"filename":    dl.Filename,
		"transferred": humanize.Bytes(uint64(written)),
	}

	switch {
	case writeErr != nil || ctx.Err() != nil:
		log.WithFields(fields).Info("client went away, download cancelled")
	case readErr != nil:
		log.WithFields(fields).WithError(readErr).Error("download failed mid-stream, aborting response")
		c.Set(ctxKeyAborted, true)
		panic(http.ErrAbortHandler)
	default:
		log.WithFields(fields).Info("download complete")
	}
}

// HandleHealth reports whether the extraction binary was found at startup.
func (h *HTTPHandler) HandleHealth(c *gin.Context) {
	if !h.binary.Found() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "tried": h.binary.Tried})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "ytdlp": h.binary.Path})
}

func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	var (
		missing *domain.BinaryMissingError
		toolErr *domain.ToolError
	)

	switch {
	case errors.Is(err, domain.ErrMissingURL):
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: domain.TagMissingURL})
		return
	case c.Request.Context().Err() != nil:
		requestLogger(c, h.log).WithError(err).Info("client went away before response")
		c.Abort()
		return
	case errors.As(err, &missing):
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   domain.TagBinaryMissing,
			Details: missing.Details() + binaryMissingHint,
		})
	case errors.As(err, &toolErr):
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: toolErr.Tag, Details: toolErr.Details})
	default:
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   domain.TagToolFailed,
			Details: domain.Truncate(err.Error(), domain.MaxDetailsLen),
		})
	}
	requestLogger(c, h.log).WithError(err).Warn("request failed")
}

// readSome reads until it gets at least one byte or an error.
func readSome(r io.Reader, buf []byte) (int, error) {
	for {
		n, err := r.Read(buf)
		if n > 0 || err != nil {
			return n, err
		}
	}
}

// relay writes the already-read buf[:n] and then copies r to w chunk by
// chunk, flushing after every write. Each write blocks until the client
// accepts it, so reading never runs ahead of the consumer.
func relay(w gin.ResponseWriter, r io.Reader, buf []byte, n int, readErr error) (written int64, upstreamErr, clientErr error) {
	for {
		if n > 0 {
			m, err := w.Write(buf[:n])
			written += int64(m)
			if err != nil {
				return written, nil, err
			}
			w.Flush()
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return written, nil, nil
			}
			return written, readErr, nil
		}
		n, readErr = r.Read(buf)
	}
}
