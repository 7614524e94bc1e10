package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/xean001/fadely/internal/adapters/ffmpeg"
	"github.com/xean001/fadely/internal/adapters/handlers"
	"github.com/xean001/fadely/internal/adapters/ytdlp"
	"github.com/xean001/fadely/internal/config"
	"github.com/xean001/fadely/internal/core/services"
	"github.com/xean001/fadely/internal/platform"
	"github.com/xean001/fadely/web"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}
	log := cfg.NewLogger()

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	log.WithField("version", version).Info("fadely starting")

	// 1. Resolve external tools once; the result is immutable for the process lifetime.
	binary := platform.LocateBinary(cfg.YtDlpPath)
	if binary.Found() {
		log.WithField("path", binary.Path).Info("yt-dlp located")
	} else {
		log.WithField("tried", binary.Tried).Warn("yt-dlp not found, API requests will fail until it is installed and the server restarted")
	}

	ffmpegPath, ok := ffmpeg.Locate(runtime.GOOS, nil)
	if ok {
		log.WithField("path", ffmpegPath).Info("ffmpeg located")
	} else {
		log.Warn("ffmpeg not found, formats that need audio/video merging will fail")
	}

	// 2. Adapters (Driven)
	ytRepo := ytdlp.NewYtDlpAdapter(binary, ytdlp.Options{
		MaxCaptureBytes: cfg.MetadataMaxBytes,
		MetadataTimeout: cfg.MetadataTimeout,
		KillGrace:       cfg.KillGrace,
		FFmpegLocation:  ffmpegPath,
	}, log)

	// 3. Core Service
	dlService := services.NewDownloaderService(ytRepo, log, cfg.TitleTimeout)

	// 4. Adapter (Driving)
	if cfg.LogLevel < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	httpHandler := handlers.NewHTTPHandler(dlService, binary, log)
	router := handlers.NewRouter(httpHandler, log, handlers.RouterOptions{
		IndexHTML:      web.IndexHTML,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		// No WriteTimeout: downloads stream for as long as yt-dlp produces data.
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("server listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Closing the listeners cancels in-flight request contexts, which kills their yt-dlp processes.
		log.WithError(err).Warn("graceful shutdown timed out, closing connections")
		return srv.Close()
	}
	log.Info("server stopped cleanly")
	return nil
}
