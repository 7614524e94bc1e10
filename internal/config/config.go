package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment keys
const (
	KeyListenAddr       = "LISTEN_ADDR"
	KeyYtDlpPath        = "YTDLP_PATH"
	KeyMetadataMaxBytes = "YTDLP_METADATA_MAX_BYTES"
	KeyTitleTimeout     = "YTDLP_TITLE_TIMEOUT"
	KeyMetadataTimeout  = "YTDLP_METADATA_TIMEOUT"
	KeyKillGrace        = "YTDLP_KILL_GRACE"
	KeyRateLimitRPS     = "RATE_LIMIT_RPS"
	KeyRateLimitBurst   = "RATE_LIMIT_BURST"
	KeyLogLevel         = "LOG_LEVEL"
	KeyLogFormat        = "LOG_FORMAT"
	KeyShutdownTimeout  = "SHUTDOWN_TIMEOUT"
)

// Default values
const (
	DefaultListenAddr       = ":8081"
	DefaultMetadataMaxBytes = 20 * 1024 * 1024
	DefaultTitleTimeout     = 30 * time.Second
	DefaultMetadataTimeout  = 2 * time.Minute
	DefaultKillGrace        = 2 * time.Second
	DefaultRateLimitRPS     = 5.0
	DefaultRateLimitBurst   = 10
	DefaultLogLevel         = "info"
	DefaultLogFormat        = LogFormatText
	DefaultShutdownTimeout  = 10 * time.Second
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DotEnvFile is loaded when present; real environment variables win.
const DotEnvFile = ".env"

type Config struct {
	ListenAddr       string
	YtDlpPath        string
	MetadataMaxBytes int
	TitleTimeout     time.Duration
	MetadataTimeout  time.Duration
	KillGrace        time.Duration
	RateLimitRPS     float64
	RateLimitBurst   int
	LogLevel         logrus.Level
	LogFormat        string
	ShutdownTimeout  time.Duration
}

// Load reads .env (if any) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from any key lookup, e.g. os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	p := parser{lookup: lookup}
	cfg := &Config{
		ListenAddr:       p.str(KeyListenAddr, DefaultListenAddr),
		YtDlpPath:        p.str(KeyYtDlpPath, ""),
		MetadataMaxBytes: p.integer(KeyMetadataMaxBytes, DefaultMetadataMaxBytes),
		TitleTimeout:     p.duration(KeyTitleTimeout, DefaultTitleTimeout),
		MetadataTimeout:  p.duration(KeyMetadataTimeout, DefaultMetadataTimeout),
		KillGrace:        p.duration(KeyKillGrace, DefaultKillGrace),
		RateLimitRPS:     p.float(KeyRateLimitRPS, DefaultRateLimitRPS),
		RateLimitBurst:   p.integer(KeyRateLimitBurst, DefaultRateLimitBurst),
		LogFormat:        strings.ToLower(p.str(KeyLogFormat, DefaultLogFormat)),
		ShutdownTimeout:  p.duration(KeyShutdownTimeout, DefaultShutdownTimeout),
	}

	level, err := logrus.ParseLevel(p.str(KeyLogLevel, DefaultLogLevel))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", KeyLogLevel, err))
	}
	cfg.LogLevel = level

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values that parse but make no sense.
func (c *Config) Validate() error {
	var errs []error
	if c.ListenAddr == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyListenAddr))
	}
	if c.MetadataMaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyMetadataMaxBytes))
	}
	if c.TitleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyTitleTimeout))
	}
	if c.MetadataTimeout < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyMetadataTimeout))
	}
	if c.KillGrace <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyKillGrace))
	}
	if c.RateLimitRPS < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyRateLimitRPS))
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1 when rate limiting is enabled", KeyRateLimitBurst))
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		errs = append(errs, fmt.Errorf("%s must be %q or %q", KeyLogFormat, LogFormatText, LogFormatJSON))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyShutdownTimeout))
	}
	return errors.Join(errs...)
}

// NewLogger builds the process logger from the configured level and format.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	if c.LogFormat == LogFormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

type parser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *parser) raw(key string) (string, bool) {
	v, ok := p.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *parser) str(key, fallback string) string {
	if v, ok := p.raw(key); ok {
		return v
	}
	return fallback
}

func (p *parser) integer(key string, fallback int) int {
	v, ok := p.raw(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (p *parser) float(key string, fallback float64) float64 {
	v, ok := p.raw(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v, ok := p.raw(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
