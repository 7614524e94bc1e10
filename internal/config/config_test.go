package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Empty(t, cfg.YtDlpPath)
	assert.Equal(t, DefaultMetadataMaxBytes, cfg.MetadataMaxBytes)
	assert.Equal(t, DefaultTitleTimeout, cfg.TitleTimeout)
	assert.Equal(t, DefaultMetadataTimeout, cfg.MetadataTimeout)
	assert.Equal(t, DefaultKillGrace, cfg.KillGrace)
	assert.Equal(t, DefaultRateLimitRPS, cfg.RateLimitRPS)
	assert.Equal(t, DefaultRateLimitBurst, cfg.RateLimitBurst)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout)
}

func TestOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		KeyListenAddr:       "127.0.0.1:9000",
		KeyYtDlpPath:        " /opt/yt-dlp ",
		KeyMetadataMaxBytes: "1024",
		KeyTitleTimeout:     "5s",
		KeyMetadataTimeout:  "0s",
		KeyKillGrace:        "500ms",
		KeyRateLimitRPS:     "0",
		KeyRateLimitBurst:   "0",
		KeyLogLevel:         "debug",
		KeyLogFormat:        "JSON",
		KeyShutdownTimeout:  "1m",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, "/opt/yt-dlp", cfg.YtDlpPath)
	assert.Equal(t, 1024, cfg.MetadataMaxBytes)
	assert.Equal(t, 5*time.Second, cfg.TitleTimeout)
	assert.Equal(t, time.Duration(0), cfg.MetadataTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.KillGrace)
	assert.Equal(t, 0.0, cfg.RateLimitRPS)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
}

func TestInvalidValues(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		KeyMetadataMaxBytes: "lots",
		KeyTitleTimeout:     "soon",
		KeyRateLimitRPS:     "fast",
		KeyLogLevel:         "chatty",
	}))
	require.Error(t, err)
	for _, key := range []string{KeyMetadataMaxBytes, KeyTitleTimeout, KeyRateLimitRPS, KeyLogLevel} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestValidate(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{KeyLogFormat: "xml"}))
	assert.ErrorContains(t, err, KeyLogFormat)

	_, err = FromLookup(lookupFrom(map[string]string{KeyRateLimitRPS: "2", KeyRateLimitBurst: "0"}))
	assert.ErrorContains(t, err, KeyRateLimitBurst)

	_, err = FromLookup(lookupFrom(map[string]string{KeyTitleTimeout: "-1s"}))
	assert.ErrorContains(t, err, KeyTitleTimeout)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("LISTEN_ADDR=:7777\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv(KeyListenAddr)
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.ListenAddr)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(KeyLogLevel, "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, cfg.LogLevel)
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{LogLevel: logrus.WarnLevel, LogFormat: LogFormatJSON}
	logger := cfg.NewLogger()
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}
