package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func parseArgs(t *testing.T, args ...string) (*AppConfig, error) {
	t.Helper()

	var got *AppConfig
	app := &cli.App{
		Name:  AppName,
		Flags: createCliFlags(),
		Action: func(c *cli.Context) error {
			var err error
			got, err = buildConfigFromCLI(c)
			return err
		},
	}
	err := app.Run(append([]string{AppName}, args...))
	return got, err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pingboard.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBuildConfigDefaults(t *testing.T) {
	cfg, err := parseArgs(t)
	require.NoError(t, err)

	assert.Equal(t, core.DefaultSettings(), cfg.Settings)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Empty(t, cfg.ListenAddress)
	assert.Empty(t, cfg.ConfigPath)
	assert.False(t, cfg.Headless)
	assert.NoError(t, validateConfig(cfg))
}

func TestBuildConfigFlags(t *testing.T) {
	cfg, err := parseArgs(t,
		"--interval", "250ms",
		"--buffer", "90",
		"--smoothing",
		"--smoothing-factor", "0.5",
		"--local",
		"--url", "http://127.0.0.1:8080/",
		"--timeout", "2s",
		"--no-http2",
		"--chart", "area",
		"--theme", "orange",
		"--refresh-rate", "100ms",
		"--web.listen-address", ":9427",
		"--log-level", "debug",
		"--headless",
	)
	require.NoError(t, err)

	s := cfg.Settings
	assert.Equal(t, 250*time.Millisecond, s.Interval)
	assert.Equal(t, 90, s.MaxDataPoints)
	assert.True(t, s.Smoothing)
	assert.Equal(t, 0.5, s.SmoothingFactor)
	assert.True(t, s.LocalMode)
	assert.Equal(t, core.ChartArea, s.ChartType)
	assert.Equal(t, core.ThemeOrange, s.Theme)

	assert.Equal(t, "http://127.0.0.1:8080/", cfg.ProbeConfig.URL)
	assert.Equal(t, 2*time.Second, cfg.ProbeConfig.Timeout)
	assert.True(t, cfg.ProbeConfig.DisableHTTP2)
	assert.Equal(t, 100*time.Millisecond, cfg.TUIConfig.RefreshInterval)
	assert.Equal(t, ":9427", cfg.ListenAddress)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.Headless)
	assert.NoError(t, validateConfig(cfg))
}

func TestBuildConfigFileAndOverride(t *testing.T) {
	path := writeConfig(t, `
probe:
  url: https://example.org/health
monitor:
  interval: 300ms
  max-data-points: 40
display:
  theme: purple
web:
  listen-address: ":9000"
log:
  level: warn
`)

	cfg, err := parseArgs(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigPath)
	assert.Equal(t, "https://example.org/health", cfg.ProbeConfig.URL)
	assert.Equal(t, 300*time.Millisecond, cfg.Settings.Interval)
	assert.Equal(t, 40, cfg.Settings.MaxDataPoints)
	assert.Equal(t, core.ThemePurple, cfg.Settings.Theme)
	assert.Equal(t, ":9000", cfg.ListenAddress)
	assert.Equal(t, logrus.WarnLevel, cfg.LogLevel)

	// 命令行参数优先于配置文件
	cfg, err = parseArgs(t, "--config", path, "--interval", "1s", "--log-level", "error", "--web.listen-address", ":9100")
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Settings.Interval)
	assert.Equal(t, 40, cfg.Settings.MaxDataPoints)
	assert.Equal(t, logrus.ErrorLevel, cfg.LogLevel)
	assert.Equal(t, ":9100", cfg.ListenAddress)
}

func TestBuildConfigErrors(t *testing.T) {
	_, err := parseArgs(t, "--log-level", "loud")
	assert.Error(t, err)

	_, err = parseArgs(t, "--config", filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"interval too short", []string{"--interval", "50ms"}},
		{"buffer too large", []string{"--buffer", "500"}},
		{"unknown chart", []string{"--chart", "pie"}},
		{"bad url", []string{"--url", "ftp://example.org"}},
		{"refresh too fast", []string{"--refresh-rate", "1ms"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseArgs(t, tt.args...)
			require.NoError(t, err)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pingboard.log")
	log, closeLog, err := setupLogger(&AppConfig{LogLevel: logrus.DebugLevel, LogFile: path})
	require.NoError(t, err)

	log.Debug("hello")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")

	_, _, err = setupLogger(&AppConfig{LogLevel: logrus.InfoLevel, LogFile: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}
