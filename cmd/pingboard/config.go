package main

import (
	"fmt"

	"github.com/Kevin-Rudy/pingboard/pkg/config"
	"github.com/Kevin-Rudy/pingboard/pkg/core"
	"github.com/Kevin-Rudy/pingboard/pkg/probe"
	"github.com/Kevin-Rudy/pingboard/pkg/tui"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// AppConfig 应用层配置聚合
type AppConfig struct {
	ProbeConfig   *probe.Config
	TUIConfig     *tui.Config
	Settings      core.Settings
	ConfigPath    string // 配置文件路径，为空时不监视
	ListenAddress string
	LogLevel      logrus.Level
	LogFile       string
	Headless      bool
}

// buildConfigFromCLI 从配置文件和命令行参数构建配置
// 优先级：命令行参数 > 配置文件 > 默认值
func buildConfigFromCLI(c *cli.Context) (*AppConfig, error) {
	appConfig := &AppConfig{
		ProbeConfig: probe.DefaultConfig(),
		TUIConfig:   tui.DefaultConfig(),
		Settings:    core.DefaultSettings(),
		ConfigPath:  c.String("config"),
		Headless:    c.Bool("headless"),
	}
	level := c.String("log-level")

	if appConfig.ConfigPath != "" {
		file, err := config.Load(appConfig.ConfigPath)
		if err != nil {
			return nil, err
		}
		file.ApplyProbe(appConfig.ProbeConfig)
		file.ApplySettings(&appConfig.Settings)
		appConfig.ListenAddress = file.Web.ListenAddress
		appConfig.LogFile = file.Log.File
		if file.Log.Level != "" && !c.IsSet("log-level") {
			level = file.Log.Level
		}
	}

	// 构建 probe 配置
	if c.IsSet("url") {
		appConfig.ProbeConfig.URL = c.String("url")
	}
	if c.IsSet("timeout") {
		appConfig.ProbeConfig.Timeout = c.Duration("timeout")
	}
	if c.IsSet("no-http2") {
		appConfig.ProbeConfig.DisableHTTP2 = c.Bool("no-http2")
	}

	// 构建会话设置
	s := &appConfig.Settings
	if c.IsSet("interval") {
		s.Interval = c.Duration("interval")
	}
	if c.IsSet("buffer") {
		s.MaxDataPoints = c.Int("buffer")
	}
	if c.IsSet("smoothing") {
		s.Smoothing = c.Bool("smoothing")
	}
	if c.IsSet("smoothing-factor") {
		s.SmoothingFactor = c.Float64("smoothing-factor")
	}
	if c.IsSet("local") {
		s.LocalMode = c.Bool("local")
	}
	if c.IsSet("chart") {
		s.ChartType = core.ChartType(c.String("chart"))
	}
	if c.IsSet("theme") {
		s.Theme = core.Theme(c.String("theme"))
	}

	// 构建 TUI 配置
	if c.IsSet("refresh-rate") {
		appConfig.TUIConfig.RefreshInterval = c.Duration("refresh-rate")
	}

	if c.IsSet("web.listen-address") {
		appConfig.ListenAddress = c.String("web.listen-address")
	}
	if c.IsSet("log-file") {
		appConfig.LogFile = c.String("log-file")
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("日志级别无效: %w", err)
	}
	appConfig.LogLevel = lvl

	return appConfig, nil
}

// validateConfig 验证配置的合理性
func validateConfig(config *AppConfig) error {
	// 验证 probe 配置
	if err := config.ProbeConfig.Validate(); err != nil {
		return fmt.Errorf("probe配置错误: %w", err)
	}

	// 验证会话设置
	if err := config.Settings.Validate(); err != nil {
		return fmt.Errorf("设置错误: %w", err)
	}

	// 验证 TUI 配置
	if err := config.TUIConfig.Validate(); err != nil {
		return fmt.Errorf("tui配置错误: %w", err)
	}

	return nil
}
