// Package config 读取YAML或TOML配置文件，并把其中的值叠加到代码默认值之上
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Kevin-Rudy/pingboard/pkg/core"
	"github.com/Kevin-Rudy/pingboard/pkg/probe"
	yaml "gopkg.in/yaml.v2"
)

// Config 配置文件结构，未出现的字段保持默认值
type Config struct {
	Probe struct {
		URL         string   `yaml:"url" toml:"url"`
		Timeout     duration `yaml:"timeout" toml:"timeout"`
		HTTP2       *bool    `yaml:"http2" toml:"http2"`
		BaseLatency duration `yaml:"base-latency" toml:"base-latency"`
		Variation   duration `yaml:"variation" toml:"variation"`
	} `yaml:"probe" toml:"probe"`

	Monitor struct {
		Interval        duration `yaml:"interval" toml:"interval"`
		Local           *bool    `yaml:"local" toml:"local"`
		Smoothing       *bool    `yaml:"smoothing" toml:"smoothing"`
		SmoothingFactor *float64 `yaml:"smoothing-factor" toml:"smoothing-factor"`
		MaxDataPoints   int      `yaml:"max-data-points" toml:"max-data-points"`
	} `yaml:"monitor" toml:"monitor"`

	Display struct {
		ChartType         string `yaml:"chart-type" toml:"chart-type"`
		Theme             string `yaml:"theme" toml:"theme"`
		ShowGrid          *bool  `yaml:"show-grid" toml:"show-grid"`
		ShowReferenceLine *bool  `yaml:"show-reference-line" toml:"show-reference-line"`
		AnimateChart      *bool  `yaml:"animate-chart" toml:"animate-chart"`
		ColorCodedPoints  *bool  `yaml:"color-coded-points" toml:"color-coded-points"`
		ShowDataLabels    *bool  `yaml:"show-data-labels" toml:"show-data-labels"`
	} `yaml:"display" toml:"display"`

	Web struct {
		ListenAddress string `yaml:"listen-address" toml:"listen-address"`
	} `yaml:"web" toml:"web"`

	Log struct {
		Level string `yaml:"level" toml:"level"`
		File  string `yaml:"file" toml:"file"`
	} `yaml:"log" toml:"log"`
}

type duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler interface.
func (d *duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the TOML decoder.
func (d *duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(dur)
	return nil
}

// Duration is a convenience getter.
func (d duration) Duration() time.Duration {
	return time.Duration(d)
}

// Set updates the underlying duration.
func (d *duration) Set(dur time.Duration) {
	*d = duration(dur)
}

// FromYAML reads YAML from reader and unmarshals it to Config
func FromYAML(r io.Reader) (*Config, error) {
	c := &Config{}
	err := yaml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FromTOML reads TOML from reader and unmarshals it to Config
func FromTOML(r io.Reader) (*Config, error) {
	c := &Config{}
	if _, err := toml.NewDecoder(r).Decode(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Load 按扩展名选择格式读取配置文件
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开配置文件失败: %w", err)
	}
	defer f.Close()

	var c *Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		c, err = FromYAML(f)
	case ".toml":
		c, err = FromTOML(f)
	default:
		return nil, fmt.Errorf("不支持的配置文件格式: %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	return c, nil
}

// ApplySettings 把配置文件中出现的字段写入设置
func (c *Config) ApplySettings(s *core.Settings) {
	m := c.Monitor
	if m.Interval != 0 {
		s.Interval = m.Interval.Duration()
	}
	if m.Local != nil {
		s.LocalMode = *m.Local
	}
	if m.Smoothing != nil {
		s.Smoothing = *m.Smoothing
	}
	if m.SmoothingFactor != nil {
		s.SmoothingFactor = *m.SmoothingFactor
	}
	if m.MaxDataPoints != 0 {
		s.MaxDataPoints = m.MaxDataPoints
	}

	d := c.Display
	if d.ChartType != "" {
		s.ChartType = core.ChartType(d.ChartType)
	}
	if d.Theme != "" {
		s.Theme = core.Theme(d.Theme)
	}
	setBool(&s.ShowGrid, d.ShowGrid)
	setBool(&s.ShowReferenceLine, d.ShowReferenceLine)
	setBool(&s.AnimateChart, d.AnimateChart)
	setBool(&s.ColorCodedPoints, d.ColorCodedPoints)
	setBool(&s.ShowDataLabels, d.ShowDataLabels)
}

// ApplyProbe 把配置文件中出现的探测参数写入探测配置
func (c *Config) ApplyProbe(p *probe.Config) {
	if c.Probe.URL != "" {
		p.URL = c.Probe.URL
	}
	if c.Probe.Timeout != 0 {
		p.Timeout = c.Probe.Timeout.Duration()
	}
	if c.Probe.HTTP2 != nil {
		p.DisableHTTP2 = !*c.Probe.HTTP2
	}
	if c.Probe.BaseLatency != 0 {
		p.BaseLatency = c.Probe.BaseLatency.Duration()
	}
	if c.Probe.Variation != 0 {
		p.Variation = c.Probe.Variation.Duration()
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
