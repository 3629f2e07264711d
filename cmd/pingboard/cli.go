package main

import (
	"fmt"
	"time"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
	"github.com/Kevin-Rudy/pingboard/pkg/probe"
	"github.com/urfave/cli/v2"
)

// createCliApp 创建CLI应用实例
func createCliApp() *cli.App {
	app := &cli.App{
		Name:    AppName,
		Version: AppVersion,
		Usage:   AppDesc,
		Flags:   createCliFlags(),
		Action:  runApp,
		Before: func(c *cli.Context) error {
			// 显示启动信息
			fmt.Printf("正在启动 %s v%s...\n", AppName, AppVersion)
			return nil
		},
	}

	// 添加版本子命令
	app.Commands = createCommands()

	return app
}

// createCliFlags 创建CLI参数定义
func createCliFlags() []cli.Flag {
	defaults := core.DefaultSettings()
	probeDefaults := probe.DefaultConfig()

	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "配置文件路径 (.yml/.yaml/.toml)，修改后自动重新加载",
		},
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"n"},
			Value:   defaults.Interval,
			Usage:   fmt.Sprintf("探测间隔 (%v 到 %v)", core.MinInterval, core.MaxInterval),
		},
		&cli.IntFlag{
			Name:    "buffer",
			Aliases: []string{"b"},
			Value:   defaults.MaxDataPoints,
			Usage:   fmt.Sprintf("滚动缓冲区容量 (%d 到 %d)", core.MinDataPoints, core.MaxDataPoints),
		},
		&cli.BoolFlag{
			Name:    "smoothing",
			Aliases: []string{"s"},
			Usage:   "开启指数平滑",
		},
		&cli.Float64Flag{
			Name:  "smoothing-factor",
			Value: defaults.SmoothingFactor,
			Usage: fmt.Sprintf("平滑系数 (%.1f 到 %.1f)", core.MinSmoothingFactor, core.MaxSmoothingFactor),
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "使用本地模拟探测代替网络请求",
		},
		&cli.StringFlag{
			Name:    "url",
			Aliases: []string{"u"},
			Value:   probeDefaults.URL,
			Usage:   "网络模式探测地址 (HTTP HEAD)",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Value:   probeDefaults.Timeout,
			Usage:   "网络探测超时时间 (例如: 3s, 1000ms)",
		},
		&cli.BoolFlag{
			Name:  "no-http2",
			Usage: "禁用HTTP/2，只使用HTTP/1.1",
		},
		&cli.StringFlag{
			Name:  "chart",
			Value: string(defaults.ChartType),
			Usage: "图表类型 (line, area, bar)",
		},
		&cli.StringFlag{
			Name:  "theme",
			Value: string(defaults.Theme),
			Usage: "配色主题 (blue, green, purple, orange)",
		},
		&cli.DurationFlag{
			Name:    "refresh-rate",
			Aliases: []string{"r"},
			Value:   200 * time.Millisecond,
			Usage:   "UI刷新频率 (例如: 100ms, 500ms)",
		},
		&cli.StringFlag{
			Name:  "web.listen-address",
			Usage: "Web API和/metrics的监听地址，为空时不启动 (例如: :9427)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "日志级别 (debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "日志文件路径，TUI模式下未指定时丢弃日志",
		},
		&cli.BoolFlag{
			Name:  "headless",
			Usage: "不启动终端界面，只运行监控和Web服务",
		},
	}
}

// createCommands 创建子命令
func createCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:    "version",
			Aliases: []string{"v"},
			Usage:   "显示详细版本信息",
			Action: func(c *cli.Context) error {
				fmt.Printf("%s v%s\n", AppName, AppVersion)
				fmt.Printf("描述: %s\n", AppDesc)
				fmt.Printf("系统: %s\n", probe.GetOSName())
				fmt.Printf("默认探测: %s\n", probe.GetImplementationType(probe.DefaultConfig(), false))
				return nil
			},
		},
	}
}
