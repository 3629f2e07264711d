package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kevin-Rudy/pingboard/pkg/config"
	"github.com/Kevin-Rudy/pingboard/pkg/metrics"
	"github.com/Kevin-Rudy/pingboard/pkg/monitor"
	"github.com/Kevin-Rudy/pingboard/pkg/probe"
	"github.com/Kevin-Rudy/pingboard/pkg/tui"
	"github.com/Kevin-Rudy/pingboard/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// 无界面模式下输出汇总日志的间隔
const headlessReportInterval = 10 * time.Second

// runApp 主要应用逻辑处理函数
func runApp(c *cli.Context) error {
	// 构建配置
	appConfig, err := buildConfigFromCLI(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("配置加载失败: %v", err), 1)
	}

	// 验证配置
	if err := validateConfig(appConfig); err != nil {
		return cli.Exit(fmt.Sprintf("配置验证失败: %v", err), 1)
	}

	log, closeLog, err := setupLogger(appConfig)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer closeLog()

	// 显示运行配置
	printRunningConfig(appConfig)

	// 显示系统环境信息
	showSystemInfo(appConfig)

	fmt.Println("\n正在初始化探测引擎...")

	network, err := probe.New(appConfig.ProbeConfig, false)
	if err != nil {
		return cli.Exit(fmt.Sprintf("无法创建网络探测: %v", err), 1)
	}
	local, err := probe.New(appConfig.ProbeConfig, true)
	if err != nil {
		return cli.Exit(fmt.Sprintf("无法创建本地探测: %v", err), 1)
	}

	mon, err := monitor.New(network, local, appConfig.Settings, monitor.WithLogger(log))
	if err != nil {
		return cli.Exit(fmt.Sprintf("无法创建监控会话: %v", err), 1)
	}
	defer mon.Close()

	fmt.Println("探测引擎初始化成功")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		metrics.NewCollector(mon),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if addr := appConfig.ListenAddress; addr != "" {
		server := web.NewServer(mon, web.WithLogger(log), web.WithGatherer(registry))
		go func() {
			if err := server.ListenAndServe(ctx, addr); err != nil {
				log.WithError(err).Error("Web服务器异常退出")
			}
		}()
	}

	if path := appConfig.ConfigPath; path != "" {
		watcher, err := config.NewWatcher(path, func(file *config.Config) error {
			return mon.UpdateSettings(file.ApplySettings)
		}, log)
		if err != nil {
			log.WithError(err).Warn("无法监视配置文件，修改后需要重启生效")
		} else {
			defer watcher.Close()
			go watcher.Run(ctx)
		}
	}

	if appConfig.Headless {
		return runHeadless(ctx, mon, log)
	}

	fmt.Println("\n正在启动TUI界面...")

	// 显示使用说明
	printUsageInstructions()

	description := probe.GetImplementationType(appConfig.ProbeConfig, appConfig.Settings.LocalMode)
	tuiInstance := tui.NewTUI(mon, description, appConfig.TUIConfig, log)

	// 收到信号时退出界面
	tuiDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			tuiInstance.Stop()
		case <-tuiDone:
		}
	}()

	// 启动TUI界面 - 这会阻塞直到用户退出
	err = tuiInstance.Run()
	close(tuiDone)
	if err != nil {
		return cli.Exit(fmt.Sprintf("TUI运行出错: %v", err), 1)
	}

	fmt.Println("\n程序已退出")
	return nil
}

// runHeadless 开始监控并定期输出汇总，直到收到退出信号
func runHeadless(ctx context.Context, mon *monitor.Monitor, log logrus.FieldLogger) error {
	mon.Start()
	defer mon.Stop()

	fmt.Println("无界面模式运行中，按 Ctrl+C 退出")

	ticker := time.NewTicker(headlessReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("收到退出信号，停止监控")
			return nil
		case <-ticker.C:
			snap := mon.Snapshot()
			log.WithFields(logrus.Fields{
				"current": snap.Current,
				"avg":     snap.Stats.Avg,
				"jitter":  snap.Stats.Jitter,
				"loss":    snap.Stats.PacketLoss,
				"quality": snap.Quality,
				"trend":   snap.Stats.Trend,
				"samples": len(snap.Samples),
			}).Info("延迟汇总")
		}
	}
}

// printRunningConfig 打印运行配置信息
func printRunningConfig(config *AppConfig) {
	s := config.Settings
	fmt.Printf("探测地址: %s\n", config.ProbeConfig.URL)
	fmt.Printf("探测间隔: %v\n", s.Interval)
	fmt.Printf("探测超时: %v\n", config.ProbeConfig.Timeout)
	fmt.Printf("缓冲区容量: %d\n", s.MaxDataPoints)
	if config.ListenAddress != "" {
		fmt.Printf("Web地址: %s\n", config.ListenAddress)
	}
	if config.ConfigPath != "" {
		fmt.Printf("配置文件: %s\n", config.ConfigPath)
	}
}
