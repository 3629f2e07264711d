package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Kevin-Rudy/pingboard/pkg/probe"
	"github.com/sirupsen/logrus"
)

// 程序信息常量
const (
	AppName    = "pingboard"
	AppVersion = "0.1.0"
	AppDesc    = "单目标延迟监控仪表盘：终端图表、Web API和Prometheus指标"
)

// showSystemInfo 显示系统环境和探测方式
func showSystemInfo(config *AppConfig) {
	fmt.Println("\n系统信息:")
	fmt.Printf("  操作系统: %s\n", probe.GetOSName())
	fmt.Printf("  网络探测: %s\n", probe.GetImplementationType(config.ProbeConfig, false))
	fmt.Printf("  本地模拟: %s\n", probe.GetImplementationType(config.ProbeConfig, true))
}

// printUsageInstructions 显示TUI操作说明
func printUsageInstructions() {
	fmt.Println("操作说明:")
	fmt.Println("  空格        - 开始/停止监控")
	fmt.Println("  l / c / t   - 切换本地模拟、图表类型、主题")
	fmt.Println("  + - [ ]     - 调整探测间隔和缓冲区容量")
	fmt.Println("  x           - 清空缓冲区")
	fmt.Println("  q 或 Ctrl+C - 退出程序")
	fmt.Println("========================================")
}

// setupLogger 按配置创建日志记录器，返回的函数用于关闭日志文件
func setupLogger(config *AppConfig) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetLevel(config.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	closeFn := func() {}
	switch {
	case config.LogFile != "":
		f, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("无法打开日志文件: %w", err)
		}
		log.SetOutput(f)
		closeFn = func() { f.Close() }
	case config.Headless:
		log.SetOutput(os.Stderr)
	default:
		// 终端由TUI占用
		log.SetOutput(io.Discard)
	}

	return log, closeFn, nil
}
