package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	fsnotify "gopkg.in/fsnotify.v1"
)

// reloadDelay 合并编辑器保存时产生的连续事件
const reloadDelay = 100 * time.Millisecond

// ApplyFunc 配置重新加载后的回调
type ApplyFunc func(*Config) error

// Watcher 监视配置文件，变化后重新加载并回调
type Watcher struct {
	path    string
	apply   ApplyFunc
	log     logrus.FieldLogger
	watcher *fsnotify.Watcher
}

// NewWatcher 创建配置文件监视器
// 监视文件所在目录，以便捕获编辑器通过重命名替换文件的保存方式
func NewWatcher(path string, apply ApplyFunc, log logrus.FieldLogger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("解析配置文件路径失败: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监视器失败: %w", err)
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("监视配置目录失败: %w", err)
	}

	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Watcher{
		path:    abs,
		apply:   apply,
		log:     log.WithField("config", abs),
		watcher: w,
	}, nil
}

// Run 处理文件事件直到ctx取消
func (w *Watcher) Run(ctx context.Context) {
	var reload <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			reload = time.After(reloadDelay)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("配置文件监视出错")

		case <-reload:
			reload = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	c, err := Load(w.path)
	if err != nil {
		w.log.WithError(err).Warn("重新加载配置失败，保留当前设置")
		return
	}

	if err := w.apply(c); err != nil {
		w.log.WithError(err).Warn("应用新配置失败，保留当前设置")
		return
	}

	w.log.Info("配置已重新加载")
}

// Close 停止监视
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
