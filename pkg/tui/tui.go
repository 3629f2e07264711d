// Package tui 提供终端仪表盘：统计信息、延迟图表和快捷键控制
// 只读取会话快照，所有修改都通过会话的显式操作完成
package tui

import (
	"sync"
	"time"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"
)

// Session TUI需要的会话操作，monitor.Monitor实现了该接口
type Session interface {
	Snapshot() core.Snapshot
	Subscribe(size int) (<-chan core.Snapshot, func())
	Start()
	Stop()
	Toggle()
	Clear()
	SetLocalMode(local bool) error
	UpdateSettings(fn func(*core.Settings)) error
}

// TUI 主界面结构
type TUI struct {
	app    *tview.Application
	header *tview.TextView
	chart  *tview.TextView
	status *tview.TextView
	flex   *tview.Flex

	session     Session
	description string // 探测方式描述，显示在标题行

	// 配置信息
	tuiConfig *Config
	log       logrus.FieldLogger

	// 数据存储
	snap    core.Snapshot
	message string // 状态栏提示，例如设置被拒绝的原因
	snapMu  sync.RWMutex

	// 控制
	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once

	// 测试模式标志
	testMode bool
}

// NewTUI 创建新的TUI实例
func NewTUI(session Session, description string, tuiConfig *Config, log logrus.FieldLogger) *TUI {
	tui := newTUI(session, description, tuiConfig, log)
	tui.header = tview.NewTextView()
	tui.chart = tview.NewTextView()
	tui.status = tview.NewTextView()

	tui.setupUI()
	tui.setupKeyBindings()

	return tui
}

// NewTUIForTest 创建用于测试的TUI实例（不初始化图形组件）
func NewTUIForTest(session Session, tuiConfig *Config) *TUI {
	tui := newTUI(session, "test", tuiConfig, nil)
	tui.testMode = true
	return tui
}

func newTUI(session Session, description string, tuiConfig *Config, log logrus.FieldLogger) *TUI {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TUI{
		app:         tview.NewApplication(),
		session:     session,
		description: description,
		tuiConfig:   tuiConfig,
		log:         log,
		snap:        session.Snapshot(),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

// Run 启动TUI界面，直到用户退出
func (t *TUI) Run() error {
	updates, unsubscribe := t.session.Subscribe(16)

	if t.tuiConfig.AutoStart {
		t.session.Start()
	}

	// 启动数据处理goroutine
	go t.processData(updates, unsubscribe)

	// 运行应用
	err := t.app.Run()

	// 确保清理工作完成
	t.shutdown()
	<-t.doneChan

	return err
}

// Stop 停止监控并退出界面
func (t *TUI) Stop() {
	t.shutdown()
	t.app.Stop()
}

func (t *TUI) shutdown() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
		t.session.Stop()
	})
}

// processData 接收快照并按固定频率刷新界面
func (t *TUI) processData(updates <-chan core.Snapshot, unsubscribe func()) {
	defer close(t.doneChan)
	defer unsubscribe()

	uiTicker := time.NewTicker(t.tuiConfig.RefreshInterval)
	defer uiTicker.Stop()

	// 初始UI刷新
	t.handleUIRefresh()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			t.handleSnapshot(snap)

		case <-uiTicker.C:
			t.handleUIRefresh()

		case <-t.stopChan:
			return
		}
	}
}

// handleSnapshot 保存最新快照
func (t *TUI) handleSnapshot(snap core.Snapshot) {
	t.snapMu.Lock()
	defer t.snapMu.Unlock()
	t.snap = snap
}

// currentSnapshot 返回最近一次收到的快照
func (t *TUI) currentSnapshot() core.Snapshot {
	t.snapMu.RLock()
	defer t.snapMu.RUnlock()
	return t.snap
}

// setMessage 设置状态栏提示
func (t *TUI) setMessage(msg string) {
	t.snapMu.Lock()
	defer t.snapMu.Unlock()
	t.message = msg
}

// handleUIRefresh 处理UI刷新
func (t *TUI) handleUIRefresh() {
	if !t.testMode && t.app != nil {
		t.safeUIUpdate(func() {
			t.updateHeader()
			t.updateChart()
			t.updateStatus()
		})
	}
}
