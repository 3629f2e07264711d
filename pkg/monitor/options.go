// Package monitor 选项模式支持
package monitor

import (
	"github.com/sirupsen/logrus"
)

// Option Monitor配置选项函数类型
type Option func(*Monitor)

// WithLogger 设置日志记录器
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Monitor) {
		if log != nil {
			m.log = log
		}
	}
}

// WithSessionIDFunc 设置会话ID生成函数
func WithSessionIDFunc(fn func() string) Option {
	return func(m *Monitor) {
		if fn != nil {
			m.newID = fn
		}
	}
}
