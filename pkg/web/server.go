// Package web 提供监控会话的HTTP接口：JSON API、PNG图表和Prometheus指标
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Controller 服务器需要的会话操作，monitor.Monitor实现了该接口
type Controller interface {
	Snapshot() core.Snapshot
	Start()
	Stop()
	Toggle()
	Clear()
	UpdateSettings(fn func(*core.Settings)) error
}

// Server HTTP服务器
type Server struct {
	ctl      Controller
	log      logrus.FieldLogger
	gatherer prometheus.Gatherer
	mux      *http.ServeMux
}

// Option Server配置选项函数类型
type Option func(*Server)

// WithLogger 设置日志记录器
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithGatherer 设置/metrics使用的指标来源，默认为全局注册表
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// NewServer 创建服务器并注册全部路由
func NewServer(ctl Controller, opts ...Option) *Server {
	s := &Server{
		ctl:      ctl,
		log:      logrus.StandardLogger(),
		gatherer: prometheus.DefaultGatherer,
		mux:      http.NewServeMux(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerHandlers()
	return s
}

// Handler 返回带访问日志的处理器
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.mux.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("HTTP请求")
	})
}

// ListenAndServe 监听地址直到ctx取消，然后优雅关闭
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("address", addr).Info("Web服务器开始监听")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("Web服务器正在关闭")
		return server.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerHandlers() {
	s.mux.HandleFunc("/api/snapshot", s.get(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.ctl.Snapshot())
	}))

	s.mux.HandleFunc("/api/samples", s.get(func(w http.ResponseWriter, r *http.Request) {
		samples := s.ctl.Snapshot().Samples
		if samples == nil {
			samples = []core.Sample{}
		}
		writeJSON(w, http.StatusOK, samples)
	}))

	s.mux.HandleFunc("/api/stats", s.get(func(w http.ResponseWriter, r *http.Request) {
		snap := s.ctl.Snapshot()
		response := struct {
			Stats   core.Stats   `json:"stats"`
			Quality core.Quality `json:"quality"`
			Current *float64     `json:"current"`
		}{
			Stats:   snap.Stats,
			Quality: snap.Quality,
		}
		if !math.IsNaN(snap.Current) {
			response.Current = &snap.Current
		}
		writeJSON(w, http.StatusOK, response)
	}))

	s.mux.HandleFunc("/api/monitoring/start", s.post(func(w http.ResponseWriter, r *http.Request) {
		s.ctl.Start()
		s.writeRunning(w)
	}))

	s.mux.HandleFunc("/api/monitoring/stop", s.post(func(w http.ResponseWriter, r *http.Request) {
		s.ctl.Stop()
		s.writeRunning(w)
	}))

	s.mux.HandleFunc("/api/monitoring/toggle", s.post(func(w http.ResponseWriter, r *http.Request) {
		s.ctl.Toggle()
		s.writeRunning(w)
	}))

	s.mux.HandleFunc("/api/clear", s.post(func(w http.ResponseWriter, r *http.Request) {
		s.ctl.Clear()
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	s.mux.HandleFunc("/api/settings", s.handleSettings)
	s.mux.HandleFunc("/api/chart.png", s.get(s.handleChart))
	s.mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ctl.Snapshot().Settings)

	case http.MethodPost:
		var patch SettingsPatch
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid settings body: "+err.Error())
			return
		}

		if err := s.ctl.UpdateSettings(patch.Apply); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		s.log.WithField("patch", patch.String()).Info("设置已通过API更新")
		writeJSON(w, http.StatusOK, s.ctl.Snapshot().Settings)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	width := queryInt(r, "width", DefaultChartWidth)
	height := queryInt(r, "height", DefaultChartHeight)

	var buf bytes.Buffer
	err := RenderChart(&buf, s.ctl.Snapshot(), width, height)
	if errors.Is(err, ErrNotEnoughData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.log.WithError(err).Warn("渲染图表失败")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (s *Server) writeRunning(w http.ResponseWriter) {
	snap := s.ctl.Snapshot()
	writeJSON(w, http.StatusOK, struct {
		Running   bool   `json:"running"`
		SessionID string `json:"sessionId,omitempty"`
	}{
		Running:   snap.Running,
		SessionID: snap.SessionID,
	})
}

func (s *Server) get(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func (s *Server) post(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// queryInt 读取整数查询参数，缺失或非法时返回默认值
func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
