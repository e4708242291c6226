package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"cricket-hub/config"
	"cricket-hub/database"
	"cricket-hub/logger"
	"cricket-hub/pkg/common"
	"cricket-hub/pkg/models"
)

// Refresher runs one refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context, status models.StatusFilter, series string) (*models.Board, error)
	SourceName() string
}

// BoardReader returns the last cached board for a filter.
type BoardReader interface {
	Latest(ctx context.Context, status models.StatusFilter) (*models.Board, error)
}

// RefreshHistory lists recent refresh cycles.
type RefreshHistory interface {
	Recent(ctx context.Context, limit int) ([]database.RefreshLog, error)
}

type Server struct {
	config     *config.Config
	dashboard  Refresher
	wsHub      *Hub
	latest     BoardReader
	history    RefreshHistory
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// ServerOption 可选组件
type ServerOption func(*Server)

// WithBoardReader enables /api/matches/latest.
func WithBoardReader(r BoardReader) ServerOption {
	return func(s *Server) { s.latest = r }
}

// WithHistory enables /api/refreshes.
func WithHistory(h RefreshHistory) ServerOption {
	return func(s *Server) { s.history = h }
}

func NewServer(cfg *config.Config, dashboard Refresher, hub *Hub, opts ...ServerOption) *Server {
	s := &Server{
		config:    cfg,
		dashboard: dashboard,
		wsHub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有来源(生产环境需要限制)
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	// API路由
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/matches", s.handleGetMatches).Methods("GET")
	api.HandleFunc("/matches/latest", s.handleGetLatest).Methods("GET")
	api.HandleFunc("/refreshes", s.handleGetRefreshes).Methods("GET")

	// WebSocket路由
	router.HandleFunc("/ws", s.handleWebSocket)

	// 页面
	router.HandleFunc("/", s.handleDashboard).Methods("GET")

	// CORS配置
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(router)
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Printf("[Server] ✅ Listening on :%s", s.config.Port)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop() {
	if s.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("[Server] ❌ Shutdown error: %v", err)
	}
}

// defaultStatus is Live, except for the feed whose entries carry no state.
func (s *Server) defaultStatus() models.StatusFilter {
	if s.config.Source == config.SourceFeed {
		return models.FilterAll
	}
	return models.FilterLive
}

// parseStatus 解析 status 参数，缺省见 defaultStatus
func (s *Server) parseStatus(r *http.Request) (models.StatusFilter, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return s.defaultStatus(), nil
	}
	status, ok := models.ParseStatusFilter(raw)
	if !ok {
		return "", common.NewAppError("INVALID_STATUS", fmt.Sprintf("unknown status %q", raw), common.ErrInvalidInput)
	}
	return status, nil
}

// handleHealth 健康检查
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"source":  s.dashboard.SourceName(),
		"clients": s.wsHub.ClientCount(),
		"time":    time.Now().Unix(),
	})
}

// handleGetMatches 刷新并返回分组后的比赛
func (s *Server) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	status, err := s.parseStatus(r)
	if err != nil {
		writeError(w, err)
		return
	}

	board, err := s.dashboard.Refresh(r.Context(), status, r.URL.Query().Get("series"))
	if err != nil {
		// client went away, nothing to answer
		logger.Debugf("[Server] Refresh abandoned: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// handleGetLatest 返回缓存的最新看板
func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	status, err := s.parseStatus(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if s.latest == nil {
		writeError(w, common.NewAppError("CACHE_DISABLED", "board cache is not configured", common.ErrDisabled))
		return
	}

	board, err := s.latest.Latest(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// handleGetRefreshes 返回最近的刷新记录
func (s *Server) handleGetRefreshes(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, common.NewAppError("HISTORY_DISABLED", "refresh history is not configured", common.ErrDisabled))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"refreshes": logs,
		"count":     len(logs),
	})
}

// handleDashboard 渲染 HTML 看板
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	status, err := s.parseStatus(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	board, err := s.dashboard.Refresh(r.Context(), status, r.URL.Query().Get("series"))
	if err != nil {
		logger.Debugf("[Server] Refresh abandoned: %v", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderDashboard(w, board, s.config.AutoRefreshSeconds); err != nil {
		logger.Errorf("[Server] ❌ Failed to render dashboard: %v", err)
	}
}

// handleWebSocket 升级为 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Errorf("[Server] ❌ WebSocket upgrade failed: %v", err)
		return
	}
	s.wsHub.Subscribe(conn)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("[Server] ❌ Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, common.StatusCode(err), map[string]string{"error": err.Error()})
}
