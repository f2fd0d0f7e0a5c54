package internal

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/koopa0/system-design/paddle-arena/pkg/errors"
	"github.com/koopa0/system-design/paddle-arena/pkg/logger"
)

// Handler HTTP 請求處理器
type Handler struct {
	arena       *Arena
	hub         *Hub
	leaderboard LeaderboardReader
	stats       StatsReader
	logger      *slog.Logger
}

// NewHandler 創建 HTTP 處理器；leaderboard / stats 可為 nil（對應端點返回 503）
func NewHandler(arena *Arena, hub *Hub, leaderboard LeaderboardReader, stats StatsReader, logger *slog.Logger) *Handler {
	return &Handler{
		arena:       arena,
		hub:         hub,
		leaderboard: leaderboard,
		stats:       stats,
		logger:      logger.With("component", "http"),
	}
}

// Routes 設定路由
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	// 中間件鏈：恢復 -> 日誌 -> 業務處理
	wrap := func(handler http.HandlerFunc) http.HandlerFunc {
		return h.recoverer(h.loggerMiddleware(handler))
	}

	// WebSocket 需要原始的 ResponseWriter 才能 Hijack，不經過日誌包裝
	mux.HandleFunc("GET /ws", h.recoverer(h.hub.ServeWS))

	mux.HandleFunc("GET /api/v1/leaderboard", wrap(h.getLeaderboard))
	mux.HandleFunc("GET /api/v1/players/{player_id}/stats", wrap(h.getPlayerStats))

	// 健康檢查
	mux.HandleFunc("GET /health", wrap(h.health))
	mux.HandleFunc("GET /stats", wrap(h.serverStats))

	return mux
}

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// getLeaderboard 排行榜
func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	if h.leaderboard == nil {
		h.errorResponse(w, "leaderboard disabled", http.StatusServiceUnavailable)
		return
	}

	field := StatField(r.URL.Query().Get("field"))
	if field == "" {
		field = StatWins
	}
	if !field.Valid() {
		h.errorResponse(w, "field must be wins or losses", http.StatusBadRequest)
		return
	}

	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLeaderboardLimit {
			h.errorResponse(w, "limit must be between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.leaderboard.Top(r.Context(), field, limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "leaderboard query failed", "error", err)
		h.respondAppError(w, err)
		return
	}

	h.jsonResponse(w, map[string]any{
		"field":   field,
		"entries": entries,
	}, http.StatusOK)
}

// getPlayerStats 玩家戰績
func (h *Handler) getPlayerStats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		h.errorResponse(w, "stats disabled", http.StatusServiceUnavailable)
		return
	}

	playerID := r.PathValue("player_id")
	stats, err := h.stats.PlayerStats(r.Context(), playerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "player stats query failed", "player_id", playerID, "error", err)
		h.respondAppError(w, err)
		return
	}

	h.jsonResponse(w, stats, http.StatusOK)
}

// health 健康檢查
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, map[string]any{
		"status": "healthy",
		"time":   time.Now().Unix(),
	}, http.StatusOK)
}

// serverStats 統計資訊
func (h *Handler) serverStats(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, map[string]any{
		"arena":       h.arena.Stats(),
		"connections": h.hub.ConnectionCount(),
	}, http.StatusOK)
}

// jsonResponse 返回 JSON 響應
func (h *Handler) jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// errorResponse 返回錯誤響應
func (h *Handler) errorResponse(w http.ResponseWriter, message string, status int) {
	h.jsonResponse(w, map[string]any{
		"error": message,
	}, status)
}

// respondAppError 依錯誤碼決定狀態碼
func (h *Handler) respondAppError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsInvalidInput(err):
		h.errorResponse(w, err.Error(), http.StatusBadRequest)
	case apperrors.IsUnavailable(err):
		h.errorResponse(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		h.errorResponse(w, "internal server error", http.StatusInternalServerError)
	}
}

// loggerMiddleware 日誌中間件（附帶 request_id）
func (h *Handler) loggerMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)

		ww := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next(ww, r.WithContext(ctx))

		h.logger.InfoContext(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.statusCode,
			"duration", time.Since(start))
	}
}

// recoverer panic 恢復中間件
func (h *Handler) recoverer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.logger.Error("panic while handling request",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path)

				h.errorResponse(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		next(w, r)
	}
}

// responseWriter 包裝 ResponseWriter 以獲取狀態碼
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
