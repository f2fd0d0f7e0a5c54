package store

import (
	"context"
	"log/slog"

	"github.com/koopa0/system-design/paddle-arena/internal"
)

// Sink 組合 PostgreSQL 與 Redis 的 PersistenceSink
//
// PostgreSQL 的錯誤返回給呼叫者；排行榜是鏡像，失敗只記錄日誌。
type Sink struct {
	matches *MatchStore
	board   *Leaderboard
	logger  *slog.Logger
}

var _ internal.PersistenceSink = (*Sink)(nil)

// NewSink 創建 Sink；board 可為 nil（不維護排行榜）
func NewSink(matches *MatchStore, board *Leaderboard, logger *slog.Logger) *Sink {
	return &Sink{
		matches: matches,
		board:   board,
		logger:  logger.With("component", "sink"),
	}
}

// RecordMatch 寫入對局紀錄
func (s *Sink) RecordMatch(ctx context.Context, rec internal.MatchRecord) error {
	return s.matches.RecordMatch(ctx, rec)
}

// AdjustStat 累加戰績，成功後同步排行榜
func (s *Sink) AdjustStat(ctx context.Context, playerIDs []string, field internal.StatField, delta int) error {
	if err := s.matches.AdjustStat(ctx, playerIDs, field, delta); err != nil {
		return err
	}

	if s.board != nil {
		if err := s.board.Incr(ctx, playerIDs, field, delta); err != nil {
			s.logger.Warn("leaderboard update failed", "field", field, "players", playerIDs, "error", err)
		}
	}
	return nil
}
