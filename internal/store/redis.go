package store

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/koopa0/system-design/paddle-arena/internal"
	apperrors "github.com/koopa0/system-design/paddle-arena/pkg/errors"
)

// Leaderboard Redis 排行榜（每個統計欄位一個 ZSET）
//
// 鍵：<prefix>:leaderboard:<field>，成員為玩家 ID，分數為累計值。
type Leaderboard struct {
	rdb    redis.Cmdable
	prefix string
	logger *slog.Logger
}

// NewLeaderboard 創建排行榜
func NewLeaderboard(rdb redis.Cmdable, prefix string, logger *slog.Logger) *Leaderboard {
	if prefix == "" {
		prefix = "arena"
	}
	return &Leaderboard{
		rdb:    rdb,
		prefix: prefix,
		logger: logger.With("component", "leaderboard"),
	}
}

func (l *Leaderboard) key(field internal.StatField) string {
	return l.prefix + ":leaderboard:" + string(field)
}

// Incr 以 pipeline 批次累加
func (l *Leaderboard) Incr(ctx context.Context, playerIDs []string, field internal.StatField, delta int) error {
	if !field.Valid() {
		return apperrors.ErrInvalidStatField.WithDetails(string(field))
	}
	if len(playerIDs) == 0 {
		return nil
	}

	key := l.key(field)
	_, err := l.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range playerIDs {
			pipe.ZIncrBy(ctx, key, float64(delta), id)
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "update leaderboard")
	}
	return nil
}

// Top 分數最高的前 limit 名
func (l *Leaderboard) Top(ctx context.Context, field internal.StatField, limit int) ([]internal.LeaderboardEntry, error) {
	if !field.Valid() {
		return nil, apperrors.ErrInvalidStatField.WithDetails(string(field))
	}
	if limit <= 0 {
		return []internal.LeaderboardEntry{}, nil
	}

	members, err := l.rdb.ZRevRangeWithScores(ctx, l.key(field), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "read leaderboard")
	}

	entries := make([]internal.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		id, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, internal.LeaderboardEntry{PlayerID: id, Score: m.Score})
	}
	return entries, nil
}
