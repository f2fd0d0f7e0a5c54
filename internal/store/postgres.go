// Package store 實作對局紀錄與戰績的持久化
//
// PostgreSQL 是權威來源（matches、player_stats），
// Redis 維護可快速查詢的排行榜鏡像。
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/koopa0/system-design/paddle-arena/internal"
	apperrors "github.com/koopa0/system-design/paddle-arena/pkg/errors"
)

// DBTX pgxpool.Pool 與 pgx.Tx 共有的方法
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MatchStore PostgreSQL 對局與戰績儲存
type MatchStore struct {
	db     DBTX
	logger *slog.Logger
}

// NewMatchStore 創建儲存
func NewMatchStore(db DBTX, logger *slog.Logger) *MatchStore {
	return &MatchStore{
		db:     db,
		logger: logger.With("component", "match_store"),
	}
}

const insertMatchSQL = `
INSERT INTO matches (
    room_id, mode, duration_seconds,
    player1_id, player2_id, player3_id, player4_id,
    team1_score, team2_score, winner_team, winner_id, was_forfeit,
    team1_hits, team1_misses, team2_hits, team2_misses, ended_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
ON CONFLICT (room_id) DO NOTHING`

// RecordMatch 寫入一筆對局紀錄；同一房間重複寫入會被忽略
func (s *MatchStore) RecordMatch(ctx context.Context, rec internal.MatchRecord) error {
	p1, p2, p3, p4 := rec.Slots()

	_, err := s.db.Exec(ctx, insertMatchSQL,
		rec.RoomID,
		string(rec.Mode),
		rec.DurationSeconds,
		p1,
		p2,
		optionalText(p3),
		optionalText(p4),
		rec.Team1Score,
		rec.Team2Score,
		int(rec.WinnerTeam),
		rec.WinnerID,
		rec.WasForfeit,
		rec.Team1Hits,
		rec.Team1Misses,
		rec.Team2Hits,
		rec.Team2Misses,
		rec.EndedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "insert match")
	}
	return nil
}

// AdjustStat 批次累加玩家戰績；不存在的玩家自動建立
func (s *MatchStore) AdjustStat(ctx context.Context, playerIDs []string, field internal.StatField, delta int) error {
	if !field.Valid() {
		return apperrors.ErrInvalidStatField.WithDetails(string(field))
	}
	if len(playerIDs) == 0 {
		return nil
	}

	// 欄位名稱來自白名單，不是使用者輸入
	query := fmt.Sprintf(`
INSERT INTO player_stats (player_id, %[1]s)
SELECT id, $2 FROM unnest($1::text[]) AS id
ON CONFLICT (player_id) DO UPDATE
SET %[1]s = player_stats.%[1]s + EXCLUDED.%[1]s, updated_at = NOW()`, field)

	if _, err := s.db.Exec(ctx, query, playerIDs, delta); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "adjust player stats")
	}
	return nil
}

// PlayerStats 讀取玩家戰績；沒有紀錄時返回零值
func (s *MatchStore) PlayerStats(ctx context.Context, playerID string) (internal.PlayerStats, error) {
	stats := internal.PlayerStats{PlayerID: playerID}

	err := s.db.QueryRow(ctx,
		`SELECT wins, losses FROM player_stats WHERE player_id = $1`,
		playerID,
	).Scan(&stats.Wins, &stats.Losses)
	if errors.Is(err, pgx.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return stats, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "query player stats")
	}
	return stats, nil
}

func optionalText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
