package internal

//go:generate mockgen -source=sink.go -destination=mocks/mock_sink.go -package=mocks

import (
	"context"
	"time"

	"github.com/samber/lo"
)

// StatField 可累加的玩家統計欄位
type StatField string

const (
	StatWins   StatField = "wins"
	StatLosses StatField = "losses"
)

// Valid 檢查欄位
func (f StatField) Valid() bool {
	return f == StatWins || f == StatLosses
}

// MatchRecord 一場結束對局的紀錄
//
// Team1 / Team2 依座位順序保存玩家 ID；寫入時 player1 = Team1[0]、player3 = Team1[1]、
// player2 = Team2[0]、player4 = Team2[1]。失誤數即對手得分。
type MatchRecord struct {
	RoomID          string
	Mode            Mode
	DurationSeconds int
	Team1           []string
	Team2           []string
	Team1Score      int
	Team2Score      int
	WinnerTeam      Team
	WinnerID        string
	WasForfeit      bool
	Team1Hits       int
	Team1Misses     int
	Team2Hits       int
	Team2Misses     int
	EndedAt         time.Time
}

// Slots 返回 player1..player4；2v2 以外的空位為空字串
func (m MatchRecord) Slots() (p1, p2, p3, p4 string) {
	p1, _ = lo.Nth(m.Team1, 0)
	p2, _ = lo.Nth(m.Team2, 0)
	p3, _ = lo.Nth(m.Team1, 1)
	p4, _ = lo.Nth(m.Team2, 1)
	return p1, p2, p3, p4
}

// PersistenceSink 對局紀錄與統計的寫入端
//
// 兩個操作都是盡力而為：失敗只記錄日誌，不重試，也不能阻塞房間清理。
type PersistenceSink interface {
	RecordMatch(ctx context.Context, rec MatchRecord) error
	AdjustStat(ctx context.Context, playerIDs []string, field StatField, delta int) error
}

// NopSink 不做任何事（未配置資料庫時使用）
type NopSink struct{}

func (NopSink) RecordMatch(context.Context, MatchRecord) error { return nil }

func (NopSink) AdjustStat(context.Context, []string, StatField, int) error { return nil }

// LeaderboardEntry 排行榜項目
type LeaderboardEntry struct {
	PlayerID string  `json:"player_id"`
	Score    float64 `json:"score"`
}

// LeaderboardReader 排行榜讀取端
type LeaderboardReader interface {
	Top(ctx context.Context, field StatField, limit int) ([]LeaderboardEntry, error)
}

// PlayerStats 玩家累計戰績
type PlayerStats struct {
	PlayerID string `json:"player_id"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}

// StatsReader 玩家戰績讀取端
type StatsReader interface {
	PlayerStats(ctx context.Context, playerID string) (PlayerStats, error)
}

// buildMatchRecord 依結束時的房間狀態產生紀錄（呼叫者持有房間鎖）
func buildMatchRecord(r *Room, winner Team, forfeit bool, endedAt time.Time) MatchRecord {
	team1 := lo.Filter(r.players, func(p *Player, _ int) bool { return p.Team == Team1 })
	team2 := lo.Filter(r.players, func(p *Player, _ int) bool { return p.Team == Team2 })

	ids := func(ps []*Player) []string {
		return lo.Map(ps, func(p *Player, _ int) string { return p.ID })
	}
	hits := func(ps []*Player) int {
		return lo.SumBy(ps, func(p *Player) int { return p.Hits })
	}

	rec := MatchRecord{
		RoomID:          r.ID,
		Mode:            r.Mode,
		DurationSeconds: wallClockSeconds(r.CreatedAt, endedAt),
		Team1:           ids(team1),
		Team2:           ids(team2),
		Team1Score:      r.team1Score,
		Team2Score:      r.team2Score,
		WinnerTeam:      winner,
		WasForfeit:      forfeit,
		Team1Hits:       hits(team1),
		Team1Misses:     r.team2Score,
		Team2Hits:       hits(team2),
		Team2Misses:     r.team1Score,
		EndedAt:         endedAt,
	}

	if winner == Team1 {
		rec.WinnerID, _ = lo.Nth(rec.Team1, 0)
	} else {
		rec.WinnerID, _ = lo.Nth(rec.Team2, 0)
	}
	return rec
}

// wallClockSeconds 以牆上時鐘計算經過秒數（無條件捨去）
//
// Round(0) 去掉單調時鐘讀數；tick 排程用單調時鐘，對局時長則以牆上時鐘計算。
func wallClockSeconds(start, end time.Time) int {
	d := end.Round(0).Sub(start.Round(0))
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
