package internal

import "time"

// Position 座位（決定球拍方向與所守的得分邊）
type Position string

const (
	PositionLeft   Position = "left"
	PositionRight  Position = "right"
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// Vertical 左右兩側的球拍沿 Y 軸移動
func (p Position) Vertical() bool {
	return p == PositionLeft || p == PositionRight
}

// Team 隊伍編號
type Team int

const (
	Team1 Team = 1
	Team2 Team = 2
)

// Opponent 對手隊伍
func (t Team) Opponent() Team {
	if t == Team1 {
		return Team2
	}
	return Team1
}

// Entrant 等待池中的一筆登記
//
// SessionID 記錄是哪一條連線送出加入請求；連線本身不在此持有，
// 發送訊息時一律以 PlayerID 向 Broadcaster 查找。
type Entrant struct {
	PlayerID   string
	Name       string
	SessionID  string
	EnqueuedAt time.Time
}

// Player 房間內的玩家狀態
type Player struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Position  Position `json:"position"`
	Team      Team     `json:"team"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Hits      int      `json:"hits"`
	SessionID string   `json:"-"`
}

// PlayerSummary 對外公開的玩家資訊（gameStart / gameOver）
type PlayerSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Team     Team     `json:"team"`
}

// Summary 轉換為公開資訊
func (p *Player) Summary() PlayerSummary {
	return PlayerSummary{
		ID:       p.ID,
		Name:     p.Name,
		Position: p.Position,
		Team:     p.Team,
	}
}

// newSeatedPlayer 依座位放置球拍起始位置
func newSeatedPlayer(e Entrant, pos Position, team Team, cfg GameConfig) *Player {
	p := &Player{
		ID:        e.PlayerID,
		Name:      e.Name,
		Position:  pos,
		Team:      team,
		SessionID: e.SessionID,
	}

	center := cfg.PaddleStart()
	switch pos {
	case PositionLeft:
		p.X, p.Y = 0, center
	case PositionRight:
		p.X, p.Y = cfg.CanvasSize-cfg.PaddleThickness, center
	case PositionTop:
		p.X, p.Y = center, 0
	case PositionBottom:
		p.X, p.Y = center, cfg.CanvasSize-cfg.PaddleThickness
	}
	return p
}
