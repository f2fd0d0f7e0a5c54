package internal

// 物理常數
const (
	BallRadius       = 10
	InitialBallSpeed = 6
)

// Ball 球的位置與速度（每 tick 的位移量）
type Ball struct {
	X  float64 `json:"ballX"`
	Y  float64 `json:"ballY"`
	VX float64 `json:"ballSpeedX"`
	VY float64 `json:"ballSpeedY"`
}

// NewBall 置中發球
func NewBall(cfg GameConfig) Ball {
	return Ball{
		X:  cfg.CanvasSize / 2,
		Y:  cfg.CanvasSize / 2,
		VX: InitialBallSpeed,
		VY: InitialBallSpeed,
	}
}

// ResetAfterScore 得分後回到中心，水平速度反向
func (b *Ball) ResetAfterScore(cfg GameConfig) {
	b.X = cfg.CanvasSize / 2
	b.Y = cfg.CanvasSize / 2
	b.VX = -b.VX
}

// StepResult 單一 tick 的結果
type StepResult struct {
	Scored      bool
	Edge        Position // 被越過的邊
	ScoringTeam Team
}

// Step 推進一個 tick
//
// 純函數：只修改傳入的球與玩家（擊球數），不做任何 I/O。
// 順序：移動 → 球拍碰撞 → 邊界判定。
// 邊界依固定順序 left、right、(2v2) top、bottom 檢查，同一 tick 最多一個邊得分，
// 先檢查到的邊優先。
func Step(mode Mode, cfg GameConfig, ball *Ball, players []*Player) StepResult {
	ball.X += ball.VX
	ball.Y += ball.VY

	for _, p := range players {
		if collide(cfg, ball, p) {
			p.Hits++
		}
	}

	r := float64(BallRadius)
	edges := []edgeCheck{
		{PositionLeft, ball.X-r < 0},
		{PositionRight, ball.X+r > cfg.CanvasSize},
	}
	if mode == Mode2v2 {
		edges = append(edges,
			edgeCheck{PositionTop, ball.Y-r < 0},
			edgeCheck{PositionBottom, ball.Y+r > cfg.CanvasSize},
		)
	}

	var result StepResult
	for _, e := range edges {
		if !e.crossed {
			continue
		}
		owner := findByPosition(players, e.pos)
		if owner == nil {
			continue
		}
		// 烏龍球語意：越過誰守的邊，就是對手得分
		result = StepResult{Scored: true, Edge: e.pos, ScoringTeam: owner.Team.Opponent()}
		break
	}

	// 1v1 上下是牆，不計分（得分的 tick 也照樣反彈）
	if mode == Mode1v1 && (ball.Y-r <= 0 || ball.Y+r >= cfg.CanvasSize) {
		ball.VY = -ball.VY
	}

	return result
}

type edgeCheck struct {
	pos     Position
	crossed bool
}

// collide 球拍碰撞；碰到時反轉對應速度分量並返回 true
//
// 條件：球的前緣越過球拍內緣且正朝球拍移動，並且另一軸座標嚴格落在球拍範圍內。
func collide(cfg GameConfig, ball *Ball, p *Player) bool {
	r := float64(BallRadius)

	switch p.Position {
	case PositionLeft:
		if ball.X-r <= cfg.PaddleThickness && ball.VX < 0 && within(ball.Y, p.Y, cfg.PaddleSize) {
			ball.VX = -ball.VX
			return true
		}
	case PositionRight:
		if ball.X+r >= cfg.CanvasSize-cfg.PaddleThickness && ball.VX > 0 && within(ball.Y, p.Y, cfg.PaddleSize) {
			ball.VX = -ball.VX
			return true
		}
	case PositionTop:
		if ball.Y-r <= cfg.PaddleThickness && ball.VY < 0 && within(ball.X, p.X, cfg.PaddleSize) {
			ball.VY = -ball.VY
			return true
		}
	case PositionBottom:
		if ball.Y+r >= cfg.CanvasSize-cfg.PaddleThickness && ball.VY > 0 && within(ball.X, p.X, cfg.PaddleSize) {
			ball.VY = -ball.VY
			return true
		}
	}
	return false
}

func within(v, start, length float64) bool {
	return v > start && v < start+length
}

func findByPosition(players []*Player, pos Position) *Player {
	for _, p := range players {
		if p.Position == pos {
			return p
		}
	}
	return nil
}
