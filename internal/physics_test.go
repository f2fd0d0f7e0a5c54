package internal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopa0/system-design/paddle-arena/internal"
	"github.com/koopa0/system-design/paddle-arena/internal/testutils"
)

func seat(t *testing.T, mode internal.Mode, layout internal.Layout, ids ...string) []*internal.Player {
	t.Helper()

	entrants := make([]internal.Entrant, len(ids))
	for i, id := range ids {
		entrants[i] = testutils.Entrant(id)
	}
	players := internal.FixedSeating(layout)(mode, entrants, internal.ConfigFor(mode))
	require.Len(t, players, mode.RequiredSize())
	return players
}

func TestNewBall(t *testing.T) {
	ball := internal.NewBall(internal.ConfigFor(internal.Mode1v1))

	assert.Equal(t, internal.Ball{X: 400, Y: 400, VX: 6, VY: 6}, ball)
}

func TestBall_ResetAfterScore(t *testing.T) {
	cfg := internal.ConfigFor(internal.Mode1v1)
	ball := internal.Ball{X: 796, Y: 120, VX: 6, VY: -6}

	ball.ResetAfterScore(cfg)

	assert.Equal(t, internal.Ball{X: 400, Y: 400, VX: -6, VY: -6}, ball)
}

func TestStep_PaddleCollision(t *testing.T) {
	cfg := internal.ConfigFor(internal.Mode2v2)

	tests := []struct {
		name     string
		ball     internal.Ball
		hitter   int // 座位索引（LayoutA：left, top, right, bottom）
		wantBall internal.Ball
	}{
		{
			name:     "left paddle reflects horizontal speed",
			ball:     internal.Ball{X: 30, Y: 400, VX: -6, VY: 6},
			hitter:   0,
			wantBall: internal.Ball{X: 24, Y: 406, VX: 6, VY: 6},
		},
		{
			name:     "top paddle reflects vertical speed",
			ball:     internal.Ball{X: 400, Y: 30, VX: 6, VY: -6},
			hitter:   1,
			wantBall: internal.Ball{X: 406, Y: 24, VX: 6, VY: 6},
		},
		{
			name:     "right paddle reflects horizontal speed",
			ball:     internal.Ball{X: 770, Y: 400, VX: 6, VY: -6},
			hitter:   2,
			wantBall: internal.Ball{X: 776, Y: 394, VX: -6, VY: -6},
		},
		{
			name:     "bottom paddle reflects vertical speed",
			ball:     internal.Ball{X: 400, Y: 770, VX: -6, VY: 6},
			hitter:   3,
			wantBall: internal.Ball{X: 394, Y: 776, VX: -6, VY: -6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := seat(t, internal.Mode2v2, internal.LayoutA, "p1", "p2", "p3", "p4")
			ball := tt.ball

			res := internal.Step(internal.Mode2v2, cfg, &ball, players)

			assert.False(t, res.Scored)
			assert.Equal(t, tt.wantBall, ball)
			for i, p := range players {
				if i == tt.hitter {
					assert.Equal(t, 1, p.Hits, p.Position)
				} else {
					assert.Zero(t, p.Hits, p.Position)
				}
			}
		})
	}
}

func TestStep_NoCollision(t *testing.T) {
	cfg := internal.ConfigFor(internal.Mode1v1)

	tests := []struct {
		name string
		ball internal.Ball
	}{
		// 球拍範圍 (350, 450) 不含端點
		{name: "outside paddle span", ball: internal.Ball{X: 30, Y: 200, VX: -6, VY: 6}},
		{name: "on paddle end is a miss", ball: internal.Ball{X: 30, Y: 444, VX: -6, VY: 6}},
		{name: "moving away from paddle", ball: internal.Ball{X: 20, Y: 400, VX: 6, VY: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := seat(t, internal.Mode1v1, internal.LayoutA, "a", "b")
			ball := tt.ball
			vx := ball.VX

			internal.Step(internal.Mode1v1, cfg, &ball, players)

			assert.Equal(t, vx, ball.VX)
			assert.Zero(t, players[0].Hits)
		})
	}
}

func TestStep_Scoring(t *testing.T) {
	tests := []struct {
		name     string
		mode     internal.Mode
		layout   internal.Layout
		ball     internal.Ball
		wantEdge internal.Position
		wantTeam internal.Team
	}{
		{
			name:     "1v1 ball past left edge scores for team2",
			mode:     internal.Mode1v1,
			ball:     internal.Ball{X: 12, Y: 100, VX: -6, VY: 6},
			wantEdge: internal.PositionLeft,
			wantTeam: internal.Team2,
		},
		{
			name:     "1v1 ball past right edge scores for team1",
			mode:     internal.Mode1v1,
			ball:     internal.Ball{X: 788, Y: 100, VX: 6, VY: 6},
			wantEdge: internal.PositionRight,
			wantTeam: internal.Team1,
		},
		{
			name:     "2v2 top edge owned by team1 in layout A",
			mode:     internal.Mode2v2,
			layout:   internal.LayoutA,
			ball:     internal.Ball{X: 100, Y: 12, VX: 6, VY: -6},
			wantEdge: internal.PositionTop,
			wantTeam: internal.Team2,
		},
		{
			name:     "2v2 top edge owned by team2 in layout B",
			mode:     internal.Mode2v2,
			layout:   internal.LayoutB,
			ball:     internal.Ball{X: 100, Y: 12, VX: 6, VY: -6},
			wantEdge: internal.PositionTop,
			wantTeam: internal.Team1,
		},
		{
			name:     "2v2 corner: right is checked before bottom",
			mode:     internal.Mode2v2,
			layout:   internal.LayoutB,
			ball:     internal.Ball{X: 790, Y: 790, VX: 6, VY: 6},
			wantEdge: internal.PositionRight,
			wantTeam: internal.Team1,
		},
		{
			name:     "2v2 corner: left is checked before top",
			mode:     internal.Mode2v2,
			layout:   internal.LayoutB,
			ball:     internal.Ball{X: 10, Y: 10, VX: -6, VY: -6},
			wantEdge: internal.PositionLeft,
			wantTeam: internal.Team2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := []string{"p1", "p2", "p3", "p4"}[:tt.mode.RequiredSize()]
			players := seat(t, tt.mode, tt.layout, ids...)
			ball := tt.ball

			res := internal.Step(tt.mode, internal.ConfigFor(tt.mode), &ball, players)

			require.True(t, res.Scored)
			assert.Equal(t, tt.wantEdge, res.Edge)
			assert.Equal(t, tt.wantTeam, res.ScoringTeam)
		})
	}
}

func TestStep_OneVsOneWalls(t *testing.T) {
	cfg := internal.ConfigFor(internal.Mode1v1)
	players := seat(t, internal.Mode1v1, internal.LayoutA, "a", "b")

	ball := internal.Ball{X: 400, Y: 14, VX: 6, VY: -6}
	res := internal.Step(internal.Mode1v1, cfg, &ball, players)

	assert.False(t, res.Scored, "top is a wall in 1v1")
	assert.Equal(t, 8.0, ball.Y)
	assert.Equal(t, 6.0, ball.VY)

	ball = internal.Ball{X: 400, Y: 786, VX: 6, VY: 6}
	res = internal.Step(internal.Mode1v1, cfg, &ball, players)

	assert.False(t, res.Scored, "bottom is a wall in 1v1")
	assert.Equal(t, -6.0, ball.VY)
}

func TestStep_TwoVsTwoHasNoWalls(t *testing.T) {
	cfg := internal.ConfigFor(internal.Mode2v2)
	players := seat(t, internal.Mode2v2, internal.LayoutA, "p1", "p2", "p3", "p4")

	// 遠離上方球拍的範圍，越過上邊即得分
	ball := internal.Ball{X: 100, Y: 14, VX: 6, VY: -6}
	res := internal.Step(internal.Mode2v2, cfg, &ball, players)

	assert.True(t, res.Scored)
	assert.Equal(t, -6.0, ball.VY, "no reflection off a scoring edge")
}

func TestStep_BallStaysInBounds(t *testing.T) {
	for _, mode := range internal.Modes {
		t.Run(string(mode), func(t *testing.T) {
			ids := []string{"p1", "p2", "p3", "p4"}[:mode.RequiredSize()]
			players := seat(t, mode, internal.LayoutA, ids...)
			cfg := internal.ConfigFor(mode)
			ball := internal.NewBall(cfg)

			for tick := 0; tick < 5000; tick++ {
				res := internal.Step(mode, cfg, &ball, players)
				if res.Scored {
					ball.ResetAfterScore(cfg)
					continue
				}
				require.GreaterOrEqual(t, ball.X, 0.0, "tick %d", tick)
				require.LessOrEqual(t, ball.X, cfg.CanvasSize, "tick %d", tick)
				require.GreaterOrEqual(t, ball.Y, 0.0, "tick %d", tick)
				require.LessOrEqual(t, ball.Y, cfg.CanvasSize, "tick %d", tick)
			}
		})
	}
}
