package internal_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopa0/system-design/paddle-arena/internal"
	"github.com/koopa0/system-design/paddle-arena/internal/testutils"
)

func TestFixedSeating_OneVsOne(t *testing.T) {
	cfg := internal.ConfigFor(internal.Mode1v1)
	players := internal.FixedSeating(internal.LayoutB)(internal.Mode1v1,
		[]internal.Entrant{testutils.Entrant("a"), testutils.Entrant("b")}, cfg)

	require.Len(t, players, 2)

	a, b := players[0], players[1]
	assert.Equal(t, "a", a.ID)
	assert.Equal(t, internal.PositionLeft, a.Position)
	assert.Equal(t, internal.Team1, a.Team)
	assert.Equal(t, 0.0, a.X)
	assert.Equal(t, 350.0, a.Y)
	assert.Equal(t, "session-a", a.SessionID)

	assert.Equal(t, "b", b.ID)
	assert.Equal(t, internal.PositionRight, b.Position)
	assert.Equal(t, internal.Team2, b.Team)
	assert.Equal(t, 785.0, b.X)
	assert.Equal(t, 350.0, b.Y)
}

func TestSeatTwoVsTwo(t *testing.T) {
	cfg := internal.ConfigFor(internal.Mode2v2)
	entrants := []internal.Entrant{
		testutils.Entrant("p1"), testutils.Entrant("p2"),
		testutils.Entrant("p3"), testutils.Entrant("p4"),
	}

	tests := []struct {
		layout internal.Layout
		want   map[string]struct {
			pos  internal.Position
			team internal.Team
			x, y float64
		}
	}{
		{
			layout: internal.LayoutA,
			want: map[string]struct {
				pos  internal.Position
				team internal.Team
				x, y float64
			}{
				"p1": {internal.PositionLeft, internal.Team1, 0, 350},
				"p2": {internal.PositionTop, internal.Team1, 350, 0},
				"p3": {internal.PositionRight, internal.Team2, 785, 350},
				"p4": {internal.PositionBottom, internal.Team2, 350, 785},
			},
		},
		{
			layout: internal.LayoutB,
			want: map[string]struct {
				pos  internal.Position
				team internal.Team
				x, y float64
			}{
				"p1": {internal.PositionLeft, internal.Team1, 0, 350},
				"p2": {internal.PositionBottom, internal.Team1, 350, 785},
				"p3": {internal.PositionRight, internal.Team2, 785, 350},
				"p4": {internal.PositionTop, internal.Team2, 350, 0},
			},
		},
	}

	for _, tt := range tests {
		players := internal.SeatTwoVsTwo(entrants, tt.layout, cfg)
		require.Len(t, players, 4)

		for _, p := range players {
			want := tt.want[p.ID]
			assert.Equal(t, want.pos, p.Position, p.ID)
			assert.Equal(t, want.team, p.Team, p.ID)
			assert.Equal(t, want.x, p.X, p.ID)
			assert.Equal(t, want.y, p.Y, p.ID)
		}

		layout, ok := internal.LayoutOf(players)
		assert.True(t, ok)
		assert.Equal(t, tt.layout, layout)
	}
}

func TestRandomSeating_ProducesOnlyValidLayouts(t *testing.T) {
	seating := internal.RandomSeating(rand.NewPCG(42, 7))
	cfg := internal.ConfigFor(internal.Mode2v2)
	entrants := []internal.Entrant{
		testutils.Entrant("p1"), testutils.Entrant("p2"),
		testutils.Entrant("p3"), testutils.Entrant("p4"),
	}

	seen := map[internal.Layout]int{}
	leftSeat := map[string]int{}
	for range 400 {
		players := seating(internal.Mode2v2, entrants, cfg)
		require.Len(t, players, 4)

		layout, ok := internal.LayoutOf(players)
		require.True(t, ok, "seating must be layout A or B")
		seen[layout]++

		ids := map[string]bool{}
		teamSize := map[internal.Team]int{}
		for _, p := range players {
			ids[p.ID] = true
			teamSize[p.Team]++
			if p.Position == internal.PositionLeft {
				leftSeat[p.ID]++
			}
		}
		assert.Len(t, ids, 4, "every drafted player seated exactly once")
		assert.Equal(t, 2, teamSize[internal.Team1])
		assert.Equal(t, 2, teamSize[internal.Team2])
	}

	assert.Positive(t, seen[internal.LayoutA])
	assert.Positive(t, seen[internal.LayoutB])
	// 洗牌後每個人都有機會坐左邊
	assert.Len(t, leftSeat, 4)
}

func TestRandomSeating_OneVsOneKeepsDraftOrder(t *testing.T) {
	seating := internal.RandomSeating(rand.NewPCG(1, 1))
	cfg := internal.ConfigFor(internal.Mode1v1)

	for range 20 {
		players := seating(internal.Mode1v1, []internal.Entrant{testutils.Entrant("a"), testutils.Entrant("b")}, cfg)
		assert.Equal(t, "a", players[0].ID)
		assert.Equal(t, internal.PositionLeft, players[0].Position)
		assert.Equal(t, "b", players[1].ID)
		assert.Equal(t, internal.PositionRight, players[1].Position)
	}
}

func TestRandomSeating_SameSeedSameSeats(t *testing.T) {
	cfg := internal.ConfigFor(internal.Mode2v2)
	entrants := []internal.Entrant{
		testutils.Entrant("p1"), testutils.Entrant("p2"),
		testutils.Entrant("p3"), testutils.Entrant("p4"),
	}

	first := internal.RandomSeating(rand.NewPCG(9, 9))
	second := internal.RandomSeating(rand.NewPCG(9, 9))

	for range 10 {
		assert.Equal(t, first(internal.Mode2v2, entrants, cfg), second(internal.Mode2v2, entrants, cfg))
	}
}

func TestLayoutOf_RejectsInvalidSeating(t *testing.T) {
	cfg := internal.ConfigFor(internal.Mode2v2)
	players := internal.SeatTwoVsTwo([]internal.Entrant{
		testutils.Entrant("p1"), testutils.Entrant("p2"),
		testutils.Entrant("p3"), testutils.Entrant("p4"),
	}, internal.LayoutA, cfg)

	// left 與 right 同隊不是合法配置
	players[2].Team = internal.Team1
	players[1].Team = internal.Team2

	_, ok := internal.LayoutOf(players)
	assert.False(t, ok)
}
