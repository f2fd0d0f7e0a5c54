package internal

import (
	"math/rand/v2"
	"slices"
)

// Layout 2v2 的座位/隊伍配置
type Layout int

const (
	// LayoutA {left, top} = team1, {right, bottom} = team2
	LayoutA Layout = iota
	// LayoutB {left, bottom} = team1, {right, top} = team2
	LayoutB
)

type seat struct {
	pos  Position
	team Team
}

var layouts = map[Layout][4]seat{
	LayoutA: {
		{PositionLeft, Team1},
		{PositionTop, Team1},
		{PositionRight, Team2},
		{PositionBottom, Team2},
	},
	LayoutB: {
		{PositionLeft, Team1},
		{PositionBottom, Team1},
		{PositionRight, Team2},
		{PositionTop, Team2},
	},
}

// Seating 座位分配策略：把按 FIFO 抽出的玩家安排到座位
//
// drafted 的長度一定等於 mode.RequiredSize()。
type Seating func(mode Mode, drafted []Entrant, cfg GameConfig) []*Player

// RandomSeating 預設策略
//
// 1v1 依抽出順序：第一位 left/team1，第二位 right/team2。
// 2v2 先隨機洗牌，再以均等機率選擇 LayoutA 或 LayoutB；
// 抽出順序只決定「哪四位」，不決定座位。
//
// rand.Source 不是併發安全的；Arena 只在持有鎖時呼叫 Seating。
func RandomSeating(src rand.Source) Seating {
	rng := rand.New(src)

	return func(mode Mode, drafted []Entrant, cfg GameConfig) []*Player {
		if mode != Mode2v2 {
			return seatOneVsOne(drafted, cfg)
		}

		shuffled := slices.Clone(drafted)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		layout := LayoutA
		if rng.IntN(2) == 1 {
			layout = LayoutB
		}
		return SeatTwoVsTwo(shuffled, layout, cfg)
	}
}

// FixedSeating 不洗牌、固定配置（測試與回放用）
func FixedSeating(layout Layout) Seating {
	return func(mode Mode, drafted []Entrant, cfg GameConfig) []*Player {
		if mode != Mode2v2 {
			return seatOneVsOne(drafted, cfg)
		}
		return SeatTwoVsTwo(drafted, layout, cfg)
	}
}

// SeatTwoVsTwo 依配置把四位玩家放上座位（不改變順序）
func SeatTwoVsTwo(ordered []Entrant, layout Layout, cfg GameConfig) []*Player {
	seats := layouts[layout]
	players := make([]*Player, 0, len(seats))
	for i, e := range ordered {
		players = append(players, newSeatedPlayer(e, seats[i].pos, seats[i].team, cfg))
	}
	return players
}

func seatOneVsOne(drafted []Entrant, cfg GameConfig) []*Player {
	return []*Player{
		newSeatedPlayer(drafted[0], PositionLeft, Team1, cfg),
		newSeatedPlayer(drafted[1], PositionRight, Team2, cfg),
	}
}

// LayoutOf 從座位反推配置；不是兩種合法配置之一時返回 false
func LayoutOf(players []*Player) (Layout, bool) {
	teamOf := make(map[Position]Team, len(players))
	for _, p := range players {
		teamOf[p.Position] = p.Team
	}

	for _, layout := range []Layout{LayoutA, LayoutB} {
		match := len(players) == len(layouts[layout])
		for _, s := range layouts[layout] {
			if teamOf[s.pos] != s.team {
				match = false
				break
			}
		}
		if match {
			return layout, true
		}
	}
	return 0, false
}
