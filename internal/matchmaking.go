package internal

import "slices"

// Queue 各模式的等待池
//
// 不是併發安全的，由 Arena 的鎖保護。
// 同一玩家在所有等待池中最多出現一次。
type Queue struct {
	pools map[Mode][]Entrant
}

// NewQueue 創建等待池
func NewQueue() *Queue {
	pools := make(map[Mode][]Entrant, len(Modes))
	for _, m := range Modes {
		pools[m] = nil
	}
	return &Queue{pools: pools}
}

// Contains 玩家是否在任一等待池中
func (q *Queue) Contains(playerID string) bool {
	for _, pool := range q.pools {
		if slices.ContainsFunc(pool, func(e Entrant) bool { return e.PlayerID == playerID }) {
			return true
		}
	}
	return false
}

// Push 加到隊尾
func (q *Queue) Push(mode Mode, e Entrant) {
	q.pools[mode] = append(q.pools[mode], e)
}

// Len 等待人數
func (q *Queue) Len(mode Mode) int {
	return len(q.pools[mode])
}

// Members 等待池內的玩家 ID（依加入順序）
func (q *Queue) Members(mode Mode) []string {
	pool := q.pools[mode]
	ids := make([]string, len(pool))
	for i, e := range pool {
		ids[i] = e.PlayerID
	}
	return ids
}

// Draft 人數足夠時從隊頭取出一組，否則返回 nil
func (q *Queue) Draft(mode Mode) []Entrant {
	need := mode.RequiredSize()
	pool := q.pools[mode]
	if need == 0 || len(pool) < need {
		return nil
	}

	drafted := slices.Clone(pool[:need])
	q.pools[mode] = slices.Clone(pool[need:])
	return drafted
}

// Remove 移除玩家在所有等待池中的登記，返回有變動的模式
//
// sessionID 非空時只移除由該連線登記的項目；舊連線斷開不會影響新連線的登記。
func (q *Queue) Remove(playerID, sessionID string) []Mode {
	var changed []Mode
	for _, m := range Modes {
		pool := q.pools[m]
		kept := slices.DeleteFunc(slices.Clone(pool), func(e Entrant) bool {
			return e.PlayerID == playerID && (sessionID == "" || e.SessionID == sessionID)
		})
		if len(kept) != len(pool) {
			q.pools[m] = kept
			changed = append(changed, m)
		}
	}
	return changed
}

// Sizes 各模式等待人數
func (q *Queue) Sizes() map[Mode]int {
	sizes := make(map[Mode]int, len(q.pools))
	for m, pool := range q.pools {
		sizes[m] = len(pool)
	}
	return sizes
}
