package internal

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// 系統設計問題：
//   如何讓配對、開房、離開與斷線在高並發下保持一致？
//
// 核心挑戰：
//   1. 唯一性：同一玩家最多在一個等待池或一個房間中
//   2. 鎖順序：Arena → Room → Hub，反方向一律在釋放鎖後呼叫
//   3. 慢 I/O：持久化不能阻塞房間清理或其他玩家
//
// 設計方案：
//   ✅ 單一 Mutex 保護等待池與房間註冊表
//   ✅ 訊息在鎖內收集，釋放鎖後才送出
//   ✅ 持久化在獨立 goroutine 中執行（帶超時）

// MatchService 連線層使用的配對服務
type MatchService interface {
	Enqueue(e Entrant, mode Mode)
	Move(playerID string, position float64)
	Leave(playerID, sessionID string)
}

// Arena 配對與房間協調者
type Arena struct {
	mu       sync.Mutex
	queue    *Queue
	registry *Registry
	stopped  bool

	out    Broadcaster
	sink   PersistenceSink
	logger *slog.Logger

	seating        Seating
	tickInterval   time.Duration
	winningScore   int
	persistTimeout time.Duration
	newRoomID      func() string
	now            func() time.Time

	persistWG sync.WaitGroup
	started   time.Time
	finished  uint64
}

// Option Arena 選項
type Option func(*Arena)

// WithSeating 座位分配策略
func WithSeating(s Seating) Option {
	return func(a *Arena) { a.seating = s }
}

// WithTickInterval tick 間隔；0 表示不啟動 ticker（測試手動推進）
func WithTickInterval(d time.Duration) Option {
	return func(a *Arena) { a.tickInterval = d }
}

// WithWinningScore 獲勝分數
func WithWinningScore(n int) Option {
	return func(a *Arena) { a.winningScore = n }
}

// WithPersistTimeout 單次持久化的超時
func WithPersistTimeout(d time.Duration) Option {
	return func(a *Arena) { a.persistTimeout = d }
}

// WithRoomIDGenerator 房間 ID 生成器
func WithRoomIDGenerator(f func() string) Option {
	return func(a *Arena) { a.newRoomID = f }
}

// WithClock 時鐘
func WithClock(now func() time.Time) Option {
	return func(a *Arena) { a.now = now }
}

// NewArena 創建協調者
func NewArena(out Broadcaster, sink PersistenceSink, logger *slog.Logger, opts ...Option) *Arena {
	if sink == nil {
		sink = NopSink{}
	}
	seed := uint64(time.Now().UnixNano())
	a := &Arena{
		queue:          NewQueue(),
		registry:       NewRegistry(),
		out:            out,
		sink:           sink,
		logger:         logger.With("component", "arena"),
		seating:        RandomSeating(rand.NewPCG(seed, seed>>1)),
		tickInterval:   DefaultTickInterval,
		winningScore:   DefaultWinningScore,
		persistTimeout: 5 * time.Second,
		newRoomID:      uuid.NewString,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.started = a.now()
	return a
}

// delivery 釋放鎖後要送出的訊息
type delivery struct {
	to []string
	ev Event
}

func (a *Arena) deliver(ds []delivery) {
	for _, d := range ds {
		if len(d.to) > 0 {
			a.out.Broadcast(d.to, d.ev)
		}
	}
}

// queueUpdateLocked 通知等待池內所有人目前人數（呼叫者持有鎖）
func (a *Arena) queueUpdateLocked(mode Mode) delivery {
	return delivery{
		to: a.queue.Members(mode),
		ev: Event{
			Type: EventUpdateQueue,
			Data: QueueUpdate{QueueSize: a.queue.Len(mode), RequiredSize: mode.RequiredSize()},
		},
	}
}

// Enqueue 加入等待池；人數足夠時立即開房
//
// 無效模式、已在任何等待池中、或已在房間中的請求只記錄日誌，沒有其他效果。
func (a *Arena) Enqueue(e Entrant, mode Mode) {
	logger := a.logger.With("player_id", e.PlayerID, "mode", mode)
	if !mode.Valid() {
		logger.Warn("enqueue rejected: invalid mode")
		return
	}

	var (
		pending []delivery
		room    *Room
	)

	a.mu.Lock()
	switch {
	case a.stopped:
		a.mu.Unlock()
		logger.Warn("enqueue rejected: arena stopped")
		return
	case a.queue.Contains(e.PlayerID):
		a.mu.Unlock()
		logger.Warn("enqueue rejected: already queued")
		return
	}
	if _, seated := a.registry.RoomFor(e.PlayerID); seated {
		a.mu.Unlock()
		logger.Warn("enqueue rejected: already in a room")
		return
	}

	e.EnqueuedAt = a.now()
	a.queue.Push(mode, e)
	pending = append(pending, a.queueUpdateLocked(mode))

	if drafted := a.queue.Draft(mode); drafted != nil {
		players := a.seating(mode, drafted, ConfigFor(mode))
		room = NewRoom(a.newRoomID(), mode, players, a.out, RoomOptions{
			TickInterval: a.tickInterval,
			WinningScore: a.winningScore,
			OnEnd:        a.onRoomEnd,
			Now:          a.now,
			Logger:       a.logger,
		})
		a.registry.Add(room)
		if a.queue.Len(mode) > 0 {
			pending = append(pending, a.queueUpdateLocked(mode))
		}
	}
	a.mu.Unlock()

	logger.Info("player enqueued")
	a.deliver(pending)
	if room != nil {
		room.Start()
	}
}

// Move 轉發球拍移動到玩家所在房間；不在房間中時忽略
func (a *Arena) Move(playerID string, position float64) {
	a.mu.Lock()
	room, ok := a.registry.RoomFor(playerID)
	a.mu.Unlock()

	if !ok || !room.Move(playerID, position) {
		a.logger.Debug("move ignored", "player_id", playerID)
	}
}

// Leave 主動離開或斷線
//
// 先移除玩家在等待池中的登記並通知剩餘的人，再讓所在房間以棄權結束。
// sessionID 非空時只影響由同一連線建立的登記與座位。
func (a *Arena) Leave(playerID, sessionID string) {
	var pending []delivery

	a.mu.Lock()
	for _, mode := range a.queue.Remove(playerID, sessionID) {
		pending = append(pending, a.queueUpdateLocked(mode))
	}
	room, inRoom := a.registry.RoomFor(playerID)
	a.mu.Unlock()

	a.deliver(pending)
	if inRoom {
		room.Forfeit(playerID, sessionID)
	}
}

// onRoomEnd 房間終止：派送持久化，然後從註冊表移除
func (a *Arena) onRoomEnd(room *Room, outcome Outcome) {
	a.persist(outcome)

	a.mu.Lock()
	a.registry.Remove(room.ID)
	a.finished++
	a.mu.Unlock()
}

// persist 寫入對局紀錄與勝負統計
//
// 在背景執行；任何失敗只記錄日誌。寫入順序：勝場、敗場、對局紀錄。
func (a *Arena) persist(outcome Outcome) {
	winners := make([]string, len(outcome.Winners))
	for i, p := range outcome.Winners {
		winners[i] = p.ID
	}
	losers := make([]string, len(outcome.Losers))
	for i, p := range outcome.Losers {
		losers[i] = p.ID
	}

	a.persistWG.Add(1)
	go func() {
		defer a.persistWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), a.persistTimeout)
		defer cancel()

		logger := a.logger.With("room_id", outcome.RoomID)
		if err := a.sink.AdjustStat(ctx, winners, StatWins, 1); err != nil {
			logger.Error("failed to record wins", "error", err)
		}
		if err := a.sink.AdjustStat(ctx, losers, StatLosses, 1); err != nil {
			logger.Error("failed to record losses", "error", err)
		}
		if err := a.sink.RecordMatch(ctx, outcome.Record); err != nil {
			logger.Error("failed to record match", "error", err)
		}
	}()
}

// Stop 終止所有房間並等待進行中的持久化完成
//
// 被終止的房間不寫入紀錄。
func (a *Arena) Stop() {
	a.mu.Lock()
	a.stopped = true
	rooms := a.registry.Rooms()
	for _, r := range rooms {
		a.registry.Remove(r.ID)
	}
	a.queue = NewQueue()
	a.mu.Unlock()

	for _, r := range rooms {
		r.Abort()
	}
	a.persistWG.Wait()

	a.logger.Info("arena stopped", "aborted_rooms", len(rooms))
}

// Room 依 ID 查找進行中的房間
func (a *Arena) Room(roomID string) (*Room, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registry.Get(roomID)
}

// RoomOf 玩家所在的房間
func (a *Arena) RoomOf(playerID string) (*Room, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registry.RoomFor(playerID)
}

// Queued 玩家是否在任一等待池中
func (a *Arena) Queued(playerID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.queue.Contains(playerID)
}

// QueueSize 等待人數
func (a *Arena) QueueSize(mode Mode) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.queue.Len(mode)
}

// ArenaStats 統計資訊
type ArenaStats struct {
	Queues        map[Mode]int `json:"queues"`
	ActiveRooms   int          `json:"active_rooms"`
	PlayersInGame int          `json:"players_in_game"`
	FinishedRooms uint64       `json:"finished_rooms"`
	Uptime        string       `json:"uptime"`
}

// Stats 目前統計
func (a *Arena) Stats() ArenaStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	return ArenaStats{
		Queues:        a.queue.Sizes(),
		ActiveRooms:   a.registry.Len(),
		PlayersInGame: a.registry.PlayerCount(),
		FinishedRooms: a.finished,
		Uptime:        a.now().Sub(a.started).Round(time.Second).String(),
	}
}
