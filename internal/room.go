package internal

import (
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
)

// 系統設計問題：
//   如何讓一場對局的物理狀態由伺服器權威推進，並安全地結束？
//
// 核心挑戰：
//   1. 固定頻率：60 Hz 推進物理，每個 tick 廣播一次狀態
//   2. 並發輸入：玩家移動、離開與 tick 同時發生
//   3. 唯一結束：得分結束與棄權結束可能競爭，gameOver 只能發一次
//
// 設計方案：
//   ✅ 每個房間一個 ticker goroutine（房間之間互不影響）
//   ✅ 房間自身的 Mutex 序列化 tick / 移動 / 棄權
//   ✅ 終止狀態在鎖內設定，之後的 tick 一律忽略

// RoomStatus 房間狀態
//
// 有限狀態機：
//
//	forming → active → completed_score
//	                 → completed_forfeit
//	任何狀態 → aborted（伺服器關閉，不寫入紀錄）
type RoomStatus string

const (
	StatusForming          RoomStatus = "forming"
	StatusActive           RoomStatus = "active"
	StatusCompletedScore   RoomStatus = "completed_score"
	StatusCompletedForfeit RoomStatus = "completed_forfeit"
	StatusAborted          RoomStatus = "aborted"
)

// Terminal 是否為終止狀態
func (s RoomStatus) Terminal() bool {
	return s == StatusCompletedScore || s == StatusCompletedForfeit || s == StatusAborted
}

const (
	// DefaultTickInterval 60 Hz
	DefaultTickInterval = time.Second / 60
	// DefaultWinningScore 先得 5 分的隊伍獲勝
	DefaultWinningScore = 5
)

// Outcome 對局結束的結果
type Outcome struct {
	RoomID      string
	Mode        Mode
	Reason      EndReason
	WinningTeam Team
	Winners     []PlayerSummary
	Losers      []PlayerSummary
	Record      MatchRecord
}

// RoomOptions 房間參數
type RoomOptions struct {
	// TickInterval 小於等於 0 時不啟動 ticker，由呼叫者手動 Tick
	TickInterval time.Duration
	WinningScore int
	// OnEnd 在房間終止後（已釋放房間鎖）、gameOver 廣播前呼叫
	OnEnd  func(*Room, Outcome)
	Now    func() time.Time
	Logger *slog.Logger
}

// Room 一場對局
type Room struct {
	ID        string
	Mode      Mode
	Config    GameConfig
	CreatedAt time.Time

	mu         sync.Mutex
	status     RoomStatus
	players    []*Player
	ball       Ball
	team1Score int
	team2Score int
	ticks      uint64

	out      Broadcaster
	opts     RoomOptions
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *slog.Logger
}

// NewRoom 創建房間（狀態為 forming）
func NewRoom(id string, mode Mode, players []*Player, out Broadcaster, opts RoomOptions) *Room {
	if opts.WinningScore <= 0 {
		opts.WinningScore = DefaultWinningScore
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg := ConfigFor(mode)
	return &Room{
		ID:        id,
		Mode:      mode,
		Config:    cfg,
		CreatedAt: opts.Now(),
		status:    StatusForming,
		players:   players,
		ball:      NewBall(cfg),
		out:       out,
		opts:      opts,
		stopCh:    make(chan struct{}),
		logger:    logger.With("room_id", id, "mode", mode),
	}
}

// Start forming → active：廣播 gameStart 並啟動 ticker
//
// 房間在 forming 時已被棄權結束的話，不做任何事。
func (r *Room) Start() {
	r.mu.Lock()
	if r.status != StatusForming {
		r.mu.Unlock()
		return
	}
	r.status = StatusActive
	r.out.Broadcast(r.playerIDs(), Event{
		Type: EventGameStart,
		Data: GameStart{
			Players:    r.summaries(r.players),
			Mode:       r.Mode,
			GameConfig: r.Config,
		},
	})
	r.mu.Unlock()

	r.logger.Info("game started", "players", len(r.players))

	if r.opts.TickInterval > 0 {
		go r.run(r.opts.TickInterval)
	}
}

// run tick 驅動器
func (r *Room) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}

// Tick 推進一個物理步驟並廣播狀態
//
// 非 active 狀態下不做任何事，所以 gameOver 之後不會再有 gameStateUpdate。
func (r *Room) Tick() {
	r.mu.Lock()
	if r.status != StatusActive {
		r.mu.Unlock()
		return
	}

	r.ticks++
	res := Step(r.Mode, r.Config, &r.ball, r.players)
	if !res.Scored {
		r.emitStateLocked()
		r.mu.Unlock()
		return
	}

	if res.ScoringTeam == Team1 {
		r.team1Score++
	} else {
		r.team2Score++
	}
	// 得分的 tick 先廣播（球仍在越界位置），再決定結束或重置
	r.emitStateLocked()

	if r.scoreOf(res.ScoringTeam) >= r.opts.WinningScore {
		outcome := r.finishLocked(StatusCompletedScore, res.ScoringTeam)
		r.mu.Unlock()
		r.conclude(outcome)
		return
	}

	r.ball.ResetAfterScore(r.Config)
	r.logger.Debug("point scored",
		"edge", res.Edge,
		"scoring_team", res.ScoringTeam,
		"team1_score", r.team1Score,
		"team2_score", r.team2Score)
	r.mu.Unlock()
}

// Move 設定玩家球拍位置，夾在 [0, canvas-paddle] 之間
//
// 左右球拍改 Y，上下球拍改 X；玩家不在房間或房間不在 active 時返回 false。
func (r *Room) Move(playerID string, position float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusActive {
		return false
	}
	p := r.findPlayer(playerID)
	if p == nil {
		return false
	}

	clamped := min(max(position, 0), r.Config.MaxPaddleOffset())
	if p.Position.Vertical() {
		p.Y = clamped
	} else {
		p.X = clamped
	}
	return true
}

// Forfeit 玩家離開：對手隊伍獲勝
//
// sessionID 非空時，只有座位上記錄的同一連線才能觸發棄權。
// 返回是否由這次呼叫結束了房間。
func (r *Room) Forfeit(playerID, sessionID string) bool {
	r.mu.Lock()
	if r.status.Terminal() {
		r.mu.Unlock()
		return false
	}
	leaver := r.findPlayer(playerID)
	if leaver == nil || (sessionID != "" && leaver.SessionID != sessionID) {
		r.mu.Unlock()
		return false
	}

	outcome := r.finishLocked(StatusCompletedForfeit, leaver.Team.Opponent())
	r.mu.Unlock()

	r.logger.Info("player forfeited", "player_id", playerID)
	r.conclude(outcome)
	return true
}

// Abort 伺服器關閉時終止房間：不廣播、不寫紀錄
func (r *Room) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status.Terminal() {
		return
	}
	r.status = StatusAborted
	r.stop()
}

// finishLocked 設定終止狀態、停止 ticker、計算勝負（呼叫者持有鎖）
func (r *Room) finishLocked(status RoomStatus, winner Team) Outcome {
	r.status = status
	r.stop()

	reason := ReasonScore
	if status == StatusCompletedForfeit {
		reason = ReasonForfeit
	}

	winners, losers := lo.FilterReject(r.players, func(p *Player, _ int) bool {
		return p.Team == winner
	})

	return Outcome{
		RoomID:      r.ID,
		Mode:        r.Mode,
		Reason:      reason,
		WinningTeam: winner,
		Winners:     r.summaries(winners),
		Losers:      r.summaries(losers),
		Record:      buildMatchRecord(r, winner, reason == ReasonForfeit, r.opts.Now()),
	}
}

// conclude 通知擁有者，然後廣播 gameOver
//
// 得分結束通知房間內所有玩家；棄權結束只通知勝方。
func (r *Room) conclude(outcome Outcome) {
	if r.opts.OnEnd != nil {
		r.opts.OnEnd(r, outcome)
	}

	recipients := lo.Map(outcome.Winners, func(p PlayerSummary, _ int) string { return p.ID })
	if outcome.Reason == ReasonScore {
		recipients = r.playerIDs()
	}

	r.out.Broadcast(recipients, Event{
		Type: EventGameOver,
		Data: GameOver{
			Winners: outcome.Winners,
			Losers:  outcome.Losers,
			Reason:  outcome.Reason,
		},
	})

	r.logger.Info("game over",
		"reason", outcome.Reason,
		"winning_team", outcome.WinningTeam,
		"team1_score", outcome.Record.Team1Score,
		"team2_score", outcome.Record.Team2Score,
		"duration_seconds", outcome.Record.DurationSeconds)
}

func (r *Room) stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// emitStateLocked 廣播目前狀態（呼叫者持有鎖）
func (r *Room) emitStateLocked() {
	r.out.Broadcast(r.playerIDs(), Event{Type: EventGameState, Data: r.stateLocked()})
}

func (r *Room) stateLocked() GameState {
	players := make([]Player, len(r.players))
	for i, p := range r.players {
		players[i] = *p
	}
	return GameState{
		Ball:       r.ball,
		Team1Score: r.team1Score,
		Team2Score: r.team2Score,
		Players:    players,
	}
}

// State 目前狀態快照
func (r *Room) State() GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

// Status 目前狀態
func (r *Room) Status() RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Ticks 已推進的 tick 數
func (r *Room) Ticks() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

// Players 玩家公開資訊
func (r *Room) Players() []PlayerSummary {
	return r.summaries(r.players)
}

// Done 房間終止時關閉
func (r *Room) Done() <-chan struct{} {
	return r.stopCh
}

func (r *Room) scoreOf(t Team) int {
	if t == Team1 {
		return r.team1Score
	}
	return r.team2Score
}

func (r *Room) findPlayer(playerID string) *Player {
	for _, p := range r.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// players 切片在房間建立後不再改變，可不持鎖讀取 ID 與座位
func (r *Room) playerIDs() []string {
	return lo.Map(r.players, func(p *Player, _ int) string { return p.ID })
}

func (r *Room) summaries(ps []*Player) []PlayerSummary {
	return lo.Map(ps, func(p *Player, _ int) PlayerSummary { return p.Summary() })
}
