package internal

// 事件名稱（客戶端 ↔ 伺服器）
const (
	// 客戶端 → 伺服器
	EventJoinMatchmaking = "joinMatchmaking"
	EventPlayerMove      = "playerMove"
	EventLeave           = "leaveGameOrLobby"
	EventRequestUserList = "requestUserList"
	EventPing            = "ping"

	// 伺服器 → 客戶端
	EventUpdateQueue     = "updateQueue"
	EventGameStart       = "gameStart"
	EventGameState       = "gameStateUpdate"
	EventGameOver        = "gameOver"
	EventForceDisconnect = "forceDisconnect"
	EventUpdateUserList  = "updateUserList"
	EventPong            = "pong"
)

// Event 訊息封包
type Event struct {
	Type string `json:"event"`
	Data any    `json:"data,omitempty"`
}

// Broadcaster 把事件推送給指定玩家
//
// 以玩家身分查找目前的連線；找不到連線的玩家直接略過。
// 實作必須是非阻塞的，Room 會在持有自身鎖時呼叫。
type Broadcaster interface {
	Broadcast(playerIDs []string, ev Event)
}

// QueueUpdate 等待池人數
type QueueUpdate struct {
	QueueSize    int `json:"queueSize"`
	RequiredSize int `json:"requiredSize"`
}

// GameStart 開局資訊
type GameStart struct {
	Players []PlayerSummary `json:"players"`
	Mode    Mode            `json:"mode"`
	GameConfig
}

// GameState 每個 tick 廣播的狀態
type GameState struct {
	Ball
	Team1Score int      `json:"team1Score"`
	Team2Score int      `json:"team2Score"`
	Players    []Player `json:"players"`
}

// EndReason 對局結束原因
type EndReason string

const (
	ReasonScore   EndReason = "score"
	ReasonForfeit EndReason = "forfeit"
)

// GameOver 對局結束
type GameOver struct {
	Winners []PlayerSummary `json:"winners"`
	Losers  []PlayerSummary `json:"losers"`
	Reason  EndReason       `json:"reason"`
}

// OnlineUser 線上名單項目
type OnlineUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// 客戶端請求

// JoinRequest joinMatchmaking 的內容
type JoinRequest struct {
	Mode string `json:"mode" validate:"required,oneof=1v1 2v2"`
}

// MoveRequest playerMove 的內容
type MoveRequest struct {
	NewPosition *float64 `json:"newPosition" validate:"required"`
}
