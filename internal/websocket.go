package internal

import (
	"cmp"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

// 系統設計問題：
//   如何保證「一個玩家同時只有一條有效連線」，並把事件推送到正確的連線？
//
// 核心挑戰：
//   1. 身分綁定：連線在升級前就必須知道是哪位玩家
//   2. 多裝置登入：新連線取代舊連線，舊連線收到 forceDisconnect
//   3. 過期斷線：舊連線的斷線不能讓新連線的對局或登記被棄權
//   4. 慢客戶端：廣播不能被單一連線阻塞
//
// 設計方案：
//   ✅ map[playerID]*Connection，以玩家身分索引目前的連線
//   ✅ 每條連線一個 SessionID，離開/斷線只影響同一 SessionID 的登記
//   ✅ 緩衝 channel + 非阻塞發送（滿了就丟棄並記錄）
//   ✅ Ping/Pong 心跳（54s/60s）

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Hub WebSocket 連接中心
//
// 實作 Broadcaster：Room 與 Arena 只用玩家 ID 發送訊息，
// Hub 負責找到該玩家目前的連線。
type Hub struct {
	service  MatchService
	binder   IdentityBinder
	logger   *slog.Logger
	upgrader websocket.Upgrader
	validate *validator.Validate

	connections map[string]*Connection // playerID -> Connection
	mu          sync.RWMutex
}

// Connection WebSocket 連接
type Connection struct {
	ID        string // SessionID
	PlayerID  string
	Name      string
	Conn      *websocket.Conn
	Send      chan []byte
	Hub       *Hub
	LastPing  time.Time
	mu        sync.Mutex
	closeOnce sync.Once
}

// HubOption Hub 選項
type HubOption func(*Hub)

// WithAllowedOrigins 限制 WebSocket 來源；空白表示不檢查
func WithAllowedOrigins(origins []string) HubOption {
	return func(h *Hub) {
		if len(origins) == 0 {
			return
		}
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			return slices.Contains(origins, r.Header.Get("Origin"))
		}
	}
}

// NewHub 創建 Hub；開始服務前必須呼叫 Attach
func NewHub(binder IdentityBinder, logger *slog.Logger, opts ...HubOption) *Hub {
	hub := &Hub{
		binder: binder,
		logger: logger.With("component", "hub"),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		validate:    validator.New(),
		connections: make(map[string]*Connection),
	}
	for _, opt := range opts {
		opt(hub)
	}
	return hub
}

// Attach 設定處理客戶端請求的配對服務
//
// Arena 需要 Hub 作為 Broadcaster，Hub 又需要 Arena 處理請求，
// 所以在兩者都建立後再連接。
func (hub *Hub) Attach(service MatchService) {
	hub.service = service
}

// ServeWS 驗證身分並升級為 WebSocket
func (hub *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	identity, err := hub.binder.Identify(r)
	if err != nil {
		hub.logger.Warn("websocket authentication failed", "error", err, "remote_addr", r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	connection := &Connection{
		ID:       uuid.NewString(),
		PlayerID: identity.ID,
		Name:     identity.Name,
		Conn:     conn,
		Send:     make(chan []byte, sendBufferSize),
		Hub:      hub,
		LastPing: time.Now(),
	}

	hub.register(connection)

	go connection.writePump()
	go connection.readPump()

	hub.logger.Info("websocket connected",
		"player_id", connection.PlayerID,
		"session_id", connection.ID)
	hub.broadcastUserList()
}

// register 註冊連接；同一玩家的舊連接收到 forceDisconnect 後關閉
func (hub *Hub) register(conn *Connection) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if old, exists := hub.connections[conn.PlayerID]; exists && old != conn {
		if msg, err := json.Marshal(Event{Type: EventForceDisconnect, Data: "logged in from another session"}); err == nil {
			select {
			case old.Send <- msg:
			default:
			}
		}
		// writePump 送完緩衝中的訊息後發送 close frame
		old.closeOnce.Do(func() {
			close(old.Send)
		})
		hub.logger.Info("previous session replaced",
			"player_id", conn.PlayerID,
			"old_session_id", old.ID,
			"session_id", conn.ID)
	}

	hub.connections[conn.PlayerID] = conn
}

// unregister 取消註冊；只有目前登記的連接才會被移除
//
// 不論是否仍是目前的連接，都以該連接的 SessionID 通知離開，
// 新連接建立的登記與座位不受影響。
func (hub *Hub) unregister(conn *Connection) {
	hub.mu.Lock()
	current := false
	if actual, exists := hub.connections[conn.PlayerID]; exists && actual == conn {
		delete(hub.connections, conn.PlayerID)
		conn.closeOnce.Do(func() {
			close(conn.Send)
		})
		current = true
	}
	hub.mu.Unlock()

	if hub.service != nil {
		hub.service.Leave(conn.PlayerID, conn.ID)
	}

	hub.logger.Info("websocket disconnected",
		"player_id", conn.PlayerID,
		"session_id", conn.ID,
		"current", current)

	if current {
		hub.broadcastUserList()
	}
}

// Broadcast 發送事件給指定玩家（非阻塞）
func (hub *Hub) Broadcast(playerIDs []string, ev Event) {
	message, err := json.Marshal(ev)
	if err != nil {
		hub.logger.Error("failed to encode event", "event", ev.Type, "error", err)
		return
	}

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for _, id := range playerIDs {
		conn, exists := hub.connections[id]
		if !exists {
			continue
		}
		select {
		case conn.Send <- message:
		default:
			hub.logger.Warn("send buffer full, dropping event",
				"event", ev.Type,
				"player_id", id)
		}
	}
}

// OnlineUsers 線上玩家
func (hub *Hub) OnlineUsers() []OnlineUser {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	users := lo.MapToSlice(hub.connections, func(_ string, c *Connection) OnlineUser {
		return OnlineUser{ID: c.PlayerID, Name: c.Name}
	})
	slices.SortFunc(users, func(a, b OnlineUser) int { return cmp.Compare(a.ID, b.ID) })
	return users
}

// ConnectionCount 連接數
func (hub *Hub) ConnectionCount() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.connections)
}

func (hub *Hub) broadcastUserList() {
	users := hub.OnlineUsers()
	ids := lo.Map(users, func(u OnlineUser, _ int) string { return u.ID })
	hub.Broadcast(ids, Event{Type: EventUpdateUserList, Data: users})
}

// Stop 關閉所有連接
func (hub *Hub) Stop() {
	hub.mu.Lock()
	for _, conn := range hub.connections {
		conn.closeOnce.Do(func() {
			close(conn.Send)
		})
	}
	hub.connections = make(map[string]*Connection)
	hub.mu.Unlock()

	hub.logger.Info("websocket hub stopped")
}

// readPump 讀取客戶端消息
//
// 心跳：60 秒內沒有收到任何訊息（包括 Pong）就斷開。
func (c *Connection) readPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.Hub.logger.Error("failed to set read deadline", "error", err)
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.Hub.logger.Error("failed to set read deadline", "error", err)
		}
		c.mu.Lock()
		c.LastPing = time.Now()
		c.mu.Unlock()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.Hub.logger.Error("websocket read error",
					"error", err,
					"player_id", c.PlayerID)
			}
			break
		}

		if messageType == websocket.TextMessage {
			c.handleMessage(message)
		}
	}
}

// writePump 寫入消息到客戶端，每 54 秒發送 Ping
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.Hub.logger.Error("failed to set write deadline", "error", err)
			}
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.Hub.logger.Error("failed to set write deadline", "error", err)
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// inbound 客戶端訊息
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// handleMessage 分派客戶端請求
func (c *Connection) handleMessage(message []byte) {
	logger := c.Hub.logger.With("player_id", c.PlayerID, "session_id", c.ID)

	var msg inbound
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("invalid client message", "error", err)
		return
	}

	switch msg.Event {
	case EventJoinMatchmaking:
		var req JoinRequest
		if err := c.decode(msg.Data, &req); err != nil {
			logger.Warn("invalid joinMatchmaking payload", "error", err)
			return
		}
		c.Hub.service.Enqueue(Entrant{PlayerID: c.PlayerID, Name: c.Name, SessionID: c.ID}, Mode(req.Mode))

	case EventPlayerMove:
		var req MoveRequest
		if err := c.decode(msg.Data, &req); err != nil {
			logger.Debug("invalid playerMove payload", "error", err)
			return
		}
		c.Hub.service.Move(c.PlayerID, *req.NewPosition)

	case EventLeave:
		c.Hub.service.Leave(c.PlayerID, c.ID)

	case EventRequestUserList:
		c.sendEvent(Event{Type: EventUpdateUserList, Data: c.Hub.OnlineUsers()})

	case EventPing:
		c.sendEvent(Event{Type: EventPong})

	default:
		logger.Debug("unknown client event", "event", msg.Event)
	}
}

func (c *Connection) decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	return c.Hub.validate.Struct(v)
}

// sendEvent 只發給這條連接（若它仍是目前的連接）
func (c *Connection) sendEvent(ev Event) {
	message, err := json.Marshal(ev)
	if err != nil {
		return
	}

	c.Hub.mu.RLock()
	defer c.Hub.mu.RUnlock()
	if c.Hub.connections[c.PlayerID] != c {
		return
	}
	select {
	case c.Send <- message:
	default:
	}
}
