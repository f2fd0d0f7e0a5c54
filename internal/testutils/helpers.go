package testutils

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/koopa0/system-design/paddle-arena/internal"
)

// Delivery 一次送給單一玩家的事件
type Delivery struct {
	PlayerID string
	Event    internal.Event
	Payload  []byte // 送出當下的 JSON
}

// Recorder 記錄所有事件的 Broadcaster
//
// 事件在送出當下序列化，之後房間狀態的變化不影響記錄。
type Recorder struct {
	mu         sync.Mutex
	deliveries []Delivery
}

var _ internal.Broadcaster = (*Recorder)(nil)

// NewRecorder 創建記錄器
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Broadcast 實作 internal.Broadcaster
func (r *Recorder) Broadcast(playerIDs []string, ev internal.Event) {
	payload, _ := json.Marshal(ev)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range playerIDs {
		r.deliveries = append(r.deliveries, Delivery{PlayerID: id, Event: ev, Payload: payload})
	}
}

// All 所有記錄
func (r *Recorder) All() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.deliveries)
}

// For 送給某位玩家的事件
func (r *Recorder) For(playerID string) []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Delivery
	for _, d := range r.deliveries {
		if d.PlayerID == playerID {
			out = append(out, d)
		}
	}
	return out
}

// Types 某位玩家收到的事件名稱（依序）
func (r *Recorder) Types(playerID string) []string {
	var types []string
	for _, d := range r.For(playerID) {
		types = append(types, d.Event.Type)
	}
	return types
}

// Count 某類事件送給某位玩家的次數
func (r *Recorder) Count(playerID, eventType string) int {
	n := 0
	for _, d := range r.For(playerID) {
		if d.Event.Type == eventType {
			n++
		}
	}
	return n
}

// Last 某位玩家最後收到的某類事件
func (r *Recorder) Last(playerID, eventType string) (Delivery, bool) {
	ds := r.For(playerID)
	for i := len(ds) - 1; i >= 0; i-- {
		if ds[i].Event.Type == eventType {
			return ds[i], true
		}
	}
	return Delivery{}, false
}

// Reset 清空記錄
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = nil
}

// Entrant 建立等待池登記（session 與玩家同名）
func Entrant(playerID string) internal.Entrant {
	return internal.Entrant{PlayerID: playerID, Name: playerID, SessionID: "session-" + playerID}
}

// WaitForCondition 等待條件滿足
func WaitForCondition(t testing.TB, condition func() bool, timeout time.Duration, message string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		if condition() {
			return
		}
		select {
		case <-ctx.Done():
			require.FailNow(t, "timeout waiting for condition", message)
		case <-ticker.C:
		}
	}
}
