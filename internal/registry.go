package internal

// Registry 進行中的房間與玩家→房間索引
//
// 不是併發安全的，由 Arena 的鎖保護。
type Registry struct {
	rooms      map[string]*Room
	playerRoom map[string]string
}

// NewRegistry 創建註冊表
func NewRegistry() *Registry {
	return &Registry{
		rooms:      make(map[string]*Room),
		playerRoom: make(map[string]string),
	}
}

// Add 登記房間與其所有玩家
func (g *Registry) Add(room *Room) {
	g.rooms[room.ID] = room
	for _, p := range room.players {
		g.playerRoom[p.ID] = room.ID
	}
}

// Remove 移除房間與其玩家索引；房間不存在時返回 false
func (g *Registry) Remove(roomID string) bool {
	room, ok := g.rooms[roomID]
	if !ok {
		return false
	}
	delete(g.rooms, roomID)
	for _, p := range room.players {
		if g.playerRoom[p.ID] == roomID {
			delete(g.playerRoom, p.ID)
		}
	}
	return true
}

// Get 依 ID 查找房間
func (g *Registry) Get(roomID string) (*Room, bool) {
	room, ok := g.rooms[roomID]
	return room, ok
}

// RoomFor 玩家所在的房間
func (g *Registry) RoomFor(playerID string) (*Room, bool) {
	roomID, ok := g.playerRoom[playerID]
	if !ok {
		return nil, false
	}
	return g.Get(roomID)
}

// Len 房間數
func (g *Registry) Len() int {
	return len(g.rooms)
}

// PlayerCount 在房間中的玩家數
func (g *Registry) PlayerCount() int {
	return len(g.playerRoom)
}

// Rooms 所有房間
func (g *Registry) Rooms() []*Room {
	rooms := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}
