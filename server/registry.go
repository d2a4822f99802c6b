package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// DefaultCapacity 每个房间的最大人数
const DefaultCapacity = 5

var (
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyInRoom = errors.New("client already belongs to a room")
)

// Sender 客户端发送端（非阻塞，失败时返回 false）
type Sender interface {
	Enqueue(b []byte) bool
}

// Client 已连接的参与者。Room 仅为反向引用，房间不负责客户端的生命周期。
type Client struct {
	ID   string
	Room *Room
	conn Sender
}

func NewClient(id string, conn Sender) *Client {
	return &Client{ID: id, conn: conn}
}

// Room 容量受限的参与者分组，成员按加入顺序保存
type Room struct {
	ID       string
	capacity int

	mu      sync.RWMutex
	clients []*Client

	metrics *RoomMetrics
}

func newRoom(capacity int) *Room {
	return &Room{
		ID:       uuid.NewString(),
		capacity: capacity,
		metrics:  &RoomMetrics{},
	}
}

func (r *Room) Capacity() int         { return r.capacity }
func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// Len 当前人数
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Clients 成员副本（加入顺序）
func (r *Room) Clients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, len(r.clients))
	copy(out, r.clients)
	return out
}

// AddClient 追加成员并设置反向引用
func (r *Room) AddClient(c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.Room != nil {
		return ErrAlreadyInRoom
	}
	if len(r.clients) >= r.capacity {
		return ErrRoomFull
	}
	c.Room = r
	r.clients = append(r.clients, c)
	r.metrics.IncJoins()
	return nil
}

// RemoveClient 按身份移除并清除反向引用；房间清空后依然保留
func (r *Room) RemoveClient(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.clients {
		if x == c {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			c.Room = nil
			r.metrics.IncLeaves()
			return true
		}
	}
	return false
}

// Broadcast 发送给全部成员；投递失败由传输层负责
func (r *Room) Broadcast(payload []byte) {
	r.Relay(nil, payload)
}

// Relay 发送给除 from 以外的全部成员
func (r *Room) Relay(from *Client, payload []byte) {
	for _, c := range r.Clients() {
		if c == from || c.conn == nil {
			continue
		}
		if !c.conn.Enqueue(payload) {
			r.metrics.IncSendDropped()
		}
	}
}

// Registry 房间登记表，按创建顺序保存所有房间。
// 空房间不会被回收。
type Registry struct {
	mu       sync.Mutex
	rooms    []*Room
	capacity int
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// GetRegistry 进程级默认登记表
func GetRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry(DefaultCapacity)
	})
	return defaultRegistry
}

func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{capacity: capacity}
}

// Capacity 新建房间使用的容量
func (g *Registry) Capacity() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.capacity
}

// SetCapacity 只影响之后新建的房间
func (g *Registry) SetCapacity(n int) {
	if n <= 0 {
		return
	}
	g.mu.Lock()
	g.capacity = n
	g.mu.Unlock()
}

// AssignRoom 返回第一个未满的房间，没有则新建并登记
func (g *Registry) AssignRoom() *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.assignLocked()
}

func (g *Registry) assignLocked() *Room {
	for _, r := range g.rooms {
		if r.Len() < r.capacity {
			return r
		}
	}
	r := newRoom(g.capacity)
	g.rooms = append(g.rooms, r)
	Log.Infow("room created", "room", r.ID, "capacity", r.capacity)
	return r
}

// Join 分配房间并加入，整个过程持有登记表锁，并发加入不会超出容量
func (g *Registry) Join(c *Client) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r := g.assignLocked()
	if err := r.AddClient(c); err != nil {
		return nil, err
	}
	return r, nil
}

// Rooms 按创建顺序返回所有房间
func (g *Registry) Rooms() []*Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Room, len(g.rooms))
	copy(out, g.rooms)
	return out
}

// Room 按 id 查找房间
func (g *Registry) Room(id string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range g.rooms {
		if r.ID == id {
			return r
		}
	}
	return nil
}
