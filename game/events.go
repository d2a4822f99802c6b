package game

import "sync"

// EventKind 事件名
type EventKind string

const (
	EventDirectionChanged EventKind = "direction-changed"
	EventItemConsumed     EventKind = "item-consumed"
	EventActorEliminated  EventKind = "actor-eliminated"
)

// Event 核心向外发出的领域事件
type Event interface {
	Kind() EventKind
}

// DirectionChanged 本地方向意图
type DirectionChanged struct {
	Direction Direction `json:"direction"`
}

// ItemConsumed 本地角色吃掉豆子，Score 为吃后的分数
type ItemConsumed struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score int     `json:"score"`
}

// ActorEliminated 本地角色与其他角色相撞
type ActorEliminated struct {
	EliminatingID string `json:"id"`
	TargetID      string `json:"target"`
	Score         int    `json:"score"`
}

func (DirectionChanged) Kind() EventKind { return EventDirectionChanged }
func (ItemConsumed) Kind() EventKind     { return EventItemConsumed }
func (ActorEliminated) Kind() EventKind  { return EventActorEliminated }

// Listener 事件回调，在模拟线程内同步执行
type Listener func(Event)

// Bus 同步事件总线：同一事件可注册多个监听者，另保留有界待取队列供轮询。
// 由调用方创建并注入 Engine，不存在全局注册表。
type Bus struct {
	mu        sync.Mutex
	listeners map[EventKind][]Listener
	outbox    []Event
	capacity  int
	dropped   int
}

// NewBus capacity<=0 时不保留待取队列
func NewBus(capacity int) *Bus {
	return &Bus{listeners: make(map[EventKind][]Listener), capacity: capacity}
}

// On 注册监听者
func (b *Bus) On(kind EventKind, fn Listener) *Bus {
	b.mu.Lock()
	b.listeners[kind] = append(b.listeners[kind], fn)
	b.mu.Unlock()
	return b
}

// Emit 按注册顺序通知监听者，并写入待取队列（满则丢弃最旧）
func (b *Bus) Emit(ev Event) {
	b.mu.Lock()
	ls := b.listeners[ev.Kind()]
	if b.capacity > 0 {
		if len(b.outbox) >= b.capacity {
			b.outbox = b.outbox[1:]
			b.dropped++
		}
		b.outbox = append(b.outbox, ev)
	}
	b.mu.Unlock()

	for _, fn := range ls {
		fn(ev)
	}
}

// Drain 取出并清空待取队列
func (b *Bus) Drain() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.outbox
	b.outbox = nil
	return out
}

// Dropped 因队列满被丢弃的事件数
func (b *Bus) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
