package game

import (
	"errors"

	"go.uber.org/zap"
)

// ErrMissingID 远端状态缺少 id，应在传输层入口拒绝
var ErrMissingID = errors.New("game: state without id")

// Engine 单个会话的模拟核心。
// 非并发安全：所有调用必须来自同一个模拟线程（见 Session）。
type Engine struct {
	cfg      Config
	grid     *GridMap
	mover    *Mover
	resolver *Resolver
	bus      *Bus
	log      *zap.Logger

	selfID    string
	actors    []*Actor // 按加入顺序
	byID      map[string]*Actor
	items     *ItemSet
	nextIndex int
	tick      int64
}

// NewEngine 创建引擎并在出生格放置本地角色
func NewEngine(cfg Config, grid *GridMap, selfID string, bus *Bus, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if bus == nil {
		bus = NewBus(cfg.OutboxSize)
	}
	e := &Engine{
		cfg:      cfg,
		grid:     grid,
		mover:    NewMover(cfg, grid, log),
		resolver: NewResolver(cfg, bus, log),
		bus:      bus,
		log:      log,
		selfID:   selfID,
		byID:     make(map[string]*Actor),
		items:    NewItemSet(grid.ItemCells(), cfg),
	}
	e.spawn(State{ID: selfID})
	return e
}

func (e *Engine) Bus() *Bus        { return e.bus }
func (e *Engine) Grid() *GridMap   { return e.grid }
func (e *Engine) Items() *ItemSet  { return e.items }
func (e *Engine) Mover() *Mover    { return e.mover }
func (e *Engine) TickCount() int64 { return e.tick }

// Self 本地角色
func (e *Engine) Self() *Actor { return e.byID[e.selfID] }

// Actor 按 id 查找；已移除的角色返回 nil
func (e *Engine) Actor(id string) *Actor { return e.byID[id] }

// Actors 按加入顺序返回当前角色（副本切片）
func (e *Engine) Actors() []*Actor {
	out := make([]*Actor, len(e.actors))
	copy(out, e.actors)
	return out
}

func (e *Engine) spawn(s State) *Actor {
	a := &Actor{
		ID:        s.ID,
		IsSelf:    s.ID == e.selfID,
		Index:     e.nextIndex,
		Position:  e.mover.CommitPoint(e.cfg.SpawnCell),
		Direction: s.Direction,
	}
	e.nextIndex++
	if s.Position != nil {
		a.Position = *s.Position
	}
	a.SetScore(s.Score)
	e.mover.Refresh(a)
	e.mover.IssueVelocity(a)

	e.actors = append(e.actors, a)
	e.byID[a.ID] = a
	e.log.Info("actor joined", zap.String("actor", a.ID), zap.Bool("self", a.IsSelf), zap.Int("index", a.Index))
	return a
}

// Upsert 接收参与者上报的状态：首次出现时创建角色；
// 已存在时若带位置则立即对齐并重算网格信息，然后执行转向与速度更新。
func (e *Engine) Upsert(s State) (*Actor, error) {
	if s.ID == "" {
		return nil, ErrMissingID
	}
	a, ok := e.byID[s.ID]
	if !ok {
		return e.spawn(s), nil
	}
	if s.Position != nil {
		a.Position = *s.Position
		a.Velocity = Vec{}
		e.mover.Refresh(a)
	}
	a.SetScore(s.Score)
	e.mover.RequestTurn(a, s.Direction)
	e.mover.IssueVelocity(a)
	return a, nil
}

// Remove 参与者断开后移除角色；重复调用为空操作
func (e *Engine) Remove(id string) bool {
	a, ok := e.byID[id]
	if !ok || a.IsSelf {
		return false
	}
	delete(e.byID, id)
	for i, x := range e.actors {
		if x == a {
			e.actors = append(e.actors[:i], e.actors[i+1:]...)
			break
		}
	}
	e.log.Info("actor removed", zap.String("actor", id))
	return true
}

// KillItemAt 远端参与者吃掉的豆子
func (e *Engine) KillItemAt(x, y float64) bool {
	return e.resolver.KillItemAt(e.items, x, y)
}

// ReportScore 远端参与者自报分数
func (e *Engine) ReportScore(id string, score int) {
	if a, ok := e.byID[id]; ok {
		a.SetScore(score)
	}
}

// Tick 推进一帧：
// 采样本地意图 → 所有角色移动/刷新网格/尝试转向 → 豆子碰撞 → 角色碰撞。
func (e *Engine) Tick(intent Direction, dt float64) {
	e.tick++

	if self := e.Self(); self != nil && intent != DirNone {
		e.bus.Emit(DirectionChanged{Direction: intent})
		e.mover.RequestTurn(self, intent)
	}

	for _, a := range e.actors {
		e.mover.Integrate(a, dt)
		e.mover.Refresh(a)
		e.mover.TryCommitTurn(a)
	}

	e.resolver.ResolveItems(e.actors, e.items)
	e.resolver.ResolveActors(e.actors)
}

// Snapshot 所有角色的当前状态
func (e *Engine) Snapshot() []State {
	out := make([]State, 0, len(e.actors))
	for _, a := range e.actors {
		out = append(out, a.State())
	}
	return out
}
