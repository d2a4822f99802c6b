package game

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// IntentSource 每个 Tick 提供一次本地方向意图
type IntentSource interface {
	Intent() Direction
}

// IntentFunc 函数适配器
type IntentFunc func() Direction

func (f IntentFunc) Intent() Direction { return f() }

type removeCmd struct{ id string }

type itemKillCmd struct {
	by    string
	x, y  float64
	score int
}

type queryCmd struct {
	fn   func(*Engine)
	done chan struct{}
}

// Session 会话模拟线程：唯一持有 Engine 的 goroutine。
// 远端状态、断开与豆子上报进入入站队列，在每个 Tick 开始时统一处理，
// 因此 Tick 内部可以独占访问角色与豆子集合。
type Session struct {
	engine *Engine
	intent IntentSource
	inbox  chan any
	period time.Duration
	log    *zap.Logger
}

func NewSession(engine *Engine, intent IntentSource, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	if intent == nil {
		intent = IntentFunc(func() Direction { return DirNone })
	}
	size := engine.cfg.InboxSize
	if size <= 0 {
		size = 256
	}
	return &Session{
		engine: engine,
		intent: intent,
		inbox:  make(chan any, size),
		period: engine.cfg.TickInterval(),
		log:    log,
	}
}

// Submit 入站状态（非阻塞，队列满时丢弃）
func (s *Session) Submit(st State) bool {
	select {
	case s.inbox <- st:
		return true
	default:
		s.log.Warn("session inbox full, state dropped", zap.String("actor", st.ID))
		return false
	}
}

// Leave 请求在模拟线程中移除角色；断开必须生效，因此阻塞写入
func (s *Session) Leave(ctx context.Context, id string) {
	select {
	case s.inbox <- removeCmd{id: id}:
	case <-ctx.Done():
	}
}

// ItemEaten 远端参与者吃掉豆子的上报
func (s *Session) ItemEaten(by string, x, y float64, score int) bool {
	select {
	case s.inbox <- itemKillCmd{by: by, x: x, y: y, score: score}:
		return true
	default:
		return false
	}
}

// Query 在模拟线程内读取引擎状态，阻塞直到执行完成或 ctx 结束
func (s *Session) Query(ctx context.Context, fn func(*Engine)) error {
	q := queryCmd{fn: fn, done: make(chan struct{})}
	select {
	case s.inbox <- q:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Step 处理入站队列后推进一帧
func (s *Session) Step(dt float64) {
	s.drain()
	s.engine.Tick(s.intent.Intent(), dt)
}

func (s *Session) drain() {
	for {
		select {
		case cmd := <-s.inbox:
			s.apply(cmd)
		default:
			return
		}
	}
}

func (s *Session) apply(cmd any) {
	switch c := cmd.(type) {
	case State:
		if _, err := s.engine.Upsert(c); err != nil {
			s.log.Debug("state rejected", zap.Error(err))
		}
	case removeCmd:
		s.engine.Remove(c.id)
	case itemKillCmd:
		s.engine.KillItemAt(c.x, c.y)
		s.engine.ReportScore(c.by, c.score)
	case queryCmd:
		c.fn(s.engine)
		close(c.done)
	}
}

// Run 按固定周期推进，直到 ctx 结束
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	dt := s.period.Seconds()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Step(dt)
		}
	}
}
