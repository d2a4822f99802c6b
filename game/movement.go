package game

import (
	"math"

	"go.uber.org/zap"
)

// Mover 网格移动与转向状态机。
// 角色处于 Straight（Pending 为空）或 Pending（等待到达格子中心）两种状态之一。
type Mover struct {
	cfg  Config
	grid *GridMap
	log  *zap.Logger
}

func NewMover(cfg Config, grid *GridMap, log *zap.Logger) *Mover {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mover{cfg: cfg, grid: grid, log: log}
}

// Refresh 由 Position 重新计算 Marker 与相邻地块。
// Marker 取碰撞盒左上角向下取整后除以网格边长。
func (m *Mover) Refresh(a *Actor) {
	ts := float64(m.cfg.TileSize)
	body := a.Body(m.cfg.TileSize)
	a.Marker = Cell{
		X: int(math.Floor(math.Floor(body.X) / ts)),
		Y: int(math.Floor(math.Floor(body.Y) / ts)),
	}
	a.Neighbors = m.grid.Neighbors(a.Marker)
}

// CommitPoint 格子中心坐标
func (m *Mover) CommitPoint(c Cell) Vec {
	ts := float64(m.cfg.TileSize)
	return Vec{X: float64(c.X)*ts + m.cfg.half(), Y: float64(c.Y)*ts + m.cfg.half()}
}

// RequestTurn 处理转向请求，返回状态是否发生变化。
// 目标方向不可通行时静默丢弃；掉头立即生效；其余转向挂起到当前格中心。
func (m *Mover) RequestTurn(a *Actor, dir Direction) bool {
	if dir == a.Direction || dir < DirLeft || dir > DirDown {
		return false
	}
	if !m.grid.IsSafe(a.Neighbors[dir]) {
		return false
	}

	if a.Direction == dir.Opposite() {
		a.Direction = dir
		m.IssueVelocity(a)
		return true
	}

	a.Pending = &PendingTurn{Direction: dir, Point: m.CommitPoint(a.Marker)}
	m.log.Debug("turn queued",
		zap.String("actor", a.ID),
		zap.Stringer("direction", dir),
		zap.Float64("x", a.Pending.Point.X),
		zap.Float64("y", a.Pending.Point.Y))
	return true
}

// TryCommitTurn 到达提交点（两轴均在阈值内）时执行挂起的转向。
// 没有挂起转向时为空操作。
func (m *Mover) TryCommitTurn(a *Actor) bool {
	if a.Pending == nil {
		return false
	}
	p := a.Pending.Point
	cx := math.Floor(a.Position.X)
	cy := math.Floor(a.Position.Y)

	// 高速下每 Tick 的位移会跳过精确坐标，必须使用阈值
	if !fuzzyEqual(cx, p.X, m.cfg.Threshold) || !fuzzyEqual(cy, p.Y, m.cfg.Threshold) {
		return false
	}

	// 转向前对齐网格
	a.Position = p
	a.Velocity = Vec{}
	a.Direction = a.Pending.Direction
	a.Pending = nil

	m.IssueVelocity(a)
	return true
}

// IssueVelocity 按方向设置对应轴的有符号速度，另一轴清零
func (m *Mover) IssueVelocity(a *Actor) {
	speed := m.cfg.Speed
	switch a.Direction {
	case DirLeft:
		a.Velocity = Vec{X: -speed}
	case DirRight:
		a.Velocity = Vec{X: speed}
	case DirUp:
		a.Velocity = Vec{Y: -speed}
	case DirDown:
		a.Velocity = Vec{Y: speed}
	}
}

// Integrate 按速度推进 dt 秒，并与不可通行地块做分离：
// 碰到墙体时贴齐墙边并清零该轴速度。
func (m *Mover) Integrate(a *Actor, dt float64) {
	if a.Velocity.X != 0 {
		a.Position.X += a.Velocity.X * dt
		m.separate(a, true)
	}
	if a.Velocity.Y != 0 {
		a.Position.Y += a.Velocity.Y * dt
		m.separate(a, false)
	}
}

func (m *Mover) separate(a *Actor, horizontal bool) {
	ts := float64(m.cfg.TileSize)
	body := a.Body(m.cfg.TileSize)
	minX, maxX := span(body.X, body.W, ts)
	minY, maxY := span(body.Y, body.H, ts)

	if horizontal {
		col := minX
		if a.Velocity.X > 0 {
			col = maxX
		}
		for y := minY; y <= maxY; y++ {
			if m.grid.IsPassable(Cell{X: col, Y: y}) {
				continue
			}
			if a.Velocity.X > 0 {
				a.Position.X = float64(col)*ts - body.W/2
			} else {
				a.Position.X = float64(col+1)*ts + body.W/2
			}
			a.Velocity.X = 0
			return
		}
		return
	}

	row := minY
	if a.Velocity.Y > 0 {
		row = maxY
	}
	for x := minX; x <= maxX; x++ {
		if m.grid.IsPassable(Cell{X: x, Y: row}) {
			continue
		}
		if a.Velocity.Y > 0 {
			a.Position.Y = float64(row)*ts - body.H/2
		} else {
			a.Position.Y = float64(row+1)*ts + body.H/2
		}
		a.Velocity.Y = 0
		return
	}
}

// span 区间 [start, start+size) 覆盖的格子下标范围
func span(start, size, ts float64) (int, int) {
	lo := int(math.Floor(start / ts))
	hi := int(math.Ceil((start+size)/ts)) - 1
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
