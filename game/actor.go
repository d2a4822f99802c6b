package game

// PendingTurn 等待在格子中心提交的转向
type PendingTurn struct {
	Direction Direction
	Point     Vec
}

// Orientation 角色贴图朝向（贴图默认朝右）
type Orientation struct {
	MirrorX bool
	Angle   int
}

// Actor 参与者的可变状态；本地与远端角色共用同一结构，仅以 IsSelf 区分
type Actor struct {
	ID     string
	IsSelf bool
	Index  int // 加入顺序

	Position  Vec
	Velocity  Vec
	Direction Direction
	Pending   *PendingTurn

	// Marker 与 Neighbors 是 Position 的缓存投影，每个 Tick 重新计算
	Marker    Cell
	Neighbors [5]Neighbor

	Score int
}

// Body 以 Position 为中心、边长为 TileSize 的碰撞盒
func (a *Actor) Body(tileSize int) Rect {
	s := float64(tileSize)
	return Rect{X: a.Position.X - s/2, Y: a.Position.Y - s/2, W: s, H: s}
}

// Orientation 朝向只由 Direction 决定
func (a *Actor) Orientation() Orientation {
	switch a.Direction {
	case DirLeft:
		return Orientation{MirrorX: true}
	case DirUp:
		return Orientation{Angle: 270}
	case DirDown:
		return Orientation{Angle: 90}
	default:
		return Orientation{}
	}
}

// AddScore 分数只增不减
func (a *Actor) AddScore(n int) int {
	if n > 0 {
		a.Score += n
	}
	return a.Score
}

// SetScore 远端上报的分数，低于当前值时忽略
func (a *Actor) SetScore(score int) {
	if score > a.Score {
		a.Score = score
	}
}

// State 参与者上报的状态；Position 为空表示本条消息不更新位置
type State struct {
	ID        string    `json:"id"`
	Position  *Vec      `json:"position,omitempty"`
	Direction Direction `json:"direction"`
	Score     int       `json:"score,omitempty"`
}

// State 当前状态快照（总是携带位置）
func (a *Actor) State() State {
	p := a.Position
	return State{ID: a.ID, Position: &p, Direction: a.Direction, Score: a.Score}
}
