package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMover_QueueTurnOffCenter(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMover(cfg, crossMap(t, cfg), nil)
	point := center(cfg, Cell{X: 14, Y: 17})

	a := placed(m, "self", true, Vec{X: point.X + 5, Y: point.Y}, DirRight)
	require.Equal(t, Cell{X: 14, Y: 17}, a.Marker)

	assert.True(t, m.RequestTurn(a, DirUp))
	require.NotNil(t, a.Pending)
	assert.Equal(t, DirUp, a.Pending.Direction)
	assert.Equal(t, point, a.Pending.Point)
	assert.Equal(t, DirRight, a.Direction)

	assert.False(t, m.TryCommitTurn(a), "5 units away must not commit")
	assert.Equal(t, DirRight, a.Direction)
	assert.NotNil(t, a.Pending)
}

func TestMover_CommitWithinThreshold(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMover(cfg, crossMap(t, cfg), nil)
	point := center(cfg, Cell{X: 14, Y: 17})

	a := placed(m, "self", true, Vec{X: point.X + 5, Y: point.Y}, DirRight)
	require.True(t, m.RequestTurn(a, DirUp))

	a.Position = Vec{X: point.X + 2.7, Y: point.Y - 1.5}
	assert.True(t, m.TryCommitTurn(a))
	assert.Equal(t, DirUp, a.Direction)
	assert.Nil(t, a.Pending)
	assert.Equal(t, point, a.Position)
	assert.Equal(t, Vec{Y: -cfg.Speed}, a.Velocity)

	assert.False(t, m.TryCommitTurn(a), "no pending turn is a no-op")
	assert.Equal(t, DirUp, a.Direction)
	assert.Equal(t, point, a.Position)
}

func TestMover_ThresholdBoundary(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMover(cfg, crossMap(t, cfg), nil)
	point := center(cfg, Cell{X: 14, Y: 17})

	testCases := []struct {
		name   string
		offset Vec
		commit bool
	}{
		{name: "exact", offset: Vec{}, commit: true},
		{name: "x off by 3", offset: Vec{X: 3}, commit: false},
		{name: "y off by 3", offset: Vec{X: 1, Y: -3}, commit: false},
		{name: "both within 2", offset: Vec{X: -2, Y: 2}, commit: true},
		{name: "truncated into range", offset: Vec{X: 2.99}, commit: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := placed(m, "self", true, point, DirRight)
			require.True(t, m.RequestTurn(a, DirDown))
			a.Position = Vec{X: point.X + tc.offset.X, Y: point.Y + tc.offset.Y}
			assert.Equal(t, tc.commit, m.TryCommitTurn(a))
		})
	}
}

func TestMover_ImpassableTurnIgnored(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMover(cfg, crossMap(t, cfg), nil)

	for _, start := range []Direction{DirNone, DirLeft, DirRight, DirUp, DirDown} {
		for _, d := range Directions {
			a := placed(m, "self", true, center(cfg, Cell{X: 3, Y: 3}), start)
			before := *a
			assert.False(t, m.RequestTurn(a, d), "start %s request %s", start, d)
			assert.Equal(t, before.Direction, a.Direction)
			assert.Nil(t, a.Pending)
			assert.Equal(t, before.Velocity, a.Velocity)
		}
	}
}

func TestMover_SameDirectionIsNoop(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMover(cfg, crossMap(t, cfg), nil)
	a := placed(m, "self", true, center(cfg, Cell{X: 14, Y: 17}), DirRight)

	assert.False(t, m.RequestTurn(a, DirRight))
	assert.False(t, m.RequestTurn(a, DirNone))
	assert.Nil(t, a.Pending)
}

func TestMover_ReversalImmediate(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMover(cfg, crossMap(t, cfg), nil)
	point := center(cfg, Cell{X: 14, Y: 17})

	testCases := []struct {
		from, to Direction
		pos      Vec
	}{
		{from: DirRight, to: DirLeft, pos: Vec{X: point.X + 7.3, Y: point.Y}},
		{from: DirLeft, to: DirRight, pos: Vec{X: point.X - 6, Y: point.Y}},
		{from: DirUp, to: DirDown, pos: Vec{X: point.X, Y: point.Y - 5.5}},
		{from: DirDown, to: DirUp, pos: Vec{X: point.X, Y: point.Y + 4}},
	}
	for _, tc := range testCases {
		t.Run(tc.from.String()+"->"+tc.to.String(), func(t *testing.T) {
			a := placed(m, "self", true, tc.pos, tc.from)
			assert.True(t, m.RequestTurn(a, tc.to))
			assert.Equal(t, tc.to, a.Direction)
			assert.Nil(t, a.Pending)
			assert.Equal(t, tc.pos, a.Position, "reversal does not snap")
		})
	}
}

func TestMover_IssueVelocity(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMover(cfg, crossMap(t, cfg), nil)

	testCases := []struct {
		dir         Direction
		velocity    Vec
		orientation Orientation
	}{
		{dir: DirLeft, velocity: Vec{X: -cfg.Speed}, orientation: Orientation{MirrorX: true}},
		{dir: DirRight, velocity: Vec{X: cfg.Speed}, orientation: Orientation{}},
		{dir: DirUp, velocity: Vec{Y: -cfg.Speed}, orientation: Orientation{Angle: 270}},
		{dir: DirDown, velocity: Vec{Y: cfg.Speed}, orientation: Orientation{Angle: 90}},
	}
	for _, tc := range testCases {
		t.Run(tc.dir.String(), func(t *testing.T) {
			a := &Actor{Direction: tc.dir, Velocity: Vec{X: 42, Y: 42}}
			m.IssueVelocity(a)
			assert.Equal(t, tc.velocity, a.Velocity)
			assert.Equal(t, tc.orientation, a.Orientation())
		})
	}

	a := &Actor{Direction: DirNone}
	m.IssueVelocity(a)
	assert.Equal(t, Vec{}, a.Velocity)
	assert.Equal(t, Orientation{}, a.Orientation())
}

func TestMover_IntegrateStopsAtWall(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMover(cfg, crossMap(t, cfg), nil)

	last := center(cfg, Cell{X: 28, Y: 17})
	a := placed(m, "self", true, last, DirRight)
	m.Integrate(a, 1.0/60)
	assert.Equal(t, last, a.Position)
	assert.Zero(t, a.Velocity.X)

	a = placed(m, "self", true, center(cfg, Cell{X: 14, Y: 17}), DirRight)
	m.Integrate(a, 0.1)
	assert.InDelta(t, 232+cfg.Speed*0.1, a.Position.X, 1e-9)
	assert.Equal(t, cfg.Speed, a.Velocity.X)

	a = placed(m, "self", true, center(cfg, Cell{X: 14, Y: 1}), DirUp)
	m.Integrate(a, 0.05)
	assert.Equal(t, center(cfg, Cell{X: 14, Y: 1}), a.Position)
	assert.Zero(t, a.Velocity.Y)
}

func TestMover_RefreshMarker(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMover(cfg, crossMap(t, cfg), nil)

	a := &Actor{Position: Vec{X: 247.9, Y: 280}}
	m.Refresh(a)
	assert.Equal(t, Cell{X: 14, Y: 17}, a.Marker)

	a.Position.X = 248
	m.Refresh(a)
	assert.Equal(t, Cell{X: 15, Y: 17}, a.Marker)
}
