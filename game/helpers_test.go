package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// crossMap 30x30 全墙地图：第 17 行与第 14 列为通道，(3,3) 为四面封闭的孤立格
func crossMap(t *testing.T, cfg Config) *GridMap {
	t.Helper()
	rows := make([]string, 30)
	for y := range rows {
		b := []byte(strings.Repeat("#", 30))
		if y == 17 {
			for x := 1; x < 29; x++ {
				b[x] = ' '
			}
		}
		if y >= 1 && y < 29 {
			b[14] = ' '
		}
		if y == 3 {
			b[3] = ' '
		}
		rows[y] = string(b)
	}
	g, err := ParseLayout(rows, cfg)
	require.NoError(t, err)
	return g
}

func center(cfg Config, c Cell) Vec {
	ts := float64(cfg.TileSize)
	return Vec{X: float64(c.X)*ts + ts/2, Y: float64(c.Y)*ts + ts/2}
}

func placed(m *Mover, id string, self bool, pos Vec, dir Direction) *Actor {
	a := &Actor{ID: id, IsSelf: self, Position: pos, Direction: dir}
	m.Refresh(a)
	m.IssueVelocity(a)
	return a
}
