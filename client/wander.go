package client

import (
	"math/rand"

	"github.com/alkief/pacmen/game"
)

// Wanderer 随机游走的方向意图，每个方向保持 hold 个 Tick。
// 只在模拟线程中调用。
type Wanderer struct {
	rng  *rand.Rand
	hold int
	left int
	dir  game.Direction
}

func NewWanderer(seed int64, hold int) *Wanderer {
	if hold <= 0 {
		hold = 30
	}
	return &Wanderer{rng: rand.New(rand.NewSource(seed)), hold: hold}
}

func (w *Wanderer) Intent() game.Direction {
	if w.left <= 0 {
		w.dir = game.Directions[w.rng.Intn(len(game.Directions))]
		w.left = w.hold
	}
	w.left--
	return w.dir
}
