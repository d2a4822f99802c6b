package game

import "go.uber.org/zap"

// Resolver 每个 Tick 在所有角色移动完成后执行碰撞判定
type Resolver struct {
	cfg Config
	bus *Bus
	log *zap.Logger
}

func NewResolver(cfg Config, bus *Bus, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{cfg: cfg, bus: bus, log: log}
}

// ResolveItems 角色与豆子的重叠：豆子移除；只有本地角色加分并发出事件。
// 最后一颗豆子被吃掉后，在整轮判定结束时全部重新放置，
// 重新放置的豆子不会在同一个 Tick 内被再次吃掉。
func (r *Resolver) ResolveItems(actors []*Actor, items *ItemSet) {
	if items == nil {
		return
	}
	for _, a := range actors {
		if a == nil {
			continue
		}
		body := a.Body(r.cfg.TileSize)
		items.Each(func(it *Item) bool {
			if body.Overlaps(items.Body(it)) {
				r.consume(a, it, items)
			}
			return true
		})
	}
	r.respawnIfEmpty(items)
}

func (r *Resolver) consume(a *Actor, it *Item, items *ItemSet) {
	if !items.Kill(it) {
		return
	}
	if a.IsSelf {
		score := a.AddScore(1)
		r.bus.Emit(ItemConsumed{X: it.Pos.X, Y: it.Pos.Y, Score: score})
	}
}

// KillItemAt 远端上报吃掉的豆子；找不到时为空操作
func (r *Resolver) KillItemAt(items *ItemSet, x, y float64) bool {
	if items == nil || !items.Kill(items.At(x, y)) {
		return false
	}
	r.respawnIfEmpty(items)
	return true
}

func (r *Resolver) respawnIfEmpty(items *ItemSet) {
	if items.Alive() > 0 {
		return
	}
	items.ReviveAll()
	r.log.Info("items respawned", zap.Int("count", items.Total()))
}

// ResolveActors 每对角色只判定一次；只有包含本地角色的碰撞才上报，
// 且总是记为本地角色淘汰对方。
func (r *Resolver) ResolveActors(actors []*Actor) {
	for i := 0; i < len(actors); i++ {
		for j := i + 1; j < len(actors); j++ {
			a, b := actors[i], actors[j]
			if a == nil || b == nil || a == b {
				continue
			}
			if !a.IsSelf && !b.IsSelf {
				continue
			}
			if !a.Body(r.cfg.TileSize).Overlaps(b.Body(r.cfg.TileSize)) {
				continue
			}
			self, target := a, b
			if !a.IsSelf {
				self, target = b, a
			}
			r.log.Info("actor eliminated",
				zap.String("by", self.ID),
				zap.String("target", target.ID),
				zap.Int("score", self.Score))
			r.bus.Emit(ActorEliminated{EliminatingID: self.ID, TargetID: target.ID, Score: self.Score})
		}
	}
}
