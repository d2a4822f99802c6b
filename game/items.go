package game

// Item 可收集的豆子
type Item struct {
	Cell  Cell
	Pos   Vec // 左上角
	Alive bool
}

// ItemSet 会话内共享的豆子集合
type ItemSet struct {
	items []*Item
	alive int
	size  float64
}

// NewItemSet 在每个豆子格上生成一颗豆子
func NewItemSet(cells []Cell, cfg Config) *ItemSet {
	s := &ItemSet{items: make([]*Item, 0, len(cells)), size: cfg.ItemSize}
	ts := float64(cfg.TileSize)
	for _, c := range cells {
		s.items = append(s.items, &Item{
			Cell:  c,
			Pos:   Vec{X: float64(c.X)*ts + cfg.ItemOffset, Y: float64(c.Y)*ts + cfg.ItemOffset},
			Alive: true,
		})
	}
	s.alive = len(s.items)
	return s
}

func (s *ItemSet) Total() int { return len(s.items) }
func (s *ItemSet) Alive() int { return s.alive }

// Body 豆子的碰撞盒
func (s *ItemSet) Body(it *Item) Rect {
	return Rect{X: it.Pos.X, Y: it.Pos.Y, W: s.size, H: s.size}
}

// Each 遍历存活的豆子，fn 返回 false 时停止
func (s *ItemSet) Each(fn func(*Item) bool) {
	for _, it := range s.items {
		if !it.Alive {
			continue
		}
		if !fn(it) {
			return
		}
	}
}

// Kill 移除豆子；已移除的豆子返回 false
func (s *ItemSet) Kill(it *Item) bool {
	if it == nil || !it.Alive {
		return false
	}
	it.Alive = false
	s.alive--
	return true
}

// At 按精确坐标查找存活的豆子
func (s *ItemSet) At(x, y float64) *Item {
	for _, it := range s.items {
		if it.Alive && it.Pos.X == x && it.Pos.Y == y {
			return it
		}
	}
	return nil
}

// ReviveAll 重新放置全部豆子
func (s *ItemSet) ReviveAll() {
	for _, it := range s.items {
		it.Alive = true
	}
	s.alive = len(s.items)
}
