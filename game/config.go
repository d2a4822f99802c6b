package game

import "time"

// Config 核心模拟参数（与原始地图资源保持一致）
type Config struct {
	TileSize  int     // 网格边长（像素），同时也是角色碰撞盒边长
	SafeTile  int     // 唯一可通行的地块编号
	ItemTile  int     // 地图中表示“放置豆子”的地块编号，加载时转换为 SafeTile
	WallTile  int     // ASCII 布局中墙体使用的地块编号
	Speed     float64 // 移动速度（像素/秒）
	Threshold float64 // 转弯提交点的模糊比较阈值（像素）
	SpawnCell Cell    // 新角色的默认出生格
	TickRate  int     // 每秒 Tick 次数

	ItemOffset float64 // 豆子相对格子左上角的偏移
	ItemSize   float64 // 豆子碰撞盒边长

	OutboxSize int // 事件总线待取队列容量
	InboxSize  int // 会话入站队列容量
}

// DefaultConfig 返回默认参数：448x496 画布，16px 网格
func DefaultConfig() Config {
	return Config{
		TileSize:  16,
		SafeTile:  14,
		ItemTile:  7,
		WallTile:  1,
		Speed:     150,
		Threshold: 3,
		SpawnCell: Cell{X: 14, Y: 17},
		TickRate:  60,

		// 豆子图片 4px，放回格子中心需要偏移 6px
		ItemOffset: 6,
		ItemSize:   4,

		OutboxSize: 256,
		InboxSize:  256,
	}
}

// TickInterval 由 TickRate 推导的 Tick 周期
func (c Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// half 网格半边长
func (c Config) half() float64 {
	return float64(c.TileSize) / 2
}
