package game

// Vec 连续坐标（像素）
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect 轴对齐包围盒，X/Y 为左上角
type Rect struct {
	X, Y, W, H float64
}

// Overlaps 严格相交判断，仅边缘相接不算重叠
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

func fuzzyEqual(a, b, epsilon float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < epsilon
}
