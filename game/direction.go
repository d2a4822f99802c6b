package game

import (
	"fmt"
	"strings"
)

// Direction 移动方向（键盘意图与角色朝向共用）
type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirRight
	DirUp
	DirDown
)

var directionNames = [...]string{"none", "left", "right", "up", "down"}

// Directions 四个可移动方向，按 Neighbors 下标顺序
var Directions = [...]Direction{DirLeft, DirRight, DirUp, DirDown}

func (d Direction) String() string {
	if d < DirNone || d > DirDown {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Opposite 反方向；DirNone 的反方向仍是 DirNone
func (d Direction) Opposite() Direction {
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	default:
		return DirNone
	}
}

// Horizontal 是否为水平方向
func (d Direction) Horizontal() bool {
	return d == DirLeft || d == DirRight
}

// Delta 单位格偏移
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	}
	return 0, 0
}

// ParseDirection 解析文本方向，未知值返回 DirNone
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return DirLeft
	case "right":
		return DirRight
	case "up":
		return DirUp
	case "down":
		return DirDown
	default:
		return DirNone
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	if d < DirNone || d > DirDown {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(directionNames[d]), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	*d = ParseDirection(string(b))
	return nil
}
