package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Cell 整数网格坐标（列, 行）
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step 沿方向移动一格
func (c Cell) Step(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Tile 地块
type Tile struct {
	Index int
	Cell  Cell
}

// Neighbor 某方向相邻地块的查询结果，OK=false 表示越界或空地块
type Neighbor struct {
	Tile Tile
	OK   bool
}

const noTile = -1

// GridMap 只读的二维地块索引，加载后不再修改
type GridMap struct {
	width    int
	height   int
	tiles    []int // 行优先
	safeTile int
	items    []Cell
}

var (
	ErrEmptyMap     = errors.New("grid: empty map")
	ErrRaggedLayout = errors.New("grid: layout rows differ in width")
)

// NewGridMap 直接由地块数组构建，tiles 长度必须等于 width*height
func NewGridMap(width, height int, tiles []int, safeTile int, items []Cell) (*GridMap, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyMap
	}
	if len(tiles) != width*height {
		return nil, fmt.Errorf("grid: got %d tiles for %dx%d map", len(tiles), width, height)
	}
	t := make([]int, len(tiles))
	copy(t, tiles)
	it := make([]Cell, len(items))
	copy(it, items)
	return &GridMap{width: width, height: height, tiles: t, safeTile: safeTile, items: it}, nil
}

func (g *GridMap) Width() int  { return g.width }
func (g *GridMap) Height() int { return g.height }

// TileAt 越界或空地块返回 false，不会 panic
func (g *GridMap) TileAt(c Cell) (Tile, bool) {
	if g == nil || c.X < 0 || c.Y < 0 || c.X >= g.width || c.Y >= g.height {
		return Tile{}, false
	}
	idx := g.tiles[c.Y*g.width+c.X]
	if idx == noTile {
		return Tile{}, false
	}
	return Tile{Index: idx, Cell: c}, true
}

// IsPassable 只有安全地块可通行；不存在的地块视为不可通行
func (g *GridMap) IsPassable(c Cell) bool {
	t, ok := g.TileAt(c)
	return ok && t.Index == g.safeTile
}

// IsSafe 判断已查询到的相邻地块是否可通行
func (g *GridMap) IsSafe(n Neighbor) bool {
	return n.OK && n.Tile.Index == g.safeTile
}

// Neighbors 四个方向的相邻地块，下标为 Direction
func (g *GridMap) Neighbors(c Cell) [5]Neighbor {
	var out [5]Neighbor
	for _, d := range Directions {
		t, ok := g.TileAt(c.Step(d))
		out[d] = Neighbor{Tile: t, OK: ok}
	}
	return out
}

// ItemCells 需要放置豆子的格子（按行优先顺序）
func (g *GridMap) ItemCells() []Cell {
	out := make([]Cell, len(g.items))
	copy(out, g.items)
	return out
}

// ParseLayout 由 ASCII 布局构建地图：
// '#' 墙体，'.' 可通行并放置豆子，' ' 可通行无豆子，其他字符视为空地块
func ParseLayout(rows []string, cfg Config) (*GridMap, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMap
	}
	width := len(rows[0])
	tiles := make([]int, 0, width*len(rows))
	var items []Cell
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedLayout, y, len(row), width)
		}
		for x, ch := range []byte(row) {
			switch ch {
			case '#':
				tiles = append(tiles, cfg.WallTile)
			case '.':
				tiles = append(tiles, cfg.SafeTile)
				items = append(items, Cell{X: x, Y: y})
			case ' ':
				tiles = append(tiles, cfg.SafeTile)
			default:
				tiles = append(tiles, noTile)
			}
		}
	}
	return NewGridMap(width, len(rows), tiles, cfg.SafeTile, items)
}

type tiledMap struct {
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	TileWidth  int          `json:"tilewidth"`
	TileHeight int          `json:"tileheight"`
	Layers     []tiledLayer `json:"layers"`
}

type tiledLayer struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   []int  `json:"data"`
}

// LoadTiledJSON 读取 Tiled 导出的 JSON 地图中指定名称的图层。
// gid 0 为空地块；编号为 ItemTile 的地块转换为 SafeTile 并记录为豆子格。
func LoadTiledJSON(r io.Reader, layer string, cfg Config) (*GridMap, error) {
	var m tiledMap
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("grid: decode tiled map: %w", err)
	}
	if m.TileWidth != 0 && m.TileWidth != cfg.TileSize {
		return nil, fmt.Errorf("grid: tile width %d does not match configured %d", m.TileWidth, cfg.TileSize)
	}
	for _, l := range m.Layers {
		if l.Name != layer {
			continue
		}
		w, h := l.Width, l.Height
		if w == 0 || h == 0 {
			w, h = m.Width, m.Height
		}
		tiles := make([]int, len(l.Data))
		var items []Cell
		for i, gid := range l.Data {
			switch {
			case gid == 0:
				tiles[i] = noTile
			case gid == cfg.ItemTile:
				tiles[i] = cfg.SafeTile
				if w > 0 {
					items = append(items, Cell{X: i % w, Y: i / w})
				}
			default:
				tiles[i] = gid
			}
		}
		return NewGridMap(w, h, tiles, cfg.SafeTile, items)
	}
	return nil, fmt.Errorf("grid: layer %q not found", layer)
}
