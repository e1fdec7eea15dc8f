package mesh

import (
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// DefaultAtlasTiles - число плиток по стороне атласа
const DefaultAtlasTiles = 16

// Плитки атласа (столбец X, строка Y)
var (
	TileGrassSide = vec.Vec2{X: 0, Y: 0}
	TileDirt      = vec.Vec2{X: 1, Y: 0}
	TileStone     = vec.Vec2{X: 2, Y: 0}
	TileGrassTop  = vec.Vec2{X: 0, Y: 1}
)

// TextureAtlas сопоставляет тип блока и грань с плиткой квадратного атласа
type TextureAtlas struct {
	TileCount int
}

// NewTextureAtlas создаёт атлас 16x16 плиток
func NewTextureAtlas() TextureAtlas {
	return TextureAtlas{TileCount: DefaultAtlasTiles}
}

// TileSize возвращает размер плитки в UV-координатах
func (a TextureAtlas) TileSize() float32 {
	n := a.TileCount
	if n <= 0 {
		n = DefaultAtlasTiles
	}
	return 1 / float32(n)
}

// Tile возвращает плитку для грани блока.
// У травы верх, низ и бока различаются; низ травы совпадает с землёй.
func (a TextureAtlas) Tile(id block.BlockID, face Face) vec.Vec2 {
	switch id {
	case block.GrassBlockID:
		switch face {
		case Top:
			return TileGrassTop
		case Bottom:
			return TileDirt
		default:
			return TileGrassSide
		}
	case block.DirtBlockID:
		return TileDirt
	case block.StoneBlockID:
		return TileStone
	default:
		return TileGrassSide
	}
}

// UVs возвращает текстурные координаты шести вершин грани в порядке Face.Corners
func (a TextureAtlas) UVs(id block.BlockID, face Face) [6][2]float32 {
	tile := a.Tile(id, face)
	size := a.TileSize()
	umin := float32(tile.X) * size
	vmin := float32(tile.Y) * size
	umax := umin + size
	vmax := vmin + size

	return [6][2]float32{
		{umin, vmax},
		{umax, vmax},
		{umax, vmin},
		{umin, vmax},
		{umax, vmin},
		{umin, vmin},
	}
}
