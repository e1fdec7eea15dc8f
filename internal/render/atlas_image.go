package render

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/annel0/voxel-engine/internal/mesh"
	"github.com/annel0/voxel-engine/internal/vec"
)

type paletteEntry struct {
	tile  vec.Vec2
	color color.RGBA
}

// tilePalette - базовые цвета плиток атласа в порядке отрисовки
var tilePalette = []paletteEntry{
	{tile: mesh.TileGrassSide, color: color.RGBA{R: 110, G: 84, B: 56, A: 255}},
	{tile: mesh.TileDirt, color: color.RGBA{R: 121, G: 85, B: 58, A: 255}},
	{tile: mesh.TileStone, color: color.RGBA{R: 125, G: 125, B: 125, A: 255}},
	{tile: mesh.TileGrassTop, color: color.RGBA{R: 94, G: 157, B: 52, A: 255}},
}

// grassFringe - зелёная кромка сверху боковой плитки травы
var grassFringe = color.RGBA{R: 94, G: 157, B: 52, A: 255}

// AtlasImage рисует атлас текстур процедурно: tiles x tiles плиток по tilePx пикселей.
// Каждая известная плитка заливается своим цветом с детерминированным шумом яркости.
// Строка 0 атласа находится сверху изображения (v растёт вниз).
func AtlasImage(tiles, tilePx int, seed int64) *image.RGBA {
	size := tiles * tilePx
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	rng := rand.New(rand.NewSource(seed))

	for _, entry := range tilePalette {
		tile, base := entry.tile, entry.color
		x0, y0 := tile.X*tilePx, tile.Y*tilePx
		for py := 0; py < tilePx; py++ {
			for px := 0; px < tilePx; px++ {
				c := base
				if tile == mesh.TileGrassSide && py < tilePx/4 {
					c = grassFringe
				}
				img.SetRGBA(x0+px, y0+py, jitter(c, rng.Intn(31)-15))
			}
		}
	}
	return img
}

func jitter(c color.RGBA, d int) color.RGBA {
	return color.RGBA{R: clampByte(int(c.R) + d), G: clampByte(int(c.G) + d), B: clampByte(int(c.B) + d), A: c.A}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
