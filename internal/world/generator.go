package world

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/annel0/voxel-engine/internal/util"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// ErrUnknownGenerator возвращается для неизвестного имени генератора
var ErrUnknownGenerator = errors.New("unknown world generator")

// Generator возвращает воксель для мировой координаты.
// Вызывается один раз на каждую ячейку при первой загрузке чанка.
type Generator func(pos vec.Vec3) block.BlockID

// Имена генераторов в конфигурации
const (
	GeneratorLayered = "layered"
	GeneratorPerlin  = "perlin"
	GeneratorSimplex = "simplex"
)

// Константы для генераторов по шуму
const (
	DirtDepth      = 3     // Толщина слоя земли под травой
	TerrainAmpl    = 12    // Амплитуда рельефа в блоках
	PerlinScale    = 0.03  // Масштаб шума Перлина
	SimplexScale   = 0.015 // Масштаб симплекс-шума
	SimplexOctaves = 4
)

// layer возвращает блок для высоты y относительно поверхности surface
func layer(y, surface int) block.BlockID {
	switch {
	case y < surface-DirtDepth:
		return block.StoneBlockID
	case y < surface:
		return block.DirtBlockID
	case y == surface:
		return block.GrassBlockID
	default:
		return block.AirBlockID
	}
}

// LayeredGenerator - плоский мир: камень, 3 слоя земли, трава на surfaceY, выше воздух
func LayeredGenerator(surfaceY int) Generator {
	return func(pos vec.Vec3) block.BlockID {
		return layer(pos.Y, surfaceY)
	}
}

// HeightmapGenerator строит рельеф по полю высот: поверхность = base + h*amplitude
func HeightmapGenerator(field util.HeightField, base, amplitude int) Generator {
	return func(pos vec.Vec3) block.BlockID {
		h := field.Height(float64(pos.X), float64(pos.Z))
		surface := base + int(math.Floor(h*float64(amplitude)))
		return layer(pos.Y, surface)
	}
}

// PerlinGenerator - рельеф по шуму Перлина вокруг surfaceY
func PerlinGenerator(seed int64, surfaceY int) Generator {
	return HeightmapGenerator(util.NewPerlinField(seed, PerlinScale), surfaceY-TerrainAmpl/2, TerrainAmpl)
}

// SimplexGenerator - фрактальный рельеф по симплекс-шуму вокруг surfaceY
func SimplexGenerator(seed int64, surfaceY int) Generator {
	return HeightmapGenerator(util.NewSimplexField(seed, SimplexScale, SimplexOctaves), surfaceY-TerrainAmpl/2, TerrainAmpl)
}

// NewGenerator выбирает генератор по имени из конфигурации.
// Пустое имя означает layered.
func NewGenerator(kind string, seed int64, surfaceY int) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", GeneratorLayered:
		return LayeredGenerator(surfaceY), nil
	case GeneratorPerlin:
		return PerlinGenerator(seed, surfaceY), nil
	case GeneratorSimplex:
		return SimplexGenerator(seed, surfaceY), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, kind)
	}
}
