package util

import (
	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// HeightField возвращает нормализованную высоту (от 0 до 1) для точки на плоскости XZ
type HeightField interface {
	Height(x, z float64) float64
}

// PerlinField - поле высот на основе шума Перлина
type PerlinField struct {
	noise *perlin.Perlin
	scale float64
}

// NewPerlinField создаёт поле Перлина с указанным сидом и масштабом
func NewPerlinField(seed int64, scale float64) *PerlinField {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &PerlinField{
		noise: perlin.NewPerlin(alpha, beta, n, seed),
		scale: scale,
	}
}

// Height возвращает значение шума Перлина для указанных координат (от 0 до 1)
func (f *PerlinField) Height(x, z float64) float64 {
	// Получаем значение шума (примерно от -1 до 1)
	noise := f.noise.Noise2D(x*f.scale, z*f.scale)
	return clamp01((noise + 1.0) / 2.0)
}

// SimplexField - фрактальное поле высот на основе симплекс-шума
type SimplexField struct {
	noise   opensimplex.Noise
	scale   float64
	octaves int
}

// NewSimplexField создаёт симплекс-поле с указанным сидом, масштабом и числом октав
func NewSimplexField(seed int64, scale float64, octaves int) *SimplexField {
	if octaves < 1 {
		octaves = 1
	}
	return &SimplexField{
		noise:   opensimplex.New(seed),
		scale:   scale,
		octaves: octaves,
	}
}

// Height суммирует октавы с затуханием амплитуды вдвое (от 0 до 1)
func (f *SimplexField) Height(x, z float64) float64 {
	total := 0.0
	amplitude := 1.0
	frequency := f.scale
	norm := 0.0

	for i := 0; i < f.octaves; i++ {
		total += f.noise.Eval2(x*frequency, z*frequency) * amplitude
		norm += amplitude
		amplitude *= 0.5
		frequency *= 2
	}

	return clamp01((total/norm + 1.0) / 2.0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
