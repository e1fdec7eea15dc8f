package world

import (
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

const (
	// ChunkSize - длина ребра чанка в вокселях
	ChunkSize = vec.ChunkSize
	// ChunkVolume - число вокселей в чанке (16³)
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
)

// Index возвращает линейный индекс локальной ячейки: x + y*16 + z*256
func Index(x, y, z int) int {
	return x + y*ChunkSize + z*ChunkSize*ChunkSize
}

// Chunk представляет куб мира размером 16x16x16 вокселей.
// Нулевое значение - полностью воздушный чанк.
type Chunk struct {
	Blocks [ChunkVolume]block.BlockID
}

// NewChunk создаёт пустой (воздушный) чанк
func NewChunk() *Chunk {
	return &Chunk{}
}

// Get возвращает воксель по локальным координатам.
// Координаты должны лежать в [0, ChunkSize), иначе - паника по индексу.
func (c *Chunk) Get(x, y, z int) block.BlockID {
	return c.Blocks[Index(x, y, z)]
}

// Set записывает воксель по локальным координатам
func (c *Chunk) Set(x, y, z int, id block.BlockID) {
	c.Blocks[Index(x, y, z)] = id
}

// InBounds проверяет, что локальные координаты лежат внутри чанка
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSize &&
		y >= 0 && y < ChunkSize &&
		z >= 0 && z < ChunkSize
}

// Count возвращает число не-воздушных вокселей
func (c *Chunk) Count() int {
	n := 0
	for _, id := range c.Blocks {
		if id != block.AirBlockID {
			n++
		}
	}
	return n
}

// IsEmpty проверяет, что чанк состоит только из воздуха
func (c *Chunk) IsEmpty() bool {
	for _, id := range c.Blocks {
		if id != block.AirBlockID {
			return false
		}
	}
	return true
}

// Fill заполняет весь чанк одним типом блока
func (c *Chunk) Fill(id block.BlockID) {
	for i := range c.Blocks {
		c.Blocks[i] = id
	}
}
