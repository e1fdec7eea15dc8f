package render

import (
	"errors"
	"fmt"
	"slices"

	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/mesh"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
)

// UpdateStats описывает результат одного вызова Update
type UpdateStats struct {
	Processed int // Обработано грязных координат
	Remeshed  int // Загружено новых мешей
	Removed   int // Удалено геометрии (чанк выгружен или меш пуст)
	Failed    int // Ошибок загрузки
}

// ChunkRenderCache хранит геометрию чанков и перестраивает её по грязным координатам мира.
// Инвариант: геометрия есть только у загруженных чанков с непустым мешем.
type ChunkRenderCache struct {
	mesher   *mesh.Mesher
	uploader Uploader
	geometry map[vec.Vec3]Geometry
	vertices int
}

// NewChunkRenderCache создаёт кэш; nil-мешер заменяется мешером по умолчанию
func NewChunkRenderCache(mesher *mesh.Mesher, uploader Uploader) *ChunkRenderCache {
	if mesher == nil {
		mesher = mesh.NewMesher()
	}
	return &ChunkRenderCache{
		mesher:   mesher,
		uploader: uploader,
		geometry: make(map[vec.Vec3]Geometry),
	}
}

// Update забирает грязные координаты и обновляет геометрию.
// Ошибка загрузки одного чанка не прерывает обработку остальных;
// все ошибки объединяются через errors.Join.
func (c *ChunkRenderCache) Update(src world.DirtySource) (UpdateStats, error) {
	var stats UpdateStats
	var errs []error

	for _, pos := range src.TakeDirtyChunks() {
		stats.Processed++

		chunk, ok := src.Chunk(pos)
		if !ok {
			if c.remove(pos) {
				stats.Removed++
			}
			continue
		}

		m := c.mesher.Generate(chunk, pos)
		if m.IsEmpty() {
			if c.remove(pos) {
				stats.Removed++
			}
			continue
		}

		g, err := c.uploader.Upload(pos, m)
		if err != nil {
			// Старая геометрия больше не соответствует чанку
			c.remove(pos)
			stats.Failed++
			errs = append(errs, fmt.Errorf("upload chunk %v: %w", pos, err))
			logging.GetRenderLogger().Warn("❌ Не удалось загрузить меш чанка %v: %v", pos, err)
			continue
		}

		c.remove(pos)
		c.geometry[pos] = g
		c.vertices += g.VertexCount()
		stats.Remeshed++
	}

	if stats.Processed > 0 {
		logging.GetRenderLogger().Debug("Обновление кэша: %d обработано, %d перестроено, %d удалено",
			stats.Processed, stats.Remeshed, stats.Removed)
	}

	return stats, errors.Join(errs...)
}

// remove освобождает и удаляет геометрию чанка; возвращает true, если она была
func (c *ChunkRenderCache) remove(pos vec.Vec3) bool {
	g, ok := c.geometry[pos]
	if !ok {
		return false
	}
	c.vertices -= g.VertexCount()
	c.uploader.Release(g)
	delete(c.geometry, pos)
	return true
}

// Get возвращает геометрию чанка
func (c *ChunkRenderCache) Get(pos vec.Vec3) (Geometry, bool) {
	g, ok := c.geometry[pos]
	return g, ok
}

// Each обходит геометрию в детерминированном порядке координат (для отрисовки)
func (c *ChunkRenderCache) Each(fn func(pos vec.Vec3, g Geometry)) {
	keys := make([]vec.Vec3, 0, len(c.geometry))
	for pos := range c.geometry {
		keys = append(keys, pos)
	}
	slices.SortFunc(keys, vec.Compare)
	for _, pos := range keys {
		fn(pos, c.geometry[pos])
	}
}

// Len возвращает число чанков с геометрией
func (c *ChunkRenderCache) Len() int {
	return len(c.geometry)
}

// VertexCount возвращает суммарное число вершин в кэше
func (c *ChunkRenderCache) VertexCount() int {
	return c.vertices
}

// Clear освобождает всю геометрию
func (c *ChunkRenderCache) Clear() {
	for pos := range c.geometry {
		c.remove(pos)
	}
}
