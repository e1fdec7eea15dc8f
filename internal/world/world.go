package world

import (
	"slices"

	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// VoxelReader - возможность читать воксели по мировым координатам.
// Нужна рейкасту и физике; ok=false означает, что чанк не загружен.
type VoxelReader interface {
	GetVoxel(wx, wy, wz int) (block.BlockID, bool)
}

// DirtySource - то, что нужно кэшу рендера: забрать грязные координаты и прочитать чанк
type DirtySource interface {
	TakeDirtyChunks() []vec.Vec3
	Chunk(pos vec.Vec3) (*Chunk, bool)
}

// World хранит загруженные чанки и множество чанков, требующих перестройки меша.
// Однопоточный: без блокировок, все вызовы из одного игрового цикла.
type World struct {
	chunks    map[vec.Vec3]*Chunk
	dirty     map[vec.Vec3]struct{}
	generator Generator

	// voxelWrites считает вызовы SetVoxel (для метрик)
	voxelWrites uint64
}

// NewWorld создаёт пустой мир с указанным генератором.
// nil-генератор заменяется на LayeredGenerator(0).
func NewWorld(generator Generator) *World {
	if generator == nil {
		generator = LayeredGenerator(0)
	}
	return &World{
		chunks:    make(map[vec.Vec3]*Chunk),
		dirty:     make(map[vec.Vec3]struct{}),
		generator: generator,
	}
}

// GetVoxel возвращает воксель по мировым координатам.
// ok=false - чанк не загружен; это отличается от загруженного воздуха.
func (w *World) GetVoxel(wx, wy, wz int) (block.BlockID, bool) {
	p := vec.Vec3{X: wx, Y: wy, Z: wz}
	chunk, ok := w.chunks[p.ToChunkCoords()]
	if !ok {
		return block.AirBlockID, false
	}
	local := p.LocalInChunk()
	return chunk.Get(local.X, local.Y, local.Z), true
}

// SetVoxel записывает воксель, при необходимости загружая чанк, и помечает чанк грязным
func (w *World) SetVoxel(wx, wy, wz int, id block.BlockID) {
	p := vec.Vec3{X: wx, Y: wy, Z: wz}
	cp := p.ToChunkCoords()
	chunk := w.loadChunk(cp)
	local := p.LocalInChunk()
	chunk.Set(local.X, local.Y, local.Z, id)
	w.dirty[cp] = struct{}{}
	w.voxelWrites++
}

// LoadChunk загружает чанк, если он ещё не загружен.
// Повторный вызов ничего не генерирует и не помечает чанк грязным.
func (w *World) LoadChunk(pos vec.Vec3) {
	w.loadChunk(pos)
}

func (w *World) loadChunk(pos vec.Vec3) *Chunk {
	if chunk, ok := w.chunks[pos]; ok {
		return chunk
	}

	chunk := NewChunk()
	origin := pos.ChunkOrigin()
	for z := 0; z < ChunkSize; z++ {
		for y := 0; y < ChunkSize; y++ {
			for x := 0; x < ChunkSize; x++ {
				chunk.Set(x, y, z, w.generator(origin.Add(vec.Vec3{X: x, Y: y, Z: z})))
			}
		}
	}

	w.chunks[pos] = chunk
	w.dirty[pos] = struct{}{}
	logging.Debug("🧱 Загружен чанк %v (%d блоков)", pos, chunk.Count())
	return chunk
}

// LoadArea загружает куб чанков радиуса radius вокруг center
func (w *World) LoadArea(center vec.Vec3, radius int) {
	if radius < 0 {
		return
	}
	for dz := -radius; dz <= radius; dz++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				w.loadChunk(center.Add(vec.Vec3{X: dx, Y: dy, Z: dz}))
			}
		}
	}
}

// UnloadChunk выгружает чанк и помечает координату грязной,
// чтобы кэш рендера удалил его геометрию. Возвращает false, если чанка не было.
func (w *World) UnloadChunk(pos vec.Vec3) bool {
	if _, ok := w.chunks[pos]; !ok {
		return false
	}
	delete(w.chunks, pos)
	w.dirty[pos] = struct{}{}
	logging.Debug("Выгружен чанк %v", pos)
	return true
}

// TakeDirtyChunks забирает и очищает множество грязных чанков.
// Результат отсортирован (X, затем Y, затем Z).
func (w *World) TakeDirtyChunks() []vec.Vec3 {
	if len(w.dirty) == 0 {
		return nil
	}
	out := make([]vec.Vec3, 0, len(w.dirty))
	for pos := range w.dirty {
		out = append(out, pos)
	}
	clear(w.dirty)
	slices.SortFunc(out, vec.Compare)
	return out
}

// DirtyCount возвращает число чанков, ожидающих перестройки меша
func (w *World) DirtyCount() int {
	return len(w.dirty)
}

// Chunk возвращает загруженный чанк
func (w *World) Chunk(pos vec.Vec3) (*Chunk, bool) {
	chunk, ok := w.chunks[pos]
	return chunk, ok
}

// IsLoaded проверяет, загружен ли чанк
func (w *World) IsLoaded(pos vec.Vec3) bool {
	_, ok := w.chunks[pos]
	return ok
}

// ChunkCount возвращает число загруженных чанков
func (w *World) ChunkCount() int {
	return len(w.chunks)
}

// LoadedChunks возвращает координаты загруженных чанков в отсортированном порядке
func (w *World) LoadedChunks() []vec.Vec3 {
	out := make([]vec.Vec3, 0, len(w.chunks))
	for pos := range w.chunks {
		out = append(out, pos)
	}
	slices.SortFunc(out, vec.Compare)
	return out
}

// VoxelWrites возвращает общее число записей вокселей
func (w *World) VoxelWrites() uint64 {
	return w.voxelWrites
}
