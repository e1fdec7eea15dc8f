package render

import (
	"errors"
	"testing"

	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache() (*ChunkRenderCache, *MemoryUploader) {
	up := NewMemoryUploader()
	return NewChunkRenderCache(nil, up), up
}

func TestChunkRenderCache_BuildsGeometryForDirtyChunks(t *testing.T) {
	w := world.NewWorld(world.LayeredGenerator(0))
	w.LoadChunk(vec.Vec3{X: 0, Y: 1, Z: 0})  // воздух
	w.LoadChunk(vec.Vec3{X: 0, Y: 0, Z: 0})  // трава на y=0
	w.LoadChunk(vec.Vec3{X: 0, Y: -1, Z: 0}) // земля и камень

	cache, up := newTestCache()
	stats, err := cache.Update(w)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 2, stats.Remeshed)
	assert.Equal(t, 2, cache.Len(), "У воздушного чанка не должно быть геометрии")
	_, ok := cache.Get(vec.Vec3{X: 0, Y: 1, Z: 0})
	assert.False(t, ok)
	assert.Equal(t, 2, up.Live())

	// Повторный вызов без изменений ничего не делает
	stats, err = cache.Update(w)
	require.NoError(t, err)
	assert.Equal(t, UpdateStats{}, stats)
}

func TestChunkRenderCache_RemeshReleasesPrevious(t *testing.T) {
	w := world.NewWorld(world.LayeredGenerator(0))
	cache, up := newTestCache()

	w.SetVoxel(1, 1, 1, block.StoneBlockID)
	_, err := cache.Update(w)
	require.NoError(t, err)
	g1, ok := cache.Get(vec.Vec3{})
	require.True(t, ok)

	w.SetVoxel(2, 2, 2, block.StoneBlockID)
	_, err = cache.Update(w)
	require.NoError(t, err)

	g2, ok := cache.Get(vec.Vec3{})
	require.True(t, ok)
	assert.NotSame(t, g1, g2)
	assert.True(t, g1.(*MemoryGeometry).Released(), "Старая геометрия должна быть освобождена")
	assert.Equal(t, 1, up.Live())
	assert.Equal(t, g2.VertexCount(), cache.VertexCount())
}

func TestChunkRenderCache_EmptyMeshRemovesGeometry(t *testing.T) {
	w := world.NewWorld(func(vec.Vec3) block.BlockID { return block.AirBlockID })
	cache, up := newTestCache()

	w.SetVoxel(3, 3, 3, block.DirtBlockID)
	_, err := cache.Update(w)
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	w.SetVoxel(3, 3, 3, block.AirBlockID)
	stats, err := cache.Update(w)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Removed)
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0, up.Live())
	assert.Equal(t, 0, cache.VertexCount())
}

func TestChunkRenderCache_UnloadedChunkRemovesGeometry(t *testing.T) {
	w := world.NewWorld(world.LayeredGenerator(0))
	pos := vec.Vec3{}
	w.LoadChunk(pos)
	cache, up := newTestCache()
	_, err := cache.Update(w)
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	w.UnloadChunk(pos)
	stats, err := cache.Update(w)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Removed)
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0, up.Live())
}

func TestChunkRenderCache_UploadFailureContinues(t *testing.T) {
	w := world.NewWorld(world.LayeredGenerator(0))
	bad := vec.Vec3{X: 1, Y: 0, Z: 0}
	errBoom := errors.New("out of video memory")

	cache, up := newTestCache()
	w.LoadChunk(vec.Vec3{})
	w.LoadChunk(bad)
	w.LoadChunk(vec.Vec3{X: 2, Y: 0, Z: 0})
	_, err := cache.Update(w)
	require.NoError(t, err)
	require.Equal(t, 3, cache.Len())

	up.Fail = func(pos vec.Vec3) error {
		if pos == bad {
			return errBoom
		}
		return nil
	}
	w.SetVoxel(16, 5, 0, block.StoneBlockID)
	w.SetVoxel(32, 5, 0, block.StoneBlockID)

	stats, err := cache.Update(w)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Remeshed, "Остальные чанки обрабатываются")

	_, ok := cache.Get(bad)
	assert.False(t, ok, "Устаревшая геометрия удаляется при ошибке загрузки")
	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, 2, up.Live())
}

func TestChunkRenderCache_EachOrderAndClear(t *testing.T) {
	w := world.NewWorld(world.LayeredGenerator(0))
	w.LoadChunk(vec.Vec3{X: 2})
	w.LoadChunk(vec.Vec3{X: -1})
	w.LoadChunk(vec.Vec3{X: 0})
	cache, up := newTestCache()
	_, err := cache.Update(w)
	require.NoError(t, err)

	var order []vec.Vec3
	cache.Each(func(pos vec.Vec3, g Geometry) {
		order = append(order, pos)
		assert.Positive(t, g.VertexCount())
	})
	assert.Equal(t, []vec.Vec3{{X: -1}, {X: 0}, {X: 2}}, order)

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0, up.Live())
}
