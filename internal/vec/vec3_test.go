package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_ChunkRoundTrip(t *testing.T) {
	// Для любых мировых координат chunk*16 + local == w, включая отрицательные
	for w := -70; w <= 70; w++ {
		v := Vec3{X: w, Y: -w, Z: w * 3}
		chunk := v.ToChunkCoords()
		local := v.LocalInChunk()

		assert.Equal(t, v, chunk.ChunkOrigin().Add(local), "Не восстановлены координаты для w=%d", w)
		assert.GreaterOrEqual(t, local.X, 0)
		assert.Less(t, local.X, ChunkSize)
		assert.GreaterOrEqual(t, local.Y, 0)
		assert.Less(t, local.Y, ChunkSize)
		assert.GreaterOrEqual(t, local.Z, 0)
		assert.Less(t, local.Z, ChunkSize)
	}
}

func TestVec3_NegativeCoordinates(t *testing.T) {
	v := Vec3{X: -1, Y: -16, Z: -17}

	assert.Equal(t, Vec3{X: -1, Y: -1, Z: -2}, v.ToChunkCoords(), "Евклидово деление, а не усечение")
	assert.Equal(t, Vec3{X: 15, Y: 0, Z: 15}, v.LocalInChunk())
}

func TestFloorVec3(t *testing.T) {
	assert.Equal(t, Vec3{X: 0, Y: -1, Z: -5}, FloorVec3(0.5, -0.25, -4.5))
	assert.Equal(t, Vec3{X: 2, Y: 0, Z: -1}, FloorVec3(2, 0, -1))
}

func TestVec3_Compare(t *testing.T) {
	a := Vec3{X: 0, Y: 1, Z: 2}
	b := Vec3{X: 0, Y: 2, Z: 0}

	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(b, a))
	assert.Equal(t, 0, Compare(a, a))
	assert.True(t, a.Neg().Add(a).IsZero())
}
