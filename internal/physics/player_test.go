package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
)

func emptyWorld() *world.World {
	w := world.NewWorld(func(vec.Vec3) block.BlockID { return block.AirBlockID })
	w.LoadChunk(vec.Vec3{})
	return w
}

func noGravity() Params {
	p := DefaultParams()
	p.Gravity = 0
	return p
}

func TestPlayer_RestsOnGround(t *testing.T) {
	w := emptyWorld()
	w.SetVoxel(0, 0, 0, block.StoneBlockID)

	p := NewPlayer(mgl32.Vec3{0.5, 1.9, 0.5})
	p.Step(w, 1.0/60, DefaultParams())

	assert.True(t, p.OnGround, "Игрок должен стоять на блоке")
	assert.Equal(t, float32(0), p.Velocity.Y())
	assert.InDelta(t, 1.901, p.Position.Y(), 1e-4, "Выталкивание вверх на глубину + epsilon")
	assert.False(t, p.OverlapsBlock(vec.Vec3{}), "После шага игрок не пересекается с блоком")
}

func TestPlayer_FreeFallAndDtClamp(t *testing.T) {
	p := NewPlayer(mgl32.Vec3{0.5, 10, 0.5})
	p.Step(world.NewWorld(nil), 1.0, DefaultParams())

	// dt ограничен 0.1 с; незагруженный мир не мешает падению
	assert.InDelta(t, -0.981, p.Velocity.Y(), 1e-5)
	assert.InDelta(t, 10-0.0981, p.Position.Y(), 1e-5)
	assert.False(t, p.OnGround)

	before := p.Position
	p.Step(world.NewWorld(nil), -1, DefaultParams())
	assert.Equal(t, before, p.Position, "Отрицательный dt не двигает игрока")
}

func TestPlayer_StopsAtWall(t *testing.T) {
	w := emptyWorld()
	for y := 4; y <= 6; y++ {
		w.SetVoxel(1, y, 0, block.StoneBlockID)
	}

	p := NewPlayer(mgl32.Vec3{0.5, 5, 0.5})
	p.Velocity = mgl32.Vec3{5, 0, 0}
	p.Step(w, 0.1, noGravity())

	assert.InDelta(t, 0.749, p.Position.X(), 1e-4)
	assert.Equal(t, float32(0), p.Velocity.X())
	assert.InDelta(t, 5, p.Position.Y(), 1e-6, "Боковая коррекция не трогает Y")
	assert.False(t, p.OnGround)
}

func TestPlayer_HitsCeiling(t *testing.T) {
	w := emptyWorld()
	w.SetVoxel(0, 3, 0, block.StoneBlockID)

	p := NewPlayer(mgl32.Vec3{0.5, 2.0, 0.5})
	p.Velocity = mgl32.Vec3{0, 5, 0}
	p.Step(w, 0.1, noGravity())

	assert.InDelta(t, 2.099, p.Position.Y(), 1e-4, "Выталкивание вниз от потолка")
	assert.Equal(t, float32(0), p.Velocity.Y())
	assert.False(t, p.OnGround, "Удар о потолок не даёт опоры")
}

func TestAABB_Overlaps(t *testing.T) {
	a := BlockAABB(vec.Vec3{})
	b := BlockAABB(vec.Vec3{X: 1})

	assert.False(t, a.Overlaps(b), "Касание гранями не пересечение")
	assert.True(t, a.Overlaps(CenteredAABB(mgl32.Vec3{1, 0.5, 0.5}, mgl32.Vec3{0.25, 0.25, 0.25})))

	lo, hi := CenteredAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0.25, 0.9, 0.25}).VoxelRange()
	assert.Equal(t, vec.Vec3{X: -1, Y: -1, Z: -1}, lo)
	assert.Equal(t, vec.Vec3{X: 0, Y: 0, Z: 0}, hi)
}

func TestPlayer_OverlapsBlock(t *testing.T) {
	p := NewPlayer(mgl32.Vec3{0.5, 1.9, 0.5})

	assert.True(t, p.OverlapsBlock(vec.Vec3{X: 0, Y: 1, Z: 0}))
	assert.True(t, p.OverlapsBlock(vec.Vec3{X: 0, Y: 2, Z: 0}))
	assert.False(t, p.OverlapsBlock(vec.Vec3{X: 0, Y: 0, Z: 0}), "Блок под ногами не пересекается")
	assert.False(t, p.OverlapsBlock(vec.Vec3{X: 1, Y: 1, Z: 0}))
}
