package input

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/annel0/voxel-engine/internal/camera"
	"github.com/annel0/voxel-engine/internal/physics"
)

func startCamera() *camera.Camera {
	return camera.New(mgl32.Vec3{}, -math.Pi/2, 0, 1)
}

func TestController_HandleKey(t *testing.T) {
	c := NewController(0, 0, 0)

	assert.True(t, c.HandleKey(KeyForward, true))
	assert.True(t, c.Pressed(KeyForward))
	assert.False(t, c.HandleKey(Key(42), true), "Неизвестная клавиша не обрабатывается")

	c.Reset()
	assert.False(t, c.Pressed(KeyForward))
	assert.Equal(t, float32(DefaultMoveSpeed), c.MoveSpeed)
}

func TestController_DiagonalSpeedNormalized(t *testing.T) {
	c := NewController(0, 0, 0)
	cam := startCamera()
	p := physics.NewPlayer(mgl32.Vec3{})
	p.Velocity = mgl32.Vec3{0, -3, 0}

	c.HandleKey(KeyForward, true)
	c.HandleKey(KeyRight, true)
	c.UpdateVelocity(p, cam)

	horizontal := mgl32.Vec3{p.Velocity.X(), 0, p.Velocity.Z()}
	assert.InDelta(t, 10, horizontal.Len(), 1e-4, "Диагональ не быстрее прямого движения")
	assert.Greater(t, p.Velocity.X(), float32(0))
	assert.Less(t, p.Velocity.Z(), float32(0))
	assert.Equal(t, float32(-3), p.Velocity.Y(), "Вертикальная скорость сохраняется")
}

func TestController_JumpOnlyFromGround(t *testing.T) {
	c := NewController(0, 0, 0)
	cam := startCamera()
	p := physics.NewPlayer(mgl32.Vec3{})
	c.HandleKey(KeyJump, true)

	c.UpdateVelocity(p, cam)
	assert.Equal(t, float32(0), p.Velocity.Y(), "В воздухе прыжок невозможен")

	p.OnGround = true
	c.UpdateVelocity(p, cam)
	assert.Equal(t, float32(DefaultJumpStrength), p.Velocity.Y())
}

func TestController_NoKeysStopsHorizontal(t *testing.T) {
	c := NewController(0, 0, 0)
	p := physics.NewPlayer(mgl32.Vec3{})
	p.Velocity = mgl32.Vec3{4, 1, 4}

	c.UpdateVelocity(p, startCamera())

	assert.Equal(t, mgl32.Vec3{0, 1, 0}, p.Velocity)
}

func TestController_HandleMouse(t *testing.T) {
	c := NewController(0, 0, 0.01)
	cam := startCamera()

	c.HandleMouse(10, 20, cam)
	assert.InDelta(t, -math.Pi/2+0.1, cam.Yaw, 1e-5)
	assert.InDelta(t, -0.2, cam.Pitch, 1e-5, "Курсор вниз опускает взгляд")

	c.HandleMouse(0, -100000, cam)
	assert.InDelta(t, camera.MaxPitch, cam.Pitch, 1e-6)
}

func TestController_Fly(t *testing.T) {
	c := NewController(2, 0, 0)
	cam := startCamera()
	c.HandleKey(KeyForward, true)
	c.HandleKey(KeyJump, true)

	c.Fly(cam, 0.5)

	assert.InDelta(t, 0, cam.Position.X(), 1e-5)
	assert.InDelta(t, 1, cam.Position.Y(), 1e-5)
	assert.InDelta(t, -1, cam.Position.Z(), 1e-5)
}
