// Package camera описывает камеру от первого лица: углы рыскания и тангажа,
// матрицы вида и проекции для OpenGL.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPitch - предел тангажа, чтобы камера не переворачивалась
var MaxPitch = mgl32.DegToRad(89)

// Up - мировая ось вверх
var Up = mgl32.Vec3{0, 1, 0}

// Camera - камера от первого лица
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32 // Радианы; 0 смотрит вдоль +X, -π/2 вдоль -Z
	Pitch    float32 // Радианы, ограничен ±89°

	FovY   float32 // Градусы
	Aspect float32
	Near   float32
	Far    float32
}

// New создаёт камеру с параметрами проекции по умолчанию (45°, 0.1..1000)
func New(position mgl32.Vec3, yaw, pitch, aspect float32) *Camera {
	c := &Camera{
		Position: position,
		Yaw:      yaw,
		FovY:     45,
		Aspect:   aspect,
		Near:     0.1,
		Far:      1000,
	}
	c.SetPitch(pitch)
	return c
}

// SetPitch задаёт тангаж с ограничением ±89°
func (c *Camera) SetPitch(pitch float32) {
	c.Pitch = mgl32.Clamp(pitch, -MaxPitch, MaxPitch)
}

// Rotate поворачивает камеру на приращения углов
func (c *Camera) Rotate(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.SetPitch(c.Pitch + dPitch)
}

// SetAspect обновляет соотношение сторон (при изменении размера окна)
func (c *Camera) SetAspect(width, height int) {
	if height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Direction возвращает единичный вектор взгляда
func (c *Camera) Direction() mgl32.Vec3 {
	yaw, pitch := float64(c.Yaw), float64(c.Pitch)
	return mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
}

// ForwardHorizontal возвращает направление взгляда в плоскости XZ
func (c *Camera) ForwardHorizontal() mgl32.Vec3 {
	yaw := float64(c.Yaw)
	return mgl32.Vec3{float32(math.Cos(yaw)), 0, float32(math.Sin(yaw))}.Normalize()
}

// Right возвращает направление вправо в плоскости XZ
func (c *Camera) Right() mgl32.Vec3 {
	return c.ForwardHorizontal().Cross(Up).Normalize()
}

// View возвращает матрицу вида
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Direction()), Up)
}

// Projection возвращает матрицу перспективной проекции
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// ViewProjection возвращает произведение проекции и вида
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}
