package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/voxel-engine/internal/vec"
)

// AABB представляет прямоугольный объём, выровненный по осям
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// BlockAABB возвращает объём единичного куба вокселя
func BlockAABB(p vec.Vec3) AABB {
	lo := mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
	return AABB{Min: lo, Max: lo.Add(mgl32.Vec3{1, 1, 1})}
}

// CenteredAABB возвращает объём с центром center и полуразмерами half
func CenteredAABB(center, half mgl32.Vec3) AABB {
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Overlaps проверяет строгое пересечение: касание гранями не считается
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X() < b.Max.X() && a.Max.X() > b.Min.X() &&
		a.Min.Y() < b.Max.Y() && a.Max.Y() > b.Min.Y() &&
		a.Min.Z() < b.Max.Z() && a.Max.Z() > b.Min.Z()
}

// Penetration возвращает глубину проникновения по каждой оси (меньшая из двух сторон)
func (a AABB) Penetration(b AABB) mgl32.Vec3 {
	var pen mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		pen[axis] = min(a.Max[axis]-b.Min[axis], b.Max[axis]-a.Min[axis])
	}
	return pen
}

// VoxelRange возвращает диапазон ячеек (включительно), которых касается объём
func (a AABB) VoxelRange() (lo, hi vec.Vec3) {
	lo = vec.FloorVec3(a.Min.X(), a.Min.Y(), a.Min.Z())
	hi = vec.FloorVec3(a.Max.X(), a.Max.Y(), a.Max.Z())
	return lo, hi
}
