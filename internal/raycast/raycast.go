// Package raycast реализует обход вокселей вдоль луча (Amanatides-Woo)
// для выбора блока под прицелом.
package raycast

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// DefaultMaxSteps - потолок числа шагов обхода по умолчанию
const DefaultMaxSteps = 100

// DefaultReach - дальность выбора блока по умолчанию
const DefaultReach = 5.0

// Hit описывает первое попадание луча в твёрдый воксель
type Hit struct {
	Position vec.Vec3 // Ячейка, в которую попал луч
	Normal   vec.Vec3 // Нормаль пересечённой грани; нулевая, если луч начался внутри блока
	Distance float32  // Параметр луча на входе в ячейку
}

// Adjacent возвращает ячейку перед гранью попадания (куда ставится новый блок)
func (h Hit) Adjacent() vec.Vec3 {
	return h.Position.Add(h.Normal)
}

// Cast ищет первый твёрдый воксель вдоль луча с потолком DefaultMaxSteps
func Cast(w world.VoxelReader, origin, dir mgl32.Vec3, maxDistance float32) (Hit, bool) {
	return CastSteps(w, origin, dir, maxDistance, DefaultMaxSteps)
}

// CastSteps ищет первый твёрдый воксель вдоль луча.
// Обход ограничен и дистанцией, и числом шагов; незагруженные ячейки пропускаются.
func CastSteps(w world.VoxelReader, origin, dir mgl32.Vec3, maxDistance float32, maxSteps int) (Hit, bool) {
	if dir.Len() == 0 || maxSteps <= 0 {
		return Hit{}, false
	}
	dir = dir.Normalize()

	cell := vec.FloorVec3(origin.X(), origin.Y(), origin.Z())
	stepX, tDeltaX, tMaxX := axisSetup(origin.X(), dir.X(), cell.X)
	stepY, tDeltaY, tMaxY := axisSetup(origin.Y(), dir.Y(), cell.Y)
	stepZ, tDeltaZ, tMaxZ := axisSetup(origin.Z(), dir.Z(), cell.Z)

	var normal vec.Vec3
	var distance float32

	for i := 0; i < maxSteps; i++ {
		if id, ok := w.GetVoxel(cell.X, cell.Y, cell.Z); ok && id != block.AirBlockID {
			return Hit{Position: cell, Normal: normal, Distance: distance}, true
		}

		// Строгие сравнения: при равенстве побеждает Z, затем Y
		if tMaxX < tMaxY && tMaxX < tMaxZ {
			cell.X += stepX
			distance = tMaxX
			tMaxX += tDeltaX
			normal = vec.Vec3{X: -stepX}
		} else if tMaxY < tMaxZ {
			cell.Y += stepY
			distance = tMaxY
			tMaxY += tDeltaY
			normal = vec.Vec3{Y: -stepY}
		} else {
			cell.Z += stepZ
			distance = tMaxZ
			tMaxZ += tDeltaZ
			normal = vec.Vec3{Z: -stepZ}
		}

		if distance > maxDistance {
			break
		}
	}

	return Hit{}, false
}

// axisSetup возвращает знак шага, параметр луча на одну ячейку и до первой границы
func axisSetup(origin, d float32, cell int) (step int, tDelta, tMax float32) {
	inf := float32(math.Inf(1))
	if d > 0 {
		step = 1
	} else {
		step = -1
	}
	if d == 0 {
		return step, inf, inf
	}

	tDelta = float32(math.Abs(float64(1 / d)))
	if d > 0 {
		tMax = (float32(cell+1) - origin) / d
	} else {
		tMax = (origin - float32(cell)) / -d
	}
	return step, tDelta, tMax
}
