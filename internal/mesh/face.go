package mesh

import "github.com/annel0/voxel-engine/internal/vec"

// Face - одна из шести граней куба-вокселя
type Face int

const (
	North  Face = iota // +Z
	South              // -Z
	East               // +X
	West               // -X
	Top                // +Y
	Bottom             // -Y
)

// Faces перечисляет грани в порядке генерации меша
var Faces = [6]Face{North, South, East, West, Top, Bottom}

// String возвращает имя грани
func (f Face) String() string {
	switch f {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	case Top:
		return "Top"
	case Bottom:
		return "Bottom"
	default:
		return "Unknown"
	}
}

// Offset возвращает смещение к соседней ячейке за этой гранью
func (f Face) Offset() vec.Vec3 {
	switch f {
	case North:
		return vec.Vec3{Z: 1}
	case South:
		return vec.Vec3{Z: -1}
	case East:
		return vec.Vec3{X: 1}
	case West:
		return vec.Vec3{X: -1}
	case Top:
		return vec.Vec3{Y: 1}
	default:
		return vec.Vec3{Y: -1}
	}
}

// Normal возвращает единичную нормаль грани
func (f Face) Normal() [3]float32 {
	o := f.Offset()
	return [3]float32{float32(o.X), float32(o.Y), float32(o.Z)}
}

// Corners возвращает шесть вершин грани (два треугольника, против часовой стрелки снаружи)
// для куба с минимальным углом (x, y, z)
func (f Face) Corners(x, y, z float32) [6][3]float32 {
	x1, y1, z1 := x+1, y+1, z+1
	switch f {
	case North:
		return [6][3]float32{{x, y, z1}, {x1, y, z1}, {x1, y1, z1}, {x, y, z1}, {x1, y1, z1}, {x, y1, z1}}
	case South:
		return [6][3]float32{{x1, y, z}, {x, y, z}, {x, y1, z}, {x1, y, z}, {x, y1, z}, {x1, y1, z}}
	case East:
		return [6][3]float32{{x1, y, z1}, {x1, y, z}, {x1, y1, z}, {x1, y, z1}, {x1, y1, z}, {x1, y1, z1}}
	case West:
		return [6][3]float32{{x, y, z}, {x, y, z1}, {x, y1, z1}, {x, y, z}, {x, y1, z1}, {x, y1, z}}
	case Top:
		return [6][3]float32{{x, y1, z1}, {x1, y1, z1}, {x1, y1, z}, {x, y1, z1}, {x1, y1, z}, {x, y1, z}}
	default:
		return [6][3]float32{{x, y, z}, {x1, y, z}, {x1, y, z1}, {x, y, z}, {x1, y, z1}, {x, y, z1}}
	}
}
