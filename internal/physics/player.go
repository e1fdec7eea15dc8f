package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// Размеры игрока по умолчанию
const (
	PlayerWidth  = 0.5
	PlayerHeight = 1.8
)

// Params - параметры шага симуляции
type Params struct {
	Gravity float32 // Ускорение по Y, блоков/с²
	MaxStep float32 // Верхняя граница dt, секунды
	Epsilon float32 // Зазор при выталкивании из блока
}

// DefaultParams возвращает параметры по умолчанию
func DefaultParams() Params {
	return Params{
		Gravity: -9.81,
		MaxStep: 0.1,
		Epsilon: 0.001,
	}
}

// Player - объём игрока с центром в Position
type Player struct {
	Position   mgl32.Vec3
	Velocity   mgl32.Vec3
	HalfWidth  float32
	HalfHeight float32
	OnGround   bool
}

// NewPlayer создаёт игрока 0.5x1.8x0.5 в указанной позиции
func NewPlayer(position mgl32.Vec3) *Player {
	return NewPlayerSized(position, PlayerWidth, PlayerHeight)
}

// NewPlayerSized создаёт игрока с заданными шириной и высотой
func NewPlayerSized(position mgl32.Vec3, width, height float32) *Player {
	return &Player{
		Position:   position,
		HalfWidth:  width / 2,
		HalfHeight: height / 2,
	}
}

// Bounds возвращает текущий объём игрока
func (p *Player) Bounds() AABB {
	return CenteredAABB(p.Position, mgl32.Vec3{p.HalfWidth, p.HalfHeight, p.HalfWidth})
}

// OverlapsBlock проверяет, пересекается ли игрок с ячейкой (запрет установки блока в себя)
func (p *Player) OverlapsBlock(cell vec.Vec3) bool {
	return p.Bounds().Overlaps(BlockAABB(cell))
}

// Step продвигает игрока на dt: гравитация, затем перемещение и разрешение коллизий
// по X, Y и Z по очереди. Незагруженные ячейки не мешают движению.
func (p *Player) Step(w world.VoxelReader, dt float32, params Params) {
	if dt < 0 {
		dt = 0
	}
	if params.MaxStep > 0 && dt > params.MaxStep {
		dt = params.MaxStep
	}

	p.OnGround = false
	p.Velocity[1] += params.Gravity * dt

	// Смещение считается один раз: обнуление скорости на одной оси не влияет на другие
	move := p.Velocity.Mul(dt)
	for axis := 0; axis < 3; axis++ {
		p.Position[axis] += move[axis]
		p.resolve(w, axis, params.Epsilon)
	}
}

// resolve выталкивает игрока из твёрдых ячеек вдоль одной оси.
// Коррекция применяется, только если проникновение по этой оси минимально из трёх.
func (p *Player) resolve(w world.VoxelReader, axis int, epsilon float32) {
	lo, hi := p.Bounds().VoxelRange()

	for z := lo.Z; z <= hi.Z; z++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				id, ok := w.GetVoxel(x, y, z)
				if !ok || id == block.AirBlockID {
					continue
				}

				box := p.Bounds()
				voxel := BlockAABB(vec.Vec3{X: x, Y: y, Z: z})
				if !box.Overlaps(voxel) {
					continue
				}

				pen := box.Penetration(voxel)
				if !minimalAxis(pen, axis) {
					continue
				}

				fromMax := box.Max[axis] - voxel.Min[axis] // игрок заходит со стороны меньших координат
				fromMin := voxel.Max[axis] - box.Min[axis] // игрок заходит со стороны больших координат
				if fromMax < fromMin {
					p.Position[axis] -= fromMax + epsilon
				} else {
					p.Position[axis] += fromMin + epsilon
					if axis == 1 {
						p.OnGround = true
					}
				}
				p.Velocity[axis] = 0
			}
		}
	}
}

// minimalAxis: проникновение по axis не больше, чем по двум другим осям
func minimalAxis(pen mgl32.Vec3, axis int) bool {
	for other := 0; other < 3; other++ {
		if other != axis && pen[axis] > pen[other] {
			return false
		}
	}
	return true
}
