// Package input переводит нажатия клавиш и движения мыши в намерения игрока.
// Пакет не зависит от оконной библиотеки: cmd/voxel отображает коды glfw в Key.
package input

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/voxel-engine/internal/camera"
	"github.com/annel0/voxel-engine/internal/physics"
)

// Key - логическая клавиша управления
type Key int

const (
	KeyForward Key = iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyJump
	KeyDown
)

// Значения по умолчанию
const (
	DefaultMoveSpeed        = 10.0
	DefaultJumpStrength     = 7.0
	DefaultMouseSensitivity = 0.003
)

// Controller хранит состояние нажатых клавиш и управляет скоростью игрока
type Controller struct {
	MoveSpeed        float32
	JumpStrength     float32
	MouseSensitivity float32

	pressed [KeyDown + 1]bool
}

// NewController создаёт контроллер с заданными параметрами.
// Нулевые значения заменяются значениями по умолчанию.
func NewController(moveSpeed, jumpStrength, sensitivity float32) *Controller {
	if moveSpeed <= 0 {
		moveSpeed = DefaultMoveSpeed
	}
	if jumpStrength <= 0 {
		jumpStrength = DefaultJumpStrength
	}
	if sensitivity <= 0 {
		sensitivity = DefaultMouseSensitivity
	}
	return &Controller{
		MoveSpeed:        moveSpeed,
		JumpStrength:     jumpStrength,
		MouseSensitivity: sensitivity,
	}
}

// HandleKey запоминает состояние клавиши; возвращает false для неизвестной клавиши
func (c *Controller) HandleKey(key Key, pressed bool) bool {
	if key < KeyForward || key > KeyDown {
		return false
	}
	c.pressed[key] = pressed
	return true
}

// Pressed сообщает, нажата ли клавиша
func (c *Controller) Pressed(key Key) bool {
	if key < KeyForward || key > KeyDown {
		return false
	}
	return c.pressed[key]
}

// Reset отпускает все клавиши (например, при потере фокуса окна)
func (c *Controller) Reset() {
	c.pressed = [KeyDown + 1]bool{}
}

// HandleMouse поворачивает камеру на смещение курсора; движение вверх поднимает взгляд
func (c *Controller) HandleMouse(dx, dy float64, cam *camera.Camera) {
	cam.Rotate(float32(dx)*c.MouseSensitivity, -float32(dy)*c.MouseSensitivity)
}

// moveDirection возвращает ненормированное горизонтальное направление движения
func (c *Controller) moveDirection(cam *camera.Camera) mgl32.Vec3 {
	var dir mgl32.Vec3
	if c.pressed[KeyForward] {
		dir = dir.Add(cam.ForwardHorizontal())
	}
	if c.pressed[KeyBackward] {
		dir = dir.Sub(cam.ForwardHorizontal())
	}
	if c.pressed[KeyRight] {
		dir = dir.Add(cam.Right())
	}
	if c.pressed[KeyLeft] {
		dir = dir.Sub(cam.Right())
	}
	return dir
}

// UpdateVelocity задаёт горизонтальную скорость игрока по нажатым клавишам.
// Вертикальная скорость сохраняется; прыжок возможен только с земли.
func (c *Controller) UpdateVelocity(player *physics.Player, cam *camera.Camera) {
	var horizontal mgl32.Vec3
	if dir := c.moveDirection(cam); dir.Len() > 0 {
		horizontal = dir.Normalize().Mul(c.MoveSpeed)
	}

	vertical := player.Velocity.Y()
	if c.pressed[KeyJump] && player.OnGround {
		vertical = c.JumpStrength
	}

	player.Velocity = mgl32.Vec3{horizontal.X(), vertical, horizontal.Z()}
}

// Fly перемещает камеру свободно, без физики (режим наблюдателя)
func (c *Controller) Fly(cam *camera.Camera, dt float32) {
	step := c.MoveSpeed * dt
	move := c.moveDirection(cam).Mul(step)
	if c.pressed[KeyJump] {
		move = move.Add(camera.Up.Mul(step))
	}
	if c.pressed[KeyDown] {
		move = move.Sub(camera.Up.Mul(step))
	}
	cam.Position = cam.Position.Add(move)
}
