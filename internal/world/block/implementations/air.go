package implementations

import "github.com/annel0/voxel-engine/internal/world/block"

// AirBehavior реализует поведение пустого блока (воздуха)
type AirBehavior struct{}

// ID возвращает идентификатор блока
func (b *AirBehavior) ID() block.BlockID {
	return block.AirBlockID
}

// Name возвращает имя блока
func (b *AirBehavior) Name() string {
	return "Air"
}

// IsSolid возвращает false: сквозь воздух проходят и игрок, и луч
func (b *AirBehavior) IsSolid() bool {
	return false
}

// IsRendered возвращает false, воздух не рисуется
func (b *AirBehavior) IsRendered() bool {
	return false
}
