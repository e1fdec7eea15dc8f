package implementations

import "github.com/annel0/voxel-engine/internal/world/block"

// StoneBehavior реализует поведение блока камня
type StoneBehavior struct{}

// ID возвращает идентификатор блока
func (b *StoneBehavior) ID() block.BlockID {
	return block.StoneBlockID
}

// Name возвращает имя блока
func (b *StoneBehavior) Name() string {
	return "Stone"
}

// IsSolid возвращает true
func (b *StoneBehavior) IsSolid() bool {
	return true
}

// IsRendered возвращает true
func (b *StoneBehavior) IsRendered() bool {
	return true
}
