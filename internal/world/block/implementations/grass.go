package implementations

import "github.com/annel0/voxel-engine/internal/world/block"

// GrassBehavior реализует поведение блока травы.
// Единственный блок, у которого текстура зависит от грани (верх, низ, бока).
type GrassBehavior struct{}

// ID возвращает идентификатор блока
func (b *GrassBehavior) ID() block.BlockID {
	return block.GrassBlockID
}

// Name возвращает имя блока
func (b *GrassBehavior) Name() string {
	return "Grass"
}

// IsSolid возвращает true
func (b *GrassBehavior) IsSolid() bool {
	return true
}

// IsRendered возвращает true
func (b *GrassBehavior) IsRendered() bool {
	return true
}
