package implementations

import "github.com/annel0/voxel-engine/internal/world/block"

// DirtBehavior реализует поведение блока земли
type DirtBehavior struct{}

// ID возвращает идентификатор блока
func (b *DirtBehavior) ID() block.BlockID {
	return block.DirtBlockID
}

// Name возвращает имя блока
func (b *DirtBehavior) Name() string {
	return "Dirt"
}

func (b *DirtBehavior) IsSolid() bool {
	return true
}

func (b *DirtBehavior) IsRendered() bool {
	return true
}
