package block

import "strings"

var registry = make(map[BlockID]Behavior)

// Register добавляет поведение блока в регистр
func Register(id BlockID, behavior Behavior) {
	registry[id] = behavior
}

// Get возвращает поведение для указанного ID
func Get(id BlockID) (Behavior, bool) {
	behavior, exists := registry[id]
	return behavior, exists
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	_, exists := registry[id]
	return exists
}

// Name возвращает имя блока или "Unknown" для незарегистрированного ID
func Name(id BlockID) string {
	if behavior, ok := registry[id]; ok {
		return behavior.Name()
	}
	return "Unknown"
}

// ParseName ищет зарегистрированный блок по имени без учёта регистра
func ParseName(name string) (BlockID, bool) {
	for id, behavior := range registry {
		if strings.EqualFold(behavior.Name(), name) {
			return id, true
		}
	}
	return AirBlockID, false
}

// BlockID представляет идентификатор типа вокселя
type BlockID uint16

// Константы ID блоков. Набор закрытый: значение по умолчанию (0) - воздух.
const (
	AirBlockID   BlockID = iota // 0
	GrassBlockID                // 1
	DirtBlockID                 // 2
	StoneBlockID                // 3
)

// IsAir проверяет, является ли блок воздухом.
// Воздух никогда не рендерится и не участвует в коллизиях.
func (id BlockID) IsAir() bool {
	return id == AirBlockID
}

// IsSolid возвращает true для любого блока, кроме воздуха
func (id BlockID) IsSolid() bool {
	return id != AirBlockID
}

// String возвращает имя блока
func (id BlockID) String() string {
	return Name(id)
}

// IsSolid сверяется с зарегистрированным поведением блока.
// Незарегистрированные ID считаются твёрдыми, как и любой не-воздух.
func IsSolid(id BlockID) bool {
	if behavior, ok := registry[id]; ok {
		return behavior.IsSolid()
	}
	return id.IsSolid()
}
