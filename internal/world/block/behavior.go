package block

// Behavior описывает свойства типа блока.
// Сами воксели хранятся в чанке только как BlockID; поведение нужно
// для имён (конфиг, отладочный API) и проверки свойств.
type Behavior interface {
	ID() BlockID
	Name() string
	// IsSolid сообщает, участвует ли блок в коллизиях и рейкасте
	IsSolid() bool
	// IsRendered сообщает, генерирует ли блок грани в меше
	IsRendered() bool
}
