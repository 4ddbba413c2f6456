package block

var registry = make(map[BlockID]Behavior)

// Register добавляет поведение блока в регистр
func Register(behavior Behavior) {
	registry[behavior.ID()] = behavior
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

// BlockID представляет идентификатор блока
type BlockID uint16

// Константы ID блоков
const (
	// Базовые типы блоков
	AirBlockID   BlockID = iota // 0
	StoneBlockID                // 1
	GrassBlockID                // 2
	WaterBlockID                // 3
	SandBlockID                 // 4
	DirtBlockID                 // 5

	// Строительные блоки (начиная с 50)
	PlanksBlockID        BlockID = 50
	GlassBlockID         BlockID = 51
	LeavesBlockID        BlockID = 52
	WoolBlockID          BlockID = 53
	IceBlockID           BlockID = 54
	SlimeBlockID         BlockID = 55
	GlowstoneBlockID     BlockID = 56
	RedstoneBlockBlockID BlockID = 57
	NetherrackBlockID    BlockID = 58

	// Блоки-холсты (начиная с 300), варианты задаются конфигурацией
	CanvasBlockID      BlockID = 300
	CanvasGlassBlockID BlockID = 301
)
