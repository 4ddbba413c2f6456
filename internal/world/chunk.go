package world

import (
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"

	"github.com/annel0/paintblocks/internal/world/block"
)

// ChunkSize длина ребра чанка в блоках
const ChunkSize = 16

// Chunk представляет участок мира размером 16x16x16 блоков.
// Хранит только компактное состояние блоков (ID + meta); сущности блоков живут в WorldManager.
type Chunk struct {
	Coords cube.Pos // Координаты чанка в мире

	Blocks [ChunkSize][ChunkSize][ChunkSize]block.State

	Changes       map[cube.Pos]struct{} // Изменённые блоки (локальные координаты)
	ChangeCounter int                   // Счетчик изменений
	Mu            sync.RWMutex          // Мьютекс для безопасного доступа
}

// NewChunk создаёт новый чанк с указанными координатами
func NewChunk(coords cube.Pos) *Chunk {
	return &Chunk{
		Coords:  coords,
		Changes: make(map[cube.Pos]struct{}),
	}
}

// ChunkCoords преобразует мировые координаты в координаты чанка
func ChunkCoords(pos cube.Pos) cube.Pos {
	return cube.Pos{pos[0] >> 4, pos[1] >> 4, pos[2] >> 4}
}

// LocalInChunk возвращает локальные координаты внутри чанка
func LocalInChunk(pos cube.Pos) cube.Pos {
	return cube.Pos{pos[0] & 0xF, pos[1] & 0xF, pos[2] & 0xF}
}

// WorldPos возвращает мировые координаты локальной позиции чанка
func (c *Chunk) WorldPos(local cube.Pos) cube.Pos {
	return cube.Pos{c.Coords[0]<<4 | local[0], c.Coords[1]<<4 | local[1], c.Coords[2]<<4 | local[2]}
}

// GetBlock возвращает состояние блока по локальным координатам
func (c *Chunk) GetBlock(local cube.Pos) block.State {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	return c.Blocks[local[0]][local[1]][local[2]]
}

// SetBlock устанавливает состояние блока по локальным координатам
func (c *Chunk) SetBlock(local cube.Pos, s block.State) {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	c.Blocks[local[0]][local[1]][local[2]] = s
	c.Changes[local] = struct{}{}
	c.ChangeCounter++
}

// HasChanges возвращает true, если в чанке есть изменения
func (c *Chunk) HasChanges() bool {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	return c.ChangeCounter > 0
}

// ChangedBlocks возвращает копию изменённых блоков по локальным координатам
func (c *Chunk) ChangedBlocks() map[cube.Pos]block.State {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	result := make(map[cube.Pos]block.State, len(c.Changes))
	for local := range c.Changes {
		result[local] = c.Blocks[local[0]][local[1]][local[2]]
	}
	return result
}

// TakeChanges атомарно забирает изменённые блоки и сбрасывает список.
// Изменения, сделанные после вызова, попадут в следующий TakeChanges.
func (c *Chunk) TakeChanges() map[cube.Pos]block.State {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	result := make(map[cube.Pos]block.State, len(c.Changes))
	for local := range c.Changes {
		result[local] = c.Blocks[local[0]][local[1]][local[2]]
	}
	c.Changes = make(map[cube.Pos]struct{})
	c.ChangeCounter = 0
	return result
}

// RestoreChanges снова помечает блоки изменёнными, например после неудачной записи
func (c *Chunk) RestoreChanges(changes map[cube.Pos]block.State) {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	for local := range changes {
		if _, ok := c.Changes[local]; !ok {
			c.Changes[local] = struct{}{}
			c.ChangeCounter++
		}
	}
}

// ClearChanges очищает список изменений
func (c *Chunk) ClearChanges() {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	c.Changes = make(map[cube.Pos]struct{})
	c.ChangeCounter = 0
}
