package world

import (
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"

	"github.com/annel0/paintblocks/internal/world/block"
)

// WorldManager хранит блоки мира и таблицу сущностей блоков.
// Реализует block.World; источник истины для сущностей по позиции.
type WorldManager struct {
	chunks map[cube.Pos]*Chunk           // Загруженные чанки
	tiles  map[cube.Pos]block.TileEntity // Сущности блоков
	mu     sync.RWMutex                  // Мьютекс для общего доступа
}

// NewWorldManager создаёт пустой мир
func NewWorldManager() *WorldManager {
	return &WorldManager{
		chunks: make(map[cube.Pos]*Chunk),
		tiles:  make(map[cube.Pos]block.TileEntity),
	}
}

// Block возвращает состояние блока. Для незагруженных чанков — воздух.
func (wm *WorldManager) Block(pos cube.Pos) block.State {
	wm.mu.RLock()
	chunk, ok := wm.chunks[ChunkCoords(pos)]
	wm.mu.RUnlock()

	if !ok {
		return block.Air
	}
	return chunk.GetBlock(LocalInChunk(pos))
}

// SetBlock устанавливает блок. При смене типа блока старая сущность
// инвалидируется, а новая создаётся через block.TileProvider.
func (wm *WorldManager) SetBlock(pos cube.Pos, s block.State) {
	chunk := wm.chunkFor(pos)
	local := LocalInChunk(pos)
	previous := chunk.GetBlock(local)
	chunk.SetBlock(local, s)

	if previous.ID == s.ID {
		wm.mu.RLock()
		_, hasTile := wm.tiles[pos]
		wm.mu.RUnlock()
		if hasTile {
			return
		}
	}

	wm.mu.Lock()
	old, hadTile := wm.tiles[pos]
	delete(wm.tiles, pos)
	wm.mu.Unlock()

	if hadTile {
		old.Invalidate()
	}

	// Провайдер может читать мир, поэтому создаём сущность без блокировки
	if provider, ok := s.Behavior().(block.TileProvider); ok {
		if te := provider.NewTileEntity(wm, pos, s); te != nil {
			wm.mu.Lock()
			wm.tiles[pos] = te
			wm.mu.Unlock()
		}
	}
}

// RemoveBlock заменяет блок воздухом
func (wm *WorldManager) RemoveBlock(pos cube.Pos) {
	wm.SetBlock(pos, block.Air)
}

// TileEntity возвращает сущность блока в позиции
func (wm *WorldManager) TileEntity(pos cube.Pos) (block.TileEntity, bool) {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	te, ok := wm.tiles[pos]
	return te, ok
}

// TileEntities возвращает копию таблицы сущностей
func (wm *WorldManager) TileEntities() map[cube.Pos]block.TileEntity {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	result := make(map[cube.Pos]block.TileEntity, len(wm.tiles))
	for pos, te := range wm.tiles {
		result[pos] = te
	}
	return result
}

// Chunks возвращает загруженные чанки
func (wm *WorldManager) Chunks() []*Chunk {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	result := make([]*Chunk, 0, len(wm.chunks))
	for _, c := range wm.chunks {
		result = append(result, c)
	}
	return result
}

// PutChunk добавляет готовый чанк, если по его координатам чанка ещё нет
func (wm *WorldManager) PutChunk(c *Chunk) bool {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	if _, exists := wm.chunks[c.Coords]; exists {
		return false
	}
	wm.chunks[c.Coords] = c
	return true
}

// Loaded сообщает, загружен ли чанк позиции. Чанк не создаётся.
func (wm *WorldManager) Loaded(pos cube.Pos) bool {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	_, ok := wm.chunks[ChunkCoords(pos)]
	return ok
}

// ReadOnly возвращает представление мира только на чтение
func (wm *WorldManager) ReadOnly() block.Source {
	return readOnlyView{wm: wm}
}

// chunkFor возвращает чанк позиции, создавая его при необходимости
func (wm *WorldManager) chunkFor(pos cube.Pos) *Chunk {
	coords := ChunkCoords(pos)

	wm.mu.RLock()
	chunk, ok := wm.chunks[coords]
	wm.mu.RUnlock()
	if ok {
		return chunk
	}

	wm.mu.Lock()
	defer wm.mu.Unlock()

	// Проверяем еще раз на случай гонки
	if chunk, ok = wm.chunks[coords]; !ok {
		chunk = NewChunk(coords)
		wm.chunks[coords] = chunk
	}
	return chunk
}
