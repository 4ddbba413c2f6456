package storage

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"

	"github.com/annel0/paintblocks/internal/canvas"
)

// MemoryTileRepo реализует TileRepo в памяти.
// Используется в тестах и при локальной разработке без внешних хранилищ.
// ВНИМАНИЕ: Данные теряются при перезапуске сервера!
type MemoryTileRepo struct {
	mu   sync.RWMutex
	data map[cube.Pos]canvas.TileData
}

// NewMemoryTileRepo создаёт новый репозиторий в памяти
func NewMemoryTileRepo() *MemoryTileRepo {
	return &MemoryTileRepo{
		data: make(map[cube.Pos]canvas.TileData),
	}
}

// Save сохраняет данные сущности в памяти
func (r *MemoryTileRepo) Save(ctx context.Context, pos cube.Pos, data canvas.TileData) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[pos] = cloneTileData(data)
	return nil
}

// Load загружает данные сущности из памяти
func (r *MemoryTileRepo) Load(ctx context.Context, pos cube.Pos) (canvas.TileData, bool, error) {
	if err := checkContext(ctx); err != nil {
		return canvas.TileData{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.data[pos]
	return cloneTileData(data), exists, nil
}

// Delete удаляет данные сущности
func (r *MemoryTileRepo) Delete(ctx context.Context, pos cube.Pos) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[pos]; !exists {
		return fmt.Errorf("%v: %w", pos, ErrTileNotFound)
	}
	delete(r.data, pos)
	return nil
}

// BatchSave сохраняет данные нескольких сущностей
func (r *MemoryTileRepo) BatchSave(ctx context.Context, tiles map[cube.Pos]canvas.TileData) error {
	if len(tiles) == 0 {
		return nil // Нечего сохранять
	}
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for pos, data := range tiles {
		r.data[pos] = cloneTileData(data)
	}
	return nil
}

// All возвращает копию всех данных
func (r *MemoryTileRepo) All(ctx context.Context) (map[cube.Pos]canvas.TileData, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[cube.Pos]canvas.TileData, len(r.data))
	for pos, data := range r.data {
		result[pos] = cloneTileData(data)
	}
	return result, nil
}

// Count возвращает количество записей (для отладки)
func (r *MemoryTileRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// Close ничего не делает
func (r *MemoryTileRepo) Close() error { return nil }

func cloneTileData(data canvas.TileData) canvas.TileData {
	data.Paint = maps.Clone(data.Paint)
	return data
}
