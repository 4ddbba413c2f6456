package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"

	"github.com/annel0/paintblocks/internal/canvas"
)

// ErrStorageClosed возвращается при обращении к закрытому хранилищу
var ErrStorageClosed = errors.New("storage is closed")

// ErrTileNotFound возвращается при удалении отсутствующей записи
var ErrTileNotFound = errors.New("tile data not found")

// TileRepo определяет интерфейс хранения данных сущностей холстов.
// Данные сущности (имитируемый блок и краска) хранятся отдельно от meta блока:
// meta сохраняется вместе с чанком, а TileRepo восстанавливает вычисляемую часть.
type TileRepo interface {
	// Save сохраняет данные сущности в позиции
	Save(ctx context.Context, pos cube.Pos, data canvas.TileData) error

	// Load загружает данные сущности. false — данных нет.
	Load(ctx context.Context, pos cube.Pos) (canvas.TileData, bool, error)

	// Delete удаляет данные сущности
	Delete(ctx context.Context, pos cube.Pos) error

	// BatchSave сохраняет данные нескольких сущностей (для автосохранения)
	BatchSave(ctx context.Context, tiles map[cube.Pos]canvas.TileData) error

	// All возвращает все сохранённые данные (для загрузки мира)
	All(ctx context.Context) (map[cube.Pos]canvas.TileData, error)

	// Close освобождает ресурсы репозитория
	Close() error
}

// posKey упаковывает позицию в ключ "x:y:z"
func posKey(pos cube.Pos) string {
	return fmt.Sprintf("%d:%d:%d", pos[0], pos[1], pos[2])
}

// parsePosKey распаковывает ключ "x:y:z"
func parsePosKey(key string) (cube.Pos, error) {
	var pos cube.Pos
	if _, err := fmt.Sscanf(key, "%d:%d:%d", &pos[0], &pos[1], &pos[2]); err != nil {
		return cube.Pos{}, fmt.Errorf("некорректный ключ позиции '%s': %w", key, err)
	}
	return pos, nil
}

// checkContext проверяет контекст на отмену
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
