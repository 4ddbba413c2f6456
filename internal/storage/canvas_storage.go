package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/dgraph-io/badger/v3"

	"github.com/annel0/paintblocks/internal/canvas"
	"github.com/annel0/paintblocks/internal/logging"
	"github.com/annel0/paintblocks/internal/world"
	"github.com/annel0/paintblocks/internal/world/block"
)

const (
	chunkPrefix = "chunk:"
	tilePrefix  = "tile:"
)

// CanvasStorage хранит мир в BadgerDB: дельты чанков с компактными состояниями
// блоков и, отдельно, данные сущностей холстов через TileRepo.
type CanvasStorage struct {
	db      *badger.DB
	dbPath  string
	codec   *codec
	tiles   TileRepo
	mutex   sync.RWMutex
	isReady bool
}

// ChunkDelta содержит изменения в чанке
type ChunkDelta struct {
	Coords cube.Pos               `json:"coords"`
	Blocks map[string]block.State `json:"blocks"` // Ключ - локальные координаты "x:y:z"
}

// LoadStats итоги загрузки мира
type LoadStats struct {
	Chunks int
	Tiles  int
	Stale  int
}

// Option настраивает CanvasStorage
type Option func(*CanvasStorage)

// WithTileRepo задаёт внешний репозиторий данных холстов (Redis, MariaDB).
// По умолчанию данные холстов хранятся в той же BadgerDB.
func WithTileRepo(r TileRepo) Option {
	return func(s *CanvasStorage) { s.tiles = r }
}

// WithCompression включает или выключает сжатие записей zstd
func WithCompression(enabled bool) Option {
	return func(s *CanvasStorage) { s.codec.compress = enabled }
}

// NewCanvasStorage открывает хранилище в каталоге dataPath
func NewCanvasStorage(dataPath string, opts ...Option) (*CanvasStorage, error) {
	dbPath := filepath.Join(dataPath, "world")
	dbOpts := badger.DefaultOptions(dbPath)
	dbOpts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	c, err := newCodec(true)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &CanvasStorage{
		db:      db,
		dbPath:  dbPath,
		codec:   c,
		isReady: true,
	}
	s.tiles = &badgerTileRepo{s: s}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Tiles возвращает репозиторий данных холстов
func (s *CanvasStorage) Tiles() TileRepo { return s.tiles }

// Close закрывает хранилище данных и внешний репозиторий холстов
func (s *CanvasStorage) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isReady {
		return nil
	}
	s.isReady = false

	var errs []error
	if err := s.tiles.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, err)
	}
	s.codec.close()
	return errors.Join(errs...)
}

// SaveChunk дописывает изменения чанка к сохранённой дельте
func (s *CanvasStorage) SaveChunk(chunk *world.Chunk) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return ErrStorageClosed
	}

	changes := chunk.TakeChanges()
	if len(changes) == 0 {
		return nil
	}
	key := []byte(chunkKey(chunk.Coords))

	err := s.db.Update(func(txn *badger.Txn) error {
		delta, err := s.readChunk(txn, chunk.Coords)
		if err != nil {
			return err
		}
		for local, state := range changes {
			delta.Blocks[posKey(local)] = state
		}

		data, err := s.codec.marshal(delta)
		if err != nil {
			return fmt.Errorf("ошибка сериализации дельты: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		chunk.RestoreChanges(changes)
		return fmt.Errorf("ошибка сохранения чанка %v: %w", chunk.Coords, err)
	}
	return nil
}

// LoadChunk загружает дельту чанка. Для несохранённых чанков дельта пуста.
func (s *CanvasStorage) LoadChunk(coords cube.Pos) (*ChunkDelta, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, ErrStorageClosed
	}

	var delta *ChunkDelta
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		delta, err = s.readChunk(txn, coords)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения чанка %v: %w", coords, err)
	}
	return delta, nil
}

func (s *CanvasStorage) readChunk(txn *badger.Txn, coords cube.Pos) (*ChunkDelta, error) {
	delta := &ChunkDelta{Coords: coords, Blocks: make(map[string]block.State)}

	item, err := txn.Get([]byte(chunkKey(coords)))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return delta, nil
	}
	if err != nil {
		return nil, err
	}

	err = item.Value(func(val []byte) error {
		return s.codec.unmarshal(val, delta)
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка десериализации дельты: %w", err)
	}
	if delta.Blocks == nil {
		delta.Blocks = make(map[string]block.State)
	}
	return delta, nil
}

// ApplyDelta применяет дельту к миру. Блоки ставятся через SetBlock,
// так что холсты получают новые сущности без имитации: вычисляемая часть
// состояния восстанавливается позже из TileRepo.
func ApplyDelta(wm *world.WorldManager, delta *ChunkDelta) int {
	if delta == nil {
		return 0
	}

	chunk := world.NewChunk(delta.Coords)
	applied := 0
	for key, state := range delta.Blocks {
		local, err := parsePosKey(key)
		if err != nil {
			logging.Warn("Ошибка парсинга ключа '%s': %v", key, err)
			continue
		}

		// Проверяем корректность координат
		if !validLocal(local) {
			logging.Warn("Некорректные координаты: %v", local)
			continue
		}

		wm.SetBlock(chunk.WorldPos(local), state)
		applied++
	}
	return applied
}

// SaveWorld сохраняет изменённые чанки и данные всех холстов мира
func (s *CanvasStorage) SaveWorld(ctx context.Context, wm *world.WorldManager) error {
	for _, chunk := range wm.Chunks() {
		if err := s.SaveChunk(chunk); err != nil {
			return err
		}
	}

	tiles := make(map[cube.Pos]canvas.TileData)
	for pos, te := range wm.TileEntities() {
		if t, ok := te.(*canvas.Tile); ok {
			tiles[pos] = t.Save()
		}
	}
	if err := s.tiles.BatchSave(ctx, tiles); err != nil {
		return fmt.Errorf("ошибка сохранения холстов: %w", err)
	}

	logging.Debug("Сохранено холстов: %d", len(tiles))
	return nil
}

// LoadWorld восстанавливает все сохранённые чанки, затем данные холстов.
// Данные холстов без холста в мире удаляются из репозитория.
func (s *CanvasStorage) LoadWorld(ctx context.Context, wm *world.WorldManager) (LoadStats, error) {
	var stats LoadStats

	deltas, err := s.allChunks()
	if err != nil {
		return stats, err
	}
	for _, delta := range deltas {
		ApplyDelta(wm, delta)
		stats.Chunks++
	}

	// Восстановленные блоки снова помечены как изменённые, а в базе они уже есть
	for _, chunk := range wm.Chunks() {
		chunk.ClearChanges()
	}

	tiles, err := s.tiles.All(ctx)
	if err != nil {
		return stats, fmt.Errorf("ошибка загрузки холстов: %w", err)
	}
	for pos, data := range tiles {
		te, ok := wm.TileEntity(pos)
		t, isCanvas := te.(*canvas.Tile)
		if !ok || !isCanvas {
			stats.Stale++
			if err := s.tiles.Delete(ctx, pos); err != nil && !errors.Is(err, ErrTileNotFound) {
				logging.Warn("Не удалось удалить устаревший холст %v: %v", pos, err)
			}
			continue
		}
		t.Load(data)
		stats.Tiles++
	}

	return stats, nil
}

func (s *CanvasStorage) allChunks() ([]*ChunkDelta, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, ErrStorageClosed
	}

	var deltas []*ChunkDelta
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(chunkPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			delta := &ChunkDelta{}
			err := item.Value(func(val []byte) error {
				return s.codec.unmarshal(val, delta)
			})
			if err != nil {
				logging.Warn("Пропущен повреждённый чанк %s: %v", item.Key(), err)
				continue
			}
			deltas = append(deltas, delta)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения чанков: %w", err)
	}
	return deltas, nil
}

func chunkKey(coords cube.Pos) string {
	return chunkPrefix + posKey(coords)
}

func validLocal(local cube.Pos) bool {
	for _, v := range local {
		if v < 0 || v >= world.ChunkSize {
			return false
		}
	}
	return true
}
