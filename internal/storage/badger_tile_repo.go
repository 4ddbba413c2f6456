package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/dgraph-io/badger/v3"

	"github.com/annel0/paintblocks/internal/canvas"
	"github.com/annel0/paintblocks/internal/logging"
)

// badgerTileRepo хранит данные холстов в BadgerDB хранилища под префиксом "tile:"
type badgerTileRepo struct {
	s *CanvasStorage
}

func (r *badgerTileRepo) view(fn func(txn *badger.Txn) error) error {
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()
	if !r.s.isReady {
		return ErrStorageClosed
	}
	return r.s.db.View(fn)
}

func (r *badgerTileRepo) update(fn func(txn *badger.Txn) error) error {
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()
	if !r.s.isReady {
		return ErrStorageClosed
	}
	return r.s.db.Update(fn)
}

func (r *badgerTileRepo) Save(ctx context.Context, pos cube.Pos, data canvas.TileData) error {
	return r.BatchSave(ctx, map[cube.Pos]canvas.TileData{pos: data})
}

func (r *badgerTileRepo) Load(ctx context.Context, pos cube.Pos) (canvas.TileData, bool, error) {
	if err := checkContext(ctx); err != nil {
		return canvas.TileData{}, false, err
	}

	var (
		data  canvas.TileData
		found bool
	)
	err := r.view(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tilePrefix + posKey(pos)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return r.s.codec.unmarshal(val, &data)
		})
	})
	if err != nil {
		return canvas.TileData{}, false, fmt.Errorf("ошибка загрузки холста %v: %w", pos, err)
	}
	return data, found, nil
}

func (r *badgerTileRepo) Delete(ctx context.Context, pos cube.Pos) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	key := []byte(tilePrefix + posKey(pos))
	return r.update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%v: %w", pos, ErrTileNotFound)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

func (r *badgerTileRepo) BatchSave(ctx context.Context, tiles map[cube.Pos]canvas.TileData) error {
	if len(tiles) == 0 {
		return nil
	}
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()
	if !r.s.isReady {
		return ErrStorageClosed
	}

	wb := r.s.db.NewWriteBatch()
	defer wb.Cancel()

	for pos, data := range tiles {
		raw, err := r.s.codec.marshal(data)
		if err != nil {
			return fmt.Errorf("ошибка сериализации холста %v: %w", pos, err)
		}
		if err := wb.Set([]byte(tilePrefix+posKey(pos)), raw); err != nil {
			return fmt.Errorf("ошибка записи холста %v: %w", pos, err)
		}
	}
	return wb.Flush()
}

func (r *badgerTileRepo) All(ctx context.Context) (map[cube.Pos]canvas.TileData, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	result := make(map[cube.Pos]canvas.TileData)
	err := r.view(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(tilePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			pos, err := parsePosKey(strings.TrimPrefix(string(item.Key()), tilePrefix))
			if err != nil {
				logging.Warn("Пропущена запись холста: %v", err)
				continue
			}
			var data canvas.TileData
			if err := item.Value(func(val []byte) error {
				return r.s.codec.unmarshal(val, &data)
			}); err != nil {
				logging.Warn("Пропущена запись холста %v: %v", pos, err)
				continue
			}
			result[pos] = data
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки холстов: %w", err)
	}
	return result, nil
}

// Close ничего не делает: базу закрывает CanvasStorage
func (r *badgerTileRepo) Close() error { return nil }
