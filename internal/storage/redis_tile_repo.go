package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-redis/redis/v8"

	"github.com/annel0/paintblocks/internal/canvas"
	"github.com/annel0/paintblocks/internal/logging"
)

// RedisTileRepo хранит данные холстов в хеше Redis.
// Позволяет нескольким экземплярам сервера делить один набор холстов.
type RedisTileRepo struct {
	client *redis.Client
	key    string
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr     string `yaml:"addr"`     // Адрес Redis сервера
	Password string `yaml:"password"` // Пароль (пустой если не требуется)
	DB       int    `yaml:"db"`       // Номер базы данных
	Key      string `yaml:"key"`      // Ключ хеша с данными холстов
}

// DefaultRedisConfig возвращает конфигурацию по умолчанию
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr: "localhost:6379",
		Key:  "paintblocks:tiles",
	}
}

// NewRedisTileRepo создаёт репозиторий и проверяет подключение
func NewRedisTileRepo(ctx context.Context, config *RedisConfig) (*RedisTileRepo, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Info("Подключено к Redis %s, ключ %s", config.Addr, config.Key)
	return &RedisTileRepo{client: client, key: config.Key}, nil
}

// Save сохраняет данные сущности
func (r *RedisTileRepo) Save(ctx context.Context, pos cube.Pos, data canvas.TileData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal tile %v: %w", pos, err)
	}
	if err := r.client.HSet(ctx, r.key, posKey(pos), raw).Err(); err != nil {
		return fmt.Errorf("failed to save tile %v: %w", pos, err)
	}
	return nil
}

// Load загружает данные сущности
func (r *RedisTileRepo) Load(ctx context.Context, pos cube.Pos) (canvas.TileData, bool, error) {
	raw, err := r.client.HGet(ctx, r.key, posKey(pos)).Bytes()
	if err == redis.Nil {
		return canvas.TileData{}, false, nil
	}
	if err != nil {
		return canvas.TileData{}, false, fmt.Errorf("failed to load tile %v: %w", pos, err)
	}

	var data canvas.TileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return canvas.TileData{}, false, fmt.Errorf("failed to unmarshal tile %v: %w", pos, err)
	}
	return data, true, nil
}

// Delete удаляет данные сущности
func (r *RedisTileRepo) Delete(ctx context.Context, pos cube.Pos) error {
	n, err := r.client.HDel(ctx, r.key, posKey(pos)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete tile %v: %w", pos, err)
	}
	if n == 0 {
		return fmt.Errorf("%v: %w", pos, ErrTileNotFound)
	}
	return nil
}

// BatchSave сохраняет данные пайплайном
func (r *RedisTileRepo) BatchSave(ctx context.Context, tiles map[cube.Pos]canvas.TileData) error {
	if len(tiles) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for pos, data := range tiles {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal tile %v: %w", pos, err)
		}
		pipe.HSet(ctx, r.key, posKey(pos), raw)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save tiles: %w", err)
	}
	return nil
}

// All возвращает все данные хеша. Повреждённые записи пропускаются.
func (r *RedisTileRepo) All(ctx context.Context) (map[cube.Pos]canvas.TileData, error) {
	entries, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load tiles: %w", err)
	}

	result := make(map[cube.Pos]canvas.TileData, len(entries))
	for key, raw := range entries {
		pos, err := parsePosKey(key)
		if err != nil {
			logging.Warn("Пропущена запись холста: %v", err)
			continue
		}
		var data canvas.TileData
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			logging.Warn("Пропущена запись холста %v: %v", pos, err)
			continue
		}
		result[pos] = data
	}
	return result, nil
}

// Close закрывает соединение с Redis
func (r *RedisTileRepo) Close() error {
	return r.client.Close()
}
