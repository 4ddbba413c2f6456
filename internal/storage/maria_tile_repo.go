package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"
	_ "github.com/go-sql-driver/mysql"

	"github.com/annel0/paintblocks/internal/canvas"
)

// MariaTileRepo реализует TileRepo для базы данных MariaDB/MySQL.
// Использует таблицу canvas_tiles с первичным ключом по координатам.
type MariaTileRepo struct {
	db *sql.DB
}

const upsertTileQuery = `
	INSERT INTO canvas_tiles (x, y, z, data)
	VALUES (?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		data = VALUES(data),
		updated_at = CURRENT_TIMESTAMP
`

// NewMariaTileRepo подключается к базе и создаёт таблицу, если её нет.
//
// Параметры:
//
//	dsn - строка подключения к базе данных (user:pass@tcp(host:port)/dbname)
func NewMariaTileRepo(ctx context.Context, dsn string) (*MariaTileRepo, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MariaDB: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось проверить соединение с MariaDB: %w", err)
	}

	repo := &MariaTileRepo{db: db}
	if err := repo.createTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать таблицу: %w", err)
	}

	return repo, nil
}

func (r *MariaTileRepo) createTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS canvas_tiles (
			x          INT       NOT NULL,
			y          INT       NOT NULL,
			z          INT       NOT NULL,
			data       JSON      NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			           ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (x, y, z)
		) ENGINE=InnoDB
	`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ошибка создания таблицы canvas_tiles: %w", err)
	}
	return nil
}

// Save сохраняет данные сущности.
// Использует INSERT ... ON DUPLICATE KEY UPDATE для обновления существующих записей.
func (r *MariaTileRepo) Save(ctx context.Context, pos cube.Pos, data canvas.TileData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("ошибка сериализации холста %v: %w", pos, err)
	}

	if _, err := r.db.ExecContext(ctx, upsertTileQuery, pos[0], pos[1], pos[2], raw); err != nil {
		return fmt.Errorf("ошибка сохранения холста %v: %w", pos, err)
	}
	return nil
}

// Load загружает данные сущности
func (r *MariaTileRepo) Load(ctx context.Context, pos cube.Pos) (canvas.TileData, bool, error) {
	query := `SELECT data FROM canvas_tiles WHERE x = ? AND y = ? AND z = ?`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, pos[0], pos[1], pos[2]).Scan(&raw)
	if err == sql.ErrNoRows {
		return canvas.TileData{}, false, nil
	}
	if err != nil {
		return canvas.TileData{}, false, fmt.Errorf("ошибка загрузки холста %v: %w", pos, err)
	}

	var data canvas.TileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return canvas.TileData{}, false, fmt.Errorf("ошибка десериализации холста %v: %w", pos, err)
	}
	return data, true, nil
}

// Delete удаляет данные сущности
func (r *MariaTileRepo) Delete(ctx context.Context, pos cube.Pos) error {
	query := `DELETE FROM canvas_tiles WHERE x = ? AND y = ? AND z = ?`

	result, err := r.db.ExecContext(ctx, query, pos[0], pos[1], pos[2])
	if err != nil {
		return fmt.Errorf("ошибка удаления холста %v: %w", pos, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества затронутых строк: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%v: %w", pos, ErrTileNotFound)
	}
	return nil
}

// BatchSave сохраняет данные нескольких сущностей в одной транзакции
func (r *MariaTileRepo) BatchSave(ctx context.Context, tiles map[cube.Pos]canvas.TileData) error {
	if len(tiles) == 0 {
		return nil // Нечего сохранять
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback() // Откат в случае ошибки

	stmt, err := tx.PrepareContext(ctx, upsertTileQuery)
	if err != nil {
		return fmt.Errorf("ошибка подготовки запроса: %w", err)
	}
	defer stmt.Close()

	for pos, data := range tiles {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("ошибка сериализации холста %v: %w", pos, err)
		}
		if _, err := stmt.ExecContext(ctx, pos[0], pos[1], pos[2], raw); err != nil {
			return fmt.Errorf("ошибка сохранения холста %v в batch: %w", pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

// All загружает все записи таблицы
func (r *MariaTileRepo) All(ctx context.Context) (map[cube.Pos]canvas.TileData, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT x, y, z, data FROM canvas_tiles`)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки холстов: %w", err)
	}
	defer rows.Close()

	result := make(map[cube.Pos]canvas.TileData)
	for rows.Next() {
		var (
			pos cube.Pos
			raw []byte
		)
		if err := rows.Scan(&pos[0], &pos[1], &pos[2], &raw); err != nil {
			return nil, fmt.Errorf("ошибка чтения строки: %w", err)
		}
		var data canvas.TileData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("ошибка десериализации холста %v: %w", pos, err)
		}
		result[pos] = data
	}
	return result, rows.Err()
}

// Close закрывает соединение с базой данных
func (r *MariaTileRepo) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
