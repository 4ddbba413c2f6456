package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.

type Config struct {
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Canvas    CanvasConfig    `yaml:"canvas"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Auth      AuthConfig      `yaml:"auth"`
	World     WorldConfig     `yaml:"world"`
	Sync      SyncConfig      `yaml:"sync"`
}

// SyncConfig репликация изменений холстов между узлами через шину событий.
// Имеет смысл только с общей шиной (eventbus.url).
type SyncConfig struct {
	Enabled    bool   `yaml:"enabled"`
	NodeID     string `yaml:"node_id"` // пусто — случайный UUID при запуске
	BatchSize  int    `yaml:"batch_size"`
	FlushMilli int    `yaml:"flush_ms"`
	Compress   bool   `yaml:"compress"`
}

// WorldConfig параметры генерации ландшафта, поверх которого применяются сохранённые изменения
type WorldConfig struct {
	Seed   int64 `yaml:"seed"`
	Radius int   `yaml:"radius"` // радиус в чанках вокруг начала координат
}

type EventBusConfig struct {
	URL       string `yaml:"url"` // пусто — in-memory шина
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
	Buffer    int    `yaml:"buffer"`
}

type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// StorageConfig описывает хранилище мира.
// TileBackend выбирает, где лежат данные холстов: badger (рядом с чанками), redis или maria.
type StorageConfig struct {
	DataPath    string `yaml:"data_path"`
	Compress    bool   `yaml:"compress"`
	TileBackend string `yaml:"tile_backend"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	RedisKey    string `yaml:"redis_key"`
	RedisPass   string `yaml:"redis_password"`
	MariaDSN    string `yaml:"maria_dsn"`
	AutosaveSec int    `yaml:"autosave_seconds"` // 0 — только при остановке
}

// CanvasConfig описывает блок-холст и его варианты.
// Нулевой ID варианта означает, что вариант не сконфигурирован.
type CanvasConfig struct {
	SolidBlockID uint16  `yaml:"solid_block_id"`
	GlassBlockID uint16  `yaml:"glass_block_id"`
	Hardness     float64 `yaml:"hardness"`
	Resistance   float64 `yaml:"resistance"`
	LightOpacity int     `yaml:"light_opacity"`
	LightValue   int     `yaml:"light_value"`
	Sound        string  `yaml:"sound"`
}

type LoggingConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
	CanvasLevel  string `yaml:"canvas_level"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"` // host:port OTLP HTTP; пусто — localhost:4318
}

// AuthConfig включает JWT для изменяющих запросов REST.
// Пустой KeyHash отключает проверку.
type AuthConfig struct {
	Secret   string `yaml:"secret"`   // base64, не короче 32 байт
	KeyHash  string `yaml:"key_hash"` // bcrypt-хеш ключа, обмениваемого на токен
	TokenTTL int    `yaml:"token_ttl_minutes"`
}

// Enabled сообщает, требуется ли токен для изменяющих запросов
func (a AuthConfig) Enabled() bool {
	return a.KeyHash != ""
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		EventBus: EventBusConfig{Stream: "CANVAS", Retention: 24, Buffer: 1024},
		Storage: StorageConfig{
			DataPath:    "data",
			Compress:    true,
			TileBackend: "badger",
			RedisAddr:   "localhost:6379",
			RedisKey:    "paintblocks:tiles",
			AutosaveSec: 300,
		},
		Canvas: CanvasConfig{
			SolidBlockID: 300,
			GlassBlockID: 301,
			Hardness:     0.6,
			Resistance:   3.0,
			Sound:        "cloth",
		},
		Logging: LoggingConfig{
			Dir:          "logs",
			ConsoleLevel: "info",
			FileLevel:    "debug",
			CanvasLevel:  "info",
		},
		Telemetry: TelemetryConfig{ServiceName: "paintblocks"},
		Auth:      AuthConfig{TokenTTL: 24 * 60},
		World:     WorldConfig{Seed: 1, Radius: 4},
		Sync:      SyncConfig{BatchSize: 256, FlushMilli: 200, Compress: true},
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "CANVAS_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "CANVAS_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV CANVAS_CONFIG; без файла возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CANVAS_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
