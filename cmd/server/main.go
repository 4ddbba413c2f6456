package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/annel0/paintblocks/internal/api"
	"github.com/annel0/paintblocks/internal/auth"
	"github.com/annel0/paintblocks/internal/canvas"
	"github.com/annel0/paintblocks/internal/config"
	"github.com/annel0/paintblocks/internal/eventbus"
	"github.com/annel0/paintblocks/internal/logging"
	"github.com/annel0/paintblocks/internal/observability"
	"github.com/annel0/paintblocks/internal/storage"
	canvassync "github.com/annel0/paintblocks/internal/sync"
	"github.com/annel0/paintblocks/internal/world"
	"github.com/annel0/paintblocks/internal/world/block"
	// Импортируем реализации блоков для регистрации в init()
	_ "github.com/annel0/paintblocks/internal/world/block/implementations"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию $CANVAS_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	// === ЛОГИРОВАНИЕ ===
	logging.LogDir = cfg.Logging.Dir
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	logging.SetDefaultLevels(logging.ParseLevel(cfg.Logging.ConsoleLevel), logging.ParseLevel(cfg.Logging.FileLevel))
	canvasLevel := logging.ParseLevel(cfg.Logging.CanvasLevel)
	logging.GetCanvasLogger().SetLevels(canvasLevel, canvasLevel)
	defer logging.GetLoggerManager().CloseAll()

	logging.Info("🎨 Запуск сервера холстов paintblocks...")

	ctx := context.Background()

	// === ТРАССИРОВКА ===
	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			logging.Error("❌ Ошибка инициализации OpenTelemetry: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logging.Warn("Ошибка остановки OpenTelemetry: %v", err)
				}
			}()
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// === ШИНА СОБЫТИЙ ===
	bus, err := newBus(cfg.EventBus)
	if err != nil {
		logging.Error("❌ Ошибка подключения к шине событий: %v", err)
		log.Fatalf("❌ Ошибка подключения к шине событий: %v", err)
	}
	eventbus.Init(bus)
	if _, err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("Не удалось запустить логирование событий: %v", err)
	}
	exporter := eventbus.NewMetricsExporter(bus, registry, registry)
	exporter.StartHTTP(fmt.Sprintf(":%d", cfg.Server.GetMetricsPort()))

	nodeID := cfg.Sync.NodeID
	if nodeID == "" {
		nodeID = uuid.NewString()
	}

	// === ХОЛСТЫ ===
	canvasMetrics := canvas.NewMetrics(registry)
	canvasLogger := logging.GetCanvasLogger()
	engine := canvas.NewEngine(canvas.WithLogger(canvasLogger), canvas.WithMetrics(canvasMetrics))
	painter := canvas.Register(
		canvas.Variants{
			Solid: block.BlockID(cfg.Canvas.SolidBlockID),
			Glass: block.BlockID(cfg.Canvas.GlassBlockID),
		},
		canvasSettings(cfg.Canvas),
		engine,
		canvas.WithListener(eventbus.NewCanvasPublisher(bus, eventbus.WithSource(nodeID))),
		canvas.WithPainterMetrics(canvasMetrics),
		canvas.WithPainterLogger(canvasLogger),
	)

	// === МИР И ХРАНИЛИЩЕ ===
	wm := world.NewWorldManager()
	gen := world.NewWorldGenerator(cfg.World.Seed)
	minCY, maxCY := gen.ChunkLayers()
	generated := gen.Populate(wm, cfg.World.Radius, minCY, maxCY)
	logging.Info("🌍 Сгенерировано чанков: %d (seed=%d)", generated, cfg.World.Seed)

	store, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		logging.Error("❌ Ошибка открытия хранилища: %v", err)
		log.Fatalf("❌ Ошибка открытия хранилища: %v", err)
	}
	stats, err := store.LoadWorld(ctx, wm)
	if err != nil {
		logging.Error("❌ Ошибка загрузки мира: %v", err)
		log.Fatalf("❌ Ошибка загрузки мира: %v", err)
	}
	logging.Info("💾 Загружено: чанков %d, холстов %d, устаревших записей %d", stats.Chunks, stats.Tiles, stats.Stale)

	// === СИНХРОНИЗАЦИЯ УЗЛОВ ===
	var syncManager *canvassync.SyncManager
	if cfg.Sync.Enabled {
		syncManager, err = canvassync.NewSyncManager(canvassync.SyncConfig{
			NodeID:     nodeID,
			Bus:        bus,
			World:      wm,
			Painter:    painter,
			BatchSize:  cfg.Sync.BatchSize,
			FlushEvery: time.Duration(cfg.Sync.FlushMilli) * time.Millisecond,
			Compress:   cfg.Sync.Compress,
		})
		if err != nil {
			log.Fatalf("❌ Ошибка запуска синхронизации: %v", err)
		}
	}

	// === REST API ===
	var authority *auth.Authority
	if cfg.Auth.Enabled() {
		authority, err = auth.NewAuthority(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTL)*time.Minute)
		if err != nil {
			log.Fatalf("❌ Ошибка настройки JWT: %v", err)
		}
	}

	restAddr := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	rest := api.NewRestServer(api.Config{
		Addr:      restAddr,
		World:     wm,
		Painter:   painter,
		Registry:  registry,
		Tracing:   cfg.Telemetry.Enabled,
		Authority: authority,
		KeyHash:   cfg.Auth.KeyHash,
	})
	go func() {
		if err := rest.Start(); err != nil {
			logging.Error("❌ Ошибка REST API: %v", err)
		}
	}()

	// === АВТОСОХРАНЕНИЕ ===
	autosaveCtx, stopAutosave := context.WithCancel(ctx)
	var autosaveWG sync.WaitGroup
	if cfg.Storage.AutosaveSec > 0 {
		autosaveWG.Add(1)
		go func() {
			defer autosaveWG.Done()
			autosave(autosaveCtx, store, wm, time.Duration(cfg.Storage.AutosaveSec)*time.Second)
		}()
	}

	logging.Info("✅ Все сервисы запущены (узел %s)", nodeID)
	logging.Info("   🌐 REST API: http://localhost%s", restAddr)
	logging.Info("   📈 Метрики: http://localhost:%d/metrics", cfg.Server.GetMetricsPort())
	logging.Info("   ❤️  Health check: http://localhost%s/health", restAddr)

	// Канал для получения сигналов ОС
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logging.Info("📡 Получен сигнал %v, завершение работы...", sig)

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := rest.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}

	stopAutosave()
	autosaveWG.Wait()

	if syncManager != nil {
		syncManager.Stop()
	}

	if err := store.SaveWorld(shutdownCtx, wm); err != nil {
		logging.Error("❌ Ошибка сохранения мира: %v", err)
	}
	if err := store.Close(); err != nil {
		logging.Error("❌ Ошибка закрытия хранилища: %v", err)
	}

	exporter.Stop()
	if err := bus.Close(); err != nil {
		logging.Warn("Ошибка закрытия шины событий: %v", err)
	}

	logging.Info("👋 Сервер успешно остановлен")
}

// newBus создаёт JetStream шину, если задан URL, иначе in-memory
func newBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		logging.Info("📨 Шина событий: in-memory (буфер %d)", cfg.Buffer)
		return eventbus.NewMemoryBus(cfg.Buffer), nil
	}
	logging.Info("📨 Шина событий: JetStream %s, стрим %s", cfg.URL, cfg.Stream)
	return eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, time.Duration(cfg.Retention)*time.Hour)
}

// newStorage открывает хранилище мира с выбранным репозиторием холстов
func newStorage(ctx context.Context, cfg config.StorageConfig) (*storage.CanvasStorage, error) {
	opts := []storage.Option{storage.WithCompression(cfg.Compress)}

	switch cfg.TileBackend {
	case "redis":
		repo, err := storage.NewRedisTileRepo(ctx, &storage.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, storage.WithTileRepo(repo))
	case "maria":
		repo, err := storage.NewMariaTileRepo(ctx, cfg.MariaDSN)
		if err != nil {
			return nil, err
		}
		opts = append(opts, storage.WithTileRepo(repo))
	case "", "badger":
	default:
		return nil, fmt.Errorf("неизвестное хранилище холстов: %s", cfg.TileBackend)
	}

	return storage.NewCanvasStorage(cfg.DataPath, opts...)
}

// canvasSettings переносит параметры блока-холста из конфигурации
func canvasSettings(cfg config.CanvasConfig) canvas.Settings {
	s := canvas.DefaultSettings()
	s.Hardness = cfg.Hardness
	s.Resistance = cfg.Resistance
	s.LightOpacity = cfg.LightOpacity
	s.LightValue = cfg.LightValue
	if sound, ok := block.SoundByName(cfg.Sound); ok {
		s.Sound = sound
	} else if cfg.Sound != "" {
		logging.Warn("Неизвестный звук холста %q, используется %s", cfg.Sound, s.Sound.Name)
	}
	return s
}

// autosave периодически сохраняет мир до отмены ctx
func autosave(ctx context.Context, store *storage.CanvasStorage, wm *world.WorldManager, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			if err := store.SaveWorld(ctx, wm); err != nil {
				logging.Error("❌ Ошибка автосохранения: %v", err)
				continue
			}
			logging.Debug("Автосохранение за %s", time.Since(start))
		}
	}
}
