package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/paintblocks/internal/auth"
	"github.com/annel0/paintblocks/internal/canvas"
	"github.com/annel0/paintblocks/internal/logging"
	"github.com/annel0/paintblocks/internal/middleware"
	"github.com/annel0/paintblocks/internal/observability"
	"github.com/annel0/paintblocks/internal/world/block"
)

// RestServer REST API для инструментов окраски: обёртка блоков, окраска граней, просмотр холста
type RestServer struct {
	router    *gin.Engine
	server    *http.Server
	world     block.World
	painter   *canvas.Painter
	metrics   *ServerMetrics
	authority *auth.Authority
	keyHash   string
	logger    *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Addr      string               // адрес для запуска сервера
	World     block.World          // мир, в котором работают холсты
	Painter   *canvas.Painter      // операции над холстами
	Registry  *prometheus.Registry // метрики HTTP и /metrics; nil — отдельный реестр
	Tracing   bool                 // otelgin middleware
	Authority *auth.Authority      // nil — изменяющие запросы без токена
	KeyHash   string               // bcrypt-хеш ключа для /api/auth/token
	Logger    *logging.Logger
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Addr == "" {
		config.Addr = ":8088"
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if config.Logger == nil {
		config.Logger = logging.GetServerLogger()
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// otelgin раньше логгера, чтобы в логах был trace-id спана
	if config.Tracing {
		router.Use(otelgin.Middleware("rest_api"))
	}
	router.Use(middleware.NewRequestLogger(config.Logger).Handler())

	httpMetrics := middleware.NewHTTPMetrics("rest_api", "/api/canvas", config.Registry)
	router.Use(httpMetrics.Handler())
	httpMetrics.Mount(router, config.Registry)

	rs := &RestServer{
		router:    router,
		world:     config.World,
		painter:   config.Painter,
		metrics:   NewServerMetrics(),
		authority: config.Authority,
		keyHash:   config.KeyHash,
		logger:    config.Logger,
	}
	rs.server = &http.Server{
		Addr:              config.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	rs.setupRoutes()
	return rs
}

// Handler возвращает http.Handler сервера (для тестов и встраивания)
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

func (rs *RestServer) setupRoutes() {
	api := rs.router.Group("/api")

	if rs.authority != nil && rs.keyHash != "" {
		api.POST("/auth/token", rs.handleToken)
	}

	api.GET("/server", rs.handleServerInfo)

	cg := api.Group("/canvas")
	{
		cg.GET("", rs.handleGetCanvas)
		cg.POST("/wrap", rs.tokenMiddleware(true), rs.handleWrap)
		cg.POST("/paint", rs.tokenMiddleware(false), rs.handlePaint)
	}

	rs.router.GET("/health", rs.handleHealth)
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PosRequest координаты блока
type PosRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (p PosRequest) Pos() cube.Pos { return cube.Pos{p.X, p.Y, p.Z} }

// PaintRequest окраска грани: задаётся ровно одно из Color ("#RRGGBB") и Dye ("red")
type PaintRequest struct {
	PosRequest
	Face  string `json:"face" binding:"required"`
	Color string `json:"color"`
	Dye   string `json:"dye"`
}

// TokenRequest обмен ключа доступа на токен художника
type TokenRequest struct {
	Painter string `json:"painter" binding:"required"`
	Key     string `json:"key" binding:"required"`
	CanWrap bool   `json:"can_wrap"`
}

// CanvasView состояние холста для клиентов
type CanvasView struct {
	Pos          [3]int            `json:"pos"`
	Block        string            `json:"block"`
	Material     string            `json:"material"`
	MaterialCode uint8             `json:"material_code"`
	Orientation  string            `json:"orientation"`
	Painted      *block.State      `json:"painted,omitempty"`
	PaintedName  string            `json:"painted_name,omitempty"`
	Paint        map[string]string `json:"paint,omitempty"`
}

func (rs *RestServer) handleToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Неверный формат запроса"})
		return
	}
	if !auth.CheckKey(rs.keyHash, req.Key) {
		c.JSON(http.StatusUnauthorized, GenericResponse{Success: false, Message: "Неверный ключ доступа"})
		return
	}

	token, err := rs.authority.Issue(req.Painter, req.CanWrap)
	if err != nil {
		rs.logger.Error("Ошибка генерации токена для %s: %v", req.Painter, err)
		c.JSON(http.StatusInternalServerError, GenericResponse{Success: false, Message: "Ошибка генерации токена"})
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Токен выдан",
		Data:    gin.H{"token": token},
	})
}

// loadedChecker реализуют миры, различающие незагруженные чанки и воздух
type loadedChecker interface {
	Loaded(pos cube.Pos) bool
}

func (rs *RestServer) handleWrap(c *gin.Context) {
	var req PosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Неверный формат запроса"})
		return
	}
	pos := req.Pos()

	_, span := observability.Tracer().Start(c.Request.Context(), "canvas.wrap", trace.WithAttributes(posAttrs(pos)...))
	defer span.End()

	if l, ok := rs.world.(loadedChecker); ok && !l.Loaded(pos) {
		span.SetAttributes(attribute.Bool("canvas.wrapped", false))
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: fmt.Sprintf("Чанк с позицией %v не загружен", pos)})
		return
	}

	prior := rs.world.Block(pos)
	if !rs.painter.Wrap(rs.world, pos) {
		span.SetAttributes(attribute.Bool("canvas.wrapped", false))
		c.JSON(http.StatusUnprocessableEntity, GenericResponse{
			Success: false,
			Message: fmt.Sprintf("Блок %s в %v нельзя обернуть", prior.Behavior().Name(), pos),
		})
		return
	}
	span.SetAttributes(attribute.Bool("canvas.wrapped", true))
	rs.logger.Info("%s обернул %s в %v", painterName(c), prior.Behavior().Name(), pos)

	rs.respondCanvas(c, pos, "Блок обёрнут")
}

func (rs *RestServer) handlePaint(c *gin.Context) {
	var req PaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Неверный формат запроса"})
		return
	}

	face, ok := canvas.FaceByName(req.Face)
	if !ok {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Неизвестная грань: " + req.Face})
		return
	}
	rgb, err := requestColor(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: err.Error()})
		return
	}
	pos := req.Pos()

	_, span := observability.Tracer().Start(c.Request.Context(), "canvas.paint",
		trace.WithAttributes(append(posAttrs(pos), attribute.String("canvas.face", face.String()))...))
	defer span.End()

	if !canvas.IsCanvas(rs.world.Block(pos)) {
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: fmt.Sprintf("В %v нет холста", pos)})
		return
	}
	if !rs.painter.RecolorBlock(rs.world, pos, face, rgb) {
		c.JSON(http.StatusUnprocessableEntity, GenericResponse{Success: false, Message: "Грань не окрашена"})
		return
	}
	rs.logger.Debug("%s окрасил %v %s в #%06X", painterName(c), pos, face, rgb)

	rs.respondCanvas(c, pos, "Грань окрашена")
}

func (rs *RestServer) handleGetCanvas(c *gin.Context) {
	var coords [3]int
	for i, key := range []string{"x", "y", "z"} {
		v, err := strconv.Atoi(c.Query(key))
		if err != nil {
			c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Неверная координата " + key})
			return
		}
		coords[i] = v
	}
	rs.respondCanvas(c, cube.Pos(coords), "Состояние холста")
}

// respondCanvas отвечает состоянием холста или 404
func (rs *RestServer) respondCanvas(c *gin.Context, pos cube.Pos, message string) {
	state, err := rs.painter.State(rs.world, pos)
	if errors.Is(err, canvas.ErrNotCanvas) {
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: fmt.Sprintf("В %v нет холста", pos)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, GenericResponse{Success: false, Message: "Ошибка чтения холста"})
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: message,
		Data:    newCanvasView(rs.world.Block(pos), pos, state),
	})
}

func newCanvasView(s block.State, pos cube.Pos, state canvas.CellState) CanvasView {
	view := CanvasView{
		Pos:          [3]int(pos),
		Block:        s.Behavior().Name(),
		Material:     state.Material().String(),
		MaterialCode: uint8(state.Persisted.Material),
		Orientation:  state.Persisted.Orientation.String(),
	}
	if state.IsPainted() {
		painted := state.Derived.Painted
		view.Painted = &painted
		view.PaintedName = painted.Behavior().Name()
	}
	if len(state.Derived.Paint) > 0 {
		view.Paint = make(map[string]string, len(state.Derived.Paint))
		for face, color := range state.Derived.Paint {
			view.Paint[face.String()] = color.String()
		}
	}
	return view
}

// requestColor разбирает цвет запроса в RGB
func requestColor(req PaintRequest) (uint32, error) {
	switch {
	case req.Color != "" && req.Dye != "":
		return 0, errors.New("нужно указать либо color, либо dye")
	case req.Dye != "":
		meta, ok := canvas.ColorMetaFromName(req.Dye)
		if !ok {
			return 0, fmt.Errorf("неизвестный краситель: %s", req.Dye)
		}
		return meta.RGB, nil
	case req.Color != "":
		rgb, err := strconv.ParseUint(strings.TrimPrefix(req.Color, "#"), 16, 32)
		if err != nil || rgb > 0xFFFFFF {
			return 0, fmt.Errorf("неверный цвет: %s", req.Color)
		}
		return uint32(rgb), nil
	default:
		return 0, errors.New("нужно указать color или dye")
	}
}

func posAttrs(pos cube.Pos) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("canvas.x", pos[0]),
		attribute.Int("canvas.y", pos[1]),
		attribute.Int("canvas.z", pos[2]),
	}
}

// handleServerInfo возвращает информацию о сервере
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	cpuPercent, err := rs.metrics.GetCPUUsage()
	if err != nil {
		rs.logger.Debug("CPU метрика недоступна: %v", err)
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация о сервере",
		Data: map[string]interface{}{
			"name":           "paintblocks",
			"status":         "running",
			"uptime":         rs.metrics.GetUptime(),
			"memory_mb":      fmt.Sprintf("%.1f", rs.metrics.GetMemoryUsage()),
			"cpu_percent":    fmt.Sprintf("%.1f", cpuPercent),
			"memory_details": rs.metrics.GetDetailedMemoryStats(),
			"server_time":    time.Now().Unix(),
		},
	})
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// Start запускает REST сервер и блокируется до Stop
func (rs *RestServer) Start() error {
	rs.logger.Info("🌐 REST API слушает %s", rs.server.Addr)
	if err := rs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop завершает сервер, дожидаясь активных запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.server.Shutdown(ctx)
}
