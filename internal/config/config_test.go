package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("CANVAS_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint16(300), cfg.Canvas.SolidBlockID)
	assert.Equal(t, uint16(301), cfg.Canvas.GlassBlockID)
	assert.Equal(t, "data", cfg.Storage.DataPath)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "canvas.yaml")
	data := []byte(`
canvas:
  glass_block_id: 0
  hardness: 2.5
storage:
  data_path: /tmp/canvas
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint16(300), cfg.Canvas.SolidBlockID, "незаданные поля сохраняют значения по умолчанию")
	assert.Equal(t, uint16(0), cfg.Canvas.GlassBlockID)
	assert.Equal(t, 2.5, cfg.Canvas.Hardness)
	assert.Equal(t, "/tmp/canvas", cfg.Storage.DataPath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestServerConfig_PortFallback(t *testing.T) {
	s := ServerConfig{}
	t.Setenv("CANVAS_REST_PORT", "9099")
	assert.Equal(t, 9099, s.GetRESTPort())

	s.RESTPort = 8000
	assert.Equal(t, 8000, s.GetRESTPort())

	t.Setenv("CANVAS_METRICS_PORT", "")
	assert.Equal(t, 2112, s.GetMetricsPort())
}

func TestLoad_StorageAndAuth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.yaml")
	data := []byte(`
storage:
  tile_backend: redis
  redis_addr: cache:6379
auth:
  key_hash: "$2a$10$abc"
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Storage.TileBackend)
	assert.Equal(t, "cache:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, "paintblocks:tiles", cfg.Storage.RedisKey)
	assert.True(t, cfg.Auth.Enabled())
	assert.Equal(t, 24*60, cfg.Auth.TokenTTL)

	assert.False(t, Default().Auth.Enabled())
}

func TestLoad_Sync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.yaml")
	data := []byte(`
sync:
  enabled: true
  node_id: eu-1
  flush_ms: 50
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, "eu-1", cfg.Sync.NodeID)
	assert.Equal(t, 50, cfg.Sync.FlushMilli)
	assert.Equal(t, 256, cfg.Sync.BatchSize)
	assert.True(t, cfg.Sync.Compress)
}
