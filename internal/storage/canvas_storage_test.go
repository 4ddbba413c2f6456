package storage

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/paintblocks/internal/canvas"
	"github.com/annel0/paintblocks/internal/world"
	"github.com/annel0/paintblocks/internal/world/block"
	// Импортируем реализации блоков для регистрации в init()
	_ "github.com/annel0/paintblocks/internal/world/block/implementations"
)

func setupTestStorage(t *testing.T, opts ...Option) (*CanvasStorage, string) {
	t.Helper()
	dir := t.TempDir()

	s, err := NewCanvasStorage(dir, opts...)
	require.NoError(t, err, "не удалось создать хранилище")
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func newPainter() *canvas.Painter {
	return canvas.Register(canvas.Variants{Solid: block.CanvasBlockID, Glass: block.CanvasGlassBlockID},
		canvas.DefaultSettings(), nil)
}

func TestSaveAndLoadChunk(t *testing.T) {
	s, _ := setupTestStorage(t)

	chunk := world.NewChunk(cube.Pos{1, -2, 3})
	chunk.SetBlock(cube.Pos{5, 5, 5}, block.State{ID: block.WaterBlockID, Meta: 7})
	chunk.SetBlock(cube.Pos{8, 3, 0}, block.Of(block.GrassBlockID))
	require.NoError(t, s.SaveChunk(chunk))
	assert.False(t, chunk.HasChanges(), "сохранение очищает изменения")

	// Второе сохранение дописывает дельту, а не заменяет её
	chunk.SetBlock(cube.Pos{0, 0, 0}, block.Of(block.SandBlockID))
	require.NoError(t, s.SaveChunk(chunk))

	delta, err := s.LoadChunk(cube.Pos{1, -2, 3})
	require.NoError(t, err)
	assert.Equal(t, cube.Pos{1, -2, 3}, delta.Coords)
	assert.Len(t, delta.Blocks, 3)
	assert.Equal(t, block.State{ID: block.WaterBlockID, Meta: 7}, delta.Blocks["5:5:5"])
}

func TestSaveChunk_ConcurrentWrites(t *testing.T) {
	s, _ := setupTestStorage(t)
	chunk := world.NewChunk(cube.Pos{})

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				assert.NoError(t, s.SaveChunk(chunk))
			}
		}
	}()

	written := 0
	for x := 0; x < world.ChunkSize; x++ {
		for y := 0; y < world.ChunkSize; y++ {
			for z := 0; z < world.ChunkSize; z++ {
				chunk.SetBlock(cube.Pos{x, y, z}, block.Of(block.StoneBlockID))
				written++
				if written%64 == 0 {
					runtime.Gosched()
				}
			}
		}
	}
	close(stop)
	wg.Wait()
	require.NoError(t, s.SaveChunk(chunk))

	delta, err := s.LoadChunk(cube.Pos{})
	require.NoError(t, err)
	assert.Len(t, delta.Blocks, written, "ни одна запись не теряется при параллельном сохранении")
}

func TestLoadNonExistentChunk(t *testing.T) {
	s, _ := setupTestStorage(t)

	delta, err := s.LoadChunk(cube.Pos{100, 0, 100})
	require.NoError(t, err)
	assert.Empty(t, delta.Blocks)
}

func TestApplyDelta_SkipsInvalidKeys(t *testing.T) {
	wm := world.NewWorldManager()
	applied := ApplyDelta(wm, &ChunkDelta{
		Coords: cube.Pos{1, 0, 0},
		Blocks: map[string]block.State{
			"1:2:3":  block.Of(block.StoneBlockID),
			"16:0:0": block.Of(block.StoneBlockID),
			"bad":    block.Of(block.StoneBlockID),
		},
	})

	assert.Equal(t, 1, applied)
	assert.Equal(t, block.Of(block.StoneBlockID), wm.Block(cube.Pos{17, 2, 3}))
}

func TestSaveAndLoadWorld_RestoresCanvases(t *testing.T) {
	for _, compress := range []bool{true, false} {
		s, dir := setupTestStorage(t, WithCompression(compress))
		ctx := context.Background()
		p := newPainter()

		wm := world.NewWorldManager()
		stonePos := cube.Pos{3, 64, -20}
		plainPos := cube.Pos{4, 64, -20}
		wm.SetBlock(stonePos, block.Of(block.StoneBlockID))
		wm.SetBlock(plainPos, block.Of(block.DirtBlockID))
		require.True(t, p.Wrap(wm, stonePos))
		require.True(t, p.RecolorBlock(wm, stonePos, cube.FaceUp, 0xFF0000))

		require.NoError(t, s.SaveWorld(ctx, wm))
		require.NoError(t, s.Close())

		reopened, err := NewCanvasStorage(dir, WithCompression(compress))
		require.NoError(t, err)
		defer reopened.Close()

		loaded := world.NewWorldManager()
		stats, err := reopened.LoadWorld(ctx, loaded)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Tiles)
		assert.Zero(t, stats.Stale)

		assert.Equal(t, wm.Block(stonePos), loaded.Block(stonePos), "meta холста сохраняется с чанком")
		assert.Equal(t, block.Of(block.DirtBlockID), loaded.Block(plainPos))
		assert.Equal(t, block.MaterialRock, canvas.Material(loaded.Block(stonePos)))

		state, err := p.State(loaded, stonePos)
		require.NoError(t, err)
		assert.Equal(t, block.Of(block.StoneBlockID), state.Derived.Painted)
		assert.Equal(t, canvas.Opaque(0xFF0000), state.Derived.Paint[cube.FaceUp])

		for _, chunk := range loaded.Chunks() {
			assert.False(t, chunk.HasChanges())
		}
	}
}

func TestLoadWorld_WithoutTileDataLeavesCanvasBlank(t *testing.T) {
	s, _ := setupTestStorage(t, WithTileRepo(NewMemoryTileRepo()))
	ctx := context.Background()
	p := newPainter()

	wm := world.NewWorldManager()
	pos := cube.Pos{0, 0, 0}
	wm.SetBlock(pos, block.Of(block.PlanksBlockID))
	require.True(t, p.Wrap(wm, pos))
	require.NoError(t, s.SaveChunk(wm.Chunks()[0]))

	loaded := world.NewWorldManager()
	_, err := s.LoadWorld(ctx, loaded)
	require.NoError(t, err)

	state, err := p.State(loaded, pos)
	require.NoError(t, err)
	assert.Equal(t, block.MaterialWood, state.Material(), "код вещества хранится в meta")
	assert.False(t, state.IsPainted(), "без данных сущности имитации нет")
}

func TestLoadWorld_DropsStaleTiles(t *testing.T) {
	repo := NewMemoryTileRepo()
	s, _ := setupTestStorage(t, WithTileRepo(repo))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, cube.Pos{50, 50, 50}, sampleTile()))

	stats, err := s.LoadWorld(ctx, world.NewWorldManager())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Stale)
	assert.Zero(t, repo.Count())
}

func TestBadgerTileRepo(t *testing.T) {
	s, _ := setupTestStorage(t)
	repo := s.Tiles()
	ctx := context.Background()
	pos := cube.Pos{-1, 2, -3}

	require.NoError(t, repo.Save(ctx, pos, sampleTile()))
	data, found, err := repo.Load(ctx, pos)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleTile(), data)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[cube.Pos]canvas.TileData{pos: sampleTile()}, all)

	require.NoError(t, repo.Delete(ctx, pos))
	assert.ErrorIs(t, repo.Delete(ctx, pos), ErrTileNotFound)
	_, found, err = repo.Load(ctx, pos)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClosedStorage(t *testing.T) {
	s, _ := setupTestStorage(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "повторное закрытие безопасно")

	_, err := s.LoadChunk(cube.Pos{})
	assert.ErrorIs(t, err, ErrStorageClosed)

	chunk := world.NewChunk(cube.Pos{})
	chunk.SetBlock(cube.Pos{}, block.Of(block.StoneBlockID))
	assert.ErrorIs(t, s.SaveChunk(chunk), ErrStorageClosed)

	_, _, err = s.Tiles().Load(context.Background(), cube.Pos{})
	assert.ErrorIs(t, err, ErrStorageClosed)
}

func TestCodec(t *testing.T) {
	c, err := newCodec(true)
	require.NoError(t, err)
	defer c.close()

	raw, err := c.marshal(sampleTile())
	require.NoError(t, err)
	assert.Equal(t, formatZstd, raw[0])

	var got canvas.TileData
	require.NoError(t, c.unmarshal(raw, &got))
	assert.Equal(t, sampleTile(), got)

	assert.Error(t, c.unmarshal(nil, &got))
	assert.Error(t, c.unmarshal([]byte{9, 1, 2}, &got))
}
