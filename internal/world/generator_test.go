package world

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/paintblocks/internal/world/block"
)

func TestGenerator_Deterministic(t *testing.T) {
	a := NewWorldGenerator(7).GenerateChunk(cube.Pos{1, 3, -2})
	b := NewWorldGenerator(7).GenerateChunk(cube.Pos{1, 3, -2})
	assert.Equal(t, a.Blocks, b.Blocks)
	assert.False(t, a.HasChanges(), "сгенерированные блоки не считаются изменениями")
}

func TestGenerator_ColumnLayers(t *testing.T) {
	wg := NewWorldGenerator(99)
	wm := NewWorldManager()
	minCY, maxCY := wg.ChunkLayers()
	added := wg.Populate(wm, 0, minCY, maxCY)
	require.Equal(t, maxCY-minCY+1, added)
	assert.Zero(t, wg.Populate(wm, 0, minCY, maxCY), "существующие чанки не перезаписываются")

	for x := 0; x < ChunkSize; x += 5 {
		for z := 0; z < ChunkSize; z += 5 {
			col := wg.ColumnAt(x, z)
			surface := wm.Block(cube.Pos{x, col.Height, z})
			assert.False(t, surface.IsAir(), "поверхность в (%d, %d)", x, z)
			assert.Equal(t, block.StoneBlockID, wm.Block(cube.Pos{x, col.Height - 4, z}).ID)

			above := wm.Block(cube.Pos{x, col.Height + 2, z})
			if col.Biome != BiomeWater || col.Height+2 > wg.SeaLevel() {
				assert.True(t, above.IsAir())
			} else {
				assert.Equal(t, block.WaterBlockID, above.ID)
			}
		}
	}
}

func TestGenerator_BiomeThresholds(t *testing.T) {
	wg := NewWorldGenerator(0)
	assert.Equal(t, BiomeWater, wg.getBiomeType(0.1, 0.5))
	assert.Equal(t, BiomeMountains, wg.getBiomeType(0.9, 0.5))
	assert.Equal(t, BiomeDesert, wg.getBiomeType(0.5, 0.1))
	assert.Equal(t, BiomeForest, wg.getBiomeType(0.5, 0.9))
	assert.Equal(t, BiomePlains, wg.getBiomeType(0.5, 0.5))
	assert.Equal(t, block.SandBlockID, wg.getSurfaceBlockForBiome(BiomeDesert))
	assert.Equal(t, block.GrassBlockID, wg.getSurfaceBlockForBiome(BiomeForest))
}
