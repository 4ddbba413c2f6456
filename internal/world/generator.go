package world

import (
	"math"
	"math/rand"

	"github.com/df-mc/dragonfly/server/block/cube"

	"github.com/annel0/paintblocks/internal/util"
	"github.com/annel0/paintblocks/internal/world/block"
)

// BiomeType представляет тип биома
type BiomeType int

const (
	BiomePlains BiomeType = iota
	BiomeDesert
	BiomeForest
	BiomeMountains
	BiomeWater
)

// Константы высот для генерации (доли нормированного шума)
const (
	ShallowWaterMax = 0.35 // Ниже - дно водоёма
	MountainStart   = 0.75 // Выше - горы
)

// WorldGenerator генерирует ландшафт мира, поверх которого применяются сохранённые изменения.
// Результат зависит только от сида, поэтому сгенерированные блоки не сохраняются.
type WorldGenerator struct {
	Seed        int64   // Сид для генерации шума
	NoiseScale  float64 // Масштаб основного шума (высота)
	BiomeScale  float64 // Масштаб шума биомов
	BaseHeight  int     // Высота при нулевом шуме
	Amplitude   int     // Перепад высот
	BushDensity float64 // Доля кустов листвы в лесах

	height *util.Noise
	biome  *util.Noise
}

// NewWorldGenerator создаёт новый генератор мира
func NewWorldGenerator(seed int64) *WorldGenerator {
	return &WorldGenerator{
		Seed:        seed,
		NoiseScale:  0.05, // Настройка сглаженности ландшафта
		BiomeScale:  0.02, // Настройка размера биомов
		BaseHeight:  48,
		Amplitude:   32,
		BushDensity: 0.08,
		height:      util.NewNoise(seed),
		biome:       util.NewNoise(seed + 42),
	}
}

// SeaLevel уровень воды
func (wg *WorldGenerator) SeaLevel() int {
	return wg.BaseHeight + int(ShallowWaterMax*float64(wg.Amplitude))
}

// Column описывает столбец ландшафта
type Column struct {
	Height int
	Biome  BiomeType
	Bush   bool
}

// ColumnAt вычисляет столбец ландшафта в мировых координатах x, z
func (wg *WorldGenerator) ColumnAt(x, z int) Column {
	h := wg.height.At(float64(x)*wg.NoiseScale, float64(z)*wg.NoiseScale)
	b := wg.biome.At(float64(x)*wg.BiomeScale, float64(z)*wg.BiomeScale)

	col := Column{
		Height: wg.BaseHeight + int(math.Round(h*float64(wg.Amplitude))),
		Biome:  wg.getBiomeType(h, b),
	}
	if col.Biome == BiomeForest {
		col.Bush = wg.columnRand(x, z).Float64() < wg.BushDensity
	}
	return col
}

// GenerateChunk генерирует чанк по его координатам. Изменения в чанке не отмечаются.
func (wg *WorldGenerator) GenerateChunk(coords cube.Pos) *Chunk {
	chunk := NewChunk(coords)
	sea := wg.SeaLevel()

	for lx := 0; lx < ChunkSize; lx++ {
		for lz := 0; lz < ChunkSize; lz++ {
			origin := chunk.WorldPos(cube.Pos{lx, 0, lz})
			col := wg.ColumnAt(origin[0], origin[2])

			for ly := 0; ly < ChunkSize; ly++ {
				y := origin[1] + ly
				chunk.Blocks[lx][ly][lz] = wg.blockAt(col, y, sea)
			}
		}
	}
	return chunk
}

// blockAt возвращает блок столбца на высоте y
func (wg *WorldGenerator) blockAt(col Column, y, sea int) block.State {
	switch {
	case y < col.Height-3:
		return block.Of(block.StoneBlockID)
	case y < col.Height:
		if col.Biome == BiomeDesert || col.Biome == BiomeWater {
			return block.Of(block.SandBlockID)
		}
		return block.Of(block.DirtBlockID)
	case y == col.Height:
		return block.Of(wg.getSurfaceBlockForBiome(col.Biome))
	case y <= sea && col.Biome == BiomeWater:
		return block.Of(block.WaterBlockID)
	case y == col.Height+1 && col.Bush:
		return block.Of(block.LeavesBlockID)
	default:
		return block.Air
	}
}

// Populate генерирует отсутствующие чанки в квадрате radius вокруг начала координат
// для слоёв чанков [minCY, maxCY]. Возвращает число добавленных чанков.
func (wg *WorldGenerator) Populate(wm *WorldManager, radius, minCY, maxCY int) int {
	added := 0
	for cx := -radius; cx <= radius; cx++ {
		for cz := -radius; cz <= radius; cz++ {
			for cy := minCY; cy <= maxCY; cy++ {
				if wm.PutChunk(wg.GenerateChunk(cube.Pos{cx, cy, cz})) {
					added++
				}
			}
		}
	}
	return added
}

// ChunkLayers возвращает диапазон слоёв чанков, покрывающий ландшафт
func (wg *WorldGenerator) ChunkLayers() (minCY, maxCY int) {
	top := wg.BaseHeight + wg.Amplitude + 1
	return (wg.BaseHeight - 4) >> 4, top >> 4
}

// getSurfaceBlockForBiome возвращает верхний блок для указанного биома
func (wg *WorldGenerator) getSurfaceBlockForBiome(biome BiomeType) block.BlockID {
	switch biome {
	case BiomeDesert, BiomeWater:
		return block.SandBlockID
	case BiomeMountains:
		return block.StoneBlockID
	default:
		return block.GrassBlockID
	}
}

// getBiomeType определяет тип биома на основе значений шума
func (wg *WorldGenerator) getBiomeType(height, biomeValue float64) BiomeType {
	if height < ShallowWaterMax {
		return BiomeWater
	}
	if height > MountainStart {
		return BiomeMountains
	}

	// Для средних высот выбираем биом на основе biomeValue
	if biomeValue < 0.35 {
		return BiomeDesert
	} else if biomeValue > 0.65 {
		return BiomeForest
	}
	return BiomePlains
}

// columnRand детерминированный генератор случайных чисел для столбца
func (wg *WorldGenerator) columnRand(x, z int) *rand.Rand {
	return rand.New(rand.NewSource(wg.Seed + int64(x)*341873128712 + int64(z)*132897987541))
}
