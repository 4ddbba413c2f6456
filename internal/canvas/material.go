package canvas

import (
	"fmt"

	"github.com/annel0/paintblocks/internal/world/block"
)

// MaterialCode порядковый номер категории вещества холста.
// Это единственное, что холст хранит в 4-битном слоте meta.
type MaterialCode uint8

// MaxMaterialCodes размер адресуемого пространства кодов (4 бита)
const MaxMaterialCodes = 16

// canvasMaterials фиксированный упорядоченный список категорий.
// Порядок определяет сохраняемые коды и не должен меняться.
// Последний слот — губка, вещество самого холста и категория по умолчанию.
var canvasMaterials = []block.Material{
	block.MaterialGrass,
	block.MaterialGround,
	block.MaterialWood,
	block.MaterialRock,
	block.MaterialIron,
	block.MaterialLeaves,
	block.MaterialPlants,
	block.MaterialCloth,
	block.MaterialSand,
	block.MaterialCircuits,
	block.MaterialGlass,
	block.MaterialIce,
	block.MaterialSnow,
	block.MaterialClay,
	block.MaterialCarpet,
	block.MaterialSponge,
}

// BaseMaterial вещество холста без имитации
const BaseMaterial = block.MaterialSponge

// classifier неизменяемая таблица отображения вещество <-> код
type classifier struct {
	toCode      map[block.Material]MaterialCode
	toMaterial  [MaxMaterialCodes]block.Material
	defaultCode MaterialCode
}

var materials = buildClassifier(canvasMaterials, BaseMaterial)

// buildClassifier строит таблицу один раз при старте.
// Свободные слоты после реальных записей заполняются веществом по умолчанию,
// чтобы любой 4-битный код из хранилища был адресуем.
func buildClassifier(ordered []block.Material, def block.Material) *classifier {
	if len(ordered) > MaxMaterialCodes {
		panic(fmt.Sprintf("canvas: %d категорий не помещаются в %d кодов", len(ordered), MaxMaterialCodes))
	}

	c := &classifier{toCode: make(map[block.Material]MaterialCode, len(ordered))}

	i := 0
	for _, m := range ordered {
		c.toCode[m] = MaterialCode(i)
		c.toMaterial[i] = m
		i++
	}

	code, ok := c.toCode[def]
	if !ok {
		panic(fmt.Sprintf("canvas: категория по умолчанию %s отсутствует в таблице", def))
	}
	c.defaultCode = code

	for i < MaxMaterialCodes {
		c.toMaterial[i] = def
		i++
	}

	return c
}

func (c *classifier) classify(m block.Material) MaterialCode {
	if code, ok := c.toCode[m]; ok {
		return code
	}
	return c.defaultCode
}

func (c *classifier) material(code MaterialCode) block.Material {
	if int(code) >= MaxMaterialCodes {
		return c.toMaterial[c.defaultCode]
	}
	return c.toMaterial[code]
}

// DefaultCode код категории по умолчанию
func DefaultCode() MaterialCode {
	return materials.defaultCode
}

// Classify возвращает код категории вещества. Неизвестные вещества дают DefaultCode.
// Отображение многие-к-одному: например, все неперечисленные вещества
// (вода, лава, тыква, ...) схлопываются в код губки.
func Classify(m block.Material) MaterialCode {
	return materials.classify(m)
}

// CodeToMaterial обратное отображение для загрузки. Коды вне диапазона
// дают вещество по умолчанию.
func CodeToMaterial(code MaterialCode) block.Material {
	return materials.material(code)
}

// String возвращает имя категории кода
func (c MaterialCode) String() string {
	return CodeToMaterial(c).String()
}
