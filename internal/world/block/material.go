package block

// Material категория вещества блока. Набор открыт: хост может добавлять свои значения.
type Material uint8

const (
	MaterialAir Material = iota
	MaterialGrass
	MaterialGround
	MaterialWood
	MaterialRock
	MaterialIron
	MaterialAnvil
	MaterialWater
	MaterialLava
	MaterialLeaves
	MaterialPlants
	MaterialVine
	MaterialSponge
	MaterialCloth
	MaterialFire
	MaterialSand
	MaterialCircuits
	MaterialCarpet
	MaterialGlass
	MaterialRedstoneLight
	MaterialTNT
	MaterialCoral
	MaterialIce
	MaterialPackedIce
	MaterialSnow
	MaterialCraftedSnow
	MaterialCactus
	MaterialClay
	MaterialGourd
	MaterialPortal
	MaterialCake
	MaterialWeb
	MaterialPiston
	MaterialBarrier
)

var materialNames = map[Material]string{
	MaterialAir:           "air",
	MaterialGrass:         "grass",
	MaterialGround:        "ground",
	MaterialWood:          "wood",
	MaterialRock:          "rock",
	MaterialIron:          "iron",
	MaterialAnvil:         "anvil",
	MaterialWater:         "water",
	MaterialLava:          "lava",
	MaterialLeaves:        "leaves",
	MaterialPlants:        "plants",
	MaterialVine:          "vine",
	MaterialSponge:        "sponge",
	MaterialCloth:         "cloth",
	MaterialFire:          "fire",
	MaterialSand:          "sand",
	MaterialCircuits:      "circuits",
	MaterialCarpet:        "carpet",
	MaterialGlass:         "glass",
	MaterialRedstoneLight: "redstone_light",
	MaterialTNT:           "tnt",
	MaterialCoral:         "coral",
	MaterialIce:           "ice",
	MaterialPackedIce:     "packed_ice",
	MaterialSnow:          "snow",
	MaterialCraftedSnow:   "crafted_snow",
	MaterialCactus:        "cactus",
	MaterialClay:          "clay",
	MaterialGourd:         "gourd",
	MaterialPortal:        "portal",
	MaterialCake:          "cake",
	MaterialWeb:           "web",
	MaterialPiston:        "piston",
	MaterialBarrier:       "barrier",
}

// String возвращает имя материала
func (m Material) String() string {
	if name, ok := materialNames[m]; ok {
		return name
	}
	return "unknown"
}

// BlocksMovement сообщает, мешает ли материал движению сущностей
func (m Material) BlocksMovement() bool {
	switch m {
	case MaterialAir, MaterialWater, MaterialLava, MaterialPlants, MaterialVine,
		MaterialFire, MaterialCircuits, MaterialCarpet, MaterialSnow, MaterialPortal, MaterialWeb:
		return false
	default:
		return true
	}
}
