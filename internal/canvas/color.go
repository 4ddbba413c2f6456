package canvas

import "fmt"

// Color цвет краски в формате ARGB
type Color uint32

// Opaque возвращает цвет RGB с полной непрозрачностью
func Opaque(rgb uint32) Color {
	return Color(0xFF000000 | rgb&0xFFFFFF)
}

// RGB возвращает цвет без альфа-канала
func (c Color) RGB() uint32 { return uint32(c) & 0xFFFFFF }

// Alpha возвращает альфа-канал
func (c Color) Alpha() uint8 { return uint8(c >> 24) }

func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// DyeColor индекс красителя в палитре из 16 цветов
type DyeColor uint8

const (
	DyeWhite DyeColor = iota
	DyeOrange
	DyeMagenta
	DyeLightBlue
	DyeYellow
	DyeLime
	DyePink
	DyeGray
	DyeLightGray
	DyeCyan
	DyePurple
	DyeBlue
	DyeBrown
	DyeGreen
	DyeRed
	DyeBlack
)

// ColorMeta запись палитры красителей
type ColorMeta struct {
	Dye  DyeColor
	Name string
	RGB  uint32
}

var palette = [...]ColorMeta{
	{DyeWhite, "white", 0xF0F0F0},
	{DyeOrange, "orange", 0xEB8844},
	{DyeMagenta, "magenta", 0xC354CD},
	{DyeLightBlue, "light_blue", 0x6689D3},
	{DyeYellow, "yellow", 0xDECF2A},
	{DyeLime, "lime", 0x41CD34},
	{DyePink, "pink", 0xD88198},
	{DyeGray, "gray", 0x434343},
	{DyeLightGray, "light_gray", 0xABABAB},
	{DyeCyan, "cyan", 0x287697},
	{DyePurple, "purple", 0x7B2FBE},
	{DyeBlue, "blue", 0x253192},
	{DyeBrown, "brown", 0x51301A},
	{DyeGreen, "green", 0x3B511A},
	{DyeRed, "red", 0xB3312C},
	{DyeBlack, "black", 0x1E1B1B},
}

// ColorMetaFromDye ищет запись палитры по индексу красителя
func ColorMetaFromDye(d DyeColor) (ColorMeta, bool) {
	if int(d) >= len(palette) {
		return ColorMeta{}, false
	}
	return palette[d], true
}

// ColorMetaFromName ищет запись палитры по имени
func ColorMetaFromName(name string) (ColorMeta, bool) {
	for _, c := range palette {
		if c.Name == name {
			return c, true
		}
	}
	return ColorMeta{}, false
}
