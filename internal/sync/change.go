package sync

import (
	"fmt"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"

	"github.com/annel0/paintblocks/internal/canvas"
	"github.com/annel0/paintblocks/internal/world/block"
)

// ChangeKind вид изменения холста
type ChangeKind string

const (
	KindWrap  ChangeKind = "wrap"
	KindPaint ChangeKind = "paint"
)

// Change одно изменение холста, передаваемое между узлами.
// Для KindWrap заполнено Painted, для KindPaint — Face и Color.
type Change struct {
	Kind         ChangeKind   `json:"kind"`
	Pos          cube.Pos     `json:"pos"`
	Face         string       `json:"face,omitempty"`
	Color        canvas.Color `json:"color,omitempty"`
	Painted      block.State  `json:"painted"`
	Priority     int          `json:"priority"`  // приоритизация для сброса при перегрузке
	Timestamp    time.Time    `json:"timestamp"` // время изменения на узле-источнике
	SourceRegion string       `json:"source"`    // узел-источник
}

// changeKey ключ изменения: позиция и грань (пустая для обёртки)
type changeKey struct {
	pos  cube.Pos
	face string
}

func (c Change) key() changeKey {
	if c.Kind == KindWrap {
		return changeKey{pos: c.Pos}
	}
	return changeKey{pos: c.Pos, face: c.Face}
}

func (c Change) String() string {
	if c.Kind == KindWrap {
		return fmt.Sprintf("wrap %v as %v from %s", c.Pos, c.Painted, c.SourceRegion)
	}
	return fmt.Sprintf("paint %v %s %v from %s", c.Pos, c.Face, c.Color, c.SourceRegion)
}
