package sync

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// DeltaCompressor кодирует/декодирует пакет изменений в компактный вид.
type DeltaCompressor interface {
	Name() string
	Compress(changes []Change) ([]byte, error)
	Decompress(payload []byte) ([]Change, error)
}

// passthroughCompressor передаёт пакет как JSON-массив без сжатия
type passthroughCompressor struct{}

func NewPassthroughCompressor() DeltaCompressor { return passthroughCompressor{} }

func (passthroughCompressor) Name() string { return "json" }

func (passthroughCompressor) Compress(changes []Change) ([]byte, error) {
	return json.Marshal(changes)
}

func (passthroughCompressor) Decompress(payload []byte) ([]Change, error) {
	var res []Change
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	return res, nil
}

// smartCompressor сжимает JSON пакета zstd
type smartCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewSmartCompressor создаёт компрессор zstd. Encoder и Decoder безопасны
// для параллельных EncodeAll/DecodeAll.
func NewSmartCompressor() (DeltaCompressor, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &smartCompressor{enc: enc, dec: dec}, nil
}

func (s *smartCompressor) Name() string { return "json+zstd" }

func (s *smartCompressor) Compress(changes []Change) ([]byte, error) {
	raw, err := passthroughCompressor{}.Compress(changes)
	if err != nil {
		return nil, err
	}
	return s.enc.EncodeAll(raw, nil), nil
}

func (s *smartCompressor) Decompress(payload []byte) ([]Change, error) {
	raw, err := s.dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return passthroughCompressor{}.Decompress(raw)
}
