package storage

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

const (
	formatRaw  byte = 0
	formatZstd byte = 1
)

// codec сериализует записи хранилища в JSON с необязательным сжатием zstd.
// Первый байт записи указывает формат, поэтому настройку сжатия можно менять
// без миграции уже записанных данных.
type codec struct {
	compress     bool
	compressor   *zstd.Encoder
	decompressor *zstd.Decoder
}

func newCodec(compress bool) (*codec, error) {
	c := &codec{compress: compress}

	var err error
	c.compressor, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}
	c.decompressor, err = zstd.NewReader(nil)
	if err != nil {
		c.compressor.Close()
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}
	return c, nil
}

func (c *codec) marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if !c.compress {
		return append([]byte{formatRaw}, data...), nil
	}
	return c.compressor.EncodeAll(data, []byte{formatZstd}), nil
}

func (c *codec) unmarshal(raw []byte, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("пустая запись")
	}

	payload := raw[1:]
	switch raw[0] {
	case formatRaw:
	case formatZstd:
		decompressed, err := c.decompressor.DecodeAll(payload, nil)
		if err != nil {
			return fmt.Errorf("decompression failed: %w", err)
		}
		payload = decompressed
	default:
		return fmt.Errorf("неизвестный формат записи %d", raw[0])
	}
	return json.Unmarshal(payload, v)
}

func (c *codec) close() {
	c.compressor.Close()
	c.decompressor.Close()
}
