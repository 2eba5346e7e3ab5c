package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// NewZSTDCodec creates a codec using the zstd format. It trades some speed
// for the best compression ratios of the available codecs.
func NewZSTDCodec() ICodec {
	// both constructors only fail on invalid options, none are passed here
	enc, _ := zstd.NewWriter(nil)
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	return &zstdCodecImpl{enc: enc, dec: dec}
}

// zstdCodecImpl implements the ICodec interface using zstd stateless
// encoding. The shared encoder and decoder are safe for concurrent use.
type zstdCodecImpl struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c *zstdCodecImpl) Compress(data []byte) ([]byte, error) {
	return c.enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func (c *zstdCodecImpl) Decompress(data []byte) ([]byte, error) {
	out, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode failed: %w", err)
	}
	return out, nil
}

func (c *zstdCodecImpl) GetName() string {
	return "zstd"
}
