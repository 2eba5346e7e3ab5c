package codec

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// NewS2Codec creates a codec using the S2 block format, an extension of
// snappy with better compression ratios at comparable speed.
func NewS2Codec() ICodec {
	return &s2CodecImpl{}
}

// s2CodecImpl implements the ICodec interface using S2 block encoding
type s2CodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c s2CodecImpl) Compress(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

func (c s2CodecImpl) Decompress(data []byte) ([]byte, error) {
	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("s2 decode failed: %w", err)
	}
	return out, nil
}

func (c s2CodecImpl) GetName() string {
	return "s2"
}
