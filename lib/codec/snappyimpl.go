package codec

import (
	"fmt"

	"github.com/golang/snappy"
)

// NewSnappyCodec creates a codec using the snappy block format. It offers
// high throughput at moderate compression ratios and is the default codec
// for chunk storage.
func NewSnappyCodec() ICodec {
	return &snappyCodecImpl{}
}

// snappyCodecImpl implements the ICodec interface using snappy block encoding
type snappyCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c snappyCodecImpl) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (c snappyCodecImpl) Decompress(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decode failed: %w", err)
	}
	return out, nil
}

func (c snappyCodecImpl) GetName() string {
	return "snappy"
}
