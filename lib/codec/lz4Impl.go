package codec

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// NewLZ4Codec creates a codec using the LZ4 block format wrapped in a
// small frame header. The header records the decompressed payload size,
// which the block format itself does not carry.
func NewLZ4Codec() ICodec {
	return &lz4CodecImpl{
		pool: &sync.Pool{
			New: func() interface{} {
				return &lz4.Compressor{}
			},
		},
	}
}

// lz4CodecImpl implements the ICodec interface using LZ4 block encoding.
// lz4.Compressor is not safe for concurrent use, so instances are pooled.
type lz4CodecImpl struct {
	pool *sync.Pool
}

// Frame layout: 1 flag byte, followed by the big-endian uint32 size of the
// decompressed payload, followed by the block data (or the verbatim payload
// if the block format would have expanded it).
const lz4HeaderSize = 5

// Bit flags for the first frame byte
const (
	lz4Compressed byte = 1 << 0
)

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c *lz4CodecImpl) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return make([]byte, lz4HeaderSize), nil
	}

	buf := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(data)))
	binary.BigEndian.PutUint32(buf[1:lz4HeaderSize], uint32(len(data)))

	compressor := c.pool.Get().(*lz4.Compressor)
	n, err := compressor.CompressBlock(data, buf[lz4HeaderSize:])
	c.pool.Put(compressor)
	if err != nil {
		return nil, fmt.Errorf("lz4 block compression failed: %w", err)
	}

	// Store the payload verbatim if the block format did not shrink it
	if n == 0 || n >= len(data) {
		out := make([]byte, lz4HeaderSize+len(data))
		copy(out, buf[:lz4HeaderSize])
		copy(out[lz4HeaderSize:], data)
		return out, nil
	}

	buf[0] |= lz4Compressed
	return buf[:lz4HeaderSize+n], nil
}

func (c *lz4CodecImpl) Decompress(data []byte) ([]byte, error) {
	if len(data) < lz4HeaderSize {
		return nil, fmt.Errorf("data too short for frame header")
	}

	flags := data[0]
	if flags&^lz4Compressed != 0 {
		return nil, fmt.Errorf("unknown frame flags %#x", flags)
	}

	payloadLen := int(binary.BigEndian.Uint32(data[1:lz4HeaderSize]))
	body := data[lz4HeaderSize:]

	// Verbatim payload
	if flags&lz4Compressed == 0 {
		if len(body) != payloadLen {
			return nil, fmt.Errorf("frame header claims %d payload bytes, got %d", payloadLen, len(body))
		}
		out := make([]byte, payloadLen)
		copy(out, body)
		return out, nil
	}

	out := make([]byte, payloadLen)
	n, err := lz4.UncompressBlock(body, out)
	if err != nil {
		return nil, fmt.Errorf("lz4 block decompression failed: %w", err)
	}
	if n != payloadLen {
		return nil, fmt.Errorf("frame header claims %d payload bytes, decompressed %d", payloadLen, n)
	}
	return out, nil
}

func (c *lz4CodecImpl) GetName() string {
	return "lz4"
}
