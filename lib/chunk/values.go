package chunk

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
)

// --------------------------------------------------------------------------
// Value Constraint
// --------------------------------------------------------------------------

// Value is the constraint for chunk element types: every fixed-width integer
// and float type (including named types based on them). The fixed width is
// what allows a dense chunk payload to be encoded to a flat byte buffer for
// the compression codecs.
type Value interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// ValueSize returns the encoded size of T in bytes.
func ValueSize[T Value]() int {
	var zero T
	switch reflect.TypeOf(zero).Kind() {
	case reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	default:
		return 8
	}
}

// --------------------------------------------------------------------------
// Payload Encoding
// --------------------------------------------------------------------------

// EncodePayload encodes a dense payload to a flat little-endian byte buffer,
// one fixed-width element per value, preserving the layout order. This is
// the byte representation handed to the compression codecs; together with
// DecodePayload it forms a lossless round trip for every Value type.
//
// The element kind is resolved once per call, the per-element loops run
// without reflection.
func EncodePayload[T Value](values []T) []byte {
	var zero T
	switch reflect.TypeOf(zero).Kind() {
	case reflect.Int8, reflect.Uint8:
		out := make([]byte, len(values))
		for i, v := range values {
			out[i] = byte(v)
		}
		return out
	case reflect.Int16, reflect.Uint16:
		out := make([]byte, len(values)*2)
		for i, v := range values {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
		}
		return out
	case reflect.Int32, reflect.Uint32:
		out := make([]byte, len(values)*4)
		for i, v := range values {
			binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
		}
		return out
	case reflect.Float32:
		out := make([]byte, len(values)*4)
		for i, v := range values {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(float32(v)))
		}
		return out
	case reflect.Int64, reflect.Uint64:
		out := make([]byte, len(values)*8)
		for i, v := range values {
			binary.LittleEndian.PutUint64(out[i*8:], uint64(v))
		}
		return out
	case reflect.Float64:
		out := make([]byte, len(values)*8)
		for i, v := range values {
			binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(float64(v)))
		}
		return out
	default:
		panic(fmt.Sprintf("chunk: unsupported value kind %v", reflect.TypeOf(zero).Kind()))
	}
}

// DecodePayload decodes a flat byte buffer produced by EncodePayload into
// dst. It returns an error if the buffer length does not match the
// destination, which is the first line of defense against corrupted stored
// chunk data.
func DecodePayload[T Value](data []byte, dst []T) error {
	size := ValueSize[T]()
	if len(data) != len(dst)*size {
		return fmt.Errorf("payload has %d bytes, expected %d (%d values of %d bytes)",
			len(data), len(dst)*size, len(dst), size)
	}

	var zero T
	switch reflect.TypeOf(zero).Kind() {
	case reflect.Int8, reflect.Uint8:
		for i := range dst {
			dst[i] = T(int8(data[i]))
		}
	case reflect.Int16, reflect.Uint16:
		for i := range dst {
			dst[i] = T(int16(binary.LittleEndian.Uint16(data[i*2:])))
		}
	case reflect.Int32, reflect.Uint32:
		for i := range dst {
			dst[i] = T(int32(binary.LittleEndian.Uint32(data[i*4:])))
		}
	case reflect.Float32:
		for i := range dst {
			dst[i] = T(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
		}
	case reflect.Int64, reflect.Uint64:
		for i := range dst {
			dst[i] = T(int64(binary.LittleEndian.Uint64(data[i*8:])))
		}
	case reflect.Float64:
		for i := range dst {
			dst[i] = T(math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:])))
		}
	default:
		panic(fmt.Sprintf("chunk: unsupported value kind %v", reflect.TypeOf(zero).Kind()))
	}

	return nil
}

// PayloadAllEqual returns true if every element of the payload equals v.
// Used to detect chunks that have become fully ambient.
func PayloadAllEqual[T comparable](values []T, v T) bool {
	for _, e := range values {
		if e != v {
			return false
		}
	}
	return true
}
