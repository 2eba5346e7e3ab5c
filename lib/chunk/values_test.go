package chunk

import (
	"math"
	"testing"
)

// Voxel is a named value type used to verify that the encoding also covers
// types derived from the base kinds.
type Voxel uint16

// TestEncodeDecodeRoundTrip tests the lossless payload round trip for the
// common value widths
func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Run("uint8", func(t *testing.T) {
		in := []uint8{0, 1, 127, 255}
		out := make([]uint8, len(in))
		if err := DecodePayload(EncodePayload(in), out); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		for i := range in {
			if in[i] != out[i] {
				t.Errorf("index %d: expected %d, got %d", i, in[i], out[i])
			}
		}
	})

	t.Run("int8", func(t *testing.T) {
		in := []int8{-128, -1, 0, 127}
		out := make([]int8, len(in))
		if err := DecodePayload(EncodePayload(in), out); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		for i := range in {
			if in[i] != out[i] {
				t.Errorf("index %d: expected %d, got %d", i, in[i], out[i])
			}
		}
	})

	t.Run("int16", func(t *testing.T) {
		in := []int16{-32768, -300, 0, 300, 32767}
		out := make([]int16, len(in))
		if err := DecodePayload(EncodePayload(in), out); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		for i := range in {
			if in[i] != out[i] {
				t.Errorf("index %d: expected %d, got %d", i, in[i], out[i])
			}
		}
	})

	t.Run("uint64", func(t *testing.T) {
		in := []uint64{0, 1, math.MaxUint64}
		out := make([]uint64, len(in))
		if err := DecodePayload(EncodePayload(in), out); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		for i := range in {
			if in[i] != out[i] {
				t.Errorf("index %d: expected %d, got %d", i, in[i], out[i])
			}
		}
	})

	t.Run("float32", func(t *testing.T) {
		in := []float32{0, -1.5, math.Pi, float32(math.Inf(1))}
		out := make([]float32, len(in))
		if err := DecodePayload(EncodePayload(in), out); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		for i := range in {
			if in[i] != out[i] {
				t.Errorf("index %d: expected %v, got %v", i, in[i], out[i])
			}
		}
	})

	t.Run("float64", func(t *testing.T) {
		in := []float64{0, -1.5, math.Pi, math.MaxFloat64}
		out := make([]float64, len(in))
		if err := DecodePayload(EncodePayload(in), out); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		for i := range in {
			if in[i] != out[i] {
				t.Errorf("index %d: expected %v, got %v", i, in[i], out[i])
			}
		}
	})

	t.Run("named type", func(t *testing.T) {
		in := []Voxel{0, 42, 65535}
		out := make([]Voxel, len(in))
		if err := DecodePayload(EncodePayload(in), out); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		for i := range in {
			if in[i] != out[i] {
				t.Errorf("index %d: expected %d, got %d", i, in[i], out[i])
			}
		}
	})
}

// TestValueSize tests the per-type encoded sizes
func TestValueSize(t *testing.T) {
	if got := ValueSize[uint8](); got != 1 {
		t.Errorf("ValueSize[uint8]: expected 1, got %d", got)
	}
	if got := ValueSize[Voxel](); got != 2 {
		t.Errorf("ValueSize[Voxel]: expected 2, got %d", got)
	}
	if got := ValueSize[float32](); got != 4 {
		t.Errorf("ValueSize[float32]: expected 4, got %d", got)
	}
	if got := ValueSize[int64](); got != 8 {
		t.Errorf("ValueSize[int64]: expected 8, got %d", got)
	}
}

// TestDecodePayloadLengthMismatch tests that corrupt buffer lengths are
// rejected instead of being decoded partially
func TestDecodePayloadLengthMismatch(t *testing.T) {
	data := EncodePayload([]uint16{1, 2, 3})

	dst := make([]uint16, 3)
	if err := DecodePayload(data[:len(data)-1], dst); err == nil {
		t.Error("decoding a truncated buffer should fail")
	}

	short := make([]uint16, 2)
	if err := DecodePayload(data, short); err == nil {
		t.Error("decoding into a destination of the wrong length should fail")
	}
}

// TestPayloadAllEqual tests the fully-ambient detection helper
func TestPayloadAllEqual(t *testing.T) {
	if !PayloadAllEqual([]uint16{7, 7, 7}, 7) {
		t.Error("uniform payload should report all equal")
	}
	if PayloadAllEqual([]uint16{7, 7, 8}, 7) {
		t.Error("non-uniform payload should not report all equal")
	}
	if !PayloadAllEqual([]uint16{}, 7) {
		t.Error("empty payload should report all equal")
	}
}
