package codec

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"
)

// testCodecs is a map of codec name to factory function
var testCodecs = map[string]func() ICodec{
	"Raw":    NewRawCodec,
	"Snappy": NewSnappyCodec,
	"S2":     NewS2Codec,
	"LZ4":    NewLZ4Codec,
	"ZSTD":   NewZSTDCodec,
}

// testPayloads creates a set of payloads with different compressibility
func testPayloads() map[string][]byte {
	uniform := make([]byte, 8192)
	for i := range uniform {
		uniform[i] = 0x2a
	}

	gradient := make([]byte, 8192)
	for i := range gradient {
		gradient[i] = byte(i / 32)
	}

	noise := make([]byte, 8192)
	rng := rand.New(rand.NewSource(42))
	rng.Read(noise)

	return map[string][]byte{
		"Empty":    {},
		"OneByte":  {0x7f},
		"Uniform":  uniform,
		"Gradient": gradient,
		"Noise":    noise,
	}
}

// TestCodecRoundTrip tests that payloads survive compression and
// decompression unchanged for every codec
func TestCodecRoundTrip(t *testing.T) {
	payloads := testPayloads()

	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			for payloadName, payload := range payloads {
				// Compress
				stored, err := c.Compress(payload)
				if err != nil {
					t.Errorf("Failed to compress payload %s: %v", payloadName, err)
					continue
				}

				// Decompress
				restored, err := c.Decompress(stored)
				if err != nil {
					t.Errorf("Failed to decompress payload %s: %v", payloadName, err)
					continue
				}

				// Compare
				if !bytes.Equal(payload, restored) {
					t.Errorf("Payload %s doesn't match after round trip: %d bytes in, %d bytes out",
						payloadName, len(payload), len(restored))
				}
			}
		})
	}
}

// TestCodecNames tests that every codec reports the name it is registered
// under and that ForName resolves it
func TestCodecNames(t *testing.T) {
	names := map[string]string{
		"Raw":    "raw",
		"Snappy": "snappy",
		"S2":     "s2",
		"LZ4":    "lz4",
		"ZSTD":   "zstd",
	}

	for testName, factory := range testCodecs {
		c := factory()
		want := names[testName]

		if got := c.GetName(); got != want {
			t.Errorf("GetName for %s: expected %q, got %q", testName, want, got)
		}

		resolved, err := ForName(want)
		if err != nil {
			t.Errorf("ForName(%q) failed: %v", want, err)
		} else if resolved.GetName() != want {
			t.Errorf("ForName(%q) returned codec named %q", want, resolved.GetName())
		}
	}

	if _, err := ForName("brotli"); err == nil {
		t.Errorf("Expected error for unregistered codec name")
	}
}

// TestCodecOutputOwnership tests that decompressed payloads do not alias
// the stored bytes, so callers may mutate either side freely
func TestCodecOutputOwnership(t *testing.T) {
	payload := []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			stored, err := c.Compress(payload)
			if err != nil {
				t.Fatalf("Failed to compress: %v", err)
			}

			restored, err := c.Decompress(stored)
			if err != nil {
				t.Fatalf("Failed to decompress: %v", err)
			}

			// Clobber the stored bytes and verify the payload is unaffected
			for i := range stored {
				stored[i] = 0xff
			}
			if !bytes.Equal(restored, payload) {
				t.Errorf("Decompressed payload changed after mutating stored bytes")
			}
		})
	}
}

// TestLZ4CodecSpecific tests frame-level edge cases for the lz4 codec
func TestLZ4CodecSpecific(t *testing.T) {
	c := NewLZ4Codec()

	t.Run("Compressible payload sets flag", func(t *testing.T) {
		payload := bytes.Repeat([]byte{7}, 4096)
		stored, err := c.Compress(payload)
		if err != nil {
			t.Fatalf("Failed to compress: %v", err)
		}

		if stored[0]&lz4Compressed == 0 {
			t.Errorf("Expected compressed flag for uniform payload")
		}
		if len(stored) >= len(payload) {
			t.Errorf("Expected uniform payload to shrink, got %d -> %d bytes", len(payload), len(stored))
		}
		if got := binary.BigEndian.Uint32(stored[1:lz4HeaderSize]); got != uint32(len(payload)) {
			t.Errorf("Header length mismatch: expected %d, got %d", len(payload), got)
		}
	})

	t.Run("Incompressible payload stored verbatim", func(t *testing.T) {
		payload := make([]byte, 4096)
		rand.New(rand.NewSource(1)).Read(payload)

		stored, err := c.Compress(payload)
		if err != nil {
			t.Fatalf("Failed to compress: %v", err)
		}

		if stored[0]&lz4Compressed != 0 {
			t.Errorf("Expected verbatim flag for random payload")
		}
		if len(stored) != lz4HeaderSize+len(payload) {
			t.Errorf("Expected frame of %d bytes, got %d", lz4HeaderSize+len(payload), len(stored))
		}
		if !bytes.Equal(stored[lz4HeaderSize:], payload) {
			t.Errorf("Verbatim body doesn't match payload")
		}
	})

	t.Run("Empty payload", func(t *testing.T) {
		stored, err := c.Compress(nil)
		if err != nil {
			t.Fatalf("Failed to compress: %v", err)
		}
		if len(stored) != lz4HeaderSize {
			t.Errorf("Expected header-only frame, got %d bytes", len(stored))
		}

		restored, err := c.Decompress(stored)
		if err != nil {
			t.Fatalf("Failed to decompress: %v", err)
		}
		if len(restored) != 0 {
			t.Errorf("Expected empty payload, got %d bytes", len(restored))
		}
	})
}

// TestInvalidStoredData tests how the codecs handle corrupt or truncated
// data. Every codec must report an error rather than return a payload that
// differs from what was compressed.
func TestInvalidStoredData(t *testing.T) {
	payload := bytes.Repeat([]byte("voxel chunk payload "), 100)

	// truncate compresses the payload with the given codec and cuts the
	// result in half
	truncate := func(c ICodec) []byte {
		stored, err := c.Compress(payload)
		if err != nil {
			t.Fatalf("Failed to compress with %s: %v", c.GetName(), err)
		}
		return stored[:len(stored)/2]
	}

	testCases := []struct {
		name        string
		codec       ICodec
		data        []byte
		expectError bool
	}{
		{
			name:        "Snappy garbage",
			codec:       NewSnappyCodec(),
			data:        []byte{0xff, 0xff, 0xff, 0xff},
			expectError: true,
		},
		{
			name:        "Snappy truncated",
			codec:       NewSnappyCodec(),
			data:        truncate(NewSnappyCodec()),
			expectError: true,
		},
		{
			name:        "Snappy empty",
			codec:       NewSnappyCodec(),
			data:        []byte{},
			expectError: true,
		},
		{
			name:        "S2 truncated",
			codec:       NewS2Codec(),
			data:        truncate(NewS2Codec()),
			expectError: true,
		},
		{
			name:        "LZ4 empty",
			codec:       NewLZ4Codec(),
			data:        []byte{},
			expectError: true,
		},
		{
			name:        "LZ4 short header",
			codec:       NewLZ4Codec(),
			data:        []byte{1, 0, 0},
			expectError: true,
		},
		{
			name:        "LZ4 unknown flags",
			codec:       NewLZ4Codec(),
			data:        []byte{0x80, 0, 0, 0, 0},
			expectError: true,
		},
		{
			name:  "LZ4 verbatim length mismatch",
			codec: NewLZ4Codec(),
			// Header claims 10 payload bytes but only 3 are provided
			data:        []byte{0, 0, 0, 0, 10, 'a', 'b', 'c'},
			expectError: true,
		},
		{
			name:        "LZ4 truncated block",
			codec:       NewLZ4Codec(),
			data:        truncate(NewLZ4Codec()),
			expectError: true,
		},
		{
			name:        "ZSTD bad magic",
			codec:       NewZSTDCodec(),
			data:        []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
			expectError: true,
		},
		{
			name:        "ZSTD truncated",
			codec:       NewZSTDCodec(),
			data:        truncate(NewZSTDCodec()),
			expectError: true,
		},
		{
			name:        "Raw accepts anything",
			codec:       NewRawCodec(),
			data:        []byte{0xde, 0xad, 0xbe, 0xef},
			expectError: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.codec.Decompress(tc.data)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}
