package codec

import (
	"fmt"
)

// ICodec is the interface for all chunk payload codecs
type ICodec interface {
	// Compress converts a raw chunk payload into its stored form.
	// The returned slice is owned by the caller and does not alias data.
	Compress(data []byte) ([]byte, error)
	// Decompress restores the exact payload previously passed to Compress.
	// It returns an error if the data is corrupt or was not produced by
	// this codec. The returned slice does not alias data.
	Decompress(data []byte) ([]byte, error)
	// GetName returns the name under which the codec can be selected
	GetName() string
}

// ForName returns the codec registered under the given name. Valid names
// are "raw", "snappy", "s2", "lz4" and "zstd".
func ForName(name string) (ICodec, error) {
	switch name {
	case "raw":
		return NewRawCodec(), nil
	case "snappy":
		return NewSnappyCodec(), nil
	case "s2":
		return NewS2Codec(), nil
	case "lz4":
		return NewLZ4Codec(), nil
	case "zstd":
		return NewZSTDCodec(), nil
	default:
		return nil, fmt.Errorf("invalid codec %s", name)
	}
}
