package codec

// NewRawCodec creates a codec that stores payloads verbatim. Useful for
// incompressible data and as a baseline for benchmarks.
func NewRawCodec() ICodec {
	return &rawCodecImpl{}
}

// rawCodecImpl implements the ICodec interface without any compression
type rawCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c rawCodecImpl) Compress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (c rawCodecImpl) Decompress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (c rawCodecImpl) GetName() string {
	return "raw"
}
