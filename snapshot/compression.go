package snapshot

import (
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
)

// Compression compresses snapshot bodies. Decompress receives the
// original size recorded in the header.
type Compression interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte, size int) ([]byte, error)
	Name() string
}

func compressionByName(name string) (Compression, bool) {
	switch name {
	case "none":
		return None{}, true
	case "s2":
		return S2{}, true
	case "lz4":
		return LZ4{}, true
	default:
		return nil, false
	}
}

// None stores the body as-is.
type None struct{}

// Compress returns the data unchanged.
func (None) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns the data unchanged.
func (None) Decompress(data []byte, size int) ([]byte, error) {
	if len(data) != size {
		return nil, fmt.Errorf("size mismatch: have %d, want %d", len(data), size)
	}
	return data, nil
}

// Name returns "none".
func (None) Name() string { return "none" }

// S2 compresses with the S2 block format (a Snappy extension).
type S2 struct{}

// Compress encodes the data as one S2 block.
func (S2) Compress(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

// Decompress decodes an S2 block.
func (S2) Decompress(data []byte, size int) ([]byte, error) {
	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, err
	}
	if len(out) != size {
		return nil, fmt.Errorf("size mismatch: have %d, want %d", len(out), size)
	}
	return out, nil
}

// Name returns "s2".
func (S2) Name() string { return "s2" }

// LZ4 compresses with the LZ4 block format. Incompressible bodies are
// stored raw; the size recorded in the header disambiguates on load.
type LZ4 struct{}

// Compress encodes the data as one LZ4 block.
func (LZ4) Compress(data []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 || n >= len(data) {
		// Incompressible
		return data, nil
	}
	return buf[:n], nil
}

// Decompress decodes an LZ4 block.
func (LZ4) Decompress(data []byte, size int) ([]byte, error) {
	if len(data) == size {
		// Stored raw
		return data, nil
	}
	out := make([]byte, size)
	n, err := lz4.UncompressBlock(data, out)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, fmt.Errorf("size mismatch: have %d, want %d", n, size)
	}
	return out, nil
}

// Name returns "lz4".
func (LZ4) Name() string { return "lz4" }
