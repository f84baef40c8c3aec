// Package snapshot persists filter state through a blobstore. Files are
// self-describing: a fixed header records the codec and compression that
// wrote the file, so any build can load snapshots written by another.
package snapshot

import (
	"context"
	"fmt"

	"github.com/hupe1980/colfilter/blobstore"
	"github.com/hupe1980/colfilter/codec"
)

// Option customizes how snapshots are written.
type Option func(*config)

type config struct {
	codec       codec.Codec
	compression Compression
}

// WithCodec selects the codec used to encode the snapshot body.
func WithCodec(c codec.Codec) Option {
	return func(cfg *config) { cfg.codec = c }
}

// WithCompression selects the body compression.
func WithCompression(c Compression) Option {
	return func(cfg *config) { cfg.compression = c }
}

// Save encodes state and writes it to the store under the given name,
// replacing any previous snapshot of that name.
func Save(ctx context.Context, store blobstore.Store, name string, state any, opts ...Option) error {
	cfg := config{codec: codec.Default, compression: None{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	body, err := cfg.codec.Marshal(state)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}

	compressed, err := cfg.compression.Compress(body)
	if err != nil {
		return fmt.Errorf("snapshot: compress: %w", err)
	}

	buf := writeHeader(header{
		Codec:            cfg.codec.Name(),
		Compression:      cfg.compression.Name(),
		UncompressedSize: uint32(len(body)),
	})
	buf = append(buf, compressed...)

	if err := store.Put(ctx, name, buf); err != nil {
		return fmt.Errorf("snapshot: put %q: %w", name, err)
	}
	return nil
}

// Load reads a snapshot and decodes it into out. The codec and
// compression are selected from the file header, not from the caller.
func Load(ctx context.Context, store blobstore.Store, name string, out any) error {
	data, err := store.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("snapshot: get %q: %w", name, err)
	}

	hdr, body, err := readHeader(data)
	if err != nil {
		return err
	}

	c, ok := codec.ByName(hdr.Codec)
	if !ok {
		return fmt.Errorf("snapshot: unknown codec %q", hdr.Codec)
	}
	comp, ok := compressionByName(hdr.Compression)
	if !ok {
		return fmt.Errorf("snapshot: unknown compression %q", hdr.Compression)
	}

	plain, err := comp.Decompress(body, int(hdr.UncompressedSize))
	if err != nil {
		return fmt.Errorf("snapshot: decompress: %w", err)
	}

	if err := c.Unmarshal(plain, out); err != nil {
		return fmt.Errorf("snapshot: decode: %w", err)
	}
	return nil
}
