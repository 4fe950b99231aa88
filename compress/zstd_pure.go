//go:build !cgo_zstd

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdDecoderPool pools zstd decoders for reuse to eliminate allocation
// overhead. The klauspost/compress/zstd library is explicitly designed for
// decoder reuse: "The decoder has been designed to operate without
// allocations after a warmup."
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			// This should never happen with valid options
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}
		return decoder
	},
}

func zstdDecompress(src, dst []byte) error {
	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	// DecodeAll appends to dst[:0]; while the output fits the declared
	// size it lands in dst's array without reallocating.
	out, err := decoder.DecodeAll(src, dst[:0])
	if err != nil {
		return err
	}

	if len(out) != len(dst) {
		return fmt.Errorf("zstd: decompressed %d bytes, want %d", len(out), len(dst))
	}

	return nil
}
