//go:build cgo_zstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

func zstdDecompress(src, dst []byte) error {
	// Decompress appends to dst[:0]; while the output fits the declared
	// size it lands in dst's array without reallocating.
	out, err := gozstd.Decompress(dst[:0], src)
	if err != nil {
		return err
	}

	if len(out) != len(dst) {
		return fmt.Errorf("zstd: decompressed %d bytes, want %d", len(out), len(dst))
	}

	return nil
}
