package compress

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// lz4Decompress decompresses an LZ4 block payload into dst.
//
// OSMPBF carries LZ4 in block form, not frame form, so the block API is
// used and the declared uncompressed size bounds the output exactly.
func lz4Decompress(src, dst []byte) error {
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return err
	}

	if n != len(dst) {
		return fmt.Errorf("lz4: decompressed %d bytes, want %d", n, len(dst))
	}

	return nil
}
