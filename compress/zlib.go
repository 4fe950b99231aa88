package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// zlibReaderPool pools zlib readers for reuse via zlib.Resetter, avoiding
// the per-call window allocation.
var zlibReaderPool sync.Pool

func zlibDecompress(src, dst []byte) error {
	br := bytes.NewReader(src)

	var zr io.ReadCloser
	if pooled := zlibReaderPool.Get(); pooled != nil {
		zr = pooled.(io.ReadCloser)
		if err := zr.(zlib.Resetter).Reset(br, nil); err != nil {
			return err
		}
	} else {
		var err error
		if zr, err = zlib.NewReader(br); err != nil {
			return err
		}
	}
	defer zlibReaderPool.Put(zr)

	if _, err := io.ReadFull(zr, dst); err != nil {
		return err
	}

	// The stream must end exactly at the declared size.
	var extra [1]byte
	if n, err := zr.Read(extra[:]); n > 0 || err != io.EOF {
		return fmt.Errorf("zlib: decompressed data exceeds declared size %d", len(dst))
	}

	return zr.Close()
}
