package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

func lzmaDecompress(src, dst []byte) error {
	lr, err := lzma.NewReader(bytes.NewReader(src))
	if err != nil {
		return err
	}

	if _, err := io.ReadFull(lr, dst); err != nil {
		return err
	}

	var extra [1]byte
	if n, err := lr.Read(extra[:]); n > 0 || err != io.EOF {
		return fmt.Errorf("lzma: decompressed data exceeds declared size %d", len(dst))
	}

	return nil
}
