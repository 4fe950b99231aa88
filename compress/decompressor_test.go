package compress

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz/lzma"

	"github.com/geostream/osmpbf/errs"
	"github.com/geostream/osmpbf/pbf"
)

var testPayload = bytes.Repeat([]byte("delta coded columnar node data "), 64)

func compressZlib(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func compressLz4(t *testing.T, data []byte) []byte {
	t.Helper()

	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := (&lz4.Compressor{}).CompressBlock(data, dst)
	require.NoError(t, err)

	return dst[:n]
}

func compressZstd(t *testing.T, data []byte) []byte {
	t.Helper()

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	out := enc.EncodeAll(data, nil)
	require.NoError(t, enc.Close())

	return out
}

func compressLzma(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := lzma.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestDefaultDecompressor_Decompress_Zlib(t *testing.T) {
	dst := make([]byte, len(testPayload))

	err := NewDefaultDecompressor().Decompress(pbf.CompressionZlib, compressZlib(t, testPayload), dst)
	require.NoError(t, err)
	require.Equal(t, testPayload, dst)
}

func TestDefaultDecompressor_Decompress_RefusesOtherMethods(t *testing.T) {
	dst := make([]byte, len(testPayload))
	d := NewDefaultDecompressor()

	for _, method := range []pbf.Compression{pbf.CompressionLz4, pbf.CompressionLzma, pbf.CompressionZstd} {
		err := d.Decompress(method, []byte{0x00}, dst)
		require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
	}
}

func TestFullDecompressor_Decompress_AllMethods(t *testing.T) {
	cases := []struct {
		name   string
		method pbf.Compression
		src    []byte
	}{
		{"zlib", pbf.CompressionZlib, compressZlib(t, testPayload)},
		{"lz4", pbf.CompressionLz4, compressLz4(t, testPayload)},
		{"lzma", pbf.CompressionLzma, compressLzma(t, testPayload)},
		{"zstd", pbf.CompressionZstd, compressZstd(t, testPayload)},
	}

	d := NewFullDecompressor()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dst := make([]byte, len(testPayload))

			err := d.Decompress(tc.method, tc.src, dst)
			require.NoError(t, err)
			require.Equal(t, testPayload, dst)
		})
	}
}

func TestFullDecompressor_Decompress_UnsupportedMethod(t *testing.T) {
	err := NewFullDecompressor().Decompress(pbf.CompressionBzip2, []byte{0x00}, make([]byte, 4))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestFullDecompressor_Decompress_SizeMismatch(t *testing.T) {
	d := NewFullDecompressor()

	cases := []struct {
		name   string
		method pbf.Compression
		src    []byte
	}{
		{"zlib", pbf.CompressionZlib, compressZlib(t, testPayload)},
		{"lz4", pbf.CompressionLz4, compressLz4(t, testPayload)},
		{"lzma", pbf.CompressionLzma, compressLzma(t, testPayload)},
		{"zstd", pbf.CompressionZstd, compressZstd(t, testPayload)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Declared size smaller than the actual output.
			err := d.Decompress(tc.method, tc.src, make([]byte, len(testPayload)-8))
			require.Error(t, err)

			// Declared size larger than the actual output.
			err = d.Decompress(tc.method, tc.src, make([]byte, len(testPayload)+8))
			require.Error(t, err)
		})
	}
}

func TestFullDecompressor_Decompress_CorruptInput(t *testing.T) {
	d := NewFullDecompressor()
	dst := make([]byte, 64)

	for _, method := range []pbf.Compression{pbf.CompressionZlib, pbf.CompressionLzma} {
		err := d.Decompress(method, []byte("definitely not compressed"), dst)
		require.Error(t, err)
	}
}
