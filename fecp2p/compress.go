package fecp2p

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var (
	ErrCompressionFailed   = errors.New("fecp2p: compression failed")
	ErrDecompressionFailed = errors.New("fecp2p: decompression failed")
)

// LZ4 writers and readers are pooled; a pipeline run that compresses
// large batches would otherwise allocate one per run.
var compressorPool = sync.Pool{
	New: func() interface{} {
		return lz4.NewWriter(nil)
	},
}

var decompressorPool = sync.Pool{
	New: func() interface{} {
		return lz4.NewReader(nil)
	},
}

// Compress compresses data with LZ4. Hash digests barely compress, but
// batches of structured records often do, and LZ4 is cheap enough to try.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := compressorPool.Get().(*lz4.Writer)
	defer compressorPool.Put(w)

	w.Reset(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, ErrCompressionFailed
	}
	if err := w.Close(); err != nil {
		return nil, ErrCompressionFailed
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	r := decompressorPool.Get().(*lz4.Reader)
	defer decompressorPool.Put(r)

	r.Reset(bytes.NewReader(data))

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, ErrDecompressionFailed
	}
	return buf.Bytes(), nil
}

// maybeCompress returns the compressed form and true only when
// compression actually shrinks the payload.
func maybeCompress(data []byte) ([]byte, bool) {
	compressed, err := Compress(data)
	if err != nil || len(compressed) >= len(data) {
		return data, false
	}
	return compressed, true
}
