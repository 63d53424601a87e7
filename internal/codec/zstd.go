package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// zstdCodec streams payloads through the Zstandard algorithm, exactly the
// library this codebase already depends on for its other compression needs.
type zstdCodec struct{}

func newZstd() Codec { return zstdCodec{} }

func (zstdCodec) Compress(w io.Writer, r io.Reader) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1), zstd.WithLowerEncoderMem(true))
	if err != nil {
		return codecErr("zstd: new writer", err)
	}

	buf := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(enc, r, buf); err != nil {
		_ = enc.Close()
		return codecIOErr("zstd: compress", err)
	}
	if err := enc.Close(); err != nil {
		return codecErr("zstd: flush", err)
	}
	return nil
}

func (zstdCodec) Decompress(w io.Writer, r io.Reader) (int64, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return 0, codecErr("zstd: new reader", err)
	}
	defer dec.Close()

	buf := make([]byte, bufferSize)
	n, err := io.CopyBuffer(w, dec, buf)
	if err != nil {
		return n, codecIOErr("zstd: decompress", err)
	}
	return n, nil
}
