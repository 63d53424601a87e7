package codec

import (
	"io"

	"github.com/andybalholm/brotli"
)

// brotliCodec streams payloads through the Brotli algorithm. No repo in
// this codebase's reference corpus imports a Brotli library, so this uses
// andybalholm/brotli, the implementation most of the Go ecosystem reaches
// for (see DESIGN.md).
type brotliCodec struct{}

func newBrotli() Codec { return brotliCodec{} }

func (brotliCodec) Compress(w io.Writer, r io.Reader) error {
	bw := brotli.NewWriter(w)

	buf := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(bw, r, buf); err != nil {
		_ = bw.Close()
		return codecIOErr("brotli: compress", err)
	}
	if err := bw.Close(); err != nil {
		return codecErr("brotli: flush", err)
	}
	return nil
}

func (brotliCodec) Decompress(w io.Writer, r io.Reader) (int64, error) {
	br := brotli.NewReader(r)

	buf := make([]byte, bufferSize)
	n, err := io.CopyBuffer(w, br, buf)
	if err != nil {
		return n, codecIOErr("brotli: decompress", err)
	}
	return n, nil
}
