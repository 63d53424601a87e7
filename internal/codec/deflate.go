package codec

import (
	"io"

	"github.com/klauspost/compress/flate"
)

// deflateCodec streams payloads through the DEFLATE-family algorithm using
// klauspost/compress's drop-in, faster reimplementation rather than the
// standard library's compress/flate, matching how this codebase sources all
// of its stream compression from a single vendor.
type deflateCodec struct{}

func newDeflate() Codec { return deflateCodec{} }

func (deflateCodec) Compress(w io.Writer, r io.Reader) error {
	fw, err := flate.NewWriter(w, flate.DefaultCompression)
	if err != nil {
		return codecErr("deflate: new writer", err)
	}

	buf := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(fw, r, buf); err != nil {
		_ = fw.Close()
		return codecIOErr("deflate: compress", err)
	}
	if err := fw.Close(); err != nil {
		return codecErr("deflate: flush", err)
	}
	return nil
}

func (deflateCodec) Decompress(w io.Writer, r io.Reader) (int64, error) {
	fr := flate.NewReader(r)
	defer fr.Close()

	buf := make([]byte, bufferSize)
	n, err := io.CopyBuffer(w, fr, buf)
	if err != nil {
		return n, codecIOErr("deflate: decompress", err)
	}
	return n, nil
}
