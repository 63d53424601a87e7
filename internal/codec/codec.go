// Package codec implements the archive's pluggable streaming compressors.
package codec

import (
	"errors"
	"fmt"
	"io"
)

// bufferSize is the working buffer each codec implementation maintains on
// both the compress and decompress side.
const bufferSize = 64 << 10 // 64 KiB

// Tag identifies which codec produced a payload stream. The set is closed
// and numerically stable: a future codec must only append.
type Tag uint8

const (
	TagZstd Tag = iota
	TagDeflate
	TagBrotli
)

// ErrCodec is returned when the underlying compression library reports a
// failure.
var ErrCodec = errors.New("codec: operation failed")

// ErrCodecIO is returned when the input or output stream fails during a
// compress or decompress operation.
var ErrCodecIO = errors.New("codec: i/o failure")

// Codec streams bytes through a compression algorithm. Compress must
// consume r to EOF and write a self-delimiting frame to w. Decompress must
// stop after that frame's end marker and return the exact count of
// plaintext bytes written to w, without relying on any external length
// hint.
type Codec interface {
	Compress(w io.Writer, r io.Reader) error
	Decompress(w io.Writer, r io.Reader) (int64, error)
}

func codecIOErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrCodecIO, op, err)
}

func codecErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrCodec, op, err)
}
