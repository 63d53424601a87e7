// Package ioframe implements the archive's byte-exact on-disk layout:
// native-endian primitive integers, length-prefixed strings, metadata
// records, and the trailing index. Integers are written in the host's
// native byte order, matching the original source this format was ported
// from; archives produced on one architecture are not portable to a host
// of different endianness (see REDESIGN FLAGS in SPEC_FULL.md).
package ioframe

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/peczakax/logrescuer/internal/codec"
)

// ErrIO is returned for short reads, short writes, and other stream
// failures encountered while framing the archive.
var ErrIO = errors.New("ioframe: i/o failure")

// TrailerSize is the fixed byte size of the trailer: one codec tag byte
// plus three uint64 fields.
const TrailerSize = 1 + 8*3

// Trailer is the fixed-size tail of the archive.
type Trailer struct {
	CodecTag            codec.Tag
	RepresentativeCount uint64
	DuplicateCount      uint64
	MetadataOffset      uint64
}

// Record is one metadata entry. Representative and duplicate records are
// not distinguished by any sentinel field value: the trailer's
// RepresentativeCount and DuplicateCount say exactly how many of each
// layout follow at MetadataOffset, representatives first. A
// representative's DataOffset locates its own compressed payload; a
// duplicate's DataOffset locates the representative whose payload it
// shares (the offset-linkage scheme standardized in DESIGN.md), and its
// Hash is always empty since it is never serialized for duplicates.
type Record struct {
	DataOffset int64
	Hash       string
	Path       string
}

func wrapIO(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrIO, op, err)
}

// WriteUint64 writes v in host-native byte order.
func WriteUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return wrapIO("write u64", err)
	}
	return nil
}

// ReadUint64 reads a host-native-order uint64.
func ReadUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapIO("read u64", err)
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}

// WriteInt64 writes v in host-native byte order.
func WriteInt64(w io.Writer, v int64) error {
	return WriteUint64(w, uint64(v))
}

// ReadInt64 reads a host-native-order int64.
func ReadInt64(r io.Reader) (int64, error) {
	v, err := ReadUint64(r)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// WriteTag writes a codec tag in its native single-byte representation.
func WriteTag(w io.Writer, tag codec.Tag) error {
	if _, err := w.Write([]byte{byte(tag)}); err != nil {
		return wrapIO("write codec tag", err)
	}
	return nil
}

// ReadTag reads a codec tag.
func ReadTag(r io.Reader) (codec.Tag, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapIO("read codec tag", err)
	}
	return codec.Tag(buf[0]), nil
}

// WriteString writes s as a u64 length prefix followed by its raw bytes.
func WriteString(w io.Writer, s string) error {
	if err := WriteUint64(w, uint64(len(s))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, s); err != nil {
		return wrapIO("write string body", err)
	}
	return nil
}

// ReadString reads a length-prefixed string.
func ReadString(r io.Reader) (string, error) {
	n, err := ReadUint64(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", wrapIO("read string body", err)
	}
	return string(buf), nil
}

// WriteRepresentative writes a representative record: data_offset, hash,
// relative_path.
func WriteRepresentative(w io.Writer, rec Record) error {
	if err := WriteInt64(w, rec.DataOffset); err != nil {
		return err
	}
	if err := WriteString(w, rec.Hash); err != nil {
		return err
	}
	return WriteString(w, rec.Path)
}

// ReadRepresentative reads a representative record.
func ReadRepresentative(r io.Reader) (Record, error) {
	offset, err := ReadInt64(r)
	if err != nil {
		return Record{}, err
	}
	hash, err := ReadString(r)
	if err != nil {
		return Record{}, err
	}
	path, err := ReadString(r)
	if err != nil {
		return Record{}, err
	}
	return Record{DataOffset: offset, Hash: hash, Path: path}, nil
}

// WriteDuplicate writes a duplicate record: data_offset (the matching
// representative's offset), relative_path. There is no hash field.
func WriteDuplicate(w io.Writer, rec Record) error {
	if err := WriteInt64(w, rec.DataOffset); err != nil {
		return err
	}
	return WriteString(w, rec.Path)
}

// ReadDuplicate reads a duplicate record: data_offset, relative_path.
func ReadDuplicate(r io.Reader) (Record, error) {
	offset, err := ReadInt64(r)
	if err != nil {
		return Record{}, err
	}
	path, err := ReadString(r)
	if err != nil {
		return Record{}, err
	}
	return Record{DataOffset: offset, Path: path}, nil
}

// WriteTrailer writes the fixed-size archive trailer.
func WriteTrailer(w io.Writer, t Trailer) error {
	if err := WriteTag(w, t.CodecTag); err != nil {
		return err
	}
	if err := WriteUint64(w, t.RepresentativeCount); err != nil {
		return err
	}
	if err := WriteUint64(w, t.DuplicateCount); err != nil {
		return err
	}
	return WriteUint64(w, t.MetadataOffset)
}

// ReadTrailer reads the fixed-size archive trailer.
func ReadTrailer(r io.Reader) (Trailer, error) {
	tag, err := ReadTag(r)
	if err != nil {
		return Trailer{}, err
	}
	repCount, err := ReadUint64(r)
	if err != nil {
		return Trailer{}, err
	}
	dupCount, err := ReadUint64(r)
	if err != nil {
		return Trailer{}, err
	}
	metaOffset, err := ReadUint64(r)
	if err != nil {
		return Trailer{}, err
	}
	return Trailer{
		CodecTag:            tag,
		RepresentativeCount: repCount,
		DuplicateCount:      dupCount,
		MetadataOffset:      metaOffset,
	}, nil
}
