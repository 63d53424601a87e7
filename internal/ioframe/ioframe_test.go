package ioframe

import (
	"bytes"
	"testing"

	"github.com/peczakax/logrescuer/internal/codec"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteUint64(&buf, 1<<40+7))
	require.NoError(t, WriteInt64(&buf, -1))
	require.NoError(t, WriteTag(&buf, codec.TagBrotli))
	require.NoError(t, WriteString(&buf, "relative/path.log"))

	u, err := ReadUint64(&buf)
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40+7), u)

	i, err := ReadInt64(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(-1), i)

	tag, err := ReadTag(&buf)
	require.NoError(t, err)
	require.Equal(t, codec.TagBrotli, tag)

	s, err := ReadString(&buf)
	require.NoError(t, err)
	require.Equal(t, "relative/path.log", s)
}

func TestRepresentativeRoundTrip(t *testing.T) {
	t.Parallel()

	rec := Record{DataOffset: 4096, Hash: "deadbeef", Path: "logs/a.log"}
	var buf bytes.Buffer
	require.NoError(t, WriteRepresentative(&buf, rec))

	got, err := ReadRepresentative(&buf)
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestDuplicateRoundTrip(t *testing.T) {
	t.Parallel()

	rec := Record{DataOffset: 4096, Path: "logs/b.log"}
	var buf bytes.Buffer
	require.NoError(t, WriteDuplicate(&buf, rec))

	got, err := ReadDuplicate(&buf)
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestTrailerRoundTrip(t *testing.T) {
	t.Parallel()

	trailer := Trailer{
		CodecTag:            codec.TagZstd,
		RepresentativeCount: 3,
		DuplicateCount:      1,
		MetadataOffset:      12345,
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTrailer(&buf, trailer))
	require.Equal(t, TrailerSize, buf.Len())

	got, err := ReadTrailer(&buf)
	require.NoError(t, err)
	require.Equal(t, trailer, got)
}

func TestShortReadIsIOError(t *testing.T) {
	t.Parallel()

	_, err := ReadUint64(bytes.NewReader([]byte{1, 2, 3}))
	require.ErrorIs(t, err, ErrIO)
}
