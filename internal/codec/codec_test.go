package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripAllCodecs(t *testing.T) {
	f := NewFactory()
	payloads := map[string][]byte{
		"small":  []byte("Hello, World!"),
		"binary": bytes.Repeat([]byte{0x00, 0xFF, 0x10, 0x7E}, 1024),
		"text":   bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog\n"), 500),
	}

	for _, tag := range []Tag{TagZstd, TagDeflate, TagBrotli} {
		tag := tag
		name, err := f.TagToString(tag)
		require.NoError(t, err)

		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for label, data := range payloads {
				data := data
				t.Run(label, func(t *testing.T) {
					t.Parallel()

					c, err := f.Create(tag)
					require.NoError(t, err)

					var compressed bytes.Buffer
					require.NoError(t, c.Compress(&compressed, bytes.NewReader(data)))

					c2, err := f.Create(tag)
					require.NoError(t, err)

					var out bytes.Buffer
					n, err := c2.Decompress(&out, bytes.NewReader(compressed.Bytes()))
					require.NoError(t, err)
					require.Equal(t, int64(len(data)), n)
					require.Equal(t, data, out.Bytes())
				})
			}
		})
	}
}

func TestFactoryStringToTag(t *testing.T) {
	f := NewFactory()

	tag, err := f.StringToTag("zstd")
	require.NoError(t, err)
	require.Equal(t, TagZstd, tag)

	_, err = f.StringToTag("does-not-exist")
	require.ErrorIs(t, err, ErrUnknownCodec)
}

func TestFactoryCreateUnavailable(t *testing.T) {
	f := &Factory{entries: map[Tag]entry{}}
	_, err := f.Create(TagZstd)
	require.ErrorIs(t, err, ErrCodecUnavailable)
}

func TestFactoryDefaultTag(t *testing.T) {
	f := NewFactory()
	tag, err := f.DefaultTag()
	require.NoError(t, err)
	require.Equal(t, TagZstd, tag)
}
