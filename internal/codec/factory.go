package codec

import (
	"errors"
	"fmt"
)

// ErrCodecUnavailable is returned when a tag is not compiled into this
// build's factory.
var ErrCodecUnavailable = errors.New("codec: unavailable")

// ErrUnknownCodec is returned by StringToTag when given a name that does
// not match any registered codec.
var ErrUnknownCodec = errors.New("codec: unknown name")

type entry struct {
	name string
	new  func() Codec
}

// Factory maps codec tags to fresh Codec instances and to/from their stable
// human-readable names. The zero value is not usable; construct one with
// NewFactory.
type Factory struct {
	entries map[Tag]entry
	order   []Tag
}

// NewFactory builds the factory with every codec compiled into this build
// linked in, in a fixed preference order: Zstandard, then the DEFLATE
// family, then Brotli. The first entry is the CLI's default codec.
func NewFactory() *Factory {
	f := &Factory{entries: make(map[Tag]entry, 3)}
	f.register(TagZstd, "zstd", newZstd)
	f.register(TagDeflate, "zlib", newDeflate)
	f.register(TagBrotli, "brotli", newBrotli)
	return f
}

func (f *Factory) register(tag Tag, name string, ctor func() Codec) {
	f.entries[tag] = entry{name: name, new: ctor}
	f.order = append(f.order, tag)
}

// Create returns a fresh Codec instance for tag.
func (f *Factory) Create(tag Tag) (Codec, error) {
	e, ok := f.entries[tag]
	if !ok {
		return nil, fmt.Errorf("%w: tag %d", ErrCodecUnavailable, tag)
	}
	return e.new(), nil
}

// TagToString returns the stable human name for tag.
func (f *Factory) TagToString(tag Tag) (string, error) {
	e, ok := f.entries[tag]
	if !ok {
		return "", fmt.Errorf("%w: tag %d", ErrCodecUnavailable, tag)
	}
	return e.name, nil
}

// StringToTag returns the tag matching name.
func (f *Factory) StringToTag(name string) (Tag, error) {
	for _, tag := range f.order {
		if f.entries[tag].name == name {
			return tag, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// DefaultTag returns the first codec compiled into this build, used as the
// CLI's implicit default.
func (f *Factory) DefaultTag() (Tag, error) {
	if len(f.order) == 0 {
		return 0, fmt.Errorf("%w: no codec compiled in", ErrCodecUnavailable)
	}
	return f.order[0], nil
}
