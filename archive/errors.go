package archive

import "errors"

// Sentinel errors for archive engine operations, matching the error kinds
// named in the archive format's design: argument validation, I/O, codec,
// hash, integrity, and configuration failures.
var (
	// ErrArgument is returned for invalid inputs: an unknown codec name, a
	// missing source or destination path.
	ErrArgument = errors.New("archive: invalid argument")

	// ErrIO is returned for failures opening, reading, writing, or seeking
	// the archive or source/destination files.
	ErrIO = errors.New("archive: i/o failure")

	// ErrCodec is returned when a compression or decompression operation
	// fails.
	ErrCodec = errors.New("archive: codec failure")

	// ErrHash is returned when the hashing engine fails, or when an
	// extracted file's hash does not match its recorded fingerprint.
	ErrHash = errors.New("archive: hash failure")

	// ErrIntegrity is returned when a duplicate record has no matching
	// representative.
	ErrIntegrity = errors.New("archive: integrity failure")

	// ErrConfig is returned when the engine is misconfigured: no codec
	// compiled in, or an invalid pool configuration.
	ErrConfig = errors.New("archive: configuration failure")
)
