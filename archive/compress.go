package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/peczakax/logrescuer/internal/codec"
	"github.com/peczakax/logrescuer/internal/digest"
	"github.com/peczakax/logrescuer/internal/ioframe"
	"github.com/peczakax/logrescuer/internal/scan"
	"github.com/peczakax/logrescuer/internal/workerpool"
)

// Compress walks srcDir, deduplicates files by content, compresses each
// distinct content exactly once with the codec identified by tag, and
// writes the result to archivePath, truncating any existing file there.
func (e *Engine) Compress(srcDir, archivePath string, tag codec.Tag) (Stats, error) {
	if srcDir == "" || archivePath == "" {
		return Stats{}, fmt.Errorf("%w: source directory and archive path are required", ErrArgument)
	}
	if _, err := e.cfg.factory.Create(tag); err != nil {
		return Stats{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: create %s: %v", ErrIO, archivePath, err)
	}
	defer f.Close()

	paths, err := scan.Walk(srcDir, e.cfg.skipEmpty)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: scan %s: %v", ErrIO, srcDir, err)
	}

	pathToHash, hashToFirstPath, err := e.fingerprint(srcDir, paths)
	if err != nil {
		return Stats{}, err
	}

	representatives, duplicates := partition(paths, pathToHash, hashToFirstPath)

	observer := newObserverSink(e.cfg.observer)

	var writeMu sync.Mutex
	var metadataMu sync.Mutex
	var offsetMu sync.Mutex
	hashToOffset := make(map[string]int64, len(representatives))
	repRecords := make([]ioframe.Record, 0, len(representatives))
	dupRecords := make([]ioframe.Record, 0, len(duplicates))

	var totalOriginal, totalStored atomic.Int64

	err = workerpool.ParallelForEach(e.cfg.pool, representatives, func(_ int, relPath string) error {
		hash := pathToHash[relPath]
		fullPath := filepath.Join(srcDir, filepath.FromSlash(relPath))

		dataOffset, compressedSize, originalSize, err := e.compressRepresentative(f, &writeMu, tag, fullPath)
		if err != nil {
			return err
		}

		metadataMu.Lock()
		repRecords = append(repRecords, ioframe.Record{DataOffset: dataOffset, Hash: hash, Path: relPath})
		metadataMu.Unlock()

		offsetMu.Lock()
		hashToOffset[hash] = dataOffset
		offsetMu.Unlock()

		totalOriginal.Add(originalSize)
		totalStored.Add(compressedSize)

		observer.Observe(Event{
			Kind:           EventCompressed,
			Path:           relPath,
			OriginalSize:   originalSize,
			CompressedSize: compressedSize,
		})
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	// Duplicates link to their representative by its real archive offset
	// (the offset-linkage scheme; see DESIGN.md). hashToOffset is fully
	// populated by now, since this pass starts only after every
	// representative above has completed.
	err = workerpool.ParallelForEach(e.cfg.pool, duplicates, func(_ int, relPath string) error {
		hash := pathToHash[relPath]
		offsetMu.Lock()
		repOffset, ok := hashToOffset[hash]
		offsetMu.Unlock()
		if !ok {
			return fmt.Errorf("%w: no representative offset for %s", ErrIntegrity, relPath)
		}

		metadataMu.Lock()
		dupRecords = append(dupRecords, ioframe.Record{DataOffset: repOffset, Path: relPath})
		metadataMu.Unlock()

		if info, statErr := os.Stat(filepath.Join(srcDir, filepath.FromSlash(relPath))); statErr == nil {
			totalOriginal.Add(info.Size())
		}

		observer.Observe(Event{Kind: EventDuplicate, Path: relPath})
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	if err := writeMetadata(f, tag, repRecords, dupRecords); err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalFiles:          len(paths),
		RepresentativeCount: len(representatives),
		DuplicateCount:      len(duplicates),
		TotalOriginalBytes:  totalOriginal.Load(),
		TotalStoredBytes:    totalStored.Load(),
	}

	observer.Observe(Event{Kind: EventSummary, Stats: stats})
	return stats, nil
}

// fingerprint computes the SHA-256 hash of every path in parallel,
// populating path→hash and hash→first-path-seen mappings under a shared
// mutex.
func (e *Engine) fingerprint(srcDir string, paths []string) (map[string]string, map[string]string, error) {
	var mu sync.Mutex
	pathToHash := make(map[string]string, len(paths))
	hashToFirstPath := make(map[string]string, len(paths))

	err := workerpool.ParallelForEach(e.cfg.pool, paths, func(_ int, relPath string) error {
		fullPath := filepath.Join(srcDir, filepath.FromSlash(relPath))
		hash, err := digest.HashFile(fullPath)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrHash, err)
		}

		mu.Lock()
		pathToHash[relPath] = hash
		if _, ok := hashToFirstPath[hash]; !ok {
			hashToFirstPath[hash] = relPath
		}
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return pathToHash, hashToFirstPath, nil
}

// partition walks paths in their original order, classifying each as a
// representative (the first path seen for its hash) or a duplicate.
func partition(paths []string, pathToHash, hashToFirstPath map[string]string) (representatives, duplicates []string) {
	for _, relPath := range paths {
		hash := pathToHash[relPath]
		if hashToFirstPath[hash] == relPath {
			representatives = append(representatives, relPath)
		} else {
			duplicates = append(duplicates, relPath)
		}
	}
	return representatives, duplicates
}

// compressRepresentative streams fullPath through the codec directly into
// the archive while holding writeMu for the entire operation, so that
// concurrent representatives never interleave their payloads.
func (e *Engine) compressRepresentative(archiveFile *os.File, writeMu *sync.Mutex, tag codec.Tag, fullPath string) (dataOffset, compressedSize, originalSize int64, err error) {
	c, err := e.cfg.factory.Create(tag)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	src, err := os.Open(fullPath)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: open %s: %v", ErrIO, fullPath, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: stat %s: %v", ErrIO, fullPath, err)
	}
	originalSize = info.Size()

	writeMu.Lock()
	defer writeMu.Unlock()

	offset, err := archiveFile.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrIO, err)
	}

	cw := &countingWriter{w: archiveFile}
	if err := c.Compress(cw, src); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %s: %v", ErrCodec, fullPath, err)
	}

	return offset, cw.n, originalSize, nil
}

// writeMetadata serializes representative records before duplicate
// records, then appends the trailer.
func writeMetadata(f *os.File, tag codec.Tag, repRecords, dupRecords []ioframe.Record) error {
	metadataOffset, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	for _, rec := range repRecords {
		if err := ioframe.WriteRepresentative(f, rec); err != nil {
			return err
		}
	}
	for _, rec := range dupRecords {
		if err := ioframe.WriteDuplicate(f, rec); err != nil {
			return err
		}
	}

	return ioframe.WriteTrailer(f, ioframe.Trailer{
		CodecTag:            tag,
		RepresentativeCount: uint64(len(repRecords)),
		DuplicateCount:      uint64(len(dupRecords)),
		MetadataOffset:      uint64(metadataOffset),
	})
}
