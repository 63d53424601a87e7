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
	"github.com/peczakax/logrescuer/internal/workerpool"
)

// Extract reads the archive at archivePath and reconstructs its original
// tree under dstDir. Representatives are decompressed first; duplicates
// are then materialized by copying their representative's already-written
// output file. Hash-verification failures and duplicate-link failures are
// reported per file (the offending output removed) without aborting the
// rest of the run; trailer and metadata read failures are fatal.
func (e *Engine) Extract(archivePath, dstDir string) (Stats, error) {
	if archivePath == "" || dstDir == "" {
		return Stats{}, fmt.Errorf("%w: archive path and destination directory are required", ErrArgument)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: open %s: %v", ErrIO, archivePath, err)
	}
	defer f.Close()

	trailer, err := readTrailer(f)
	if err != nil {
		return Stats{}, err
	}

	repRecords, dupRecords, err := readMetadata(f, trailer)
	if err != nil {
		return Stats{}, err
	}

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("%w: mkdir %s: %v", ErrIO, dstDir, err)
	}

	c, err := e.cfg.factory.Create(trailer.CodecTag)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	var readMu sync.Mutex
	var outputMu sync.Mutex
	offsetToPath := make(map[int64]string, len(repRecords))

	observer := newObserverSink(e.cfg.observer)

	var totalOriginal atomic.Int64

	extractErr := workerpool.ParallelForEach(e.cfg.pool, repRecords, func(_ int, rec ioframe.Record) error {
		outPath := filepath.Join(dstDir, filepath.FromSlash(rec.Path))
		n, err := e.extractRepresentative(f, &readMu, c, rec, outPath)
		if err != nil {
			e.cfg.logger.Error("extract representative failed", "path", rec.Path, "error", err)
			return nil
		}

		outputMu.Lock()
		offsetToPath[rec.DataOffset] = outPath
		outputMu.Unlock()

		totalOriginal.Add(n)
		observer.Observe(Event{Kind: EventExtracted, Path: rec.Path, OriginalSize: n})
		return nil
	})
	if extractErr != nil {
		return Stats{}, extractErr
	}

	dupErr := workerpool.ParallelForEach(e.cfg.pool, dupRecords, func(_ int, rec ioframe.Record) error {
		outputMu.Lock()
		srcPath, ok := offsetToPath[rec.DataOffset]
		outputMu.Unlock()
		if !ok {
			err := fmt.Errorf("%w: duplicate %s has no matching representative at offset %d", ErrIntegrity, rec.Path, rec.DataOffset)
			e.cfg.logger.Error("materialize duplicate failed", "path", rec.Path, "error", err)
			return nil
		}

		outPath := filepath.Join(dstDir, filepath.FromSlash(rec.Path))
		n, err := materializeDuplicate(srcPath, outPath)
		if err != nil {
			e.cfg.logger.Error("materialize duplicate failed", "path", rec.Path, "error", err)
			return nil
		}

		totalOriginal.Add(n)
		observer.Observe(Event{Kind: EventExtracted, Path: rec.Path, OriginalSize: n})
		return nil
	})
	if dupErr != nil {
		return Stats{}, dupErr
	}

	stats := Stats{
		TotalFiles:          len(repRecords) + len(dupRecords),
		RepresentativeCount: len(repRecords),
		DuplicateCount:      len(dupRecords),
		TotalOriginalBytes:  totalOriginal.Load(),
		// The payload region runs from the start of the archive up to
		// the metadata section.
		TotalStoredBytes: int64(trailer.MetadataOffset),
	}
	observer.Observe(Event{Kind: EventSummary, Stats: stats})
	return stats, nil
}

func readTrailer(f *os.File) (ioframe.Trailer, error) {
	if _, err := f.Seek(-ioframe.TrailerSize, io.SeekEnd); err != nil {
		return ioframe.Trailer{}, fmt.Errorf("%w: seek trailer: %v", ErrIO, err)
	}
	trailer, err := ioframe.ReadTrailer(f)
	if err != nil {
		return ioframe.Trailer{}, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return trailer, nil
}

func readMetadata(f *os.File, trailer ioframe.Trailer) (repRecords, dupRecords []ioframe.Record, err error) {
	if _, err := f.Seek(int64(trailer.MetadataOffset), io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("%w: seek metadata: %v", ErrIO, err)
	}

	repRecords = make([]ioframe.Record, 0, trailer.RepresentativeCount)
	for i := uint64(0); i < trailer.RepresentativeCount; i++ {
		rec, err := ioframe.ReadRepresentative(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
		repRecords = append(repRecords, rec)
	}

	dupRecords = make([]ioframe.Record, 0, trailer.DuplicateCount)
	for i := uint64(0); i < trailer.DuplicateCount; i++ {
		rec, err := ioframe.ReadDuplicate(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
		dupRecords = append(dupRecords, rec)
	}

	return repRecords, dupRecords, nil
}

// extractRepresentative seeks to rec's payload under readMu, streams it
// through the codec decoder into outPath, and verifies its hash. On any
// failure the partially-written output file is removed.
func (e *Engine) extractRepresentative(archiveFile *os.File, readMu *sync.Mutex, c codec.Codec, rec ioframe.Record, outPath string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, fmt.Errorf("%w: mkdir for %s: %v", ErrIO, outPath, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("%w: create %s: %v", ErrIO, outPath, err)
	}

	n, decompErr := func() (int64, error) {
		readMu.Lock()
		defer readMu.Unlock()

		if _, err := archiveFile.Seek(rec.DataOffset, io.SeekStart); err != nil {
			return 0, fmt.Errorf("%w: seek to %d: %v", ErrIO, rec.DataOffset, err)
		}
		return c.Decompress(out, archiveFile)
	}()
	closeErr := out.Close()
	if decompErr != nil {
		os.Remove(outPath)
		return 0, fmt.Errorf("%w: %v", ErrCodec, decompErr)
	}
	if closeErr != nil {
		os.Remove(outPath)
		return 0, fmt.Errorf("%w: close %s: %v", ErrIO, outPath, closeErr)
	}

	if err := verifyHash(outPath, rec.Hash); err != nil {
		os.Remove(outPath)
		return 0, err
	}
	return n, nil
}

// materializeDuplicate copies the already-extracted representative file at
// srcPath to outPath, overwriting any existing file, and verifies the
// copy's hash by recomputing it rather than trusting the representative's
// already-verified hash blindly.
func materializeDuplicate(srcPath, outPath string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, fmt.Errorf("%w: mkdir for %s: %v", ErrIO, outPath, err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("%w: open %s: %v", ErrIO, srcPath, err)
	}
	defer src.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("%w: create %s: %v", ErrIO, outPath, err)
	}

	n, copyErr := io.Copy(out, src)
	closeErr := out.Close()
	if copyErr != nil {
		os.Remove(outPath)
		return 0, fmt.Errorf("%w: copy to %s: %v", ErrIO, outPath, copyErr)
	}
	if closeErr != nil {
		os.Remove(outPath)
		return 0, fmt.Errorf("%w: close %s: %v", ErrIO, outPath, closeErr)
	}

	repHash, err := digest.HashFile(srcPath)
	if err != nil {
		os.Remove(outPath)
		return 0, fmt.Errorf("%w: %v", ErrHash, err)
	}
	if err := verifyHash(outPath, repHash); err != nil {
		os.Remove(outPath)
		return 0, err
	}
	return n, nil
}

func verifyHash(path, want string) error {
	got, err := digest.HashFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHash, err)
	}
	if got != want {
		return fmt.Errorf("%w: %s: expected %s, got %s", ErrHash, path, want, got)
	}
	return nil
}
