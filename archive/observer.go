package archive

import "sync"

// EventKind identifies which of the Observer's four reporting points fired.
type EventKind int

const (
	// EventCompressed fires once per representative file, after its
	// payload has been written to the archive.
	EventCompressed EventKind = iota
	// EventDuplicate fires once per duplicate file, after its metadata
	// record has been registered during compression.
	EventDuplicate
	// EventExtracted fires once per file materialized on disk during
	// extraction, representative or duplicate.
	EventExtracted
	// EventSummary fires once, after a pipeline finishes, carrying the
	// final Stats.
	EventSummary
)

// Event is a single reporting point delivered to an Observer.
type Event struct {
	Kind EventKind
	Path string

	// OriginalSize is populated for EventCompressed and EventExtracted,
	// CompressedSize for EventCompressed only. Both are reporting-only
	// values, never stored on disk.
	OriginalSize   int64
	CompressedSize int64

	// Stats is populated for EventSummary only.
	Stats Stats
}

// Observer is a lightweight, optional reporting surface. Implementations
// may no-op; Observer has no bearing on correctness. Observe is called from
// whichever worker goroutine finished a file, so an Observer implementation
// on its own must tolerate concurrent calls, or be wrapped as one is here:
// every Observe call an Engine makes during a single Compress or Extract
// run is serialized through a per-run mutex (see observerSink), matching
// spec.md §5's observer output sink in the shared-resources list.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) { f(e) }

// NoopObserver discards every event. Used as the default when no Observer
// is configured.
var NoopObserver Observer = ObserverFunc(func(Event) {})

// observerSink serializes calls to an underlying Observer with a mutex, so
// that Compress and Extract can call Observe freely from concurrent worker
// goroutines without requiring every Observer implementation to guard its
// own state.
type observerSink struct {
	mu   sync.Mutex
	next Observer
}

func newObserverSink(o Observer) *observerSink {
	return &observerSink{next: o}
}

func (s *observerSink) Observe(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next.Observe(e)
}
