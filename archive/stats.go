package archive

// Stats summarizes one Compress or Extract run. Restored from the original
// source's displayStats, which the distilled specification kept only as an
// optional Observer event; here it is also returned directly so callers
// that don't want to wire an Observer still get the breakdown.
type Stats struct {
	TotalFiles          int
	RepresentativeCount int
	DuplicateCount      int
	TotalOriginalBytes  int64
	TotalStoredBytes    int64
}
