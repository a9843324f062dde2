package ingest

import "time"

// SkipReason classifies why an item was deliberately not persisted.
// The set is closed: anything that is not one of these is a failure,
// not a skip.
type SkipReason string

const (
	SkipNoTickers  SkipReason = "no_tickers"
	SkipDuplicate  SkipReason = "duplicate"
	SkipLowQuality SkipReason = "low_quality"
	SkipOther      SkipReason = "other"
)

// SkipReasons enumerates every valid reason, for zero-filling reports
var SkipReasons = []SkipReason{SkipNoTickers, SkipDuplicate, SkipLowQuality, SkipOther}

// zeroSkipMap returns a skip counter map with every reason present,
// so reports always show the full breakdown even for clean runs.
func zeroSkipMap() map[SkipReason]int {
	m := make(map[SkipReason]int, len(SkipReasons))
	for _, reason := range SkipReasons {
		m[reason] = 0
	}
	return m
}

// SourceStats are the per-source counters for one ingestion run
type SourceStats struct {
	Source      string             `json:"source"`
	Fetched     int                `json:"fetched"`
	Saved       int                `json:"saved"`
	Skipped     int                `json:"skipped"`
	Failed      int                `json:"failed"`
	SkipReasons map[SkipReason]int `json:"skip_reasons"`
}

func newSourceStats(source string) SourceStats {
	return SourceStats{
		Source:      source,
		SkipReasons: zeroSkipMap(),
	}
}

func (s *SourceStats) skip(reason SkipReason) {
	s.Skipped++
	s.SkipReasons[reason]++
}

// Stats is the rollup for a whole ingestion batch. Totals are the
// element-wise sum of the per-source counters, and the per-source
// breakdown is retained verbatim alongside them.
type Stats struct {
	Fetched     int                `json:"fetched"`
	Saved       int                `json:"saved"`
	Skipped     int                `json:"skipped"`
	Failed      int                `json:"failed"`
	SkipReasons map[SkipReason]int `json:"skip_reasons"`
	BySource    []SourceStats      `json:"by_source"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
}

func newStats() *Stats {
	return &Stats{
		SkipReasons: zeroSkipMap(),
		StartedAt:   time.Now().UTC(),
	}
}

// add folds one source's counters into the batch totals
func (s *Stats) add(src SourceStats) {
	s.Fetched += src.Fetched
	s.Saved += src.Saved
	s.Skipped += src.Skipped
	s.Failed += src.Failed
	for reason, n := range src.SkipReasons {
		s.SkipReasons[reason] += n
	}
	s.BySource = append(s.BySource, src)
}

// AcceptanceRate is the percentage of fetched items that were saved.
// An empty batch yields 0, never a division error.
func (s *Stats) AcceptanceRate() float64 {
	if s.Fetched == 0 {
		return 0
	}
	return float64(s.Saved) / float64(s.Fetched) * 100
}

// Duration is the wall-clock time of the run
func (s *Stats) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
