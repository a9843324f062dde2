package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_AddSumsHistogramsElementWise(t *testing.T) {
	stats := newStats()

	a := newSourceStats("wallstreetbets")
	a.Fetched = 10
	a.Saved = 4
	a.skip(SkipNoTickers)
	a.skip(SkipNoTickers)
	a.skip(SkipLowQuality)
	a.Failed = 3

	b := newSourceStats("stocks")
	b.Fetched = 5
	b.Saved = 2
	b.skip(SkipDuplicate)
	b.skip(SkipLowQuality)

	stats.add(a)
	stats.add(b)

	assert.Equal(t, 15, stats.Fetched)
	assert.Equal(t, 6, stats.Saved)
	assert.Equal(t, 5, stats.Skipped)
	assert.Equal(t, 3, stats.Failed)
	assert.Equal(t, 2, stats.SkipReasons[SkipNoTickers])
	assert.Equal(t, 2, stats.SkipReasons[SkipLowQuality])
	assert.Equal(t, 1, stats.SkipReasons[SkipDuplicate])

	// Per-source breakdown retained verbatim
	assert.Len(t, stats.BySource, 2)
	assert.Equal(t, "wallstreetbets", stats.BySource[0].Source)
	assert.Equal(t, a.SkipReasons, stats.BySource[0].SkipReasons)
}

func TestStats_SkipMapsStartZeroFilled(t *testing.T) {
	s := newStats()
	src := newSourceStats("wallstreetbets")

	for _, reason := range SkipReasons {
		n, ok := s.SkipReasons[reason]
		assert.True(t, ok, "batch map missing %q", reason)
		assert.Zero(t, n)

		n, ok = src.SkipReasons[reason]
		assert.True(t, ok, "source map missing %q", reason)
		assert.Zero(t, n)
	}
	assert.Len(t, s.SkipReasons, len(SkipReasons))
	assert.Len(t, src.SkipReasons, len(SkipReasons))
}

func TestStats_AcceptanceRate(t *testing.T) {
	s := newStats()
	assert.Zero(t, s.AcceptanceRate())

	s.Fetched = 40
	s.Saved = 10
	assert.InDelta(t, 25.0, s.AcceptanceRate(), 1e-9)
}

func TestSourceStats_SkipKeepsInvariant(t *testing.T) {
	s := newSourceStats("options")
	s.skip(SkipNoTickers)
	s.skip(SkipDuplicate)
	s.skip(SkipOther)

	sum := 0
	for _, n := range s.SkipReasons {
		sum += n
	}
	assert.Equal(t, s.Skipped, sum)
}
