package pipeline

import (
	"math"
	"slices"
	"sort"
	"sync"
	"time"
)

// Phase is one timed step of a conversion.
type Phase int

const (
	PhaseParse Phase = iota
	PhaseAggregate
	PhaseWrite
	numPhases
)

var phaseNames = [numPhases]string{"parse", "aggregate", "write"}

func (p Phase) String() string { return phaseNames[p] }

// Sample measures one successful conversion.
type Sample struct {
	Phases  [numPhases]time.Duration
	Records int
	Groups  int
}

// Observe sets the duration of phase p to the time elapsed since start.
func (s *Sample) Observe(p Phase, start time.Time) {
	s.Phases[p] = time.Since(start)
}

// Total is the sum of all phase durations.
func (s Sample) Total() time.Duration {
	var d time.Duration
	for _, p := range s.Phases {
		d += p
	}
	return d
}

// Latency summarizes durations in milliseconds.
type Latency struct {
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms int64   `json:"p50_ms"`
	P95Ms int64   `json:"p95_ms"`
}

// StatsSnapshot aggregates the conversions of the current window.
type StatsSnapshot struct {
	Count      int                `json:"count"`
	Total      Latency            `json:"total"`
	Phases     map[string]Latency `json:"phases,omitempty"`
	Records    int                `json:"records"`
	Groups     int                `json:"groups"`
	MaxRecords int                `json:"max_records"`
	AvgRecords float64            `json:"avg_records"`
}

type timedSample struct {
	at time.Time
	Sample
}

// ConversionStats keeps the samples of the last maxAge.
type ConversionStats struct {
	mu      sync.Mutex
	samples []timedSample // ordered by at
	maxAge  time.Duration
	now     func() time.Time
}

func NewConversionStats(maxAge time.Duration) *ConversionStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &ConversionStats{maxAge: maxAge, now: time.Now}
}

// Record adds a finished conversion. Negative durations count as zero.
func (s *ConversionStats) Record(sm Sample) {
	for i, d := range sm.Phases {
		sm.Phases[i] = max(d, 0)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.expireLocked(now)
	s.samples = append(s.samples, timedSample{at: now, Sample: sm})
}

func (s *ConversionStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(s.now())

	snap := StatsSnapshot{Count: len(s.samples)}
	if snap.Count == 0 {
		return snap
	}

	total := make([]int64, 0, snap.Count)
	var phases [numPhases][]int64
	for _, ts := range s.samples {
		total = append(total, ts.Total().Milliseconds())
		for p, d := range ts.Phases {
			phases[p] = append(phases[p], d.Milliseconds())
		}
		snap.Records += ts.Records
		snap.Groups += ts.Groups
		snap.MaxRecords = max(snap.MaxRecords, ts.Records)
	}
	snap.AvgRecords = float64(snap.Records) / float64(snap.Count)
	snap.Total = summarize(total)
	snap.Phases = make(map[string]Latency, numPhases)
	for p, ms := range phases {
		snap.Phases[Phase(p).String()] = summarize(ms)
	}
	return snap
}

// expireLocked drops samples older than the window. Samples are appended
// with a non-decreasing clock, so the expired ones form a prefix.
func (s *ConversionStats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	n := sort.Search(len(s.samples), func(i int) bool {
		return !s.samples[i].at.Before(cutoff)
	})
	if n > 0 {
		s.samples = append(s.samples[:0], s.samples[n:]...)
	}
}

func summarize(ms []int64) Latency {
	sorted := slices.Clone(ms)
	slices.Sort(sorted)
	var sum int64
	for _, v := range sorted {
		sum += v
	}
	return Latency{
		MinMs: sorted[0],
		MaxMs: sorted[len(sorted)-1],
		AvgMs: float64(sum) / float64(len(sorted)),
		P50Ms: nearestRank(sorted, 50),
		P95Ms: nearestRank(sorted, 95),
	}
}

// nearestRank returns the smallest value with at least pct percent of
// sorted at or below it.
func nearestRank(sorted []int64, pct float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(pct / 100 * float64(len(sorted))))
	rank = min(max(rank, 1), len(sorted))
	return sorted[rank-1]
}
