package data

// CacheCounters reports snapshot cache hits and misses per key
type CacheCounters struct {
	CounterHits   map[string]int `json:"counter_hits,omitempty"`
	CounterMisses map[string]int `json:"counter_misses,omitempty"`
}

// Timers reports the total and average duration (in nanoseconds) of every
// timed remote store operation
type Timers struct {
	Totals   map[string]int64 `json:"totals,omitempty"`
	Averages map[string]int64 `json:"averages,omitempty"`
	Counts   map[string]int   `json:"counts,omitempty"`
}

// these are set at build time with -ldflags "-X ..."
var (
	Version   string
	GitCommit string
	GitBranch string
)
