package alloc

import "math"

// SizeClassConfig defines the arena's size-class strategy: small
// allocations bucket linearly, larger ones bucket by a geometric growth
// factor above SmallMax.
type SizeClassConfig struct {
	Name string

	SmallMin       int // minimum allocation size bucketed at all
	SmallMax       int // ceiling for linear buckets
	SmallIncrement int // linear bucket width

	MediumMax    int     // ceiling before requests fall to the large list
	GrowthFactor float64 // geometric growth above SmallMax
}

// DefaultConfig balances bucket count against fragmentation for typical
// dynamic-object workloads (small scalars through modest map nodes).
var DefaultConfig = SizeClassConfig{
	Name:           "Balanced",
	SmallMin:       8,
	SmallMax:       512,
	SmallIncrement: 16,
	MediumMax:      16384,
	GrowthFactor:   1.5,
}

// classTable holds the computed size-class boundaries for a config.
type classTable struct {
	config     SizeClassConfig
	boundaries []int // upper bound (inclusive) for class i
}

func newClassTable(cfg SizeClassConfig) *classTable {
	t := &classTable{config: cfg, boundaries: make([]int, 0, 64)}

	for size := cfg.SmallMin; size < cfg.SmallMax; size += cfg.SmallIncrement {
		t.boundaries = append(t.boundaries, size+cfg.SmallIncrement-1)
	}

	if cfg.SmallMax < cfg.MediumMax {
		size := cfg.SmallMax
		for size < cfg.MediumMax {
			next := int(math.Ceil(float64(size) * cfg.GrowthFactor))
			if next <= size {
				next = size + 1
			}
			t.boundaries = append(t.boundaries, next-1)
			size = next
		}
	}
	return t
}

// classOf returns the size-class index for size, or len(boundaries) if
// size belongs to the unbounded "large" list.
func (t *classTable) classOf(size int) int {
	lo, hi := 0, len(t.boundaries)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if size <= t.boundaries[mid] {
			if mid == 0 || size > t.boundaries[mid-1] {
				return mid
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return len(t.boundaries)
}

func (t *classTable) numClasses() int { return len(t.boundaries) }
