package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassOfIsMonotonicNonDecreasing(t *testing.T) {
	table := newClassTable(DefaultConfig)
	prev := table.classOf(1)
	for size := 2; size <= DefaultConfig.MediumMax+1024; size += 7 {
		cls := table.classOf(size)
		assert.GreaterOrEqual(t, cls, prev, "class index must not decrease as size grows")
		prev = cls
	}
}

func TestClassOfLargeFallsPastAllBoundaries(t *testing.T) {
	table := newClassTable(DefaultConfig)
	assert.Equal(t, table.numClasses(), table.classOf(DefaultConfig.MediumMax*10))
}

func TestClassOfSmallBucketsAreContiguous(t *testing.T) {
	cfg := SizeClassConfig{SmallMin: 8, SmallMax: 32, SmallIncrement: 8, MediumMax: 32, GrowthFactor: 1.5}
	table := newClassTable(cfg)
	// sizes 8..15 -> class 0, 16..23 -> class 1, 24..31 -> class 2
	assert.Equal(t, 0, table.classOf(8))
	assert.Equal(t, 0, table.classOf(15))
	assert.Equal(t, 1, table.classOf(16))
	assert.Equal(t, 2, table.classOf(31))
}
